package service

import (
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voxvault/voxvault/database/model"
	"github.com/voxvault/voxvault/logger"
	"github.com/voxvault/voxvault/util/common"
	"github.com/voxvault/voxvault/web/entity"
)

// DefaultCategory is assigned when a record is created or updated with an
// empty category.
const DefaultCategory = "Uncategorized"

// AudioService manages the lifecycle of audio-artifact metadata. Records are
// never physically removed here; soft_delete and restore move them between
// the Active and Deleted states, both transitions idempotent and reversible.
type AudioService struct {
	db *gorm.DB
}

func NewAudioService(db *gorm.DB) *AudioService {
	return &AudioService{db: db}
}

// CreateAudioParams carries the already-validated values the web boundary
// hands over after a successful synthesis call.
type CreateAudioParams struct {
	OwnerId        int
	Filename       string // generated when empty
	DisplayName    string
	Voice          string
	Speed          float64
	Category       string
	TextPreview    string
	CharacterCount int64
	Cost           float64
}

// Create persists a new Active record and returns its id. A write failure
// surfaces as ErrStorage and leaves no partial row visible.
func (s *AudioService) Create(p CreateAudioParams) (int, error) {
	if p.OwnerId <= 0 {
		return 0, common.WrapError(common.ErrValidation, "missing owner")
	}

	filename := p.Filename
	if filename == "" {
		filename = uuid.New().String() + ".mp3"
	}
	category := p.Category
	if category == "" {
		category = DefaultCategory
	}

	record := &model.AudioRecord{
		UserId:         p.OwnerId,
		Filename:       filename,
		DisplayName:    p.DisplayName,
		Category:       category,
		Voice:          p.Voice,
		Speed:          p.Speed,
		CharacterCount: p.CharacterCount,
		Cost:           p.Cost,
		TextPreview:    p.TextPreview,
		CreatedAt:      time.Now(),
	}
	if err := s.db.Create(record).Error; err != nil {
		logger.Warning("create audio record err:", err)
		return 0, common.WrapError(common.ErrStorage, "create audio record: %v", err)
	}
	return record.Id, nil
}

// GetByOwner returns the owner's Active records, newest first.
func (s *AudioService) GetByOwner(ownerId int) ([]*model.AudioRecord, error) {
	var records []*model.AudioRecord
	err := s.db.
		Where("user_id = ? AND deleted_at IS NULL", ownerId).
		Order("created_at DESC, id DESC").
		Find(&records).
		Error
	if err != nil {
		return nil, common.WrapError(common.ErrStorage, "list audio records: %v", err)
	}
	return records, nil
}

// GetByGroup filters the owner's Active records to one category, exact match.
func (s *AudioService) GetByGroup(ownerId int, group string) ([]*model.AudioRecord, error) {
	var records []*model.AudioRecord
	err := s.db.
		Where("user_id = ? AND deleted_at IS NULL AND category = ?", ownerId, group).
		Order("created_at DESC, id DESC").
		Find(&records).
		Error
	if err != nil {
		return nil, common.WrapError(common.ErrStorage, "list audio records by group: %v", err)
	}
	return records, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches the query as a case-insensitive substring of display_name
// among the owner's Active records.
func (s *AudioService) Search(ownerId int, query string) ([]*model.AudioRecord, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	var records []*model.AudioRecord
	err := s.db.
		Where("user_id = ? AND deleted_at IS NULL AND LOWER(display_name) LIKE ? ESCAPE '\\'", ownerId, pattern).
		Order("created_at DESC, id DESC").
		Find(&records).
		Error
	if err != nil {
		return nil, common.WrapError(common.ErrStorage, "search audio records: %v", err)
	}
	return records, nil
}

// GetGroups returns the count of Active records per category for the owner.
// The counts sum to the length of GetByOwner.
func (s *AudioService) GetGroups(ownerId int) (map[string]int64, error) {
	var rows []struct {
		Category string
		Count    int64
	}
	err := s.db.Model(model.AudioRecord{}).
		Select("category, COUNT(*) AS count").
		Where("user_id = ? AND deleted_at IS NULL", ownerId).
		Group("category").
		Scan(&rows).
		Error
	if err != nil {
		return nil, common.WrapError(common.ErrStorage, "group audio records: %v", err)
	}

	groups := make(map[string]int64, len(rows))
	for _, row := range rows {
		groups[row.Category] = row.Count
	}
	return groups, nil
}

// Get fetches a record by id, regardless of lifecycle state.
func (s *AudioService) Get(id int) (*model.AudioRecord, error) {
	record := &model.AudioRecord{}
	err := s.db.First(record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.WrapError(common.ErrNotFound, "audio record %d", id)
	} else if err != nil {
		return nil, common.WrapError(common.ErrStorage, "get audio record: %v", err)
	}
	return record, nil
}

// GetByFilename fetches a record by its unique storage filename.
func (s *AudioService) GetByFilename(filename string) (*model.AudioRecord, error) {
	record := &model.AudioRecord{}
	err := s.db.Where("filename = ?", filename).First(record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.WrapError(common.ErrNotFound, "audio record %q", filename)
	} else if err != nil {
		return nil, common.WrapError(common.ErrStorage, "get audio record: %v", err)
	}
	return record, nil
}

// SoftDelete moves an Active record to Deleted, stamping deleted_at once.
// Deleting an already-Deleted record is a no-op that keeps the original
// deleted_at.
func (s *AudioService) SoftDelete(id int) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	// The guard keeps the first deletion timestamp under concurrent calls.
	err := s.db.Model(model.AudioRecord{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now()).
		Error
	if err != nil {
		return common.WrapError(common.ErrStorage, "soft delete audio record: %v", err)
	}
	return nil
}

// Restore moves a Deleted record back to Active with all other fields
// untouched. Restoring an Active record is a no-op.
func (s *AudioService) Restore(id int) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	err := s.db.Model(model.AudioRecord{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil).
		Error
	if err != nil {
		return common.WrapError(common.ErrStorage, "restore audio record: %v", err)
	}
	return nil
}

// Update mutates display_name and category, the only two mutable fields.
// Any other field name is rejected with ErrValidation before touching the
// row.
func (s *AudioService) Update(id int, fields map[string]string) error {
	updates := make(map[string]any, len(fields))
	for name, value := range fields {
		switch name {
		case "display_name":
			updates[name] = value
		case "category":
			if value == "" {
				value = DefaultCategory
			}
			updates[name] = value
		default:
			return common.WrapError(common.ErrValidation, "field %q is immutable", name)
		}
	}
	if len(updates) == 0 {
		return nil
	}

	if _, err := s.Get(id); err != nil {
		return err
	}

	err := s.db.Model(model.AudioRecord{}).
		Where("id = ?", id).
		Updates(updates).
		Error
	if err != nil {
		return common.WrapError(common.ErrStorage, "update audio record: %v", err)
	}
	return nil
}

// ExportLibrary serializes the owner's Active records for download.
func (s *AudioService) ExportLibrary(ownerId int) ([]byte, error) {
	records, err := s.GetByOwner(ownerId)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(entity.NewAudioViews(records), "", "  ")
	if err != nil {
		return nil, common.WrapError(common.ErrStorage, "marshal library: %v", err)
	}
	return data, nil
}

// CountRecords returns the total number of rows, deleted included. Used by
// the status endpoint and the summary job.
func (s *AudioService) CountRecords() (int64, error) {
	var count int64
	if err := s.db.Model(model.AudioRecord{}).Count(&count).Error; err != nil {
		return 0, common.WrapError(common.ErrStorage, "count audio records: %v", err)
	}
	return count, nil
}
