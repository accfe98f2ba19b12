package service

import (
	"time"

	"gorm.io/gorm"

	"github.com/voxvault/voxvault/database/model"
	"github.com/voxvault/voxvault/util/common"
	"github.com/voxvault/voxvault/web/entity"
)

// DeletedAudioName is shown when a history entry references an artifact that
// was soft-deleted or is missing entirely.
const DeletedAudioName = "Deleted audio"

// PlaybackService keeps the append-only log of play events. Entries may
// reference soft-deleted artifacts and are only removed in bulk per user.
type PlaybackService struct {
	db *gorm.DB
}

func NewPlaybackService(db *gorm.DB) *PlaybackService {
	return &PlaybackService{db: db}
}

// AddPlayback appends a play event with the current timestamp. The artifact's
// lifecycle state is deliberately not checked.
func (s *PlaybackService) AddPlayback(userId, audioId int) (*model.PlaybackHistory, error) {
	if userId <= 0 || audioId <= 0 {
		return nil, common.WrapError(common.ErrValidation, "missing user or audio id")
	}

	entry := &model.PlaybackHistory{
		UserId:   userId,
		AudioId:  audioId,
		PlayedAt: time.Now(),
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, common.WrapError(common.ErrStorage, "add playback: %v", err)
	}
	return entry, nil
}

// GetRecent returns the user's latest play events, newest first.
func (s *PlaybackService) GetRecent(userId, limit int) ([]*model.PlaybackHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []*model.PlaybackHistory
	err := s.db.
		Where("user_id = ?", userId).
		Order("played_at DESC, id DESC").
		Limit(limit).
		Find(&entries).
		Error
	if err != nil {
		return nil, common.WrapError(common.ErrStorage, "list playback history: %v", err)
	}
	return entries, nil
}

// ClearUserHistory removes every entry for the user.
func (s *PlaybackService) ClearUserHistory(userId int) error {
	err := s.db.
		Where("user_id = ?", userId).
		Delete(&model.PlaybackHistory{}).
		Error
	if err != nil {
		return common.WrapError(common.ErrStorage, "clear playback history: %v", err)
	}
	return nil
}

// Views resolves the referenced artifacts' display names at serialization
// time. Deleted or missing artifacts degrade to a placeholder name instead
// of failing.
func (s *PlaybackService) Views(entries []*model.PlaybackHistory) ([]entity.PlaybackView, error) {
	ids := make([]int, 0, len(entries))
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if !seen[e.AudioId] {
			seen[e.AudioId] = true
			ids = append(ids, e.AudioId)
		}
	}

	names := make(map[int]string, len(ids))
	if len(ids) > 0 {
		var records []*model.AudioRecord
		err := s.db.Where("id IN ?", ids).Find(&records).Error
		if err != nil {
			return nil, common.WrapError(common.ErrStorage, "resolve playback names: %v", err)
		}
		for _, r := range records {
			if !r.Deleted() {
				names[r.Id] = r.DisplayName
			}
		}
	}

	views := make([]entity.PlaybackView, 0, len(entries))
	for _, e := range entries {
		name, ok := names[e.AudioId]
		if !ok {
			name = DeletedAudioName
		}
		views = append(views, entity.PlaybackView{
			AudioId:   e.AudioId,
			AudioName: name,
			PlayedAt:  e.PlayedAt,
		})
	}
	return views, nil
}

// CountPlays returns the total number of logged play events.
func (s *PlaybackService) CountPlays() (int64, error) {
	var count int64
	if err := s.db.Model(model.PlaybackHistory{}).Count(&count).Error; err != nil {
		return 0, common.WrapError(common.ErrStorage, "count playback history: %v", err)
	}
	return count, nil
}
