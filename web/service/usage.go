package service

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/voxvault/voxvault/database/model"
	"github.com/voxvault/voxvault/util/common"
	"github.com/voxvault/voxvault/web/entity"
)

// MonthKey formats the per-calendar-month bucket key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// UsageService keeps per-user running totals and monthly buckets. The totals
// row and the current month's bucket are always written in one transaction
// with SQL-side increments, so concurrent callers never lose updates and no
// snapshot can observe one without the other.
type UsageService struct {
	db *gorm.DB
}

func NewUsageService(db *gorm.DB) *UsageService {
	return &UsageService{db: db}
}

// GetOrCreate returns the user's stats row, creating a zeroed one if absent.
// Two callers racing on first access both end up observing the same single
// row; the unique index on user_id resolves the race.
func (s *UsageService) GetOrCreate(userId int) (*model.UsageStats, error) {
	if userId <= 0 {
		return nil, common.WrapError(common.ErrValidation, "missing user")
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&model.UsageStats{UserId: userId}).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, common.WrapError(common.ErrStorage, "create usage stats: %v", err)
	}

	stats := &model.UsageStats{}
	err = s.db.Where("user_id = ?", userId).First(stats).Error
	if err != nil {
		return nil, common.WrapError(common.ErrStorage, "get usage stats: %v", err)
	}
	return stats, nil
}

// UpdateStats adds the synthesis deltas to the totals row and the current
// month's bucket, creating either if absent. Both rows commit together or
// not at all.
func (s *UsageService) UpdateStats(userId int, characters int64, cost float64) error {
	if userId <= 0 {
		return common.WrapError(common.ErrValidation, "missing user")
	}
	if characters < 0 || cost < 0 {
		return common.WrapError(common.ErrValidation, "negative usage delta")
	}

	month := MonthKey(time.Now())
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"total_characters": gorm.Expr("total_characters + ?", characters),
				"total_cost":       gorm.Expr("total_cost + ?", cost),
				"files_generated":  gorm.Expr("files_generated + 1"),
			}),
		}).Create(&model.UsageStats{
			UserId:          userId,
			TotalCharacters: characters,
			TotalCost:       cost,
			FilesGenerated:  1,
		}).Error
		if err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "month"}},
			DoUpdates: clause.Assignments(map[string]any{
				"characters": gorm.Expr("characters + ?", characters),
				"cost":       gorm.Expr("cost + ?", cost),
				"files":      gorm.Expr("files + 1"),
			}),
		}).Create(&model.MonthlyUsage{
			UserId:     userId,
			Month:      month,
			Characters: characters,
			Cost:       cost,
			Files:      1,
		}).Error
	})
	if err != nil {
		return common.WrapError(common.ErrStorage, "update usage stats: %v", err)
	}
	return nil
}

// GetAllTimeUsage returns a committed snapshot of the user's totals and
// monthly buckets. Updates in flight are either fully visible or not at all.
func (s *UsageService) GetAllTimeUsage(userId int) (*entity.UsageView, error) {
	if userId <= 0 {
		return nil, common.WrapError(common.ErrValidation, "missing user")
	}

	view := &entity.UsageView{Monthly: map[string]entity.MonthlyBucket{}}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		stats := &model.UsageStats{}
		err := tx.Where("user_id = ?", userId).First(stats).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		view.TotalCharacters = stats.TotalCharacters
		view.TotalCost = stats.TotalCost
		view.FilesGenerated = stats.FilesGenerated

		var months []model.MonthlyUsage
		if err := tx.Where("user_id = ?", userId).Order("month").Find(&months).Error; err != nil {
			return err
		}
		for _, m := range months {
			view.Monthly[m.Month] = entity.MonthlyBucket{
				Characters: m.Characters,
				Cost:       m.Cost,
				Files:      m.Files,
			}
		}
		return nil
	})
	if err != nil {
		return nil, common.WrapError(common.ErrStorage, "read usage stats: %v", err)
	}
	return view, nil
}

// GlobalTotals sums every user's counters for the daily summary job.
func (s *UsageService) GlobalTotals() (characters int64, cost float64, files int64, err error) {
	row := struct {
		Characters int64
		Cost       float64
		Files      int64
	}{}
	err = s.db.Model(model.UsageStats{}).
		Select("COALESCE(SUM(total_characters), 0) AS characters, COALESCE(SUM(total_cost), 0) AS cost, COALESCE(SUM(files_generated), 0) AS files").
		Scan(&row).
		Error
	if err != nil {
		return 0, 0, 0, common.WrapError(common.ErrStorage, "sum usage stats: %v", err)
	}
	return row.Characters, row.Cost, row.Files, nil
}
