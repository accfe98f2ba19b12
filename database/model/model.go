// Package model defines the persisted entities of the VoxVault panel.
package model

import (
	"time"
)

// User is a panel account. The password is stored only as a bcrypt digest
// and never serialized. Username is immutable after creation.
type User struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"column:password_hash;not null"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

// AudioRecord is the metadata of one synthesized-audio artifact. The audio
// bytes themselves live outside this layer; Filename identifies them.
//
// Lifecycle is carried by DeletedAt alone: nil means Active, non-nil means
// Deleted at that instant. The legacy is_deleted boolean only exists in the
// serialized view.
type AudioRecord struct {
	Id             int        `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId         int        `json:"-" gorm:"index;not null"`
	Filename       string     `json:"filename" gorm:"uniqueIndex;not null"`
	DisplayName    string     `json:"displayName"`
	Category       string     `json:"category" gorm:"index;not null;default:Uncategorized"`
	Voice          string     `json:"voice"`
	Speed          float64    `json:"speed"`
	CharacterCount int64      `json:"characters"`
	Cost           float64    `json:"cost"`
	TextPreview    string     `json:"-"`
	CreatedAt      time.Time  `json:"createdAt" gorm:"index"`
	DeletedAt      *time.Time `json:"-" gorm:"index"`
}

// Deleted reports whether the record is in the Deleted state.
func (r *AudioRecord) Deleted() bool {
	return r.DeletedAt != nil
}

// UsageStats holds a user's running synthesis totals. Exactly one row per
// user, created lazily; counters only ever grow.
type UsageStats struct {
	Id              int     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId          int     `json:"-" gorm:"uniqueIndex;not null"`
	TotalCharacters int64   `json:"totalCharacters" gorm:"not null;default:0"`
	TotalCost       float64 `json:"totalCost" gorm:"not null;default:0"`
	FilesGenerated  int64   `json:"filesGenerated" gorm:"not null;default:0"`
}

// MonthlyUsage is one per-user, per-calendar-month bucket of UsageStats.
// Month is a "YYYY-MM" key. Updated only together with the totals row.
type MonthlyUsage struct {
	Id         int     `json:"-" gorm:"primaryKey;autoIncrement"`
	UserId     int     `json:"-" gorm:"uniqueIndex:idx_monthly_user_month;not null"`
	Month      string  `json:"month" gorm:"uniqueIndex:idx_monthly_user_month;size:7;not null"`
	Characters int64   `json:"characters" gorm:"not null;default:0"`
	Cost       float64 `json:"cost" gorm:"not null;default:0"`
	Files      int64   `json:"files" gorm:"not null;default:0"`
}

// PlaybackHistory is one play event. Append-only; AudioId may reference a
// soft-deleted record.
type PlaybackHistory struct {
	Id       int       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId   int       `json:"-" gorm:"index;not null"`
	AudioId  int       `json:"audioId" gorm:"index;not null"`
	PlayedAt time.Time `json:"playedAt" gorm:"index"`
}
