// Package entity defines the API response envelope and the serialized views
// crossing the web boundary. Views are the only shapes exposed; the stored
// column layout stays internal.
package entity

import (
	"time"

	"github.com/voxvault/voxvault/database/model"
)

// Msg is the standard API response envelope.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

// UserView is the serialized account shape. The credential digest is never
// part of it.
type UserView struct {
	Id       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

func NewUserView(u *model.User) UserView {
	return UserView{
		Id:       u.Id,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	}
}

// AudioView is the serialized artifact shape. The lifecycle state projects
// to the legacy isDeleted/deletedAt pair here and only here. TextPreview is
// filled only on direct single-record fetches.
type AudioView struct {
	Id          int        `json:"id"`
	Filename    string     `json:"filename"`
	DisplayName string     `json:"displayName"`
	Category    string     `json:"category"`
	Voice       string     `json:"voice"`
	Speed       float64    `json:"speed"`
	Characters  int64      `json:"characters"`
	Cost        float64    `json:"cost"`
	CreatedAt   time.Time  `json:"createdAt"`
	IsDeleted   bool       `json:"isDeleted"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	TextPreview string     `json:"textPreview,omitempty"`
}

func NewAudioView(r *model.AudioRecord, withPreview bool) AudioView {
	v := AudioView{
		Id:          r.Id,
		Filename:    r.Filename,
		DisplayName: r.DisplayName,
		Category:    r.Category,
		Voice:       r.Voice,
		Speed:       r.Speed,
		Characters:  r.CharacterCount,
		Cost:        r.Cost,
		CreatedAt:   r.CreatedAt,
		IsDeleted:   r.Deleted(),
		DeletedAt:   r.DeletedAt,
	}
	if withPreview {
		v.TextPreview = r.TextPreview
	}
	return v
}

func NewAudioViews(records []*model.AudioRecord) []AudioView {
	views := make([]AudioView, 0, len(records))
	for _, r := range records {
		views = append(views, NewAudioView(r, false))
	}
	return views
}

// MonthlyBucket is one calendar month's sub-total.
type MonthlyBucket struct {
	Characters int64   `json:"characters"`
	Cost       float64 `json:"cost"`
	Files      int64   `json:"files"`
}

// UsageView is a committed snapshot of a user's totals and monthly buckets.
type UsageView struct {
	TotalCharacters int64                    `json:"totalCharacters"`
	TotalCost       float64                  `json:"totalCost"`
	FilesGenerated  int64                    `json:"filesGenerated"`
	Monthly         map[string]MonthlyBucket `json:"monthly"`
}

// PlaybackView is one play event with the artifact name resolved at
// serialization time.
type PlaybackView struct {
	AudioId   int       `json:"audioId"`
	AudioName string    `json:"audioName"`
	PlayedAt  time.Time `json:"playedAt"`
}
