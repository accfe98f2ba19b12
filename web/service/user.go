// Package service implements the persistence and accounting core of the
// panel: user accounts, audio-artifact metadata, usage totals and playback
// history. Each service is a struct over an injected gorm handle; none of
// them holds a transaction open across calls.
package service

import (
	"errors"
	"regexp"

	"gorm.io/gorm"

	"github.com/voxvault/voxvault/database/model"
	"github.com/voxvault/voxvault/logger"
	"github.com/voxvault/voxvault/util/common"
	"github.com/voxvault/voxvault/util/crypto"
)

var usernameRegexp = regexp.MustCompile(`^[A-Za-z0-9_]{3,80}$`)

// dummyHash keeps Authenticate's cost the same whether or not the username
// exists, so the negative result does not leak which part failed.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserService manages panel accounts.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUser validates the credentials, hashes the password and persists a
// non-admin account. Returns ErrValidation on malformed input and
// ErrDuplicateUsername when the name is taken (case-sensitive exact match).
func (s *UserService) CreateUser(username, password, email string) (*model.User, error) {
	if !usernameRegexp.MatchString(username) {
		return nil, common.WrapError(common.ErrValidation, "username must be 3-80 alphanumeric or underscore characters")
	}
	if len(password) < 6 || len(password) > 255 {
		return nil, common.WrapError(common.ErrValidation, "password must be 6-255 characters")
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, common.WrapError(common.ErrStorage, "hash password: %v", err)
	}

	user := &model.User{
		Username: username,
		Password: hash,
		Email:    email,
	}
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.WrapError(common.ErrDuplicateUsername, "%q", username)
		}
		logger.Warning("create user err:", err)
		return nil, common.WrapError(common.ErrStorage, "create user: %v", err)
	}
	return user, nil
}

// Authenticate looks up the account by exact username and verifies the
// password digest. A failed match returns (nil, nil): not authenticated is a
// normal negative result, not an error.
func (s *UserService) Authenticate(username, password string) (*model.User, error) {
	user := &model.User{}
	err := s.db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		crypto.CheckPasswordHash(dummyHash, password)
		return nil, nil
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil, common.WrapError(common.ErrStorage, "lookup user: %v", err)
	}

	if !crypto.CheckPasswordHash(user.Password, password) {
		return nil, nil
	}
	return user, nil
}

// GetUser fetches an account by id.
func (s *UserService) GetUser(id int) (*model.User, error) {
	user := &model.User{}
	err := s.db.First(user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.WrapError(common.ErrNotFound, "user %d", id)
	} else if err != nil {
		return nil, common.WrapError(common.ErrStorage, "get user: %v", err)
	}
	return user, nil
}

// GetUserByName fetches an account by exact username.
func (s *UserService) GetUserByName(username string) (*model.User, error) {
	user := &model.User{}
	err := s.db.Where("username = ?", username).First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.WrapError(common.ErrNotFound, "user %q", username)
	} else if err != nil {
		return nil, common.WrapError(common.ErrStorage, "get user: %v", err)
	}
	return user, nil
}

// UpdatePassword rotates the credential digest. Used by the admin CLI.
func (s *UserService) UpdatePassword(id int, password string) error {
	if len(password) < 6 || len(password) > 255 {
		return common.WrapError(common.ErrValidation, "password must be 6-255 characters")
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return common.WrapError(common.ErrStorage, "hash password: %v", err)
	}

	result := s.db.Model(model.User{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if result.Error != nil {
		return common.WrapError(common.ErrStorage, "update password: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.WrapError(common.ErrNotFound, "user %d", id)
	}
	return nil
}

// SetAdmin toggles the admin flag.
func (s *UserService) SetAdmin(id int, isAdmin bool) error {
	result := s.db.Model(model.User{}).
		Where("id = ?", id).
		Update("is_admin", isAdmin)
	if result.Error != nil {
		return common.WrapError(common.ErrStorage, "set admin: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.WrapError(common.ErrNotFound, "user %d", id)
	}
	return nil
}

// CountUsers returns the number of accounts.
func (s *UserService) CountUsers() (int64, error) {
	var count int64
	if err := s.db.Model(model.User{}).Count(&count).Error; err != nil {
		return 0, common.WrapError(common.ErrStorage, "count users: %v", err)
	}
	return count, nil
}
