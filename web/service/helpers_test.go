package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/voxvault/voxvault/database"
	"github.com/voxvault/voxvault/database/model"
	"github.com/voxvault/voxvault/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("VV_LOG_FOLDER", os.TempDir())
	logger.InitLogger(logging.ERROR)
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "voxvault-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user, err := NewUserService(db).CreateUser(username, "secret1", "")
	require.NoError(t, err)
	return user
}
