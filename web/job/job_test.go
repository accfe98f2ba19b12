package job

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvault/voxvault/database"
	"github.com/voxvault/voxvault/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("VV_LOG_FOLDER", os.TempDir())
	logger.InitLogger(logging.ERROR)
	os.Exit(m.Run())
}

func TestCheckpointJob(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "voxvault-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close(db)
	})

	assert.NotPanics(t, func() { NewCheckpointJob(db).Run() })
}

func TestCheckpointJobSurvivesPanic(t *testing.T) {
	// a job crashing must not take down the cron scheduler goroutine
	assert.NotPanics(t, func() { NewCheckpointJob(nil).Run() })
}

func TestUsageSummaryJobSurvivesPanic(t *testing.T) {
	assert.NotPanics(t, func() { NewUsageSummaryJob(nil, nil, nil, nil).Run() })
}
