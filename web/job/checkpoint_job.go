// Package job contains the scheduled maintenance tasks run by the web
// server's cron.
package job

import (
	"gorm.io/gorm"

	"github.com/voxvault/voxvault/database"
	"github.com/voxvault/voxvault/logger"
	"github.com/voxvault/voxvault/util/common"
)

// CheckpointJob periodically flushes the sqlite WAL into the main database
// file so it cannot grow unbounded between restarts.
type CheckpointJob struct {
	db *gorm.DB
}

func NewCheckpointJob(db *gorm.DB) *CheckpointJob {
	return &CheckpointJob{db: db}
}

func (j *CheckpointJob) Run() {
	defer common.Recover("wal checkpoint job")

	if err := database.Checkpoint(j.db); err != nil {
		logger.Warning("wal checkpoint failed:", err)
	}
}
