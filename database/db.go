// Package database opens the sqlite store, runs migrations and seeds the
// first admin account. The returned handle is owned by the caller and passed
// explicitly to each service; this package keeps no global.
package database

import (
	"io/fs"
	"log"
	"os"
	"path"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/voxvault/voxvault/config"
	"github.com/voxvault/voxvault/database/model"
	"github.com/voxvault/voxvault/util/crypto"
	"github.com/voxvault/voxvault/util/random"
)

const defaultUsername = "admin"

func initModels(db *gorm.DB) error {
	models := []any{
		&model.User{},
		&model.AudioRecord{},
		&model.UsageStats{},
		&model.MonthlyUsage{},
		&model.PlaybackHistory{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Printf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

// initAdmin seeds the first admin account when the users table is empty.
// The password comes from the environment or is generated and printed once.
func initAdmin(db *gorm.DB) error {
	empty, err := isTableEmpty(db, "users")
	if err != nil {
		log.Printf("Error checking if users table is empty: %v", err)
		return err
	}
	if !empty {
		return nil
	}

	password := config.GetAdminPassword()
	if password == "" {
		password = random.Seq(12)
		log.Printf("generated admin password: %v", password)
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: defaultUsername,
		Password: hash,
		IsAdmin:  true,
	}
	return db.Create(user).Error
}

func isTableEmpty(db *gorm.DB, tableName string) (bool, error) {
	var count int64
	err := db.Table(tableName).Count(&count).Error
	return count == 0, err
}

// Open opens (creating if needed) the sqlite database at dbPath, applies
// pragmas and migrations, and returns the handle.
func Open(dbPath string) (*gorm.DB, error) {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return nil, err
	}

	var gormLogger logger.Interface

	if config.IsDebug() {
		gormLogger = logger.Default
	} else {
		gormLogger = logger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}

	dsn := dbPath + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=10000"
	db, err := gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// sqlite has a single writer; one pooled connection avoids SQLITE_BUSY
	// churn between concurrent transactions.
	sqlDB.SetMaxOpenConns(1)

	_, err = sqlDB.Exec("PRAGMA cache_size = -64000;")
	if err != nil {
		return nil, err
	}
	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		return nil, err
	}

	if err := initModels(db); err != nil {
		return nil, err
	}
	if err := initAdmin(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Close checkpoints the WAL and closes the underlying connection.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	if err := Checkpoint(db); err != nil {
		log.Printf("error executing checkpoint: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Checkpoint flushes the WAL into the main database file.
func Checkpoint(db *gorm.DB) error {
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
