// Package dbtest opens throwaway in-memory databases for package tests.
package dbtest

import (
	"fmt"
	"sync/atomic"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tabot/internal/db"
)

var seq atomic.Int64

// Open returns a migrated in-memory sqlite database private to the caller.
func Open() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:tabot_%d?mode=memory&cache=shared", seq.Add(1))
	gdb, err := db.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return gdb, nil
}

// Close releases the database; the in-memory data goes with it.
func Close(gdb *gorm.DB) {
	if gdb == nil {
		return
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
