// Package sqlite implements the durable local store on an embedded SQLite file.
package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"tiffin/config"
	"tiffin/internal/errors"
	"tiffin/internal/infra/persistence/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open opens (creating when needed) the SQLite file at path and migrates the store schema.
func Open(path string, logger *slog.Logger, cfg *config.Config) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, errors.Wrapf(err, "create store directory %s", dir)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newQueryLogger(logger, cfg),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite store %s", path)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sqlite sql.DB")
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under concurrent mutations.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.KVEntryModel{}); err != nil {
		_ = sqlDB.Close()

		return nil, errors.Wrap(err, "migrate local store schema")
	}

	return db, nil
}

// Close releases the connection pool behind db.
func Close(_ context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(sqlDB.Close())
}
