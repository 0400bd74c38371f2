package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options selects and locates the database.
type Options struct {
	Driver string // "sqlite" or "postgres"
	Path   string // sqlite file
	DSN    string // postgres connection string
}

func Initialize(opts Options) (*gorm.DB, error) {
	dialector, err := openDialector(opts)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access connection pool: %w", err)
		}
		// SQLite allows one writer at a time.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func openDialector(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case "sqlite", "":
		dir := filepath.Dir(opts.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		return sqlite.Open(opts.Path), nil
	case "postgres":
		return postgres.Open(opts.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", opts.Driver)
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&CaseQuery{},
		&CaseRecord{},
		&OrderRecord{},
	); err != nil {
		return err
	}

	return createIndexes(db)
}
