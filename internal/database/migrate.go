package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all up migrations found at migrationsPath to the
// database file at dbPath.
func RunMigrations(dbPath, migrationsPath string) error {
	db, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return RunMigrationsWithDB(db, migrationsPath)
}

// RunMigrationsWithDB migrates an already open database. db stays open.
func RunMigrationsWithDB(db *sql.DB, migrationsPath string) error {
	src, err := (&file.File{}).Open(fmt.Sprintf("file://%s", migrationsPath))
	if err != nil {
		return fmt.Errorf("migrate source %s: %w", migrationsPath, err)
	}
	// m.Close would close db through the sqlite3 driver, so only the
	// source is released here.
	defer src.Close()

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("file", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
