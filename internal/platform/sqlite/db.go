// Package sqlite provides gorm-backed implementations of the store interfaces
// on an embedded SQLite database. It serves local development and tests that
// must run without a PostgreSQL server.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/phrazzld/tasks-api/internal/store"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// driverName is the database/sql driver registered with the Unicode helpers.
const driverName = "sqlite3_tasks"

var registerDriver sync.Once

// register installs a go-sqlite3 driver whose connections provide
// unicode_lower, a Unicode-aware replacement for SQLite's ASCII-only lower().
func register() {
	registerDriver.Do(func() {
		sql.Register(driverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("unicode_lower", strings.ToLower, true)
			},
		})
	})
}

// Open connects to the SQLite database at dsn and migrates the schema.
// Use ":memory:" for a throwaway database. gorm's own logging is routed
// through log.
func Open(dsn string, log *slog.Logger) (*gorm.DB, error) {
	if log == nil {
		log = slog.Default()
	}

	gormLogger := logger.New(
		slog.NewLogLogger(log.With(slog.String("component", "gorm")).Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	register()
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: driverName, DSN: dsn}), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database handle: %w", err)
	}
	// Every in-memory connection is a separate database, and SQLite allows a
	// single writer anyway.
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the tables for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userRow{}, &taskRow{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// mapError converts gorm and SQLite errors into store sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(err.Error(), "CHECK constraint failed"),
		strings.Contains(err.Error(), "NOT NULL constraint failed"):
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	return err
}
