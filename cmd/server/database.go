package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/platform/sqlite"
	"github.com/phrazzld/tasks-api/internal/redact"
	"github.com/phrazzld/tasks-api/internal/store"
)

// Supported values of database.driver.
const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

const pingTimeout = 5 * time.Second

// storage bundles the stores of one backend with the function that releases it.
type storage struct {
	users store.UserStore
	tasks store.TaskStore
	close func() error
}

// openStorage connects to the configured backend. The handle is acquired once
// here and released by storage.close on shutdown.
func openStorage(ctx context.Context, cfg *config.Config, l *slog.Logger) (*storage, error) {
	switch cfg.Database.Driver {
	case driverPostgres:
		db, err := openPostgres(ctx, cfg.Database, l)
		if err != nil {
			return nil, err
		}
		return &storage{
			users: postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, l),
			tasks: postgres.NewPostgresTaskStore(db, l),
			close: db.Close,
		}, nil

	case driverSQLite:
		db, err := sqlite.Open(cfg.Database.URL, l)
		if err != nil {
			return nil, err
		}
		l.Info("database connection established", slog.String("driver", driverSQLite))
		return &storage{
			users: sqlite.NewUserStore(db, cfg.Auth.BCryptCost, l),
			tasks: sqlite.NewTaskStore(db, l),
			close: func() error { return sqlite.Close(db) },
		}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// openPostgres opens a pooled pgx connection and verifies it with a ping.
func openPostgres(ctx context.Context, cfg config.DatabaseConfig, l *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %s", redact.Error(err))
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(max(cfg.MaxOpenConns/2, 1))
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %s", redact.Error(err))
	}

	l.Info("database connection established",
		slog.String("driver", driverPostgres),
		slog.Int("max_open_conns", cfg.MaxOpenConns))
	return db, nil
}
