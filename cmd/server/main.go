// Package main implements the entry point for the tasks API server, which
// serves per-user task management over a JSON HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status, version) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver))

	if *migrateCmd != "" {
		if err := migrateCommand(context.Background(), cfg, *migrateCmd, l); err != nil {
			l.Error("migration failed", slog.String("command", *migrateCmd), slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	os.Exit(serve(cfg, l))
}

// serve runs the API until SIGINT or SIGTERM and returns the process exit code.
func serve(cfg *config.Config, l *slog.Logger) int {
	ctx := context.Background()

	storage, err := openStorage(ctx, cfg, l)
	if err != nil {
		l.Error("failed to open storage", slog.String("error", err.Error()))
		return 1
	}

	app, err := newApplication(cfg, l, storage)
	if err != nil {
		l.Error("failed to initialize application", slog.String("error", err.Error()))
		_ = storage.close()
		return 1
	}

	srv := app.newHTTPServer()
	go func() {
		if err := app.listen(srv); err != nil {
			l.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	wait := gfshutdown.GracefulShutdown(ctx, timeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	code := <-wait
	app.cleanup()
	l.Info("server stopped", slog.Int("exit_code", code))
	return code
}

// migrateCommand opens the PostgreSQL database and runs one goose command.
func migrateCommand(ctx context.Context, cfg *config.Config, command string, l *slog.Logger) error {
	if cfg.Database.Driver != driverPostgres {
		return fmt.Errorf("migrations require the %q driver, configured driver is %q",
			driverPostgres, cfg.Database.Driver)
	}

	db, err := openPostgres(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			l.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}()

	return runMigrations(ctx, db, command, l)
}
