package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	storage *storage

	jwtService  auth.JWTService
	userService service.UserService
	taskService service.TaskService
}

// newApplication wires the services on top of an opened storage backend.
func newApplication(cfg *config.Config, logger *slog.Logger, st *storage) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		storage: st,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.userService = service.NewUserService(st.users, auth.NewBcryptVerifier(), logger)

	app.taskService, err = service.NewTaskService(st.tasks, cfg.Tasks, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// cleanup releases the storage backend.
func (app *application) cleanup() {
	if app.storage != nil && app.storage.close != nil {
		if err := app.storage.close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
