package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// newHTTPServer builds the HTTP server for the configured port.
func (app *application) newHTTPServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// listen serves until the server is shut down. A graceful shutdown is not
// reported as an error.
func (app *application) listen(srv *http.Server) error {
	app.logger.Info("starting server", slog.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
