package main

import (
	"context"
	"errors"
	"gpx-route-editor/internal/adapters/repositories"
	"gpx-route-editor/internal/api"
	"gpx-route-editor/internal/config"
	"gpx-route-editor/internal/platform/db"
	"gpx-route-editor/internal/platform/obs"
	"gpx-route-editor/internal/services"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

// main is the application composition root.
// It wires concrete adapters (SQL store, ORS, NATS) behind ports and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	obs.SetupLogger(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.InitSchema(conn, cfg.Database.Driver); err != nil {
		return err
	}

	repo, err := repositories.NewGpxFileRepository(conn, cfg.Database.Driver)
	if err != nil {
		return err
	}

	editor, err := newPointEditor(cfg)
	if err != nil {
		return err
	}

	events, closeEvents, err := newEventPublisher(cfg)
	if err != nil {
		return err
	}
	defer closeEvents()

	files := services.NewGpxFileService(repo, editor, events)
	files.DefaultProfile = cfg.Routing.DefaultProfile

	router := api.NewRouter(files, repo, cfg.Server.MaxUpload)

	// Write timeout leaves room for a slow directions call plus elevation lookups.
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "db", cfg.Database.Driver, "routing", cfg.Routing.Provider)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
