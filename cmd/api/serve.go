package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"huella-urbana/internal/adapters/auth/remote"
	"huella-urbana/internal/adapters/media/localdisk"
	"huella-urbana/internal/adapters/storage/sqlstore"
	"huella-urbana/internal/platform/logger"
	"huella-urbana/internal/router"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Levanta el servidor HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New(cfg.LoggerOptions())
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		Logger:        log,
		SessionTTL:    cfg.Wizard.SessionTTL,
		Context:       ctx,
		SweepInterval: cfg.Wizard.SweepInterval,
	}

	// Sin verifier => modo dev (X-Debug-User-ID / X-Debug-Role)
	if cfg.Auth.VerifierURL != "" {
		client, err := remote.NewClient(remote.Config{
			BaseURL: cfg.Auth.VerifierURL,
			APIKey:  cfg.Auth.APIKey,
		})
		if err != nil {
			return fmt.Errorf("auth client: %w", err)
		}
		opts.AuthVerifier = remote.NewVerifier(client)
	} else {
		log.Warn("auth verifier not configured, running in dev mode", nil)
	}

	if cfg.DB.DSN != "" {
		db, err := sqlstore.Open(cfg.DB.Driver, cfg.DB.DSN)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		if err := sqlstore.CreateSchema(ctx, db); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		opts.DB = db
		log.Info("database ready", map[string]any{"driver": string(db.Dialect())})
	} else {
		log.Info("no DB_DSN, using in-memory storage", nil)
	}

	store, err := localdisk.New(cfg.Uploads.Dir, cfg.Uploads.PublicPath)
	if err != nil {
		return err
	}
	opts.Media = store
	opts.UploadsDir = store.Dir()
	opts.UploadsPath = store.PublicPath()

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.HTTP.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
