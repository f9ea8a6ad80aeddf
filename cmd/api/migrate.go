package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"huella-urbana/internal/adapters/storage/sqlstore"
	"huella-urbana/internal/platform/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Crea las tablas en la base configurada",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.DB.DSN == "" {
			return errors.New("migrate requires a DSN (--db-dsn or DB_DSN)")
		}

		log := logger.New(cfg.LoggerOptions())
		defer func() { _ = log.Sync() }()

		db, err := sqlstore.Open(cfg.DB.Driver, cfg.DB.DSN)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		if err := sqlstore.CreateSchema(context.Background(), db); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		log.Info("schema ready", map[string]any{"driver": string(db.Dialect())})
		return nil
	},
}
