// @title Huella Urbana API
// @version 1.0
// @description Reportes ciudadanos de incidentes con animales.
// @BasePath /
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"huella-urbana/internal/config"
)

var (
	configPath string
	envFile    string

	// flags que pisan la config
	addrFlag   string
	dbDriver   string
	dbDSN      string
	uploadsDir string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "huella",
	Short:         "Servidor de reportes de huella urbana",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Archivo YAML de configuración")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Archivo .env (opcional)")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "Driver SQL: pgx o sqlite")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db-dsn", "", "DSN de la base de datos")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error")

	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "Dirección de escucha (ej. :8080)")
	serveCmd.Flags().StringVar(&uploadsDir, "uploads-dir", "", "Directorio de fotos subidas")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig aplica archivo, .env y entorno; después los flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.HTTP.Addr = addrFlag
	}
	if flags.Changed("db-driver") {
		cfg.DB.Driver = dbDriver
	}
	if flags.Changed("db-dsn") {
		cfg.DB.DSN = dbDSN
	}
	if flags.Changed("uploads-dir") {
		cfg.Uploads.Dir = uploadsDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
