package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"huella-urbana/internal/adapters/storage/sqlstore"
	"huella-urbana/internal/platform/logger"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	DB      DBConfig      `yaml:"db"`
	Uploads UploadsConfig `yaml:"uploads"`
	Wizard  WizardConfig  `yaml:"wizard"`
	Log     LogConfig     `yaml:"log"`
	Auth    AuthConfig    `yaml:"auth"`
}

type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DBConfig: si DSN está vacío se usan los repos en memoria.
type DBConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type UploadsConfig struct {
	Dir        string `yaml:"dir"`
	PublicPath string `yaml:"public_path"`
}

type WizardConfig struct {
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

// AuthConfig: sin VerifierURL el servidor corre en modo dev (headers X-Debug-*).
type AuthConfig struct {
	VerifierURL string `yaml:"verifier_url"`
	APIKey      string `yaml:"api_key"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		DB: DBConfig{
			Driver: string(sqlstore.SQLite),
		},
		Uploads: UploadsConfig{
			Dir:        "uploads",
			PublicPath: "/uploads",
		},
		Wizard: WizardConfig{
			SessionTTL:    30 * time.Minute,
			SweepInterval: 5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			App:    "huella-urbana",
		},
	}
}

// Load arma la config: defaults, archivo YAML (opcional), .env (opcional) y
// variables de entorno, en ese orden. Los flags los aplica el caller.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// sin archivo, quedan los defaults
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if envFile != "" {
		// godotenv no pisa variables ya definidas en el entorno.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		c.HTTP.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := getenv("DB_DRIVER"); v != "" {
		c.DB.Driver = v
	}
	if v := getenv("DB_DSN"); v != "" {
		c.DB.DSN = v
	}
	if v := getenv("UPLOAD_DIR"); v != "" {
		c.Uploads.Dir = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := getenv("APP_NAME"); v != "" {
		c.Log.App = v
	}
	if v := getenv("AUTH_VERIFIER_URL"); v != "" {
		c.Auth.VerifierURL = v
	}
	if v := getenv("AUTH_API_KEY"); v != "" {
		c.Auth.APIKey = v
	}
	if v := strings.TrimSpace(getenv("WIZARD_SESSION_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid WIZARD_SESSION_TTL %q: %w", v, err)
		}
		c.Wizard.SessionTTL = d
	}
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return errors.New("http.addr is required")
	}
	if c.DB.DSN != "" {
		if _, err := sqlstore.ParseDialect(c.DB.Driver); err != nil {
			return err
		}
	}
	if c.Wizard.SessionTTL <= 0 {
		return fmt.Errorf("wizard.session_ttl must be positive, got %s", c.Wizard.SessionTTL)
	}
	if c.Wizard.SweepInterval <= 0 {
		return fmt.Errorf("wizard.sweep_interval must be positive, got %s", c.Wizard.SweepInterval)
	}
	if !strings.HasPrefix(c.Uploads.PublicPath, "/") {
		return fmt.Errorf("uploads.public_path must start with /, got %q", c.Uploads.PublicPath)
	}
	if c.Auth.VerifierURL != "" && c.Auth.APIKey == "" {
		return errors.New("auth.api_key is required when auth.verifier_url is set")
	}
	return nil
}

// LoggerOptions traduce la sección log a opciones del logger.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:  logger.ParseLevel(c.Log.Level),
		Format: logger.ParseFormat(c.Log.Format),
		App:    c.Log.App,
	}
}
