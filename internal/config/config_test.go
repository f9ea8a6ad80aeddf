package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"huella-urbana/internal/platform/logger"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DB_DRIVER", "DB_DSN", "UPLOAD_DIR", "LOG_LEVEL", "LOG_FORMAT", "APP_NAME", "AUTH_VERIFIER_URL", "AUTH_API_KEY", "WIZARD_SESSION_TTL"} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "huella.yaml")
	data := `
http:
  addr: ":9090"
db:
  driver: postgres
  dsn: postgres://localhost/huella
wizard:
  session_ttl: 45m
log:
  format: json
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := Default()
	want.HTTP.Addr = ":9090"
	want.DB = DBConfig{Driver: "postgres", DSN: "postgres://localhost/huella"}
	want.Wizard.SessionTTL = 45 * time.Minute
	want.Log.Format = "json"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Uploads.PublicPath != "/uploads" || cfg.Wizard.SweepInterval != 5*time.Minute {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("UPLOAD_DIR=/var/huella/media\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}

	cfg, err := Load("", envFile)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Uploads.Dir != "/var/huella/media" {
		t.Fatalf("expected upload dir from .env, got %q", cfg.Uploads.Dir)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":               "3000",
		"DB_DRIVER":          "sqlite",
		"DB_DSN":             "file:huella.db",
		"LOG_LEVEL":          "debug",
		"AUTH_VERIFIER_URL":  "http://auth.local",
		"AUTH_API_KEY":       "k",
		"WIZARD_SESSION_TTL": "10m",
	}
	cfg := Default()
	if err := cfg.applyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("applyEnv error: %v", err)
	}
	if cfg.HTTP.Addr != ":3000" || cfg.DB.DSN != "file:huella.db" || cfg.Wizard.SessionTTL != 10*time.Minute {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.LoggerOptions().Level != logger.Debug {
		t.Fatalf("expected debug level")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	env["WIZARD_SESSION_TTL"] = "media hora"
	if err := Default().applyEnv(func(k string) string { return env[k] }); err == nil {
		t.Fatalf("expected error for bad duration")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty addr", func(c *Config) { c.HTTP.Addr = " " }, "http.addr"},
		{"bad driver", func(c *Config) { c.DB = DBConfig{Driver: "mysql", DSN: "x"} }, "unsupported db driver"},
		{"zero ttl", func(c *Config) { c.Wizard.SessionTTL = 0 }, "session_ttl"},
		{"relative public path", func(c *Config) { c.Uploads.PublicPath = "uploads" }, "public_path"},
		{"verifier without key", func(c *Config) { c.Auth.VerifierURL = "http://auth" }, "api_key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
