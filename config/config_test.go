package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); !errors.Is(err, ErrMissingDatabaseURL) {
		t.Fatalf("expected ErrMissingDatabaseURL, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/linkshelf")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 5000 || cfg.Server.Addr() != ":5000" {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if cfg.App.Env != "development" || cfg.App.IsProduction() {
		t.Fatalf("unexpected app config %+v", cfg.App)
	}
	if len(cfg.CORS.AllowedOrigins) != 3 {
		t.Fatalf("expected three default origins, got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Client.BaseURL != "http://localhost:5000/api" || cfg.Client.Timeout != 10*time.Second {
		t.Fatalf("unexpected client config %+v", cfg.Client)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/linkshelf")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("PORT", "8081")
	t.Setenv("PG_MAX_CONNS", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LINKSHELF_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.App.IsProduction() || cfg.Server.Port != 8081 || cfg.Postgres.MaxConns != 7 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Client.Timeout != 3*time.Second {
		t.Fatalf("unexpected client timeout %v", cfg.Client.Timeout)
	}
}

func TestLoad_YAMLAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")

	yaml := "server:\n  port: 6000\nprometheus:\n  enabled: true\n  port: 9191\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_URL=postgres://from-dotenv/linkshelf\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// godotenv keeps variables that are already set, even when empty.
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("PORT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Postgres.URL != "postgres://from-dotenv/linkshelf" {
		t.Fatalf("expected url from .env, got %q", cfg.Postgres.URL)
	}
	if cfg.Server.Port != 6000 || !cfg.Prometheus.Enabled || cfg.Prometheus.Port != 9191 {
		t.Fatalf("yaml not applied: %+v", cfg)
	}
}

func TestLoadClient_SkipsValidation(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LINKSHELF_API_URL", "http://shelf.internal/api")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.Client.BaseURL != "http://shelf.internal/api" {
		t.Fatalf("unexpected base url %q", cfg.Client.BaseURL)
	}
}

func TestValidate_Port(t *testing.T) {
	cfg := &Config{Postgres: PostgresConfig{URL: "postgres://x"}, Server: ServerConfig{Port: 70000}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected invalid port error")
	}
}
