package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"APP_ENV", "ADMIN_EMAIL", "ADMIN_PASSWORD", "DB_PATH", "PORT", "RATES_DIR", "DEFAULT_MARKET", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.DBPath != defaultDBPath {
		t.Fatalf("DBPath=%q, want %q", cfg.DBPath, defaultDBPath)
	}
	if cfg.Port != defaultPort {
		t.Fatalf("Port=%q, want %q", cfg.Port, defaultPort)
	}
	if cfg.DefaultMarket != "standard" {
		t.Fatalf("DefaultMarket=%q, want %q", cfg.DefaultMarket, "standard")
	}
	if !cfg.IsDev() {
		t.Fatalf("expected dev environment by default")
	}
	if !cfg.Logging.Development {
		t.Fatalf("expected development logging in dev")
	}
	if cfg.AdminAuthEnabled() {
		t.Fatalf("expected admin auth disabled without credentials")
	}
	if !cfg.AdminRoutesEnabled() {
		t.Fatalf("expected admin routes served in dev")
	}
	if len(cfg.Warnings()) != 3 {
		t.Fatalf("expected 3 warnings, got %v", cfg.Warnings())
	}
}

func TestAdminRoutesEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"dev without credentials", Config{Env: "dev"}, true},
		{"production without credentials", Config{Env: "production"}, false},
		{"production with email only", Config{Env: "production", AdminEmail: "ops@example.com"}, false},
		{"production with credentials", Config{Env: "production", AdminEmail: "ops@example.com", AdminPassword: "pw"}, true},
	}
	for _, tt := range tests {
		if got := tt.cfg.AdminRoutesEnabled(); got != tt.want {
			t.Fatalf("%s: AdminRoutesEnabled()=%v, want %v", tt.name, got, tt.want)
		}
	}

	warnings := Config{Env: "production"}.Warnings()
	if len(warnings) != 3 || warnings[2] != "admin routes are disabled" {
		t.Fatalf("unexpected production warnings: %v", warnings)
	}
}

func TestLoadFrom_ReadsDotEnvAndIgnoresNoise(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := []byte(`
# comment

PORT=9090
export DB_PATH=/tmp/quotes.db
RATES_DIR="./rates"
APP_ENV=production
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	cfg := LoadFrom(path)

	if cfg.Port != "9090" {
		t.Fatalf("Port=%q, want %q", cfg.Port, "9090")
	}
	if cfg.DBPath != "/tmp/quotes.db" {
		t.Fatalf("DBPath=%q, want %q", cfg.DBPath, "/tmp/quotes.db")
	}
	if cfg.RatesDir != "./rates" {
		t.Fatalf("RatesDir=%q, want %q", cfg.RatesDir, "./rates")
	}
	if cfg.IsDev() {
		t.Fatalf("expected production environment")
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("Logging.Format=%q, want json outside dev", cfg.Logging.Format)
	}
	if cfg.AdminRoutesEnabled() {
		t.Fatalf("expected admin routes disabled in production without credentials")
	}
}

func TestLoadFrom_DoesNotOverwriteExistingEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PORT=9999\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	cfg := LoadFrom(path)

	if cfg.Port != "7000" {
		t.Fatalf("Port=%q, want %q", cfg.Port, "7000")
	}
}
