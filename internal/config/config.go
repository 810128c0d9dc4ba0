package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Simplici0/haulquote/internal/logging"
	"github.com/Simplici0/haulquote/internal/ratetable"
)

const (
	defaultDBPath = "./dev.db"
	defaultPort   = "8080"
	defaultEnv    = "dev"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	AdminEmail    string
	AdminPassword string
	DBPath        string
	Port          string
	RatesDir      string
	DefaultMarket string
	Logging       logging.Config
}

// Load reads environment variables and returns a populated Config.
// Values from a local .env file fill in whatever the environment leaves unset.
func Load() Config {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path. A missing file is ignored.
func LoadFrom(dotenvPath string) Config {
	_ = godotenv.Load(dotenvPath)

	cfg := Config{
		Env:           strings.ToLower(os.Getenv("APP_ENV")),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		DBPath:        os.Getenv("DB_PATH"),
		Port:          os.Getenv("PORT"),
		RatesDir:      os.Getenv("RATES_DIR"),
		DefaultMarket: os.Getenv("DEFAULT_MARKET"),
		Logging:       logging.DefaultConfig(),
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DefaultMarket == "" {
		cfg.DefaultMarket = ratetable.DefaultMarket
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if cfg.IsDev() {
		cfg.Logging.Development = true
	} else if os.Getenv("LOG_FORMAT") == "" {
		cfg.Logging.Format = "json"
	}

	return cfg
}

// IsDev reports whether the app runs in local development mode.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development"
}

// AdminAuthEnabled reports whether admin routes are password protected.
func (c Config) AdminAuthEnabled() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// AdminRoutesEnabled reports whether the admin screens are mounted. Without
// credentials they are only served in development.
func (c Config) AdminRoutesEnabled() bool {
	return c.AdminAuthEnabled() || c.IsDev()
}

// Warnings lists settings that are missing but not fatal.
func (c Config) Warnings() []string {
	var out []string
	if c.AdminEmail == "" {
		out = append(out, "ADMIN_EMAIL is not set")
	}
	if c.AdminPassword == "" {
		out = append(out, "ADMIN_PASSWORD is not set")
	}
	switch {
	case c.AdminAuthEnabled():
	case c.IsDev():
		out = append(out, "admin rate editing is not password protected")
	default:
		out = append(out, "admin routes are disabled")
	}
	return out
}
