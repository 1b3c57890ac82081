package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// devJWTSecret signs tokens when JWT_SECRET is unset outside production.
const devJWTSecret = "taskboard-dev-secret"

// Config keeps runtime settings for the server and CLI.
type Config struct {
	DatabaseURL   string
	JWTSecret     string
	Env           string
	Port          string
	UploadDir     string
	BackupDir     string
	SweepSchedule string
	TokenTTL      time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		Env:           strings.TrimSpace(os.Getenv("NODE_ENV")),
		Port:          strings.TrimSpace(os.Getenv("PORT")),
		UploadDir:     strings.TrimSpace(os.Getenv("UPLOAD_DIR")),
		BackupDir:     strings.TrimSpace(os.Getenv("BACKUP_DIR")),
		SweepSchedule: strings.TrimSpace(os.Getenv("SWEEP_SCHEDULE")),
		TokenTTL:      parseTTL(strings.TrimSpace(os.Getenv("TOKEN_TTL_HOURS"))),
	}

	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = "backups"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 168 * time.Hour
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return cfg, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

// UsesPostgres reports whether DATABASE_URL selects the hosted postgres
// backend. Any other non-empty value is treated as a sqlite path.
func (c Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") ||
		strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// SQLitePath returns the sqlite DSN used when postgres is not selected.
func (c Config) SQLitePath() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "taskboard.db"
}

// Public returns the non-secret subset served by /api/config.
func (c Config) Public() map[string]any {
	backend := "sqlite"
	if c.UsesPostgres() {
		backend = "postgres"
	}
	return map[string]any{
		"env":        c.Env,
		"port":       c.Port,
		"backend":    backend,
		"upload_dir": c.UploadDir,
	}
}

func parseTTL(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
