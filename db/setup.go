package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taskboard-dev/taskboard/internal/apperrors"
	"github.com/taskboard-dev/taskboard/internal/config"
	"github.com/taskboard-dev/taskboard/internal/models"
)

var DB *gorm.DB

var (
	initOnce sync.Once
	initErr  error
)

// Initialize connects and migrates exactly once per process. Concurrent
// callers receive the same result.
func Initialize(cfg config.Config) error {
	initOnce.Do(func() {
		if initErr = ConnectDatabase(cfg); initErr != nil {
			return
		}
		initErr = MigrateDatabase()
	})
	return initErr
}

// ConnectDatabase opens the backend selected by configuration: hosted
// postgres when DATABASE_URL is a postgres URL, an embedded sqlite file
// otherwise. The rest of the code never knows which dialect it talks to.
func ConnectDatabase(cfg config.Config) error {
	var dialector gorm.Dialector

	if cfg.UsesPostgres() {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dsn := cfg.SQLitePath()
		if err := ensureDirForSQLite(dsn); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
		}
		dialector = sqlite.Open(dsn)
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	database, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	DB = database
	return nil
}

// MigrateDatabase creates any missing tables and applies pending
// migrations. It is idempotent and never drops data.
func MigrateDatabase() error {
	tables := []interface{}{
		&models.User{},
		&models.Task{},
		&models.Event{},
		&models.File{},
		&models.TaskAttachment{},
	}

	migrator := DB.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := DB.AutoMigrate(table); err != nil {
				return fmt.Errorf("%w: %v", apperrors.ErrQuery, err)
			}
		}
	}

	return dropLegacyUserConstraint()
}

// dropLegacyUserConstraint removes the old tasks.user_id foreign key that
// blocked inserts under the "default" sentinel user. user_id is a scoping
// string, not a referential constraint.
func dropLegacyUserConstraint() error {
	migrator := DB.Migrator()

	for _, name := range []string{"fk_tasks_user", "fk_users_tasks", "tasks_user_id_fkey"} {
		if migrator.HasConstraint(&models.Task{}, name) {
			if err := migrator.DropConstraint(&models.Task{}, name); err != nil {
				return fmt.Errorf("%w: drop constraint %s: %v", apperrors.ErrQuery, name, err)
			}
		}
	}

	return nil
}

// Ping probes connectivity for /api/health and the validate command.
func Ping(ctx context.Context) error {
	if DB == nil {
		return apperrors.ErrStorageUnavailable
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	return nil
}

// Connected reports whether a connection was ever established.
func Connected() bool {
	return DB != nil
}

// ensureDirForSQLite creates the parent dir for a sqlite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
