// Package maintenance implements the operator surface: duplicate cleanup,
// orphan-link sweeping, backup/restore of critical files, and preflight
// validation. Nothing here runs automatically except the optional cron
// sweep wired up by serve.
package maintenance

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/config"
	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/repository"
)

// CleanupDuplicates keeps the newest task per (user_id, title) and deletes
// the rest. Reachable only from the CLI.
func CleanupDuplicates(ctx context.Context) (int, error) {
	return repository.NewTaskRepository(db.DB).CleanupDuplicates(ctx)
}

// SweepOrphanLinks removes attachment links whose task or file is gone.
func SweepOrphanLinks(ctx context.Context) (int64, error) {
	return repository.NewAttachmentRepository(db.DB).SweepOrphans(ctx)
}

// Backup copies the critical local files (sqlite database, .env, uploads)
// into a timestamped directory and returns its name. Postgres deployments
// only carry .env and uploads; the hosted database has its own backups.
func Backup(cfg config.Config) (string, error) {
	name := "backup-" + time.Now().Format("20060102-150405")
	dest := filepath.Join(cfg.BackupDir, name)

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	for _, path := range criticalFiles(cfg) {
		if err := copyPath(path, filepath.Join(dest, filepath.Base(path))); err != nil {
			return "", fmt.Errorf("backup %s: %w", path, err)
		}
	}

	return name, nil
}

// Restore copies a named backup's contents back into place.
func Restore(cfg config.Config, name string) error {
	src := filepath.Join(cfg.BackupDir, name)

	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("backup %q not found", name)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	for _, entry := range entries {
		if err := copyPath(filepath.Join(src, entry.Name()), entry.Name()); err != nil {
			return fmt.Errorf("restore %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// Validate runs the preflight checks: configuration, connectivity, and
// schema presence.
func Validate(ctx context.Context, cfg config.Config) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT secret is not configured")
	}

	if err := db.Initialize(cfg); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}

	tables := []interface{}{
		&models.User{},
		&models.Task{},
		&models.Event{},
		&models.File{},
		&models.TaskAttachment{},
	}
	migrator := db.DB.Migrator()
	for _, table := range tables {
		if !migrator.HasTable(table) {
			return fmt.Errorf("missing table for %T; run update-schema", table)
		}
	}

	return nil
}

func criticalFiles(cfg config.Config) []string {
	paths := []string{}
	if !cfg.UsesPostgres() {
		if _, err := os.Stat(cfg.SQLitePath()); err == nil {
			paths = append(paths, cfg.SQLitePath())
		}
	}
	if _, err := os.Stat(".env"); err == nil {
		paths = append(paths, ".env")
	}
	if _, err := os.Stat(cfg.UploadDir); err == nil {
		paths = append(paths, cfg.UploadDir)
	}
	return paths
}

func copyPath(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return copyDir(src, dest)
	}
	return copyFile(src, dest, info.Mode())
}

func copyDir(src, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := copyPath(filepath.Join(src, entry.Name()), filepath.Join(dest, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dest string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
