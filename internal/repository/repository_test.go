package repository

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taskboard-dev/taskboard/internal/models"
)

// newTestDB opens an isolated in-memory database. A single connection is
// forced so the pool cannot hand out a second, empty :memory: database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = database.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Event{},
		&models.File{},
		&models.TaskAttachment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return database
}

func mustCreateTask(t *testing.T, repo *TaskRepository, task models.Task) models.Task {
	t.Helper()

	if err := repo.Create(context.Background(), &task); err != nil {
		t.Fatalf("failed to prepare task: %v", err)
	}
	return task
}

func mustCreateFile(t *testing.T, repo *FileRepository, file models.File) models.File {
	t.Helper()

	if err := repo.Create(context.Background(), &file); err != nil {
		t.Fatalf("failed to prepare file: %v", err)
	}
	return file
}
