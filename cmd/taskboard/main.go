package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/auth"
	"github.com/taskboard-dev/taskboard/internal/config"
	"github.com/taskboard-dev/taskboard/internal/maintenance"
	"github.com/taskboard-dev/taskboard/internal/router"
)

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "Task and calendar-event manager",
	Long: `Taskboard serves a small HTTP API for tasks on a three-column
kanban board and date-indexed calendar events, persisting to sqlite in
development or hosted postgres when DATABASE_URL is set.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if err := auth.Init(cfg.JWTSecret, cfg.TokenTTL); err != nil {
			log.Fatalf("auth init failed: %v", err)
		}

		// The server still comes up when the database is unreachable:
		// data endpoints answer 503 while health and static assets work.
		if err := db.Initialize(cfg); err != nil {
			log.Printf("database unavailable at startup err=%v", err)
		}

		if cfg.SweepSchedule != "" && db.Connected() {
			startSweep(cfg.SweepSchedule)
		}

		if cfg.Env == "production" {
			gin.SetMode(gin.ReleaseMode)
		}

		r := router.New(cfg)

		log.Printf("listening port=%s env=%s", cfg.Port, cfg.Env)
		if err := r.Run(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	},
}

// startSweep schedules the orphan attachment-link sweep. Duplicate
// cleanup stays CLI-only.
func startSweep(schedule string) {
	sweepLog := log.New(os.Stderr, "[sweep] ", log.LstdFlags)

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		removed, err := maintenance.SweepOrphanLinks(context.Background())
		if err != nil {
			sweepLog.Printf("sweep failed err=%v", err)
			return
		}
		if removed > 0 {
			sweepLog.Printf("removed orphan links count=%d", removed)
		}
	})
	if err != nil {
		log.Fatalf("invalid SWEEP_SCHEDULE: %v", err)
	}
	c.Start()
}

func loadConfig() config.Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	return cfg
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(updateSchemaCmd)
	rootCmd.AddCommand(cleanupDuplicatesCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(validateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
