package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/maintenance"
)

var updateSchemaCmd = &cobra.Command{
	Use:   "update-schema",
	Short: "Apply pending schema migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if err := db.Initialize(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating schema: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Schema is up to date")
	},
}

var cleanupDuplicatesCmd = &cobra.Command{
	Use:   "cleanup-duplicates",
	Short: "Delete duplicate tasks, keeping the newest per (user, title)",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if err := db.Initialize(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
			os.Exit(1)
		}

		removed, err := maintenance.CleanupDuplicates(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error cleaning up duplicates: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Removed %d duplicate task(s)\n", removed)
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy critical files to a timestamped backup directory",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		name, err := maintenance.Backup(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating backup: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Backup created: %s\n", name)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Restore a named backup",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if err := maintenance.Restore(cfg, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error restoring backup: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Restored backup %s\n", args[0])
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run preflight checks (config, database, schema)",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if err := maintenance.Validate(cmd.Context(), cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("All checks passed")
	},
}
