package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mmynk/hallcount/internal/config"
	"github.com/mmynk/hallcount/internal/storage/sqlite"
	"github.com/mmynk/hallcount/pkg/logging"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "hallcount",
	Short: "Compare lecture hall head counts with sign-in sheet signatures",
	Long: `hallcount compares the number of people counted in a lecture hall with
the number of signatures on the attendance sheet and flags discrepancies.

The history and stats commands read the same SQLite database as the server.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default from DB_PATH or config)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
	logging.Setup()
}

// openStore opens the database named by --db, falling back to the configuration.
func openStore() (*sqlite.SQLiteStore, error) {
	path := dbPath
	if path == "" {
		cfg, err := config.Load("")
		if err != nil {
			return nil, err
		}
		path = cfg.DBPath
	}

	store, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return store, nil
}
