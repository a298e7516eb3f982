package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/cinegram/cinegram/internal/catalog"
	"github.com/cinegram/cinegram/internal/config"
	"github.com/cinegram/cinegram/internal/migrations"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cinegram",
	Short: "Admin CLI for the cinegram catalog",
	Long: `cinegram - admin CLI for the cinegram Telegram bot

Inspects and maintains the catalog database directly.
Run 'cinegramd' to start the bot daemon.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: discover)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("cinegram {{.Version}}\n")
}

// openStore resolves the config, opens the database, and applies the
// schema. The returned closer must be deferred.
func openStore() (*catalog.Store, func(), error) {
	path := configPath
	if path == "" {
		p, err := config.Discover()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Database.Path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return catalog.NewStore(db), func() { _ = db.Close() }, nil
}
