package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GintGld/showreel/internal/config"
	"github.com/GintGld/showreel/internal/storage/sqlite"
)

var configPath string

// newRootCmd creates the reelctl command tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "reelctl",
		Short: "reelctl inspects and maintains a showreel portfolio",
		Long: `reelctl works directly on the portfolio database.
It previews slugs, reports titles sharing a slug and applies schema migrations.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (overrides CONFIG_PATH)")

	rootCmd.AddCommand(newSlugCmd())
	rootCmd.AddCommand(newSlugsCmd())
	rootCmd.AddCommand(newMigrateCmd())

	return rootCmd
}

// openStorage loads config with respect to the --config flag
// and opens the database it points to.
func openStorage() (*sqlite.Storage, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	cfg := config.MustLoadPath(path)

	return sqlite.New(cfg.StoragePath)
}
