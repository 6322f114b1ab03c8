// Package main provides the CLI for Masonry, a migration tool that turns
// declarative YAML manifests into SQL and applies it with revision
// tracking, lock files, and drift detection.
//
// Usage:
//
//	masonry init                 # Create migrations/ and masonry.yaml
//	masonry render               # Print the SQL pending migrations would run
//	masonry apply                # Apply pending migrations
//	masonry rollback [steps]     # Roll back (default: 1 step)
//	masonry status               # Show applied/pending revisions
//	masonry verify               # Check lock file and history drift
//	masonry lock                 # Regenerate masonry.lock
//	masonry watch                # Re-render SQL as manifests change
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/masonry-db/masonry/internal/cli"

	// Database drivers
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

// Global flags
var (
	databaseURL   string
	configFile    string
	migrationsDir string
	plainOutput   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "masonry",
		Short:   "Declarative SQL migrations from YAML manifests",
		Long:    `Masonry manages schema evolution through YAML migration manifests: each manifest declares tables, indexes, and seed rows, and Masonry renders them to SQL, applies them in order, and guards the history with checksums.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if plainOutput {
				cli.SetDefault(&cli.Config{Mode: cli.ModePlain})
			}
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&databaseURL, "database-url", "d", "", "Database connection URL")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "masonry.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&migrationsDir, "migrations-dir", "m", "", "Path to the manifests directory")
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false, "Disable colored output")

	rootCmd.AddCommand(
		initCmd(),
		renderCmd(),
		applyCmd(),
		rollbackCmd(),
		statusCmd(),
		verifyCmd(),
		lockCmd(),
		watchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
