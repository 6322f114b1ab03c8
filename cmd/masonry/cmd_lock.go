package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/masonry-db/masonry/internal/cli"
	"github.com/masonry-db/masonry/internal/lockfile"
)

// lockCmd manages the manifest lockfile. Neither form needs a
// database connection.
func lockCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Regenerate or check the manifest lockfile",
		Long: `Regenerate masonry.lock from the manifests on disk. The lockfile
records a checksum per manifest plus an aggregate checksum, so any
added, removed, or edited manifest is caught by --check (or by verify)
before it reaches a database.`,
		Example: `  # Regenerate the lockfile
  masonry lock

  # Check the lockfile without rewriting it
  masonry lock --check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if check {
				result, err := lockfile.Verify(cfg.MigrationsDir, cfg.LockPath)
				if err != nil {
					return err
				}
				cli.PrintLockResult(os.Stdout, result)
				if !result.Valid {
					os.Exit(1)
				}
				return nil
			}

			if err := lockfile.Write(cfg.MigrationsDir, cfg.LockPath); err != nil {
				return err
			}
			fmt.Printf("%s wrote %s\n", cli.Success("ok:"), cli.FilePath(cfg.LockPath))
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "verify the lockfile instead of rewriting it")
	return cmd
}
