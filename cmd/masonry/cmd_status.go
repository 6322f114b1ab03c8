package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/masonry-db/masonry/internal/cli"
)

// statusCmd shows applied and pending revisions.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Long: `List every known revision with its state: pending, applied,
modified (the manifest changed after it was applied), or missing (the
version table records a revision with no manifest on disk).`,
		Example: `  masonry status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			statuses, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}
			cli.PrintStatus(os.Stdout, statuses)
			return nil
		},
	}
}
