package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/masonry-db/masonry/internal/cli"
	"github.com/masonry-db/masonry/internal/migrate"
)

// renderCmd prints the SQL a migration run would execute, without
// touching the database beyond reading the version table.
func renderCmd() *cobra.Command {
	var (
		target string
		down   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the SQL for pending migrations without executing",
		Long: `Render the SQL statements that apply (or rollback) would run,
in order, and print them to stdout. The database is only consulted to
determine which revisions are already applied; nothing is executed.`,
		Example: `  # SQL for all pending migrations
  masonry render

  # SQL up to and including revision 0003
  masonry render --target 0003

  # SQL for rolling back every applied migration after 0002
  masonry render --down --target 0002`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			dir := migrate.Up
			if down {
				dir = migrate.Down
			}
			stmts, err := client.Render(cmd.Context(), target, dir)
			if err != nil {
				return err
			}
			cli.PrintSQL(os.Stdout, stmts)
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "stop at this revision (inclusive)")
	cmd.Flags().BoolVar(&down, "down", false, "render rollback SQL instead of apply SQL")
	return cmd
}
