package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/masonry-db/masonry/internal/cli"
	"github.com/masonry-db/masonry/internal/migrate"
)

// applyCmd runs pending migrations against the configured database.
func applyCmd() *cobra.Command {
	var (
		target string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply pending migrations",
		Long: `Apply every pending migration in revision order, each in its own
transaction, and record it in the version table. Manifest checksums are
verified against the version table before anything runs.`,
		Example: `  # Apply everything pending
  masonry apply

  # Apply up to and including revision 0003
  masonry apply --target 0003

  # Show what would run without executing
  masonry apply --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := cmd.Context()
			if dryRun {
				stmts, err := client.Render(ctx, target, migrate.Up)
				if err != nil {
					return err
				}
				cli.PrintSQL(os.Stdout, stmts)
				return nil
			}

			plan, err := client.Plan(ctx, target, migrate.Up)
			if err != nil {
				return err
			}
			if plan.IsEmpty() {
				fmt.Println(cli.Dim("nothing to apply"))
				return nil
			}
			if err := client.Apply(ctx, target); err != nil {
				return err
			}
			fmt.Printf("%s applied %d migration(s)\n", cli.Success("ok:"), len(plan.Migrations))
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "stop at this revision (inclusive)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print SQL instead of executing")
	return cmd
}
