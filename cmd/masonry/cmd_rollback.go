package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/masonry-db/masonry/internal/cli"
	"github.com/masonry-db/masonry/internal/migrate"
	"github.com/masonry-db/masonry/internal/mserr"
)

// rollbackCmd reverts the most recently applied migrations.
func rollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback [steps]",
		Short: "Revert the most recently applied migration(s)",
		Long: `Revert applied migrations in reverse order, each in its own
transaction, removing them from the version table. With no argument a
single migration is reverted.`,
		Example: `  # Revert the latest migration
  masonry rollback

  # Revert the last three
  masonry rollback 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return mserr.New(mserr.ErrConfig, "steps must be a positive integer").
						With("steps", args[0])
				}
				steps = n
			}

			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := cmd.Context()
			plan, err := client.Plan(ctx, "", migrate.Down)
			if err != nil {
				return err
			}
			plan.Limit(steps)
			if plan.IsEmpty() {
				fmt.Println(cli.Dim("nothing to roll back"))
				return nil
			}
			if err := client.RunPlan(ctx, plan); err != nil {
				return err
			}
			fmt.Printf("%s rolled back %d migration(s)\n", cli.Success("ok:"), len(plan.Migrations))
			return nil
		},
	}
}
