package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/masonry-db/masonry/internal/cli"
	"github.com/masonry-db/masonry/internal/mserr"
)

// verifyCmd checks the manifests on disk against the applied history
// and the lockfile.
func verifyCmd() *cobra.Command {
	var skipLock bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Detect drift between manifests and applied history",
		Long: `Recompute the Merkle root of the manifests on disk and compare it
against the SQL checksums recorded in the version table. Pending
migrations are ignored; an edited, removed, or foreign applied revision
is drift. The lockfile is verified as well unless --no-lock is given.`,
		Example: `  masonry verify

  # Skip the lockfile check
  masonry verify --no-lock`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			cmp, err := client.Verify(cmd.Context())
			if err != nil {
				return err
			}
			cli.PrintDrift(os.Stdout, cmp)

			lockOK := true
			if !skipLock {
				result, err := client.VerifyLock()
				if err != nil {
					return err
				}
				cli.PrintLockResult(os.Stdout, result)
				lockOK = result.Valid
			}

			if !cmp.Match {
				return mserr.New(mserr.ErrDrift, "applied history does not match the manifests on disk").
					WithHelp("inspect the listed revisions; restore the original manifests or repair the version table")
			}
			if !lockOK {
				return mserr.New(mserr.ErrLockfile, "lockfile is out of date").
					WithHelp("run `masonry lock` to regenerate it")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipLock, "no-lock", false, "skip the lockfile check")
	return cmd
}
