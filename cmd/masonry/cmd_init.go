package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/masonry-db/masonry/internal/cli"
	"github.com/masonry-db/masonry/internal/mserr"
)

const configTemplate = `# Masonry configuration.
# database_url supports ${VAR} interpolation, e.g. ${DATABASE_URL}.
database_url: ${DATABASE_URL}
migrations_dir: ./migrations
lock_path: masonry.lock
`

const exampleManifest = `# Example migration manifest. File names follow NNNN_name.yaml; the
# numeric prefix is the revision and ordering key.
create_table:
  - name: users
    columns:
      - name: id
        type: id
        primary: true
      - name: email
        type: text
        nullable: false
        unique: true
    timestamps: true

seed:
  - table: users
    columns: [email]
    rows:
      - [admin@example.com]
    on_conflict: (email)
    do: nothing
`

// initCmd scaffolds a new project.
func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize project structure (migrations/, masonry.yaml)",
		Long: `Create the migrations directory, a starter manifest, and a
masonry.yaml config file in the current directory. Existing files are
left untouched.`,
		Example: `  # Scaffold in the current directory
  masonry init`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.MigrationsDir, 0o755); err != nil {
				return mserr.Wrap(mserr.ErrConfig, err, "cannot create migrations directory").
					WithFile(cfg.MigrationsDir)
			}

			created := []string{cfg.MigrationsDir + string(os.PathSeparator)}
			manifestPath := filepath.Join(cfg.MigrationsDir, "0001_create_users.yaml")
			if wrote, err := writeIfAbsent(manifestPath, exampleManifest); err != nil {
				return err
			} else if wrote {
				created = append(created, manifestPath)
			}
			if wrote, err := writeIfAbsent(configFile, configTemplate); err != nil {
				return err
			} else if wrote {
				created = append(created, configFile)
			}

			for _, path := range created {
				fmt.Printf("%s %s\n", cli.Success("created:"), cli.FilePath(path))
			}
			fmt.Println(cli.Dim("next: set DATABASE_URL, then run `masonry apply`"))
			return nil
		},
	}
}

// writeIfAbsent writes content only when the file does not exist yet.
func writeIfAbsent(path, content string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, mserr.Wrap(mserr.ErrConfig, err, "cannot write file").WithFile(path)
	}
	return true, nil
}
