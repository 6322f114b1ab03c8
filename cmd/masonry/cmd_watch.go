package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/masonry-db/masonry/internal/cli"
	"github.com/masonry-db/masonry/internal/manifest"
	"github.com/masonry-db/masonry/internal/mserr"
)

// watchCmd re-renders the manifests whenever one changes. It never
// connects to a database; the point is a fast edit loop on manifests.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-render manifests on change",
		Long: `Watch the migrations directory and re-render every manifest to SQL
whenever a file changes, printing the result or the parse error. Useful
while writing manifests; nothing is executed.`,
		Example: `  masonry watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return mserr.Wrap(mserr.ErrConfig, err, "cannot start file watcher")
			}
			defer watcher.Close()
			if err := watcher.Add(cfg.MigrationsDir); err != nil {
				return mserr.Wrap(mserr.ErrConfig, err, "cannot watch migrations directory").
					WithFile(cfg.MigrationsDir)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Printf("%s %s\n", cli.Info("watching:"), cli.FilePath(cfg.MigrationsDir))
			renderAll(cfg.MigrationsDir)

			// Editors fire several events per save; coalesce them.
			var debounce *time.Timer
			pending := make(chan struct{}, 1)
			for {
				select {
				case <-ctx.Done():
					fmt.Println(cli.Dim("stopped"))
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
						continue
					}
					if debounce != nil {
						debounce.Stop()
					}
					debounce = time.AfterFunc(200*time.Millisecond, func() {
						select {
						case pending <- struct{}{}:
						default:
						}
					})
				case <-pending:
					renderAll(cfg.MigrationsDir)
				case watchErr, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintf(os.Stderr, "%s %v\n", cli.Warning("watch:"), watchErr)
				}
			}
		},
	}
}

// renderAll parses every manifest and prints the combined up SQL, or
// the first parse error.
func renderAll(dir string) {
	fmt.Printf("%s %s\n", cli.Dim("rendered at"), time.Now().Format("15:04:05"))
	migrations, err := manifest.LoadDir(dir)
	if err != nil {
		cli.PrintError(os.Stderr, err)
		return
	}
	var stmts []string
	for _, m := range migrations {
		up, err := m.UpSQL()
		if err != nil {
			cli.PrintError(os.Stderr, err)
			return
		}
		stmts = append(stmts, up...)
	}
	cli.PrintSQL(os.Stdout, stmts)
}
