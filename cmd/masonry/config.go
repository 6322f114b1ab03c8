package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/masonry-db/masonry/internal/lockfile"
	"github.com/masonry-db/masonry/internal/mserr"
	"github.com/masonry-db/masonry/pkg/masonry"
)

// Config represents the masonry.yaml configuration file.
type Config struct {
	DatabaseURL   string `yaml:"database_url"`
	MigrationsDir string `yaml:"migrations_dir"`
	LockPath      string `yaml:"lock_path"`
	Driver        string `yaml:"driver"`
}

// loadConfig merges configuration sources.
// Precedence: CLI flags > env vars > config file > defaults.
func loadConfig() (*Config, error) {
	cfg := &Config{
		MigrationsDir: "./migrations",
		LockPath:      lockfile.DefaultPath,
	}

	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, mserr.Wrap(mserr.ErrConfig, err, "cannot parse config file").
				WithFile(configFile)
		}
		// ${VAR} interpolation, so credentials stay out of the file.
		cfg.DatabaseURL = os.Expand(cfg.DatabaseURL, os.Getenv)
	}

	if env := os.Getenv("DATABASE_URL"); env != "" {
		cfg.DatabaseURL = env
	}
	if env := os.Getenv("MASONRY_MIGRATIONS_DIR"); env != "" {
		cfg.MigrationsDir = env
	}
	if env := os.Getenv("MASONRY_LOCK_PATH"); env != "" {
		cfg.LockPath = env
	}

	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if migrationsDir != "" {
		cfg.MigrationsDir = migrationsDir
	}

	return cfg, nil
}

// newClient opens a client from the merged configuration.
func newClient() (*masonry.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	opts := []masonry.Option{
		masonry.WithDatabaseURL(cfg.DatabaseURL),
		masonry.WithMigrationsDir(cfg.MigrationsDir),
		masonry.WithLockPath(cfg.LockPath),
	}
	if cfg.Driver != "" {
		opts = append(opts, masonry.WithDriver(cfg.Driver))
	}
	return masonry.New(opts...)
}
