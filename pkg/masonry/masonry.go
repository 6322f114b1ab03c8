// Package masonry is the embeddable entry point for the migration tool.
// It loads YAML manifests, renders their SQL, and applies them to a
// PostgreSQL or SQLite database while tracking revisions and drift.
//
// Example:
//
//	client, err := masonry.New(
//	    masonry.WithDatabaseURL("postgres://localhost/mydb"),
//	    masonry.WithMigrationsDir("./migrations"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.Apply(ctx, ""); err != nil {
//	    log.Fatal(err)
//	}
package masonry

import (
	"context"
	"database/sql"
	"net/url"
	"strings"
	"time"

	"github.com/masonry-db/masonry/internal/lockfile"
	"github.com/masonry-db/masonry/internal/migrate"
	"github.com/masonry-db/masonry/internal/mserr"
)

// Client ties the manifest loader, the runner, and the integrity checks
// together over one database handle.
type Client struct {
	db     *sql.DB
	ownsDB bool
	config *Config
	runner *migrate.Runner
}

// New creates a Client. Either WithDatabaseURL or WithDB is required.
func New(opts ...Option) (*Client, error) {
	cfg := &Config{
		MigrationsDir: "./migrations",
		LockPath:      lockfile.DefaultPath,
		Timeout:       30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.DB != nil {
		return &Client{
			db:     cfg.DB,
			config: cfg,
			runner: migrate.NewRunner(cfg.DB, cfg.Driver),
		}, nil
	}

	if cfg.DatabaseURL == "" {
		return nil, mserr.New(mserr.ErrConfig, "no database URL configured").
			WithHelp("set database_url in masonry.yaml or pass --database-url")
	}
	if cfg.Driver == "" {
		cfg.Driver = DetectDriver(cfg.DatabaseURL)
	}

	db, err := sql.Open(cfg.Driver, dsnFor(cfg.Driver, cfg.DatabaseURL))
	if err != nil {
		return nil, mserr.Wrap(mserr.ErrSQLConnection, err, "cannot open database").
			With("url", RedactURL(cfg.DatabaseURL)).
			With("driver", cfg.Driver)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, mserr.Wrap(mserr.ErrSQLConnection, err, "cannot reach database").
			With("url", RedactURL(cfg.DatabaseURL)).
			With("driver", cfg.Driver)
	}

	return &Client{
		db:     db,
		ownsDB: true,
		config: cfg,
		runner: migrate.NewRunner(db, cfg.Driver),
	}, nil
}

// Close releases the database handle, unless it was injected.
func (c *Client) Close() error {
	if c.ownsDB && c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB exposes the underlying handle.
func (c *Client) DB() *sql.DB { return c.db }

// DetectDriver picks the driver from the URL shape: postgres schemes map
// to lib/pq, anything else is treated as a SQLite path.
func DetectDriver(databaseURL string) string {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"),
		strings.HasPrefix(databaseURL, "postgresql://"):
		return "postgres"
	default:
		return "sqlite"
	}
}

// dsnFor adapts the URL to what the driver expects. lib/pq takes the URL
// as is; the sqlite driver takes a bare path.
func dsnFor(driver, databaseURL string) string {
	if driver == "sqlite" {
		return strings.TrimPrefix(databaseURL, "sqlite://")
	}
	return databaseURL
}

// RedactURL strips credentials from a connection string for display.
func RedactURL(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil || u.User == nil {
		return databaseURL
	}
	u.User = url.User(u.User.Username())
	return u.String()
}
