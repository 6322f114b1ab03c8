package masonry

import (
	"context"

	"github.com/masonry-db/masonry/internal/drift"
	"github.com/masonry-db/masonry/internal/lockfile"
	"github.com/masonry-db/masonry/internal/manifest"
	"github.com/masonry-db/masonry/internal/migrate"
)

// Load parses every manifest in the migrations directory.
func (c *Client) Load() ([]migrate.Migration, error) {
	return manifest.LoadDir(c.config.MigrationsDir)
}

// Plan builds an execution plan against the current database state.
func (c *Client) Plan(ctx context.Context, target string, dir migrate.Direction) (*migrate.Plan, error) {
	migrations, err := c.Load()
	if err != nil {
		return nil, err
	}
	applied, err := c.appliedOrNone(ctx)
	if err != nil {
		return nil, err
	}
	return migrate.NewPlan(migrations, applied, target, dir)
}

// Render returns the SQL a plan would execute, without running it.
func (c *Client) Render(ctx context.Context, target string, dir migrate.Direction) ([]string, error) {
	plan, err := c.Plan(ctx, target, dir)
	if err != nil {
		return nil, err
	}
	return c.runner.DryRun(plan)
}

// Apply runs all pending migrations up to target (empty = all).
func (c *Client) Apply(ctx context.Context, target string) error {
	plan, err := c.Plan(ctx, target, migrate.Up)
	if err != nil {
		return err
	}
	return c.runner.Run(ctx, plan)
}

// Rollback reverts the most recent steps applied migrations. Zero or
// negative steps reverts exactly one.
func (c *Client) Rollback(ctx context.Context, steps int) error {
	plan, err := c.Plan(ctx, "", migrate.Down)
	if err != nil {
		return err
	}
	if steps <= 0 {
		steps = 1
	}
	return c.RunPlan(ctx, plan.Limit(steps))
}

// RunPlan executes a plan built earlier by Plan, so callers that inspect
// or trim a plan before running it execute exactly what they inspected.
func (c *Client) RunPlan(ctx context.Context, plan *migrate.Plan) error {
	return c.runner.Run(ctx, plan)
}

// Status reports every known revision and its applied state.
func (c *Client) Status(ctx context.Context) ([]migrate.Status, error) {
	migrations, err := c.Load()
	if err != nil {
		return nil, err
	}
	applied, err := c.appliedOrNone(ctx)
	if err != nil {
		return nil, err
	}
	return migrate.BuildStatus(migrations, applied), nil
}

// Verify compares the rendered history of the manifests on disk against
// what the version table recorded.
func (c *Client) Verify(ctx context.Context) (*drift.Comparison, error) {
	migrations, err := c.Load()
	if err != nil {
		return nil, err
	}
	applied, err := c.appliedOrNone(ctx)
	if err != nil {
		return nil, err
	}
	return drift.Check(migrations, applied)
}

// WriteLock regenerates masonry.lock from the manifests on disk.
func (c *Client) WriteLock() error {
	return lockfile.Write(c.config.MigrationsDir, c.config.LockPath)
}

// VerifyLock checks masonry.lock against the manifests on disk.
func (c *Client) VerifyLock() (*lockfile.Result, error) {
	return lockfile.Verify(c.config.MigrationsDir, c.config.LockPath)
}

// appliedOrNone reads the version table, treating a database without one
// as an empty history.
func (c *Client) appliedOrNone(ctx context.Context) ([]migrate.Applied, error) {
	versions := c.runner.Versions()
	if err := versions.EnsureTable(ctx); err != nil {
		return nil, err
	}
	return versions.GetApplied(ctx)
}
