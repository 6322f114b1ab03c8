package migrate

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/masonry-db/masonry/internal/mserr"
)

// Runner executes migration plans against a database. Each migration runs
// inside its own transaction; a failing statement rolls back that
// migration and aborts the plan, leaving earlier migrations applied.
type Runner struct {
	db       *sql.DB
	versions *Versions
}

// NewRunner wires a runner to a database handle. Returns nil if db is
// nil. driver selects the placeholder style for version bookkeeping.
func NewRunner(db *sql.DB, driver string) *Runner {
	if db == nil {
		return nil
	}
	return &Runner{db: db, versions: NewVersions(db, driver)}
}

// Versions exposes the version tracker for direct queries.
func (r *Runner) Versions() *Versions { return r.versions }

// Run executes all migrations in the plan, in order.
func (r *Runner) Run(ctx context.Context, plan *Plan) error {
	if plan.IsEmpty() {
		return nil
	}
	if err := r.versions.EnsureTable(ctx); err != nil {
		return err
	}
	for _, m := range plan.Migrations {
		if err := r.runOne(ctx, m, plan.Direction); err != nil {
			return mserr.Wrap(mserr.ErrMigrationFailed, err, "migration failed").
				With("revision", m.Revision).
				With("name", m.Name).
				With("direction", plan.Direction.String())
		}
	}
	return nil
}

// DryRun returns the SQL a plan would execute, without touching the
// database.
func (r *Runner) DryRun(plan *Plan) ([]string, error) {
	if plan.IsEmpty() {
		return nil, nil
	}
	var all []string
	for _, m := range plan.Migrations {
		stmts, err := statementsFor(&m, plan.Direction)
		if err != nil {
			return nil, err
		}
		all = append(all, stmts...)
	}
	return all, nil
}

func statementsFor(m *Migration, dir Direction) ([]string, error) {
	if dir == Down {
		return m.DownSQL(), nil
	}
	return m.UpSQL()
}

func (r *Runner) runOne(ctx context.Context, m Migration, dir Direction) error {
	start := time.Now()

	stmts, err := statementsFor(&m, dir)
	if err != nil {
		return err
	}

	slog.Info("executing migration",
		"revision", m.Revision,
		"name", m.Name,
		"direction", dir.String(),
		"statements", len(stmts))

	if err := r.execInTx(ctx, stmts); err != nil {
		return err
	}

	execTime := time.Since(start)
	switch dir {
	case Down:
		return r.versions.RecordRollback(ctx, m.Revision)
	default:
		upSQL, err := m.UpSQL()
		if err != nil {
			return err
		}
		return r.versions.RecordApplied(ctx, Applied{
			Revision:    m.Revision,
			Name:        m.Name,
			Checksum:    m.Checksum,
			SQLChecksum: SQLChecksum(upSQL),
			ExecTimeMs:  int(execTime.Milliseconds()),
		})
	}
}

// execInTx runs statements one at a time inside a single transaction.
func (r *Runner) execInTx(ctx context.Context, stmts []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mserr.Wrap(mserr.ErrSQLTransaction, err, "failed to begin transaction")
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Warn("rollback failed", "error", rbErr)
			}
			return mserr.Wrap(mserr.ErrSQLExecution, err, "statement failed").
				WithSQL(stmt)
		}
	}

	if err := tx.Commit(); err != nil {
		return mserr.Wrap(mserr.ErrSQLTransaction, err, "failed to commit transaction")
	}
	return nil
}
