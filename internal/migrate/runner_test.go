package migrate

import (
	"context"
	"testing"

	"github.com/masonry-db/masonry/internal/ddl"
	"github.com/masonry-db/masonry/internal/dml"
	"github.com/masonry-db/masonry/internal/mserr"
	"github.com/masonry-db/masonry/internal/testutil"
)

// sqliteMigration builds a migration whose SQL is portable enough for the
// in-memory test database: plain types, literal defaults.
func sqliteMigration(revision, table string) Migration {
	def := ddl.CreateTable(table)
	def.AddColumn("id", "integer", ddl.Primary())
	def.AddColumn("email", "text", ddl.NotNull(), ddl.Indexed())

	return Migration{
		Revision: revision,
		Name:     "create_" + table,
		Checksum: "cs-" + revision,
		Ops:      []ddl.Operation{def},
	}
}

func TestRunnerApplyAndRecord(t *testing.T) {
	db := testutil.SetupSQLite(t)
	r := NewRunner(db, "sqlite")
	ctx := context.Background()

	m := sqliteMigration("0001", "users")
	m.Seeds = []*dml.InsertStatement{
		dml.Insert("users").Columns("id", "email").
			Row(1, "a@example.com").
			Row(2, "b@example.com"),
	}

	plan := &Plan{Direction: Up, Migrations: []Migration{m}}
	if err := r.Run(ctx, plan); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	testutil.AssertTableExists(t, db, "users")
	testutil.AssertIndexExists(t, db, "users", "users_email")
	testutil.AssertRowCount(t, db, "users", 2)

	applied, err := r.Versions().GetApplied(ctx)
	if err != nil {
		t.Fatalf("GetApplied() error = %v", err)
	}
	if len(applied) != 1 || applied[0].Revision != "0001" {
		t.Fatalf("GetApplied() = %+v, want one 0001 record", applied)
	}
	if applied[0].Checksum != "cs-0001" {
		t.Errorf("recorded checksum = %q, want cs-0001", applied[0].Checksum)
	}
	if applied[0].SQLChecksum == "" {
		t.Error("recorded SQL checksum is empty")
	}
}

func TestRunnerRollback(t *testing.T) {
	db := testutil.SetupSQLite(t)
	r := NewRunner(db, "sqlite")
	ctx := context.Background()

	m := sqliteMigration("0001", "users")
	up := &Plan{Direction: Up, Migrations: []Migration{m}}
	if err := r.Run(ctx, up); err != nil {
		t.Fatalf("Run(up) error = %v", err)
	}

	down := &Plan{Direction: Down, Migrations: []Migration{m}}
	if err := r.Run(ctx, down); err != nil {
		t.Fatalf("Run(down) error = %v", err)
	}

	testutil.AssertTableNotExists(t, db, "users")
	applied, err := r.Versions().GetApplied(ctx)
	if err != nil {
		t.Fatalf("GetApplied() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("GetApplied() = %+v, want empty after rollback", applied)
	}
}

func TestRunnerFailureRollsBackMigration(t *testing.T) {
	db := testutil.SetupSQLite(t)
	r := NewRunner(db, "sqlite")
	ctx := context.Background()

	orphans := ddl.CreateTable("orphans")
	orphans.AddColumn("id", "integer", ddl.Primary())
	m := Migration{
		Revision: "0001",
		Name:     "broken",
		Ops: []ddl.Operation{
			orphans,
			&ddl.Raw{UpSQL: []string{"THIS IS NOT SQL"}},
		},
	}

	err := r.Run(ctx, &Plan{Direction: Up, Migrations: []Migration{m}})
	if !mserr.Is(err, mserr.ErrMigrationFailed) {
		t.Fatalf("Run() error = %v, want ErrMigrationFailed", err)
	}

	// The failing statement aborts the whole migration transaction.
	testutil.AssertTableNotExists(t, db, "orphans")
	applied, err := r.Versions().GetApplied(ctx)
	if err != nil {
		t.Fatalf("GetApplied() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("GetApplied() = %+v, want empty after failure", applied)
	}
}

func TestRunnerDryRun(t *testing.T) {
	db := testutil.SetupSQLite(t)
	r := NewRunner(db, "sqlite")

	m := sqliteMigration("0001", "users")
	plan := &Plan{Direction: Up, Migrations: []Migration{m}}

	stmts, err := r.DryRun(plan)
	if err != nil {
		t.Fatalf("DryRun() error = %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("DryRun() returned %d statements, want 2", len(stmts))
	}

	// Nothing was executed.
	testutil.AssertTableNotExists(t, db, "users")
}

func TestRunnerSkipsEmptyPlan(t *testing.T) {
	db := testutil.SetupSQLite(t)
	r := NewRunner(db, "sqlite")

	if err := r.Run(context.Background(), &Plan{Direction: Up}); err != nil {
		t.Fatalf("Run(empty) error = %v", err)
	}
	// Even the version table is untouched for an empty plan.
	testutil.AssertTableNotExists(t, db, VersionTable)
}

func TestVersionsIsApplied(t *testing.T) {
	db := testutil.SetupSQLite(t)
	v := NewVersions(db, "sqlite")
	ctx := context.Background()

	if err := v.EnsureTable(ctx); err != nil {
		t.Fatalf("EnsureTable() error = %v", err)
	}
	ok, err := v.IsApplied(ctx, "0001")
	if err != nil || ok {
		t.Fatalf("IsApplied() = (%v, %v), want (false, nil)", ok, err)
	}

	if err := v.RecordApplied(ctx, Applied{Revision: "0001", Name: "x"}); err != nil {
		t.Fatalf("RecordApplied() error = %v", err)
	}
	ok, err = v.IsApplied(ctx, "0001")
	if err != nil || !ok {
		t.Fatalf("IsApplied() = (%v, %v), want (true, nil)", ok, err)
	}

	if err := v.RecordRollback(ctx, "0001"); err != nil {
		t.Fatalf("RecordRollback() error = %v", err)
	}
	if err := v.RecordRollback(ctx, "0001"); !mserr.Is(err, mserr.ErrMigrationNotFound) {
		t.Fatalf("second RecordRollback() error = %v, want ErrMigrationNotFound", err)
	}
}
