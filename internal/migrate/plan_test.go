package migrate

import (
	"testing"
	"time"

	"github.com/masonry-db/masonry/internal/ddl"
	"github.com/masonry-db/masonry/internal/mserr"
)

func fixtureMigrations() []Migration {
	return []Migration{
		{Revision: "0001", Name: "create_users", Checksum: "aaa"},
		{Revision: "0002", Name: "create_posts", Checksum: "bbb"},
		{Revision: "0003", Name: "create_tags", Checksum: "ccc"},
	}
}

func revisions(p *Plan) []string {
	out := make([]string, len(p.Migrations))
	for i, m := range p.Migrations {
		out[i] = m.Revision
	}
	return out
}

func TestPlanUpSelectsPending(t *testing.T) {
	applied := []Applied{{Revision: "0001", Checksum: "aaa"}}

	plan, err := NewPlan(fixtureMigrations(), applied, "", Up)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}
	got := revisions(plan)
	if len(got) != 2 || got[0] != "0002" || got[1] != "0003" {
		t.Errorf("plan revisions = %v, want [0002 0003]", got)
	}
}

func TestPlanUpStopsAtTarget(t *testing.T) {
	plan, err := NewPlan(fixtureMigrations(), nil, "0002", Up)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}
	got := revisions(plan)
	if len(got) != 2 || got[1] != "0002" {
		t.Errorf("plan revisions = %v, want [0001 0002]", got)
	}
}

func TestPlanUpUnknownTarget(t *testing.T) {
	_, err := NewPlan(fixtureMigrations(), nil, "9999", Up)
	if !mserr.Is(err, mserr.ErrMigrationNotFound) {
		t.Fatalf("NewPlan() error = %v, want ErrMigrationNotFound", err)
	}
}

func TestPlanUpChecksumMismatch(t *testing.T) {
	applied := []Applied{{Revision: "0001", Checksum: "tampered"}}

	_, err := NewPlan(fixtureMigrations(), applied, "", Up)
	if !mserr.Is(err, mserr.ErrMigrationChecksum) {
		t.Fatalf("NewPlan() error = %v, want ErrMigrationChecksum", err)
	}
}

func TestPlanDownReverseOrder(t *testing.T) {
	applied := []Applied{
		{Revision: "0001", Checksum: "aaa"},
		{Revision: "0002", Checksum: "bbb"},
		{Revision: "0003", Checksum: "ccc"},
	}

	plan, err := NewPlan(fixtureMigrations(), applied, "", Down)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}
	got := revisions(plan)
	if len(got) != 3 || got[0] != "0003" || got[2] != "0001" {
		t.Errorf("plan revisions = %v, want [0003 0002 0001]", got)
	}
}

func TestPlanDownTargetStaysApplied(t *testing.T) {
	applied := []Applied{
		{Revision: "0001"},
		{Revision: "0002"},
		{Revision: "0003"},
	}

	plan, err := NewPlan(fixtureMigrations(), applied, "0001", Down)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}
	got := revisions(plan)
	if len(got) != 2 || got[0] != "0003" || got[1] != "0002" {
		t.Errorf("plan revisions = %v, want [0003 0002]", got)
	}
}

func TestPlanDownMissingFile(t *testing.T) {
	applied := []Applied{{Revision: "0042"}}

	_, err := NewPlan(fixtureMigrations(), applied, "", Down)
	if !mserr.Is(err, mserr.ErrMigrationNotFound) {
		t.Fatalf("NewPlan() error = %v, want ErrMigrationNotFound", err)
	}
}

func TestPlanLimit(t *testing.T) {
	plan, err := NewPlan(fixtureMigrations(), nil, "", Up)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}
	plan.Limit(1)
	if got := revisions(plan); len(got) != 1 || got[0] != "0001" {
		t.Errorf("limited plan revisions = %v, want [0001]", got)
	}
}

func TestBuildStatus(t *testing.T) {
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	applied := []Applied{
		{Revision: "0001", Checksum: "aaa", AppliedAt: when},
		{Revision: "0002", Checksum: "stale", AppliedAt: when},
		{Revision: "0099", Checksum: "zzz", AppliedAt: when},
	}

	statuses := BuildStatus(fixtureMigrations(), applied)
	want := map[string]StatusKind{
		"0001": StatusApplied,
		"0002": StatusModified,
		"0003": StatusPending,
		"0099": StatusMissing,
	}
	if len(statuses) != len(want) {
		t.Fatalf("BuildStatus() returned %d entries, want %d", len(statuses), len(want))
	}
	for _, s := range statuses {
		if s.Kind != want[s.Revision] {
			t.Errorf("revision %s kind = %s, want %s", s.Revision, s.Kind, want[s.Revision])
		}
	}
}

func TestMigrationUpSQLOrder(t *testing.T) {
	users := ddl.CreateTable("users")
	users.AddColumn("id", "integer", ddl.Primary())

	m := &Migration{
		Revision: "0001",
		Ops: []ddl.Operation{
			users,
			&ddl.Raw{UpSQL: []string{"raw up"}, DownSQL: []string{"raw down"}},
		},
	}

	up, err := m.UpSQL()
	if err != nil {
		t.Fatalf("UpSQL() error = %v", err)
	}
	if len(up) != 2 || up[1] != "raw up" {
		t.Errorf("UpSQL() = %v, want table create then raw", up)
	}

	down := m.DownSQL()
	if len(down) != 2 || down[0] != "raw down" || down[1] != "DROP TABLE users" {
		t.Errorf("DownSQL() = %v, want reversed op order", down)
	}
}

func TestSQLChecksumBoundarySensitive(t *testing.T) {
	a := SQLChecksum([]string{"ab", "c"})
	b := SQLChecksum([]string{"a", "bc"})
	if a == b {
		t.Error("SQLChecksum collides across statement boundaries")
	}
	if a != SQLChecksum([]string{"ab", "c"}) {
		t.Error("SQLChecksum not deterministic")
	}
}
