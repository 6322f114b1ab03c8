package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/masonry-db/masonry/internal/mserr"
)

func TestLoadCreateTable(t *testing.T) {
	data := []byte(`
create_table:
  - name: users
    columns:
      - name: id
        type: integer
        primary: true
      - name: email
        type: text
        nullable: false
        unique: true
    timestamps: true
`)

	m, err := Load("0001_create_users.yaml", data)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Revision != "0001" || m.Name != "create_users" {
		t.Errorf("revision/name = %s/%s, want 0001/create_users", m.Revision, m.Name)
	}
	if m.Checksum == "" {
		t.Error("checksum is empty")
	}

	up, err := m.UpSQL()
	if err != nil {
		t.Fatalf("UpSQL() error = %v", err)
	}
	// One CREATE TABLE plus three indexes: unique email, created_at, updated_at.
	if len(up) != 4 {
		t.Fatalf("UpSQL() = %v, want 4 statements", up)
	}
	if !strings.Contains(up[0], "id integer PRIMARY KEY") {
		t.Errorf("UpSQL()[0] = %q, want id column clause", up[0])
	}
	if !strings.Contains(up[0], "email text NOT NULL") {
		t.Errorf("UpSQL()[0] = %q, want email column clause", up[0])
	}
	if up[1] != "CREATE UNIQUE INDEX users_email ON users (email)" {
		t.Errorf("UpSQL()[1] = %q", up[1])
	}

	down := m.DownSQL()
	if len(down) != 1 || down[0] != "DROP TABLE users" {
		t.Errorf("DownSQL() = %v, want [DROP TABLE users]", down)
	}
}

func TestLoadTypeAliases(t *testing.T) {
	data := []byte(`
create_table:
  - name: events
    columns:
      - name: payload
        type: json
      - name: occurred_at
        type: timestamptz
`)

	m, err := Load("0002_create_events.yaml", data)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	up, err := m.UpSQL()
	if err != nil {
		t.Fatalf("UpSQL() error = %v", err)
	}
	if !strings.Contains(up[0], "payload jsonb") {
		t.Errorf("UpSQL()[0] = %q, want jsonb column", up[0])
	}
	if !strings.Contains(up[0], "occurred_at timestamp with time zone") {
		t.Errorf("UpSQL()[0] = %q, want timestamptz column", up[0])
	}
}

func TestLoadUnknownType(t *testing.T) {
	data := []byte(`
create_table:
  - name: users
    columns:
      - name: id
        type: varchar2
`)

	_, err := Load("0001_create_users.yaml", data)
	if !mserr.Is(err, mserr.ErrUnknownType) {
		t.Fatalf("Load() error = %v, want ErrUnknownType", err)
	}
	if !strings.Contains(err.Error(), "varchar2") {
		t.Errorf("error %q does not name the offending type", err)
	}
}

func TestLoadSeed(t *testing.T) {
	data := []byte(`
seed:
  - table: roles
    columns: [id, label]
    rows:
      - [1, admin]
      - [2, member]
    on_conflict: (id)
    do: nothing
`)

	m, err := Load("0003_seed_roles.yaml", data)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(m.Seeds) != 1 {
		t.Fatalf("Seeds count = %d, want 1", len(m.Seeds))
	}
	sql, err := m.Seeds[0].Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "INSERT INTO roles (id, label) VALUES (1, 'admin'),\n(2, 'member') " +
		"ON CONFLICT (id) DO NOTHING"
	if sql != want {
		t.Errorf("Render() = %q, want %q", sql, want)
	}
}

func TestLoadSeedBareConflict(t *testing.T) {
	data := []byte(`
seed:
  - table: roles
    columns: [id]
    rows:
      - [1]
    on_conflict: true
`)

	m, err := Load("0003_seed_roles.yaml", data)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	sql, err := m.Seeds[0].Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.HasSuffix(sql, "ON CONFLICT DO NOTHING") {
		t.Errorf("Render() = %q, want trailing ON CONFLICT DO NOTHING", sql)
	}
}

func TestLoadSeedStructuredConflictUpdate(t *testing.T) {
	data := []byte(`
seed:
  - table: users
    columns: [email, name]
    rows:
      - [a@example.com, Ada]
    on_conflict:
      target: [email]
      where:
        - deleted_at IS NULL
    do: update
    update:
      - column: name
        expr: EXCLUDED.name
`)

	m, err := Load("0004_seed_users.yaml", data)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	sql, err := m.Seeds[0].Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "ON CONFLICT (email) WHERE deleted_at IS NULL DO UPDATE SET name = EXCLUDED.name"
	if !strings.Contains(sql, want) {
		t.Errorf("Render() = %q, want substring %q", sql, want)
	}
}

func TestLoadSeedActionWithoutConflict(t *testing.T) {
	data := []byte(`
seed:
  - table: roles
    columns: [id]
    rows:
      - [1]
    do: nothing
`)

	_, err := Load("0003_seed_roles.yaml", data)
	if !mserr.Is(err, mserr.ErrManifestInvalid) {
		t.Fatalf("Load() error = %v, want ErrManifestInvalid", err)
	}
}

func TestLoadSeedDisabledConflictRejectsAction(t *testing.T) {
	data := []byte(`
seed:
  - table: roles
    columns: [id]
    rows:
      - [1]
    on_conflict: false
    do: update
    update:
      - column: id
        expr: EXCLUDED.id
`)

	_, err := Load("0003_seed_roles.yaml", data)
	if !mserr.Is(err, mserr.ErrManifestInvalid) {
		t.Fatalf("Load() error = %v, want ErrManifestInvalid", err)
	}
}

func TestLoadSeedDisabledConflict(t *testing.T) {
	data := []byte(`
seed:
  - table: roles
    columns: [id]
    rows:
      - [1]
    on_conflict: false
`)

	m, err := Load("0003_seed_roles.yaml", data)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	sql, err := m.Seeds[0].Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(sql, "ON CONFLICT") {
		t.Errorf("Render() = %q, want no conflict clause", sql)
	}
}

func TestLoadSeedEmptyRowWithColumns(t *testing.T) {
	data := []byte(`
seed:
  - table: roles
    columns: [id]
    rows:
      - []
`)

	_, err := Load("0003_seed_roles.yaml", data)
	if !mserr.Is(err, mserr.ErrManifestInvalid) {
		t.Fatalf("Load() error = %v, want ErrManifestInvalid", err)
	}
}

func TestLoadRawSQL(t *testing.T) {
	data := []byte(`
up:
  - CREATE EXTENSION IF NOT EXISTS pgcrypto
down:
  - DROP EXTENSION pgcrypto
`)

	m, err := Load("0005_pgcrypto.yaml", data)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	up, _ := m.UpSQL()
	if len(up) != 1 || up[0] != "CREATE EXTENSION IF NOT EXISTS pgcrypto" {
		t.Errorf("UpSQL() = %v", up)
	}
	if down := m.DownSQL(); len(down) != 1 || down[0] != "DROP EXTENSION pgcrypto" {
		t.Errorf("DownSQL() = %v", down)
	}
}

func TestLoadRevisionRequired(t *testing.T) {
	_, err := Load("notes.yaml", []byte("name: x"))
	if !mserr.Is(err, mserr.ErrManifestInvalid) {
		t.Fatalf("Load() error = %v, want ErrManifestInvalid", err)
	}
}

func TestLoadExplicitRevisionWins(t *testing.T) {
	m, err := Load("notes.yaml", []byte("revision: \"0042\"\nname: custom"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Revision != "0042" || m.Name != "custom" {
		t.Errorf("revision/name = %s/%s, want 0042/custom", m.Revision, m.Name)
	}
}

func TestLoadDirSortsByFileName(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("0002_second.yaml", "up: [\"SELECT 2\"]")
	write("0001_first.yaml", "up: [\"SELECT 1\"]")
	write("README.md", "not a manifest")

	migrations, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("LoadDir() returned %d migrations, want 2", len(migrations))
	}
	if migrations[0].Revision != "0001" || migrations[1].Revision != "0002" {
		t.Errorf("order = [%s %s], want [0001 0002]",
			migrations[0].Revision, migrations[1].Revision)
	}
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	if !mserr.Is(err, mserr.ErrManifestNotFound) {
		t.Fatalf("LoadDir() error = %v, want ErrManifestNotFound", err)
	}
}
