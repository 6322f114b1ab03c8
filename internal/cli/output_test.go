package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/masonry-db/masonry/internal/drift"
	"github.com/masonry-db/masonry/internal/lockfile"
	"github.com/masonry-db/masonry/internal/migrate"
	"github.com/masonry-db/masonry/internal/mserr"
)

func plainMode(t *testing.T) {
	t.Helper()
	prev := Default()
	SetDefault(&Config{Mode: ModePlain})
	t.Cleanup(func() { SetDefault(prev) })
}

func TestPrintSQL(t *testing.T) {
	plainMode(t)
	var buf bytes.Buffer

	PrintSQL(&buf, []string{"CREATE TABLE users (id integer)", "DROP TABLE users"})
	want := "CREATE TABLE users (id integer);\n\nDROP TABLE users;\n"
	if buf.String() != want {
		t.Errorf("PrintSQL() = %q, want %q", buf.String(), want)
	}
}

func TestPrintStatus(t *testing.T) {
	plainMode(t)
	var buf bytes.Buffer

	PrintStatus(&buf, []migrate.Status{
		{Revision: "0001", Name: "create_users", Kind: migrate.StatusApplied, AppliedAt: "2026-03-01 12:00:00"},
		{Revision: "0002", Name: "create_posts", Kind: migrate.StatusPending},
	})
	out := buf.String()
	for _, want := range []string{"REVISION", "0001", "applied", "0002", "pending"} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintStatus() output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintStatusEmpty(t *testing.T) {
	plainMode(t)
	var buf bytes.Buffer

	PrintStatus(&buf, nil)
	if !strings.Contains(buf.String(), "no migrations") {
		t.Errorf("PrintStatus(nil) = %q", buf.String())
	}
}

func TestPrintDrift(t *testing.T) {
	plainMode(t)
	var buf bytes.Buffer

	PrintDrift(&buf, &drift.Comparison{Match: true, ExpectedRoot: "abcdef1234567890"})
	if !strings.Contains(buf.String(), "ok:") {
		t.Errorf("match output = %q", buf.String())
	}

	buf.Reset()
	PrintDrift(&buf, &drift.Comparison{
		Match:    false,
		Modified: []string{"0002"},
		Extra:    []string{"0009"},
	})
	out := buf.String()
	if !strings.Contains(out, "drift:") || !strings.Contains(out, "0002") || !strings.Contains(out, "0009") {
		t.Errorf("mismatch output = %q", out)
	}
}

func TestPrintLockResult(t *testing.T) {
	plainMode(t)
	var buf bytes.Buffer

	PrintLockResult(&buf, &lockfile.Result{LockFileExists: true, Valid: true, VerifiedFiles: []string{"a", "b"}})
	if !strings.Contains(buf.String(), "2 manifests verified") {
		t.Errorf("valid output = %q", buf.String())
	}

	buf.Reset()
	PrintLockResult(&buf, &lockfile.Result{
		LockFileExists: true,
		ModifiedFiles:  []string{"0001_users.yaml"},
	})
	if !strings.Contains(buf.String(), "modified: 0001_users.yaml") {
		t.Errorf("modified output = %q", buf.String())
	}
}

func TestPrintError(t *testing.T) {
	plainMode(t)
	var buf bytes.Buffer

	err := mserr.New(mserr.ErrUnknownType, "unknown column type").
		WithFile("0001_users.yaml").
		With("type", "varchar2").
		WithHelp("known types: integer, text")
	PrintError(&buf, err)

	out := buf.String()
	for _, want := range []string{"error[E2003]:", "unknown column type", "varchar2", "help:", "known types"} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintError() output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintErrorPlain(t *testing.T) {
	plainMode(t)
	var buf bytes.Buffer

	PrintError(&buf, errWrap{})
	if !strings.Contains(buf.String(), "error: boom") {
		t.Errorf("PrintError(plain) = %q", buf.String())
	}
}

type errWrap struct{}

func (errWrap) Error() string { return "boom" }
