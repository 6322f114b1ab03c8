package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/masonry-db/masonry/internal/drift"
	"github.com/masonry-db/masonry/internal/lockfile"
	"github.com/masonry-db/masonry/internal/migrate"
	"github.com/masonry-db/masonry/internal/mserr"
)

// PrintSQL writes rendered statements, each terminated with a semicolon
// and separated by a blank line, ready to pipe into psql.
func PrintSQL(w io.Writer, stmts []string) {
	for i, stmt := range stmts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s;\n", stmt)
	}
}

// PrintStatus writes one line per revision with its state.
func PrintStatus(w io.Writer, statuses []migrate.Status) {
	if len(statuses) == 0 {
		fmt.Fprintln(w, "no migrations found")
		return
	}

	fmt.Fprintln(w, Header(fmt.Sprintf("%-12s %-24s %-10s %s", "REVISION", "NAME", "STATUS", "APPLIED AT")))
	for _, s := range statuses {
		kind := string(s.Kind)
		switch s.Kind {
		case migrate.StatusApplied:
			kind = Success(kind)
		case migrate.StatusPending:
			kind = Info(kind)
		case migrate.StatusModified, migrate.StatusMissing:
			kind = Error(kind)
		}
		fmt.Fprintf(w, "%-12s %-24s %-10s %s\n", s.Revision, s.Name, kind, Dim(s.AppliedAt))
	}
}

// PrintDrift reports a history comparison. A match is one line; a
// mismatch lists the diverging revisions.
func PrintDrift(w io.Writer, cmp *drift.Comparison) {
	if cmp.Match {
		fmt.Fprintf(w, "%s history matches the database (root %s)\n",
			Success("ok:"), Dim(shortHash(cmp.ExpectedRoot)))
		return
	}

	fmt.Fprintf(w, "%s migration history has drifted\n", Error("drift:"))
	fmt.Fprintf(w, "  expected root %s\n", Dim(shortHash(cmp.ExpectedRoot)))
	fmt.Fprintf(w, "  actual root   %s\n", Dim(shortHash(cmp.ActualRoot)))
	for _, rev := range cmp.Modified {
		fmt.Fprintf(w, "  %s %s was edited after being applied\n", Warning("modified:"), rev)
	}
	for _, rev := range cmp.Missing {
		fmt.Fprintf(w, "  %s %s applied SQL not reproducible from disk\n", Warning("missing:"), rev)
	}
	for _, rev := range cmp.Extra {
		fmt.Fprintf(w, "  %s %s applied but no manifest renders it\n", Warning("extra:"), rev)
	}
}

// PrintLockResult reports lock verification per file.
func PrintLockResult(w io.Writer, result *lockfile.Result) {
	if !result.LockFileExists {
		fmt.Fprintf(w, "%s lock file not found\n", Error("error:"))
		return
	}
	if result.Valid {
		fmt.Fprintf(w, "%s %d manifests verified\n", Success("ok:"), len(result.VerifiedFiles))
		return
	}
	for _, f := range result.ModifiedFiles {
		fmt.Fprintf(w, "%s %s\n", Error("modified:"), FilePath(f))
	}
	for _, f := range result.NewFiles {
		fmt.Fprintf(w, "%s %s\n", Warning("unlocked:"), FilePath(f))
	}
	for _, f := range result.RemovedFiles {
		fmt.Fprintf(w, "%s %s\n", Error("deleted:"), FilePath(f))
	}
}

// PrintError renders an error with its code, context, and help lines in
// the rustc style the rest of the output follows.
func PrintError(w io.Writer, err error) {
	var e *mserr.Error
	if !errors.As(err, &e) {
		fmt.Fprintf(w, "%s %v\n", Error("error:"), err)
		return
	}

	fmt.Fprintf(w, "%s%s %s\n",
		Error("error"), Code("["+string(e.GetCode())+"]:"), e.GetMessage())

	ctx := e.GetContext()
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		if k == "helps" { // rendered as help: lines below
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		val := fmt.Sprintf("%v", ctx[k])
		if strings.Contains(val, "\n") {
			fmt.Fprintf(w, "  %s %s:\n", Dim("-->"), k)
			for _, line := range strings.Split(val, "\n") {
				fmt.Fprintf(w, "      %s\n", line)
			}
			continue
		}
		fmt.Fprintf(w, "  %s %s: %s\n", Dim("-->"), k, val)
	}

	for _, h := range e.Helps() {
		fmt.Fprintf(w, "%s %s\n", Help("help:"), h)
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
