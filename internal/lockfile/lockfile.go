// Package lockfile reads, writes, and verifies masonry.lock files. The
// lock pins a SHA-256 checksum per manifest plus an aggregate over all of
// them, so drift in the migrations directory is caught before apply.
package lockfile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/masonry-db/masonry/internal/mserr"
)

// DefaultPath is where the lock lives, next to masonry.yaml, following
// the package-manager convention.
const DefaultPath = "masonry.lock"

// Entry pins one manifest file.
type Entry struct {
	Filename string
	Checksum string
}

// File is a parsed lock: the aggregate checksum over all entries, then
// one "<checksum> <filename>" line per manifest.
type File struct {
	Aggregate string
	Entries   []Entry
}

// Read parses a lock file. A missing file returns (nil, nil).
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, mserr.Wrap(mserr.ErrLockfile, err, "cannot read lock file").WithFile(path)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	lf := &File{Aggregate: strings.TrimSpace(lines[0])}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		checksum, filename, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		lf.Entries = append(lf.Entries, Entry{
			Filename: strings.TrimSpace(filename),
			Checksum: checksum,
		})
	}
	return lf, nil
}

// Write regenerates the lock from the manifests on disk.
func Write(migrationsDir, lockPath string) error {
	entries, err := computeEntries(migrationsDir)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(computeAggregate(entries) + "\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s %s\n", e.Checksum, e.Filename))
	}

	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return mserr.Wrap(mserr.ErrLockfile, err, "cannot create lock file directory").
			WithFile(lockPath)
	}
	if err := os.WriteFile(lockPath, []byte(sb.String()), 0o644); err != nil {
		return mserr.Wrap(mserr.ErrLockfile, err, "cannot write lock file").WithFile(lockPath)
	}
	return nil
}

// Result is a detailed verification outcome, suited for display.
type Result struct {
	Valid          bool
	LockFileExists bool
	AggregateMatch bool
	NewFiles       []string // on disk, not in lock
	RemovedFiles   []string // in lock, not on disk
	ModifiedFiles  []string // checksum mismatch
	VerifiedFiles  []string
}

// Verify compares the lock against the migrations directory and returns
// a structured result. The error covers I/O problems only; integrity
// findings land in the result.
func Verify(migrationsDir, lockPath string) (*Result, error) {
	result := &Result{Valid: true, LockFileExists: true, AggregateMatch: true}

	lf, err := Read(lockPath)
	if err != nil {
		return nil, err
	}
	if lf == nil {
		result.LockFileExists = false
		result.Valid = false
		return result, nil
	}

	entries, err := computeEntries(migrationsDir)
	if err != nil {
		return nil, err
	}

	if computeAggregate(entries) != lf.Aggregate {
		result.AggregateMatch = false
		result.Valid = false
	}

	locked := make(map[string]string, len(lf.Entries))
	for _, e := range lf.Entries {
		locked[e.Filename] = e.Checksum
	}

	onDisk := make(map[string]bool, len(entries))
	for _, e := range entries {
		onDisk[e.Filename] = true
		switch want, ok := locked[e.Filename]; {
		case !ok:
			result.NewFiles = append(result.NewFiles, e.Filename)
			result.Valid = false
		case want != e.Checksum:
			result.ModifiedFiles = append(result.ModifiedFiles, e.Filename)
			result.Valid = false
		default:
			result.VerifiedFiles = append(result.VerifiedFiles, e.Filename)
		}
	}
	for _, e := range lf.Entries {
		if !onDisk[e.Filename] {
			result.RemovedFiles = append(result.RemovedFiles, e.Filename)
			result.Valid = false
		}
	}
	return result, nil
}

// Check is the error-returning form of Verify, for callers that only need
// pass or fail.
func Check(migrationsDir, lockPath string) error {
	result, err := Verify(migrationsDir, lockPath)
	if err != nil {
		return err
	}
	switch {
	case !result.LockFileExists:
		return mserr.New(mserr.ErrLockfile, "lock file not found").WithFile(lockPath).
			WithHelp("run `masonry lock` to create it")
	case len(result.ModifiedFiles) > 0:
		return mserr.New(mserr.ErrLockfile, "manifest modified after locking").
			With("files", strings.Join(result.ModifiedFiles, ", "))
	case len(result.NewFiles) > 0:
		return mserr.New(mserr.ErrLockfile, "manifest not in lock file").
			With("files", strings.Join(result.NewFiles, ", ")).
			WithHelp("run `masonry lock` to update it")
	case len(result.RemovedFiles) > 0:
		return mserr.New(mserr.ErrLockfile, "locked manifest missing from disk").
			With("files", strings.Join(result.RemovedFiles, ", "))
	case !result.AggregateMatch:
		return mserr.New(mserr.ErrLockfile, "lock file aggregate mismatch")
	}
	return nil
}

// computeEntries checksums every manifest in the directory, sorted by
// file name for deterministic output. A missing directory yields no
// entries.
func computeEntries(migrationsDir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, mserr.Wrap(mserr.ErrLockfile, err, "cannot read migrations directory").
			WithFile(migrationsDir)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		if ext := filepath.Ext(de.Name()); ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(migrationsDir, de.Name()))
		if err != nil {
			return nil, mserr.Wrap(mserr.ErrLockfile, err, "cannot read manifest").
				WithFile(de.Name())
		}
		sum := sha256.Sum256(data)
		entries = append(entries, Entry{
			Filename: de.Name(),
			Checksum: hex.EncodeToString(sum[:]),
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Filename, b.Filename)
	})
	return entries, nil
}

func computeAggregate(entries []Entry) string {
	h := sha256.New()
	for _, e := range entries {
		h.Write([]byte(e.Checksum))
	}
	return hex.EncodeToString(h.Sum(nil))
}
