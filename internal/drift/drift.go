// Package drift detects divergence between the migration manifests on
// disk and what the database says was applied. Rendered-SQL checksums are
// folded into a merkle root, so two histories can be compared with one
// hash and drilled into per revision when they differ.
package drift

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/cbergoon/merkletree"

	"github.com/masonry-db/masonry/internal/migrate"
	"github.com/masonry-db/masonry/internal/mserr"
)

// PlanHash is the merkle root over a migration history, plus the
// per-revision checksums for drill-down.
type PlanHash struct {
	Root      string
	Revisions map[string]string // revision -> SQL checksum
}

// revisionContent implements merkletree.Content for one revision.
type revisionContent struct {
	revision string
	checksum string
}

func (c revisionContent) CalculateHash() ([]byte, error) {
	h := sha256.Sum256([]byte(c.revision + ":" + c.checksum))
	return h[:], nil
}

func (c revisionContent) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(revisionContent)
	if !ok {
		return false, nil
	}
	return c.revision == o.revision && c.checksum == o.checksum, nil
}

// emptyRoot is the fixed hash for a history with no revisions.
func emptyRoot() string {
	h := sha256.Sum256([]byte("empty_history"))
	return hex.EncodeToString(h[:])
}

// Compute builds the plan hash from revision/checksum pairs. Pairs are
// sorted by revision before hashing so input order does not matter.
func Compute(revisions map[string]string) (*PlanHash, error) {
	result := &PlanHash{Revisions: revisions}
	if len(revisions) == 0 {
		result.Root = emptyRoot()
		result.Revisions = map[string]string{}
		return result, nil
	}

	keys := make([]string, 0, len(revisions))
	for rev := range revisions {
		keys = append(keys, rev)
	}
	sort.Strings(keys)

	contents := make([]merkletree.Content, 0, len(keys))
	for _, rev := range keys {
		contents = append(contents, revisionContent{revision: rev, checksum: revisions[rev]})
	}

	tree, err := merkletree.NewTree(contents)
	if err != nil {
		return nil, mserr.Wrap(mserr.ErrDrift, err, "failed to build merkle tree")
	}
	result.Root = hex.EncodeToString(tree.MerkleRoot())
	return result, nil
}

// FromMigrations hashes the manifests on disk by their rendered up SQL.
func FromMigrations(migrations []migrate.Migration) (*PlanHash, error) {
	revisions := make(map[string]string, len(migrations))
	for i := range migrations {
		up, err := migrations[i].UpSQL()
		if err != nil {
			return nil, mserr.Wrap(mserr.ErrDrift, err, "cannot render migration for hashing").
				With("revision", migrations[i].Revision)
		}
		revisions[migrations[i].Revision] = migrate.SQLChecksum(up)
	}
	return Compute(revisions)
}

// FromApplied hashes what the version table recorded at apply time.
func FromApplied(applied []migrate.Applied) (*PlanHash, error) {
	revisions := make(map[string]string, len(applied))
	for _, a := range applied {
		revisions[a.Revision] = a.SQLChecksum
	}
	return Compute(revisions)
}

// Comparison is the outcome of comparing two plan hashes.
type Comparison struct {
	Match        bool
	ExpectedRoot string
	ActualRoot   string
	Missing      []string // in expected, absent from actual
	Extra        []string // in actual, absent from expected
	Modified     []string // present in both with different checksums
}

// Compare diffs two plan hashes. A matching root short-circuits; anything
// else is broken down per revision, each list sorted.
func Compare(expected, actual *PlanHash) *Comparison {
	result := &Comparison{
		Match:        expected.Root == actual.Root,
		ExpectedRoot: expected.Root,
		ActualRoot:   actual.Root,
	}
	if result.Match {
		return result
	}

	for rev, checksum := range expected.Revisions {
		actualSum, ok := actual.Revisions[rev]
		switch {
		case !ok:
			result.Missing = append(result.Missing, rev)
		case actualSum != checksum:
			result.Modified = append(result.Modified, rev)
		}
	}
	for rev := range actual.Revisions {
		if _, ok := expected.Revisions[rev]; !ok {
			result.Extra = append(result.Extra, rev)
		}
	}

	sort.Strings(result.Missing)
	sort.Strings(result.Extra)
	sort.Strings(result.Modified)
	return result
}

// Check compares the pending-inclusive manifest history against applied
// records and reports drift for revisions the database has already run.
// Pending manifests are not drift; they are simply not applied yet.
func Check(migrations []migrate.Migration, applied []migrate.Applied) (*Comparison, error) {
	appliedSet := make(map[string]bool, len(applied))
	for _, a := range applied {
		appliedSet[a.Revision] = true
	}

	var appliedOnly []migrate.Migration
	for _, m := range migrations {
		if appliedSet[m.Revision] {
			appliedOnly = append(appliedOnly, m)
		}
	}

	expected, err := FromMigrations(appliedOnly)
	if err != nil {
		return nil, err
	}
	actual, err := FromApplied(applied)
	if err != nil {
		return nil, err
	}
	return Compare(expected, actual), nil
}
