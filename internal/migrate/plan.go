package migrate

import (
	"slices"
	"strings"

	"github.com/masonry-db/masonry/internal/mserr"
)

// Direction selects forward application or rollback.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// Plan is an ordered execution plan. For Up the migrations are pending
// ones in ascending revision order; for Down they are applied ones in
// descending order.
type Plan struct {
	Direction  Direction
	Migrations []Migration
}

func (p *Plan) IsEmpty() bool { return p == nil || len(p.Migrations) == 0 }

// NewPlan builds an execution plan from the available migrations and the
// applied records. For Up, target is the last revision to apply (empty
// means latest) and applied checksums are verified first. For Down,
// target is the revision that stays applied (empty rolls back
// everything).
func NewPlan(all []Migration, applied []Applied, target string, dir Direction) (*Plan, error) {
	appliedSet := make(map[string]string, len(applied))
	for _, a := range applied {
		appliedSet[a.Revision] = a.Checksum
	}

	switch dir {
	case Down:
		return planDown(all, applied, target)
	default:
		if err := verifyChecksums(all, appliedSet); err != nil {
			return nil, err
		}
		return planUp(all, appliedSet, target)
	}
}

// verifyChecksums rejects plans when an applied migration's file changed
// after it was applied.
func verifyChecksums(all []Migration, applied map[string]string) error {
	for _, m := range all {
		recorded, ok := applied[m.Revision]
		if !ok || recorded == "" || m.Checksum == "" {
			continue
		}
		if recorded != m.Checksum {
			return mserr.New(mserr.ErrMigrationChecksum,
				"migration file was modified after being applied").
				With("revision", m.Revision).
				With("name", m.Name).
				With("expected", recorded).
				With("actual", m.Checksum)
		}
	}
	return nil
}

func planUp(all []Migration, applied map[string]string, target string) (*Plan, error) {
	sorted := slices.Clone(all)
	slices.SortFunc(sorted, func(a, b Migration) int {
		return strings.Compare(a.Revision, b.Revision)
	})

	plan := &Plan{Direction: Up}
	targetSeen := false
	for _, m := range sorted {
		if _, ok := applied[m.Revision]; ok {
			if m.Revision == target {
				targetSeen = true
				break
			}
			continue
		}
		plan.Migrations = append(plan.Migrations, m)
		if target != "" && m.Revision == target {
			targetSeen = true
			break
		}
	}

	if target != "" && !targetSeen {
		return nil, mserr.New(mserr.ErrMigrationNotFound, "target migration not found").
			With("target", target)
	}
	return plan, nil
}

func planDown(all []Migration, applied []Applied, target string) (*Plan, error) {
	byRevision := make(map[string]Migration, len(all))
	for _, m := range all {
		byRevision[m.Revision] = m
	}

	sorted := slices.Clone(applied)
	slices.SortFunc(sorted, func(a, b Applied) int {
		return strings.Compare(b.Revision, a.Revision)
	})

	plan := &Plan{Direction: Down}
	for _, a := range sorted {
		if target != "" && a.Revision == target {
			return plan, nil
		}
		m, ok := byRevision[a.Revision]
		if !ok {
			return nil, mserr.New(mserr.ErrMigrationNotFound,
				"migration file not found for applied revision").
				With("revision", a.Revision)
		}
		plan.Migrations = append(plan.Migrations, m)
	}

	if target != "" {
		return nil, mserr.New(mserr.ErrMigrationNotFound, "target migration not applied").
			With("target", target)
	}
	return plan, nil
}

// Limit truncates the plan to at most n migrations. Non-positive n leaves
// the plan unchanged.
func (p *Plan) Limit(n int) *Plan {
	if n > 0 && len(p.Migrations) > n {
		p.Migrations = p.Migrations[:n]
	}
	return p
}

// StatusKind classifies one revision in a status report.
type StatusKind string

const (
	StatusPending  StatusKind = "pending"
	StatusApplied  StatusKind = "applied"
	StatusModified StatusKind = "modified"
	StatusMissing  StatusKind = "missing"
)

// Status pairs a revision with its applied state.
type Status struct {
	Revision  string
	Name      string
	Kind      StatusKind
	AppliedAt string
}

// BuildStatus reports every known revision, sorted ascending: pending
// files, applied ones, applied-but-modified ones, and records whose file
// has disappeared.
func BuildStatus(all []Migration, applied []Applied) []Status {
	byRevision := make(map[string]Migration, len(all))
	revisions := make([]string, 0, len(all)+len(applied))
	for _, m := range all {
		byRevision[m.Revision] = m
		revisions = append(revisions, m.Revision)
	}
	appliedMap := make(map[string]Applied, len(applied))
	for _, a := range applied {
		appliedMap[a.Revision] = a
		if _, ok := byRevision[a.Revision]; !ok {
			revisions = append(revisions, a.Revision)
		}
	}
	slices.Sort(revisions)

	statuses := make([]Status, 0, len(revisions))
	for _, rev := range revisions {
		s := Status{Revision: rev}
		m, hasFile := byRevision[rev]
		a, wasApplied := appliedMap[rev]
		if hasFile {
			s.Name = m.Name
		} else if wasApplied {
			s.Name = a.Name
		}
		switch {
		case !wasApplied:
			s.Kind = StatusPending
		case !hasFile:
			s.Kind = StatusMissing
			s.AppliedAt = a.AppliedAt.Format("2006-01-02 15:04:05")
		case a.Checksum != "" && m.Checksum != "" && a.Checksum != m.Checksum:
			s.Kind = StatusModified
			s.AppliedAt = a.AppliedAt.Format("2006-01-02 15:04:05")
		default:
			s.Kind = StatusApplied
			s.AppliedAt = a.AppliedAt.Format("2006-01-02 15:04:05")
		}
		statuses = append(statuses, s)
	}
	return statuses
}
