package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/masonry-db/masonry/internal/mserr"
)

// VersionTable is the name of the revision tracking table.
const VersionTable = "masonry_versions"

// Applied is one row of the version table.
type Applied struct {
	Revision    string
	Name        string
	AppliedAt   time.Time
	Checksum    string
	SQLChecksum string
	ExecTimeMs  int
}

// Versions tracks applied revisions. Placeholder style follows the
// driver: "postgres" uses $n, everything else uses ?.
type Versions struct {
	db     *sql.DB
	driver string
}

func NewVersions(db *sql.DB, driver string) *Versions {
	return &Versions{db: db, driver: driver}
}

func (v *Versions) bind(n int) string {
	if v.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// EnsureTable creates the tracking table if missing. The column types are
// deliberately lowest-common-denominator so the same statement works on
// PostgreSQL and SQLite.
func (v *Versions) EnsureTable(ctx context.Context) error {
	stmt := `CREATE TABLE IF NOT EXISTS ` + VersionTable + ` (
    revision     VARCHAR(64) PRIMARY KEY,
    name         VARCHAR(255),
    applied_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    checksum     VARCHAR(64),
    sql_checksum VARCHAR(64),
    exec_time_ms INTEGER
)`
	if _, err := v.db.ExecContext(ctx, stmt); err != nil {
		return mserr.Wrap(mserr.ErrSQLExecution, err, "failed to create version table").
			WithSQL(stmt)
	}
	return nil
}

// GetApplied returns all recorded revisions ordered ascending.
func (v *Versions) GetApplied(ctx context.Context) ([]Applied, error) {
	query := "SELECT revision, name, applied_at, checksum, sql_checksum, exec_time_ms FROM " +
		VersionTable + " ORDER BY revision ASC"

	rows, err := v.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mserr.Wrap(mserr.ErrSQLExecution, err, "failed to query applied revisions").
			WithSQL(query)
	}
	defer rows.Close()

	var applied []Applied
	for rows.Next() {
		var (
			a           Applied
			name        sql.NullString
			checksum    sql.NullString
			sqlChecksum sql.NullString
			execTime    sql.NullInt64
			appliedAt   any
		)
		if err := rows.Scan(&a.Revision, &name, &appliedAt, &checksum, &sqlChecksum, &execTime); err != nil {
			return nil, mserr.Wrap(mserr.ErrSQLExecution, err, "failed to scan version row")
		}
		a.Name = name.String
		a.Checksum = checksum.String
		a.SQLChecksum = sqlChecksum.String
		a.ExecTimeMs = int(execTime.Int64)
		a.AppliedAt = parseAppliedAt(appliedAt)
		applied = append(applied, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mserr.Wrap(mserr.ErrSQLExecution, err, "error iterating version rows")
	}
	return applied, nil
}

// parseAppliedAt tolerates the timestamp representations drivers hand
// back. SQLite returns strings.
func parseAppliedAt(val any) time.Time {
	switch t := val.(type) {
	case time.Time:
		return t
	case string:
		formats := []string{
			time.RFC3339,
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05Z",
			"2006-01-02T15:04:05",
		}
		for _, format := range formats {
			if parsed, err := time.Parse(format, t); err == nil {
				return parsed
			}
		}
		return time.Time{}
	case []byte:
		return parseAppliedAt(string(t))
	default:
		return time.Time{}
	}
}

// RecordApplied inserts a row for a freshly applied migration.
func (v *Versions) RecordApplied(ctx context.Context, a Applied) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (revision, name, checksum, sql_checksum, exec_time_ms) VALUES (%s, %s, %s, %s, %s)",
		VersionTable, v.bind(1), v.bind(2), v.bind(3), v.bind(4), v.bind(5),
	)
	_, err := v.db.ExecContext(ctx, query,
		a.Revision, a.Name, a.Checksum, a.SQLChecksum, a.ExecTimeMs)
	if err != nil {
		return mserr.Wrap(mserr.ErrSQLExecution, err, "failed to record applied migration").
			With("revision", a.Revision).
			WithSQL(query)
	}
	return nil
}

// RecordRollback deletes the row for a rolled-back revision. A missing
// row is an error: the caller believed the revision was applied.
func (v *Versions) RecordRollback(ctx context.Context, revision string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE revision = %s", VersionTable, v.bind(1))

	result, err := v.db.ExecContext(ctx, query, revision)
	if err != nil {
		return mserr.Wrap(mserr.ErrSQLExecution, err, "failed to remove version record").
			With("revision", revision).
			WithSQL(query)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return mserr.Wrap(mserr.ErrSQLExecution, err, "failed to get rows affected")
	}
	if affected == 0 {
		return mserr.New(mserr.ErrMigrationNotFound, "revision not found in version table").
			With("revision", revision)
	}
	return nil
}

// IsApplied checks whether a revision is recorded.
func (v *Versions) IsApplied(ctx context.Context, revision string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE revision = %s LIMIT 1", VersionTable, v.bind(1))

	var exists int
	err := v.db.QueryRowContext(ctx, query, revision).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, mserr.Wrap(mserr.ErrSQLExecution, err, "failed to check revision").
			With("revision", revision).
			WithSQL(query)
	}
	return true, nil
}
