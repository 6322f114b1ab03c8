package dml

import (
	"strings"

	"github.com/masonry-db/masonry/internal/mserr"
	"github.com/masonry-db/masonry/internal/sqlgen"
)

// Field pairs a column name with a literal value. Records are ordered
// field sequences, so rendered key order is deterministic.
type Field struct {
	Column string
	Value  any
}

// conflictKind is the closed set of ON CONFLICT condition shapes.
type conflictKind int

const (
	conflictNone   conflictKind = iota // no clause
	conflictBare                       // ON CONFLICT DO ...
	conflictTarget                     // ON CONFLICT <raw target> DO ...
	conflictWhere                      // ON CONFLICT (<cols>) WHERE ... DO ...
)

// InsertStatement accumulates an INSERT and renders it once. Setters
// return the statement for chaining; usage errors are held until Render.
//
// The value source is either accumulated rows or a sub-query, never both.
type InsertStatement struct {
	table     string
	keys      []string
	rows      [][]any
	subquery  string
	hasSub    bool
	returning string

	conflict conflictKind
	target   string
	clause   *ConflictClause
	action   string
	update   *UpdateStatement

	err error
}

// Insert starts a statement against a table.
func Insert(table string) *InsertStatement {
	return &InsertStatement{table: table}
}

// NewInsert starts a statement with no table; set one with Into before
// rendering.
func NewInsert() *InsertStatement {
	return &InsertStatement{}
}

// Into sets or replaces the target table.
func (s *InsertStatement) Into(table string) *InsertStatement {
	s.table = table
	return s
}

// Columns sets the explicit column list, replacing any prior one.
func (s *InsertStatement) Columns(names ...string) *InsertStatement {
	s.keys = names
	return s
}

// Row appends one positional value tuple, independent of the column list.
// Row shapes across calls are not cross-checked.
func (s *InsertStatement) Row(values ...any) *InsertStatement {
	s.failIfSubquery()
	s.rows = append(s.rows, values)
	return s
}

// Record replaces the column list and all accumulated rows with a single
// row taken from the ordered field sequence.
func (s *InsertStatement) Record(fields ...Field) *InsertStatement {
	return s.Records(fields)
}

// Records replaces the accumulated rows with one row per record. The
// column list is taken from the last record's shape; callers keep record
// shapes consistent.
func (s *InsertStatement) Records(records ...[]Field) *InsertStatement {
	s.failIfSubquery()
	s.rows = s.rows[:0]
	for _, fields := range records {
		keys := make([]string, len(fields))
		row := make([]any, len(fields))
		for i, f := range fields {
			keys[i] = f.Column
			row[i] = f.Value
		}
		s.keys = keys
		s.rows = append(s.rows, row)
	}
	return s
}

// Select sets a sub-query as the value source. The text is embedded
// verbatim inside parentheses.
func (s *InsertStatement) Select(subquery string) *InsertStatement {
	if len(s.rows) > 0 && s.err == nil {
		s.err = mserr.New(mserr.ErrConflictingSource,
			"cannot insert both from SELECT and from data").WithTable(s.table)
	}
	s.subquery = subquery
	s.hasSub = true
	return s
}

func (s *InsertStatement) failIfSubquery() {
	if s.hasSub && s.err == nil {
		s.err = mserr.New(mserr.ErrConflictingSource,
			"cannot insert both from SELECT and from data").WithTable(s.table)
	}
}

// Returning sets the RETURNING clause text, emitted verbatim.
func (s *InsertStatement) Returning(expr string) *InsertStatement {
	s.returning = expr
	return s
}

// OnConflict arms a bare ON CONFLICT clause with no target.
func (s *InsertStatement) OnConflict() *InsertStatement {
	s.conflict = conflictBare
	return s
}

// OnConflictTarget arms the clause with a raw target string. The text is
// emitted bare, without added parentheses.
func (s *InsertStatement) OnConflictTarget(target string) *InsertStatement {
	s.conflict = conflictTarget
	s.target = target
	return s
}

// OnConflictClause arms the clause with a structured target and WHERE
// condition.
func (s *InsertStatement) OnConflictClause(c *ConflictClause) *InsertStatement {
	s.conflict = conflictWhere
	s.clause = c
	return s
}

// DoNothing sets the conflict action to NOTHING.
func (s *InsertStatement) DoNothing() *InsertStatement {
	s.action = "NOTHING"
	s.update = nil
	return s
}

// DoUpdate builds the conflict action as an UPDATE via the supplied
// configuration step.
func (s *InsertStatement) DoUpdate(configure func(*UpdateStatement)) *InsertStatement {
	u := &UpdateStatement{}
	configure(u)
	s.update = u
	s.action = ""
	return s
}

// HasConflict reports whether an ON CONFLICT condition is armed.
func (s *InsertStatement) HasConflict() bool { return s.conflict != conflictNone }

// ClearConflict resets both the conflict condition and its action.
func (s *InsertStatement) ClearConflict() *InsertStatement {
	s.conflict = conflictNone
	s.target = ""
	s.clause = nil
	s.action = ""
	s.update = nil
	return s
}

// Size returns the number of accumulated rows, or -1 when the value
// source is a sub-query.
func (s *InsertStatement) Size() int {
	if s.hasSub {
		return -1
	}
	return len(s.rows)
}

// Render emits the statement text. Fragments are whitespace-joined with
// empty ones dropped, so rendering is a pure function of accumulated
// state and may be called repeatedly.
func (s *InsertStatement) Render() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.table == "" {
		return "", mserr.New(mserr.ErrMissingTarget, "no table set for INSERT")
	}

	frags := make([]string, 0, 5)
	frags = append(frags, "INSERT INTO "+sqlgen.Identifier(s.table))

	if len(s.keys) > 0 {
		frags = append(frags, "("+sqlgen.Identifiers(s.keys...)+")")
	}

	values, err := s.renderValues()
	if err != nil {
		return "", err
	}
	frags = append(frags, values)

	if s.conflict != conflictNone {
		frags = append(frags, s.renderConflict())
	}
	if s.returning != "" {
		frags = append(frags, "RETURNING "+s.returning)
	}
	return strings.Join(frags, " "), nil
}

func (s *InsertStatement) renderValues() (string, error) {
	if s.hasSub {
		return "(" + s.subquery + ")", nil
	}
	if len(s.rows) == 0 {
		return "DEFAULT VALUES", nil
	}
	if len(s.rows) == 1 && len(s.rows[0]) == 0 {
		if len(s.keys) > 0 {
			return "", mserr.New(mserr.ErrEmptyRow,
				"empty value row against an explicit column list").WithTable(s.table)
		}
		return "DEFAULT VALUES", nil
	}

	var b strings.Builder
	b.WriteString("VALUES ")
	for i, row := range s.rows {
		if len(row) == 0 {
			return "", mserr.New(mserr.ErrEmptyRow, "value row has no scalars").
				WithTable(s.table).With("row", i)
		}
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("(" + sqlgen.Literals(row...) + ")")
	}
	return b.String(), nil
}

func (s *InsertStatement) renderConflict() string {
	parts := []string{"ON CONFLICT"}
	switch s.conflict {
	case conflictTarget:
		if s.target != "" {
			parts = append(parts, s.target)
		}
	case conflictWhere:
		if s.clause != nil {
			if text := s.clause.Render(); text != "" {
				parts = append(parts, text)
			}
		}
	}
	parts = append(parts, "DO", s.renderAction())
	return strings.Join(parts, " ")
}

func (s *InsertStatement) renderAction() string {
	if s.update != nil {
		return s.update.Render()
	}
	if s.action != "" {
		return s.action
	}
	return "NOTHING"
}
