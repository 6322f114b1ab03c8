package dml

import (
	"strings"

	"github.com/masonry-db/masonry/internal/sqlgen"
)

type assignment struct {
	column string
	sql    string
}

// UpdateStatement accumulates an UPDATE. With a table set it renders as a
// standalone statement; without one it renders as "UPDATE SET ...", the
// shape required in the ON CONFLICT ... DO action position.
type UpdateStatement struct {
	table string
	sets  []assignment
	where []Predicate
}

// Update starts a standalone statement against a table.
func Update(table string) *UpdateStatement {
	return &UpdateStatement{table: table}
}

// Table sets or replaces the target table.
func (u *UpdateStatement) Table(name string) *UpdateStatement {
	u.table = name
	return u
}

// Set assigns a literal value to a column.
func (u *UpdateStatement) Set(column string, value any) *UpdateStatement {
	u.sets = append(u.sets, assignment{column: column, sql: sqlgen.Literal(value)})
	return u
}

// SetExpr assigns raw SQL to a column, e.g. "EXCLUDED.name" or
// "counter + 1". The expression is emitted verbatim.
func (u *UpdateStatement) SetExpr(column, expr string) *UpdateStatement {
	u.sets = append(u.sets, assignment{column: column, sql: expr})
	return u
}

// Where appends predicates, ANDed together.
func (u *UpdateStatement) Where(preds ...Predicate) *UpdateStatement {
	u.where = append(u.where, preds...)
	return u
}

// Render emits the statement text. Assignment presence is not validated;
// a SET-less update is the caller's malformed SQL to own.
func (u *UpdateStatement) Render() string {
	var b strings.Builder
	b.WriteString("UPDATE")
	if u.table != "" {
		b.WriteString(" " + sqlgen.Identifier(u.table))
	}
	b.WriteString(" SET ")
	for i, a := range u.sets {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sqlgen.Identifier(a.column) + " = " + a.sql)
	}
	if frag := joinPredicates(u.where); frag != "" {
		b.WriteString(" WHERE " + frag)
	}
	return b.String()
}
