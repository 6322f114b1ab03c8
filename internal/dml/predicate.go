package dml

import (
	"strings"

	"github.com/masonry-db/masonry/internal/sqlgen"
)

// Predicate is a rendered boolean expression fragment. Predicates carry
// their SQL text only; combining and embedding is the caller's job.
type Predicate struct {
	sql string
}

// SQL returns the fragment text. No leading WHERE is ever included.
func (p Predicate) SQL() string { return p.sql }

func comparison(column, op string, value any) Predicate {
	return Predicate{sql: sqlgen.Identifier(column) + " " + op + " " + sqlgen.Literal(value)}
}

// Eq builds "<column> = <value>". A nil value becomes an IS NULL test.
func Eq(column string, value any) Predicate {
	if value == nil {
		return IsNull(column)
	}
	return comparison(column, "=", value)
}

// Ne builds "<column> <> <value>". A nil value becomes an IS NOT NULL test.
func Ne(column string, value any) Predicate {
	if value == nil {
		return NotNull(column)
	}
	return comparison(column, "<>", value)
}

func Gt(column string, value any) Predicate { return comparison(column, ">", value) }

func Ge(column string, value any) Predicate { return comparison(column, ">=", value) }

func Lt(column string, value any) Predicate { return comparison(column, "<", value) }

func Le(column string, value any) Predicate { return comparison(column, "<=", value) }

// In builds "<column> IN (<values>)".
func In(column string, values ...any) Predicate {
	return Predicate{sql: sqlgen.Identifier(column) + " IN (" + sqlgen.Literals(values...) + ")"}
}

func IsNull(column string) Predicate {
	return Predicate{sql: sqlgen.Identifier(column) + " IS NULL"}
}

func NotNull(column string) Predicate {
	return Predicate{sql: sqlgen.Identifier(column) + " IS NOT NULL"}
}

// RawPredicate wraps already-formed SQL. The text is emitted verbatim.
func RawPredicate(sql string) Predicate { return Predicate{sql: sql} }

// joinPredicates ANDs fragments together without a leading WHERE keyword.
func joinPredicates(preds []Predicate) string {
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		if p.sql != "" {
			parts = append(parts, p.sql)
		}
	}
	return strings.Join(parts, " AND ")
}
