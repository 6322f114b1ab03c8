package ddl

import (
	"strings"

	"github.com/masonry-db/masonry/internal/sqlgen"
)

// ColumnOp is one column definition. It is immutable once appended to a
// table; columns are identified by position, and duplicate names are
// rendered as-is rather than deduplicated.
type ColumnOp struct {
	Name       string
	SQLType    string // already resolved, e.g. "text", "integer"
	Nullable   bool
	Default    string // pre-rendered SQL expression, inserted raw; empty = none
	PrimaryKey bool
}

// render emits the column clause in fixed field order:
// <name> <type> [NOT NULL] [DEFAULT <expr>] [PRIMARY KEY].
// The default expression is NOT re-escaped; callers own its SQL safety.
func (c ColumnOp) render() string {
	parts := make([]string, 0, 5)
	parts = append(parts, sqlgen.Identifier(c.Name), c.SQLType)
	if !c.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if c.Default != "" {
		parts = append(parts, "DEFAULT "+c.Default)
	}
	if c.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}
	return strings.Join(parts, " ")
}

// columnConfig collects AddColumn options before the ColumnOp is sealed.
type columnConfig struct {
	nullable   bool
	defaultSQL string
	primary    bool
	indexed    bool
	unique     bool
}

// ColumnOption configures a column added with AddColumn.
type ColumnOption func(*columnConfig)

// Default sets the column's DEFAULT expression. The text is inserted into
// the DDL verbatim; supply SQL-safe text (use sqlgen.Literal for values).
func Default(expr string) ColumnOption {
	return func(c *columnConfig) {
		c.defaultSQL = expr
	}
}

// NotNull marks the column NOT NULL. Columns are nullable by default.
func NotNull() ColumnOption {
	return func(c *columnConfig) {
		c.nullable = false
	}
}

// Primary marks the column PRIMARY KEY.
func Primary() ColumnOption {
	return func(c *columnConfig) {
		c.primary = true
	}
}

// Indexed also appends a non-unique index on the column.
func Indexed() ColumnOption {
	return func(c *columnConfig) {
		c.indexed = true
	}
}

// Unique also appends a unique index on the column. Takes precedence over
// Indexed when both are set.
func Unique() ColumnOption {
	return func(c *columnConfig) {
		c.unique = true
	}
}
