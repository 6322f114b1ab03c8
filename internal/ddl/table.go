package ddl

import (
	"strings"

	"github.com/masonry-db/masonry/internal/mserr"
	"github.com/masonry-db/masonry/internal/sqlgen"
)

// Mode selects what a TableDefinition does on Up.
type Mode int

const (
	// Create renders CREATE TABLE on Up and DROP TABLE on Down.
	Create Mode = iota
	// Alter is reserved for ALTER TABLE support; constructing a definition
	// in this mode fails with ErrUnimplemented.
	Alter
)

// TableDefinition accumulates column and index operations for one table and
// renders them as a reversible statement sequence. A definition is built by
// a single caller, rendered once, and discarded; it is not safe for
// concurrent mutation.
type TableDefinition struct {
	name    string
	columns []ColumnOp
	indexes []IndexOp
}

// New creates a TableDefinition in the given mode. Only Create is
// implemented; Alter fails immediately.
func New(name string, mode Mode) (*TableDefinition, error) {
	if mode != Create {
		return nil, mserr.New(mserr.ErrUnimplemented, "alter-table definitions are not implemented").
			WithTable(name)
	}
	return &TableDefinition{name: name}, nil
}

// CreateTable creates a TableDefinition in create mode.
func CreateTable(name string) *TableDefinition {
	t, _ := New(name, Create)
	return t
}

// Name returns the table name.
func (t *TableDefinition) Name() string { return t.name }

// Columns returns the accumulated column operations in order.
func (t *TableDefinition) Columns() []ColumnOp { return t.columns }

// Indexes returns the accumulated index operations in order.
func (t *TableDefinition) Indexes() []IndexOp { return t.indexes }

// AddColumn appends a column operation. Columns are nullable by default;
// use the options to set NOT NULL, DEFAULT, PRIMARY KEY, or a secondary
// index. Duplicate names are appended as-is, not deduplicated.
func (t *TableDefinition) AddColumn(name, sqlType string, opts ...ColumnOption) *TableDefinition {
	cfg := columnConfig{nullable: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	t.columns = append(t.columns, ColumnOp{
		Name:       name,
		SQLType:    sqlType,
		Nullable:   cfg.nullable,
		Default:    cfg.defaultSQL,
		PrimaryKey: cfg.primary,
	})

	switch {
	case cfg.unique:
		t.AddIndex(name, IndexUnique())
	case cfg.indexed:
		t.AddIndex(name)
	}
	return t
}

// AddIndex appends an index operation on a field. The index name defaults
// to the normalized "<table>_<field>".
func (t *TableDefinition) AddIndex(field string, opts ...IndexOption) *TableDefinition {
	var cfg indexConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	t.indexes = append(t.indexes, newIndexOp(t.name, field, cfg))
	return t
}

// Index is an alias for AddIndex.
func (t *TableDefinition) Index(field string, opts ...IndexOption) *TableDefinition {
	return t.AddIndex(field, opts...)
}

// Timestamps adds created_at and updated_at columns
// (timestamp without time zone, DEFAULT NOW()) plus a non-unique index on
// each. Exactly two columns and two indexes, always.
func (t *TableDefinition) Timestamps(nullable bool) *TableDefinition {
	for _, name := range []string{"created_at", "updated_at"} {
		opts := []ColumnOption{Default("NOW()"), Indexed()}
		if !nullable {
			opts = append(opts, NotNull())
		}
		t.AddColumn(name, "timestamp without time zone", opts...)
	}
	return t
}

// -----------------------------------------------------------------------------
// Typed convenience methods (closed alias table, no dynamic dispatch)
// -----------------------------------------------------------------------------

// ID adds an "id uuid DEFAULT gen_random_uuid() PRIMARY KEY" column.
func (t *TableDefinition) ID() *TableDefinition {
	return t.AddColumn("id", typeAliases["id"], Primary(), Default("gen_random_uuid()"))
}

// Text adds a text column.
func (t *TableDefinition) Text(name string, opts ...ColumnOption) *TableDefinition {
	return t.AddColumn(name, typeAliases["text"], opts...)
}

// Integer adds a 32-bit integer column.
func (t *TableDefinition) Integer(name string, opts ...ColumnOption) *TableDefinition {
	return t.AddColumn(name, typeAliases["integer"], opts...)
}

// BigInt adds a 64-bit integer column.
func (t *TableDefinition) BigInt(name string, opts ...ColumnOption) *TableDefinition {
	return t.AddColumn(name, typeAliases["bigint"], opts...)
}

// Float adds a double-precision column.
func (t *TableDefinition) Float(name string, opts ...ColumnOption) *TableDefinition {
	return t.AddColumn(name, typeAliases["float"], opts...)
}

// Decimal adds an arbitrary-precision numeric column.
func (t *TableDefinition) Decimal(name string, opts ...ColumnOption) *TableDefinition {
	return t.AddColumn(name, typeAliases["decimal"], opts...)
}

// Boolean adds a boolean column.
func (t *TableDefinition) Boolean(name string, opts ...ColumnOption) *TableDefinition {
	return t.AddColumn(name, typeAliases["boolean"], opts...)
}

// Date adds a date-only column.
func (t *TableDefinition) Date(name string, opts ...ColumnOption) *TableDefinition {
	return t.AddColumn(name, typeAliases["date"], opts...)
}

// Timestamp adds a timestamp-without-time-zone column.
func (t *TableDefinition) Timestamp(name string, opts ...ColumnOption) *TableDefinition {
	return t.AddColumn(name, typeAliases["timestamp"], opts...)
}

// TimestampTZ adds a timestamp-with-time-zone column.
func (t *TableDefinition) TimestampTZ(name string, opts ...ColumnOption) *TableDefinition {
	return t.AddColumn(name, typeAliases["timestamptz"], opts...)
}

// UUID adds a uuid column.
func (t *TableDefinition) UUID(name string, opts ...ColumnOption) *TableDefinition {
	return t.AddColumn(name, typeAliases["uuid"], opts...)
}

// JSON adds a jsonb column.
func (t *TableDefinition) JSON(name string, opts ...ColumnOption) *TableDefinition {
	return t.AddColumn(name, typeAliases["json"], opts...)
}

// Binary adds a bytea column.
func (t *TableDefinition) Binary(name string, opts ...ColumnOption) *TableDefinition {
	return t.AddColumn(name, typeAliases["binary"], opts...)
}

// -----------------------------------------------------------------------------
// Rendering
// -----------------------------------------------------------------------------

// Up renders the forward statements: CREATE TABLE first (column parens
// suppressed entirely when no columns were added), then one CREATE INDEX
// per accumulated index operation, in accumulation order.
func (t *TableDefinition) Up() []string {
	stmts := make([]string, 0, 1+len(t.indexes))

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(sqlgen.Identifier(t.name))
	if len(t.columns) > 0 {
		defs := make([]string, len(t.columns))
		for i, col := range t.columns {
			defs[i] = col.render()
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(defs, ", "))
		b.WriteString(")")
	}
	stmts = append(stmts, b.String())

	for _, idx := range t.indexes {
		stmts = append(stmts, idx.renderCreate(t.name))
	}
	return stmts
}

// Down renders the reverse statements. Only the table creation is reversed:
// index drops are never emitted, since DROP TABLE removes them with the
// table.
func (t *TableDefinition) Down() []string {
	return []string{"DROP TABLE " + sqlgen.Identifier(t.name)}
}
