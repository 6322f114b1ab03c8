package ddl

import (
	"strings"

	"github.com/masonry-db/masonry/internal/sqlgen"
	"github.com/masonry-db/masonry/internal/strutil"
)

// IndexOp is one index definition. Name is always non-empty and normalized
// to [a-z0-9_] with no doubled underscores by the time the op is appended.
type IndexOp struct {
	Field  string
	Name   string
	Using  string // optional access method, e.g. "gin"
	Unique bool
}

// renderCreate emits CREATE [UNIQUE] INDEX <name> ON <table> [USING <m>] (<field>).
func (i IndexOp) renderCreate(table string) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if i.Unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX ")
	b.WriteString(sqlgen.Identifier(i.Name))
	b.WriteString(" ON ")
	b.WriteString(sqlgen.Identifier(table))
	if i.Using != "" {
		b.WriteString(" USING ")
		b.WriteString(i.Using)
	}
	b.WriteString(" (")
	b.WriteString(sqlgen.Identifier(i.Field))
	b.WriteString(")")
	return b.String()
}

// indexConfig collects AddIndex options before the IndexOp is sealed.
type indexConfig struct {
	name   string
	using  string
	unique bool
}

// IndexOption configures an index added with AddIndex.
type IndexOption func(*indexConfig)

// IndexNamed overrides the derived index name. The name is normalized the
// same way derived names are.
func IndexNamed(name string) IndexOption {
	return func(c *indexConfig) {
		c.name = name
	}
}

// IndexUsing sets the index access method (e.g. "gin", "hash").
func IndexUsing(method string) IndexOption {
	return func(c *indexConfig) {
		c.using = method
	}
}

// IndexUnique makes the index unique.
func IndexUnique() IndexOption {
	return func(c *indexConfig) {
		c.unique = true
	}
}

// newIndexOp seals an index operation, deriving and normalizing the name.
func newIndexOp(table, field string, cfg indexConfig) IndexOp {
	name := cfg.name
	if name == "" {
		name = strutil.IndexName(table, field)
	} else {
		name = strutil.Normalize(name)
	}
	return IndexOp{
		Field:  field,
		Name:   name,
		Using:  cfg.using,
		Unique: cfg.unique,
	}
}
