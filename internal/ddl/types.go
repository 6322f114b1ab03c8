package ddl

import "sort"

// typeAliases is the closed table mapping column type aliases to canonical
// SQL type strings. There is deliberately no open-ended dispatch: an alias
// either appears here or is rejected by ResolveType.
var typeAliases = map[string]string{
	"id":          "uuid",
	"uuid":        "uuid",
	"text":        "text",
	"string":      "text",
	"integer":     "integer",
	"int":         "integer",
	"bigint":      "bigint",
	"float":       "double precision",
	"decimal":     "numeric",
	"boolean":     "boolean",
	"bool":        "boolean",
	"date":        "date",
	"time":        "time",
	"timestamp":   "timestamp without time zone",
	"timestamptz": "timestamp with time zone",
	"datetime":    "timestamp with time zone",
	"json":        "jsonb",
	"binary":      "bytea",
}

// ResolveType maps a column type alias to its canonical SQL type string.
// The second result is false when the alias is unknown.
func ResolveType(alias string) (string, bool) {
	sqlType, ok := typeAliases[alias]
	return sqlType, ok
}

// TypeAliases returns the known aliases in sorted order, for error messages.
func TypeAliases() []string {
	out := make([]string, 0, len(typeAliases))
	for alias := range typeAliases {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}
