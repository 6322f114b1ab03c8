// Package sqlgen provides the escaping primitives every Masonry builder
// renders through: identifier quoting, scalar literal formatting, and
// parameter placeholders.
package sqlgen

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Expr marks a string as a raw SQL expression. Expressions are passed
// through Literal unchanged, without quoting or escaping.
//
// Examples:
//   - Expr("NOW()") -> current timestamp
//   - Expr("gen_random_uuid()") -> generate UUID
type Expr string

// timeLayout is the literal format for time.Time values, rendered in UTC.
const timeLayout = "2006-01-02 15:04:05.999999"

// ratDigits caps the decimal expansion of non-terminating *big.Rat values.
const ratDigits = 32

// reservedWords is the set of SQL keywords that must be quoted when used
// as identifiers. Plain lower-snake identifiers outside this set render
// bare so generated statements stay readable.
var reservedWords = map[string]bool{
	"all": true, "and": true, "any": true, "as": true, "asc": true,
	"between": true, "by": true, "case": true, "check": true, "column": true,
	"constraint": true, "create": true, "cross": true, "default": true,
	"delete": true, "desc": true, "distinct": true, "drop": true, "else": true,
	"end": true, "exists": true, "foreign": true, "from": true, "full": true,
	"group": true, "having": true, "in": true, "index": true, "inner": true,
	"insert": true, "into": true, "is": true, "join": true, "key": true,
	"left": true, "like": true, "limit": true, "not": true, "null": true,
	"offset": true, "on": true, "or": true, "order": true, "outer": true,
	"primary": true, "references": true, "returning": true, "right": true,
	"select": true, "set": true, "table": true, "then": true, "to": true,
	"union": true, "unique": true, "update": true, "user": true, "using": true,
	"values": true, "when": true, "where": true, "with": true,
}

// Identifier renders a table, column, or index name for inclusion in SQL.
// Plain lower-snake identifiers render bare; anything else (uppercase,
// punctuation, embedded quotes, reserved words) is double-quoted with
// embedded quotes doubled.
func Identifier(name string) string {
	if isPlainIdent(name) && !reservedWords[name] {
		return name
	}
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}

// isPlainIdent reports whether name matches [a-z_][a-z0-9_]*.
func isPlainIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Literal formats a typed scalar as a SQL literal.
// Supported kinds: nil, string, bool, all signed/unsigned integers, floats,
// time.Time (UTC), *big.Int, *big.Float, *big.Rat, []byte (hex bytea), and
// Expr (raw passthrough). Anything else is stringified and quoted.
func Literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case Expr:
		return string(val)
	case string:
		return quoteString(val)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case time.Time:
		return "'" + val.UTC().Format(timeLayout) + "'"
	case *big.Int:
		return val.String()
	case *big.Float:
		return val.Text('g', -1)
	case *big.Rat:
		if val.IsInt() {
			return val.Num().String()
		}
		s := strings.TrimRight(val.FloatString(ratDigits), "0")
		return strings.TrimSuffix(s, ".")
	case []byte:
		return `'\x` + hex.EncodeToString(val) + "'"
	default:
		return quoteString(fmt.Sprintf("%v", v))
	}
}

// quoteString single-quotes a string, escaping embedded quotes by doubling.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Identifiers renders a comma-separated list of escaped identifiers.
// Example: Identifiers("a", "b") -> "a, b"
func Identifiers(names ...string) string {
	if len(names) == 0 {
		return ""
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = Identifier(n)
	}
	return strings.Join(parts, ", ")
}

// Literals renders a comma-separated list of escaped literals.
func Literals(values ...any) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Literal(v)
	}
	return strings.Join(parts, ", ")
}

// Placeholders returns a comma-separated list of numbered placeholders
// ($1, $2, ...) for the given count.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = "$" + strconv.Itoa(i+1)
	}
	return strings.Join(parts, ", ")
}
