package dml

import (
	"strings"

	"github.com/masonry-db/masonry/internal/sqlgen"
)

// ConflictClause describes an ON CONFLICT condition: an optional column
// target list plus predicates combined by implicit AND. It renders its own
// parenthesization; the surrounding statement supplies the ON CONFLICT
// keywords.
type ConflictClause struct {
	targets []string
	preds   []Predicate
}

// NewConflictClause starts a clause over the given target columns.
func NewConflictClause(targets ...string) *ConflictClause {
	return &ConflictClause{targets: targets}
}

// Target appends target columns.
func (c *ConflictClause) Target(columns ...string) *ConflictClause {
	c.targets = append(c.targets, columns...)
	return c
}

// Where appends predicates. Multiple predicates are ANDed.
func (c *ConflictClause) Where(preds ...Predicate) *ConflictClause {
	c.preds = append(c.preds, preds...)
	return c
}

// Render emits "(<targets>) WHERE <preds>". Either part is dropped when
// empty; an empty clause renders to the empty string.
func (c *ConflictClause) Render() string {
	var parts []string
	if len(c.targets) > 0 {
		parts = append(parts, "("+sqlgen.Identifiers(c.targets...)+")")
	}
	if frag := joinPredicates(c.preds); frag != "" {
		parts = append(parts, "WHERE "+frag)
	}
	return strings.Join(parts, " ")
}
