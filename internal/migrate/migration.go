// Package migrate executes ordered schema migrations against a database
// and tracks applied revisions in the masonry_versions table.
package migrate

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/masonry-db/masonry/internal/ddl"
	"github.com/masonry-db/masonry/internal/dml"
)

// Migration is one ordered unit of schema change: DDL operations plus
// optional seed inserts that run after the schema is in place. Seeds are
// up-only; rollback reverses the DDL and leaves seeded rows to the
// cascading table drops.
type Migration struct {
	Revision string
	Name     string
	Source   string // originating file, kept for error context
	Checksum string // hex sha256 of the source file

	Ops   []ddl.Operation
	Seeds []*dml.InsertStatement
}

// UpSQL renders the forward statements: each operation's up statements in
// accumulation order, then each seed insert.
func (m *Migration) UpSQL() ([]string, error) {
	var stmts []string
	for _, op := range m.Ops {
		stmts = append(stmts, op.Up()...)
	}
	for _, seed := range m.Seeds {
		sql, err := seed.Render()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, sql)
	}
	return stmts, nil
}

// DownSQL renders the rollback statements, reversing operation order.
func (m *Migration) DownSQL() []string {
	var stmts []string
	for i := len(m.Ops) - 1; i >= 0; i-- {
		stmts = append(stmts, m.Ops[i].Down()...)
	}
	return stmts
}

// FileChecksum hashes raw migration file content.
func FileChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SQLChecksum hashes a rendered statement sequence. Statements are joined
// with a separator that cannot appear from whitespace-joined rendering, so
// boundary shifts change the hash.
func SQLChecksum(stmts []string) string {
	sum := sha256.Sum256([]byte(strings.Join(stmts, "\x00")))
	return hex.EncodeToString(sum[:])
}
