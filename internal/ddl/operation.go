// Package ddl builds reversible schema statements. A TableDefinition
// accumulates column and index operations and renders them into
// CREATE TABLE / CREATE INDEX / DROP TABLE statement sequences.
package ddl

// Operation is anything that can render a forward and a reverse SQL
// statement list. Statements are executed one at a time, in order, by an
// external runner; rendering itself is pure and performs no I/O.
type Operation interface {
	// Up returns the forward statements in execution order.
	Up() []string

	// Down returns the statements that reverse Up, in execution order.
	Down() []string
}

// Raw is an Operation carrying pre-written SQL for both directions.
// It is the escape hatch for statements the builders cannot express.
type Raw struct {
	UpSQL   []string
	DownSQL []string
}

func (r *Raw) Up() []string   { return r.UpSQL }
func (r *Raw) Down() []string { return r.DownSQL }
