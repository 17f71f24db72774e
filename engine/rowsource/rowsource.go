// Package rowsource implements the polymorphic lazy row iterator (spec
// §3 "Rowsource", §4.3 "Rowsource protocol"): the pull-based pipeline
// operators that the translator composes into a tree rooted at the
// query-results façade. Every concrete operator follows the teacher's
// Next()/Binding()/Close() Volcano idiom, generalized to the shared
// row.Row/variable.Table model and renamed to the protocol's
// ReadRow/Finish naming.
package rowsource

import (
	"errors"
	"time"

	"sparqlcore/engine/expr"
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
)

// ErrFinished names the read-after-finish condition. No rowsource in
// this package returns it: ReadRow after Finish returns (nil, nil).
var ErrFinished = errors.New("rowsource: read after finish")

// Rowsource is the protocol every operator implements (spec §4.3).
// ReadRow yields (nil, nil) at normal end-of-rows, and (nil, err) when
// an iteration error has set the operator's failed state (spec §7
// "iteration errors"); once failed, every subsequent ReadRow call
// returns the same error.
type Rowsource interface {
	// EnsureVariables populates the declared-variables sequence and
	// width; safe to call more than once.
	EnsureVariables() error
	// Width returns the row width this rowsource emits.
	Width() int
	// ReadRow returns the next row, or (nil, nil) at exhaustion.
	ReadRow() (*row.Row, error)
	// ReadAllRows drains every remaining row; the default behavior
	// (ReadAll) is available for operators that don't override it.
	ReadAllRows() ([]*row.Row, error)
	// Reset returns the iterator to its start, re-running any child
	// reset. Not every operator supports it meaningfully (e.g. Slice
	// re-skips its offset); see per-operator docs.
	Reset() error
	// SetRequirements passes hint bits upstream; a no-op for operators
	// that have nothing useful to do with them.
	SetRequirements(Requirements)
	// GetInnerRowsource returns the n-th child for introspection and
	// planning (0-indexed; nil if out of range).
	GetInnerRowsource(n int) Rowsource
	// Finish releases held resources; idempotent.
	Finish() error
}

// Requirements carries hint bits an operator may push to its children
// (spec §4.3 "set_requirements (hint bits for upstream; optional)").
type Requirements struct {
	// DistinctOnly tells an upstream producer that only distinct rows
	// are needed, e.g. a BGP scan could dedup internally.
	DistinctOnly bool
	// Limit is a hint that only this many rows will ever be consumed,
	// or -1 if unknown. Slice is the only operator that sets it.
	Limit int
}

// ReadAll implements the default read_all_rows behavior: loop ReadRow
// until exhaustion or error (spec §4.3, tested by §8's round-trip
// property).
func ReadAll(rs Rowsource) ([]*row.Row, error) {
	var out []*row.Row
	for {
		r, err := rs.ReadRow()
		if err != nil {
			return out, err
		}
		if r == nil {
			return out, nil
		}
		out = append(out, r)
	}
}

// EvalEnv threads the per-query-results evaluation context (clock,
// blank-node counter/prefix, RNG seed) into every rowsource that
// evaluates expressions: Filter, LeftJoin, Extend, Group (spec §9
// "Blank-node identifier generation", "Random numbers").
type EvalEnv struct {
	Now         time.Time
	BlankPrefix string
	Seed        int64
	BlankSeq    *uint64
}

// NewEvalEnv builds an EvalEnv for one query-results execution.
func NewEvalEnv(now time.Time, blankPrefix string, seed int64) *EvalEnv {
	seq := uint64(0)
	return &EvalEnv{Now: now, BlankPrefix: blankPrefix, Seed: seed, BlankSeq: &seq}
}

// Context builds an expression-evaluation context for r.
func (e *EvalEnv) Context(r *row.Row) *expr.Context {
	return expr.NewContext(r, e.Now, e.BlankPrefix, e.Seed, e.BlankSeq)
}

// GraphCell is a shared mutable cell a Graph rowsource (spec §4.15)
// threads down into every BGP nested inside its scope, letting it swap
// the active named graph between runs without rebuilding the subtree.
// nil Term means "default graph", matching triplesource.QuadPattern's
// own nil-means-default convention.
type GraphCell struct {
	Term rdf.Term
}

// base is embedded by every concrete operator: it tracks the shared
// variables table, the row counter used to assign each emitted row's
// offset (spec §5 "row offsets are monotonically increasing starting
// from 0"), and the finished/failed state.
type base struct {
	table    *variable.Table
	counter  uint64
	finished bool
	failed   error
}

func (b *base) Width() int { return b.table.Len() }

func (b *base) nextOffset() uint64 {
	o := b.counter
	b.counter++
	return o
}

func (b *base) newRow() *row.Row {
	return row.New(b.table, b.table.Len(), b.nextOffset())
}

// fail records a terminal iteration error (spec §7 "iteration errors");
// subsequent ReadRow calls must return (nil, err) without re-running
// the operator.
func (b *base) fail(err error) (*row.Row, error) {
	b.finished = true
	b.failed = err
	return nil, err
}

func (b *base) checkFailed() (*row.Row, error, bool) {
	if b.failed != nil {
		return nil, b.failed, true
	}
	if b.finished {
		return nil, nil, true
	}
	return nil, nil, false
}
