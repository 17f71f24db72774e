package rowsource

import (
	"sparqlcore/engine/algebra"
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
	"sparqlcore/triplesource"
)

// BGP is the triples rowsource (spec §4.4): a backtracking nested scan
// over an ordered slice of triple patterns against a triples source.
// Bound variables propagate left to right; the rightmost pattern is
// advanced first, and when it exhausts the next pattern to its left
// advances and everything to its right restarts — the same shape as
// the teacher's nestedLoopJoinIterator, specialized to a fixed chain
// of patterns instead of two rowsource subtrees.
type BGP struct {
	base
	source     triplesource.Source
	patterns   []algebra.TriplePattern
	declaredIn []int

	iters     []triplesource.MatchIterator
	pos       int
	started   bool
	emittedNV bool
	cur       *row.Row // bindings accumulated across the current descent

	// Scope, when non-nil, overrides any pattern whose own Graph field
	// is nil with the enclosing GRAPH clause's current graph term (spec
	// §4.15); set by the translator when this BGP sits inside a Graph
	// rowsource's scope.
	Scope *GraphCell
}

// NewBGP builds a BGP rowsource from patterns[startCol:endCol+1]'s
// already-sliced window (the translator passes the sub-slice directly;
// declaredIn is parallel to patterns).
func NewBGP(table *variable.Table, source triplesource.Source, patterns []algebra.TriplePattern, declaredIn []int) *BGP {
	return &BGP{
		base:       base{table: table},
		source:     source,
		patterns:   patterns,
		declaredIn: declaredIn,
		iters:      make([]triplesource.MatchIterator, len(patterns)),
	}
}

func (b *BGP) EnsureVariables() error { return nil }

func (b *BGP) GetInnerRowsource(n int) Rowsource { return nil }

func (b *BGP) SetRequirements(Requirements) {}

func (b *BGP) Reset() error {
	for i, it := range b.iters {
		if it != nil {
			_ = it.Close()
			b.iters[i] = nil
		}
	}
	b.pos = 0
	b.started = false
	b.finished = false
	b.failed = nil
	b.emittedNV = false
	b.cur = nil
	return nil
}

func (b *BGP) ReadAllRows() ([]*row.Row, error) { return ReadAll(b) }

func (b *BGP) Finish() error {
	for i, it := range b.iters {
		if it != nil {
			_ = it.Close()
			b.iters[i] = nil
		}
	}
	b.finished = true
	return nil
}

// ReadRow implements the backtracking scan described in spec §4.4.
func (b *BGP) ReadRow() (*row.Row, error) {
	if r, err, done := b.checkFailed(); done {
		return r, err
	}

	if len(b.patterns) == 0 {
		if b.emittedNV {
			b.finished = true
			return nil, nil
		}
		b.emittedNV = true
		return b.newRow(), nil
	}

	if !b.started {
		b.started = true
		b.pos = 0
	} else {
		// resume: advance the rightmost active column first
		b.pos = len(b.patterns) - 1
	}

	for {
		if b.pos < 0 {
			b.finished = true
			return nil, nil
		}
		if b.iters[b.pos] == nil {
			pattern, err := b.substitute(b.pos)
			if err != nil {
				return b.fail(err)
			}
			it, err := b.source.Match(pattern)
			if err != nil {
				return b.fail(err)
			}
			b.iters[b.pos] = it
		}

		if b.iters[b.pos].Next() {
			quad, err := b.iters[b.pos].Quad()
			if err != nil {
				return b.fail(err)
			}
			b.bindRow(b.pos, quad)
			if b.pos == len(b.patterns)-1 {
				return b.buildRow(), nil
			}
			b.pos++
			continue
		}

		_ = b.iters[b.pos].Close()
		b.iters[b.pos] = nil
		b.pos--
	}
}

func (b *BGP) current() *row.Row {
	if b.cur == nil {
		b.cur = b.newRowNoOffset()
	}
	return b.cur
}

func (b *BGP) newRowNoOffset() *row.Row {
	return row.New(b.table, b.table.Len(), 0)
}

func (b *BGP) substitute(i int) (triplesource.QuadPattern, error) {
	p := b.patterns[i]
	cur := b.current()
	// Only variables bound by the patterns left of i are substituted;
	// values left in cur by an earlier descent of column i or the
	// columns to its right are ignored.
	resolve := func(t rdf.Term) rdf.Term {
		if ref, ok := t.(*rdf.VariableRef); ok {
			boundLeft := false
			for _, q := range b.patterns[:i] {
				for _, qt := range []rdf.Term{q.Subject, q.Predicate, q.Object, q.Graph} {
					if qr, ok := qt.(*rdf.VariableRef); ok && qr.Name == ref.Name {
						boundLeft = true
					}
				}
			}
			if !boundLeft {
				return nil
			}
			off, ok := b.table.OffsetByName(ref.Name)
			if !ok {
				return nil
			}
			return cur.Get(off)
		}
		return t
	}
	graph := p.Graph
	if graph == nil && b.Scope != nil {
		graph = b.Scope.Term
	}
	return triplesource.QuadPattern{
		Subject:   resolve(p.Subject),
		Predicate: resolve(p.Predicate),
		Object:    resolve(p.Object),
		Graph:     resolve(graph),
	}, nil
}

func (b *BGP) bindRow(i int, quad *rdf.Quad) {
	cur := b.current()
	p := b.patterns[i]
	bind := func(term rdf.Term, value rdf.Term) {
		if ref, ok := term.(*rdf.VariableRef); ok {
			if off, ok := b.table.OffsetByName(ref.Name); ok {
				cur.Set(off, value)
			}
		}
	}
	bind(p.Subject, quad.Subject)
	bind(p.Predicate, quad.Predicate)
	bind(p.Object, quad.Object)
	if p.Graph != nil {
		bind(p.Graph, quad.Graph)
	}
}

func (b *BGP) buildRow() *row.Row {
	out := b.newRow()
	for i := 0; i < b.table.Len(); i++ {
		if v := b.current().Get(variable.Offset(i)); v != nil {
			out.Set(variable.Offset(i), v)
		}
	}
	return out
}
