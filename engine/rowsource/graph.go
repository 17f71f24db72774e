package rowsource

import (
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
	"sparqlcore/triplesource"
)

// Graph scopes the evaluation context's default graph to the named
// graph identified by origin (spec §4.15). A constant IRI origin runs
// the child once with that graph bound via Scope; a variable origin
// enumerates every known graph name from the triples source, re-runs
// the child for each, and tags emitted rows with origin := <graphIRI>.
type Graph struct {
	base
	child      Rowsource
	origin     rdf.Term
	originVar  variable.Offset
	hasVar     bool
	source     triplesource.Source
	scope      *GraphCell

	graphs   []rdf.Term
	gi       int
	started  bool
}

// NewGraph wires scope into every BGP nested under child before
// construction returns; the translator is responsible for passing the
// same *GraphCell to each leaf BGP it builds beneath this node.
func NewGraph(table *variable.Table, child Rowsource, origin rdf.Term, source triplesource.Source, scope *GraphCell) *Graph {
	g := &Graph{base: base{table: table}, child: child, origin: origin, source: source, scope: scope}
	if ref, ok := origin.(*rdf.VariableRef); ok {
		if off, ok := table.OffsetByName(ref.Name); ok {
			g.hasVar = true
			g.originVar = off
		}
	} else {
		scope.Term = origin
	}
	return g
}

func (g *Graph) EnsureVariables() error          { return g.child.EnsureVariables() }
func (g *Graph) SetRequirements(Requirements)    {}
func (g *Graph) GetInnerRowsource(n int) Rowsource {
	if n == 0 {
		return g.child
	}
	return nil
}

func (g *Graph) Reset() error {
	g.finished = false
	g.failed = nil
	g.started = false
	g.gi = 0
	g.graphs = nil
	if !g.hasVar {
		return g.child.Reset()
	}
	return nil
}

func (g *Graph) ReadAllRows() ([]*row.Row, error) { return ReadAll(g) }
func (g *Graph) Finish() error                    { g.finished = true; return g.child.Finish() }

func (g *Graph) ReadRow() (*row.Row, error) {
	if r, err, done := g.checkFailed(); done {
		return r, err
	}
	if !g.hasVar {
		r, err := g.child.ReadRow()
		if err != nil {
			return g.fail(err)
		}
		if r == nil {
			g.finished = true
		}
		return r, nil
	}

	if !g.started {
		graphs, err := g.source.Graphs()
		if err != nil {
			return g.fail(err)
		}
		g.graphs = graphs
		g.started = true
		if err := g.advanceGraph(); err != nil {
			return g.fail(err)
		}
	}

	for {
		if g.gi > len(g.graphs) {
			g.finished = true
			return nil, nil
		}
		r, err := g.child.ReadRow()
		if err != nil {
			return g.fail(err)
		}
		if r != nil {
			r.Set(g.originVar, g.scope.Term)
			return r, nil
		}
		if err := g.advanceGraph(); err != nil {
			return g.fail(err)
		}
	}
}

// advanceGraph moves to the next candidate graph and resets child;
// gi == len(graphs) means the last real graph is active, and the call
// after that pushes gi past len(graphs), which ReadRow treats as
// exhaustion.
func (g *Graph) advanceGraph() error {
	if g.gi >= len(g.graphs) {
		g.gi++
		return nil
	}
	g.scope.Term = g.graphs[g.gi]
	g.gi++
	return g.child.Reset()
}
