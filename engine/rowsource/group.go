package rowsource

import (
	"strconv"
	"strings"

	"sparqlcore/engine/algebra"
	"sparqlcore/engine/expr"
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
)

// Group is the aggregation rowsource (spec §4.17). It consumes every
// child row eagerly (no pre-sorted-child fast path is implemented —
// the spec allows but does not require it), bucketing by the group-key
// tuple, then emits one row per group combining the key values with
// one value per aggregate. With no group expressions, SPARQL's "no
// GROUP BY means one implicit group" rule applies: a group is always
// emitted even over zero child rows.
type Group struct {
	base
	child      Rowsource
	groupExprs []*expr.Expr
	aggregates []algebra.Aggregate
	env        *EvalEnv

	keyOffsets    []variable.Offset
	hasKeyOffset  []bool
	outOffsets    []variable.Offset
	hasOutOffset  []bool

	order []*groupBucket
	index map[string]int
	pos   int
	done  bool
}

type groupBucket struct {
	keyValues []rdf.Term
	states    []*aggState
}

func NewGroup(table *variable.Table, child Rowsource, groupExprs []*expr.Expr, aggregates []algebra.Aggregate, env *EvalEnv) *Group {
	g := &Group{base: base{table: table}, child: child, groupExprs: groupExprs, aggregates: aggregates, env: env}
	for _, ge := range groupExprs {
		if ge.Op == expr.OpVariable {
			if off, ok := table.OffsetByName(ge.VarName); ok {
				g.keyOffsets = append(g.keyOffsets, off)
				g.hasKeyOffset = append(g.hasKeyOffset, true)
				continue
			}
		}
		g.keyOffsets = append(g.keyOffsets, 0)
		g.hasKeyOffset = append(g.hasKeyOffset, false)
	}
	for _, agg := range aggregates {
		if off, ok := table.OffsetByName(agg.Output); ok {
			g.outOffsets = append(g.outOffsets, off)
			g.hasOutOffset = append(g.hasOutOffset, true)
			continue
		}
		g.outOffsets = append(g.outOffsets, 0)
		g.hasOutOffset = append(g.hasOutOffset, false)
	}
	return g
}

func (g *Group) EnsureVariables() error          { return g.child.EnsureVariables() }
func (g *Group) SetRequirements(Requirements)    {}
func (g *Group) GetInnerRowsource(n int) Rowsource {
	if n == 0 {
		return g.child
	}
	return nil
}

func (g *Group) Reset() error {
	g.finished = false
	g.failed = nil
	g.done = false
	g.order = nil
	g.index = nil
	g.pos = 0
	return g.child.Reset()
}

func (g *Group) ReadAllRows() ([]*row.Row, error) { return ReadAll(g) }
func (g *Group) Finish() error                    { g.finished = true; return g.child.Finish() }

func (g *Group) ReadRow() (*row.Row, error) {
	if r, err, done := g.checkFailed(); done {
		return r, err
	}
	if !g.done {
		if err := g.consumeAll(); err != nil {
			return g.fail(err)
		}
		g.done = true
	}
	if g.pos >= len(g.order) {
		g.finished = true
		return nil, nil
	}
	bucket := g.order[g.pos]
	g.pos++

	out := g.newRow()
	for i, off := range g.keyOffsets {
		if g.hasKeyOffset[i] && bucket.keyValues[i] != nil {
			out.Set(off, bucket.keyValues[i])
		}
	}
	for i, st := range bucket.states {
		if g.hasOutOffset[i] {
			if v := st.result(); v != nil {
				out.Set(g.outOffsets[i], v)
			}
		}
	}
	return out, nil
}

func (g *Group) consumeAll() error {
	g.index = make(map[string]int)
	if len(g.groupExprs) == 0 {
		g.order = append(g.order, g.newBucket(nil))
	}
	for {
		r, err := g.child.ReadRow()
		if err != nil {
			return err
		}
		if r == nil {
			return nil
		}
		ctx := g.env.Context(r)
		keyValues := make([]rdf.Term, len(g.groupExprs))
		keyParts := make([]byte, 0, 32)
		for i, ge := range g.groupExprs {
			v, err := expr.Evaluate(ctx, ge)
			if err == nil {
				keyValues[i] = v
			}
			keyParts = append(keyParts, '\x1f')
			if v != nil {
				keyParts = strconv.AppendQuote(keyParts, v.String())
			}
		}

		var bucket *groupBucket
		if len(g.groupExprs) == 0 {
			bucket = g.order[0]
		} else {
			key := string(keyParts)
			idx, ok := g.index[key]
			if !ok {
				bucket = g.newBucket(keyValues)
				idx = len(g.order)
				g.order = append(g.order, bucket)
				g.index[key] = idx
			} else {
				bucket = g.order[idx]
			}
		}

		for i, agg := range g.aggregates {
			var v rdf.Term
			if agg.Expr == nil {
				v = rdf.NewBooleanLiteral(true) // COUNT(*) marker
			} else {
				v, _ = expr.Evaluate(ctx, agg.Expr)
			}
			bucket.states[i].add(v)
		}
	}
}

func (g *Group) newBucket(keyValues []rdf.Term) *groupBucket {
	states := make([]*aggState, len(g.aggregates))
	for i, agg := range g.aggregates {
		states[i] = newAggState(agg)
	}
	return &groupBucket{keyValues: keyValues, states: states}
}

// aggState accumulates one aggregate expression's running value across
// a group (spec §4.17's COUNT/SUM/AVG/MIN/MAX/SAMPLE/GROUP_CONCAT).
type aggState struct {
	kind   algebra.AggregateKind
	count  int64
	sum    rdf.Term
	min    rdf.Term
	max    rdf.Term
	sample rdf.Term
	parts  []string
	sep    string
	seen   map[string]struct{}
}

func newAggState(agg algebra.Aggregate) *aggState {
	st := &aggState{kind: agg.Kind, sep: agg.Separator}
	if st.sep == "" {
		st.sep = " "
	}
	if agg.Distinct {
		st.seen = make(map[string]struct{})
	}
	return st
}

func (st *aggState) add(v rdf.Term) {
	if v == nil {
		return
	}
	if st.seen != nil {
		key := v.String()
		if _, dup := st.seen[key]; dup {
			return
		}
		st.seen[key] = struct{}{}
	}
	switch st.kind {
	case algebra.AggCount:
		st.count++
	case algebra.AggSum:
		lit, ok := v.(*rdf.Literal)
		if !ok {
			return
		}
		if st.sum == nil {
			st.sum = lit
			return
		}
		if res, err := rdf.Add(st.sum.(*rdf.Literal), lit); err == nil {
			st.sum = res
		}
	case algebra.AggAvg:
		lit, ok := v.(*rdf.Literal)
		if !ok {
			return
		}
		st.count++
		if st.sum == nil {
			st.sum = lit
			return
		}
		if res, err := rdf.Add(st.sum.(*rdf.Literal), lit); err == nil {
			st.sum = res
		}
	case algebra.AggMin:
		if st.min == nil {
			st.min = v
			return
		}
		if c, err := rdf.Compare(v, st.min); err == nil && c < 0 {
			st.min = v
		}
	case algebra.AggMax:
		if st.max == nil {
			st.max = v
			return
		}
		if c, err := rdf.Compare(v, st.max); err == nil && c > 0 {
			st.max = v
		}
	case algebra.AggSample:
		if st.sample == nil {
			st.sample = v
		}
	case algebra.AggGroupConcat:
		if lit, ok := v.(*rdf.Literal); ok {
			st.parts = append(st.parts, lit.Lexical)
		} else if iri, ok := v.(*rdf.IRI); ok {
			st.parts = append(st.parts, iri.Value)
		}
	}
}

func (st *aggState) result() rdf.Term {
	switch st.kind {
	case algebra.AggCount:
		return rdf.NewIntegerLiteral(st.count)
	case algebra.AggSum:
		if st.sum == nil {
			return rdf.NewIntegerLiteral(0)
		}
		return st.sum
	case algebra.AggAvg:
		if st.sum == nil || st.count == 0 {
			return rdf.NewIntegerLiteral(0)
		}
		v, err := rdf.Div(st.sum.(*rdf.Literal), rdf.NewIntegerLiteral(st.count))
		if err != nil {
			return nil
		}
		return v
	case algebra.AggMin:
		return st.min
	case algebra.AggMax:
		return st.max
	case algebra.AggSample:
		return st.sample
	case algebra.AggGroupConcat:
		return rdf.NewPlainLiteral(strings.Join(st.parts, st.sep))
	default:
		return nil
	}
}
