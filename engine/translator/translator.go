// Package translator builds a rowsource tree from an algebra tree (spec
// §4.18 "Algebra translator"): a recursive walk that instantiates one
// concrete rowsource per algebra node, the same switch-dispatch shape as
// the teacher's Executor.createIterator over optimizer.QueryPlan.
package translator

import (
	"fmt"

	"sparqlcore/engine/algebra"
	"sparqlcore/engine/rowsource"
	"sparqlcore/engine/variable"
	"sparqlcore/triplesource"
)

// Translator holds the per-query context every operator needs: the
// shared variables table, the triples source, and the evaluation
// environment (clock, blank-node counter, RNG seed) threaded into every
// expression-evaluating operator.
type Translator struct {
	Table  *variable.Table
	Source triplesource.Source
	Env    *rowsource.EvalEnv
}

func New(table *variable.Table, source triplesource.Source, env *rowsource.EvalEnv) *Translator {
	return &Translator{Table: table, Source: source, Env: env}
}

// Build translates the algebra tree rooted at n into a rowsource tree,
// calling build with no enclosing GRAPH cell. build threads that cell
// down unchanged through every composite node and hands it to each BGP
// leaf, but replaces it with a fresh cell on entering a nested Graph
// node (spec §4.15).
func (t *Translator) Build(n *algebra.Node) (rowsource.Rowsource, error) {
	return t.build(n, nil)
}

func (t *Translator) build(n *algebra.Node, scope *rowsource.GraphCell) (rowsource.Rowsource, error) {
	if n == nil {
		return nil, fmt.Errorf("translator: nil algebra node")
	}

	switch n.Kind {
	case algebra.NodeBGP:
		return t.buildBGP(n, scope)

	case algebra.NodeFilter:
		child, err := t.build(n.Child, scope)
		if err != nil {
			return nil, fmt.Errorf("translator: filter child: %w", err)
		}
		return rowsource.NewFilter(t.Table, child, n.Expr, t.Env), nil

	case algebra.NodeJoin:
		left, right, err := t.buildPair(n, scope)
		if err != nil {
			return nil, fmt.Errorf("translator: join: %w", err)
		}
		return rowsource.NewJoin(t.Table, left, right), nil

	case algebra.NodeLeftJoin:
		left, right, err := t.buildPair(n, scope)
		if err != nil {
			return nil, fmt.Errorf("translator: leftjoin: %w", err)
		}
		return rowsource.NewLeftJoin(t.Table, left, right, n.Expr, t.Env), nil

	case algebra.NodeUnion:
		left, right, err := t.buildPair(n, scope)
		if err != nil {
			return nil, fmt.Errorf("translator: union: %w", err)
		}
		return rowsource.NewUnion(t.Table, left, right), nil

	case algebra.NodeMinus:
		left, right, err := t.buildPair(n, scope)
		if err != nil {
			return nil, fmt.Errorf("translator: minus: %w", err)
		}
		return rowsource.NewMinus(t.Table, left, right), nil

	case algebra.NodeGraph:
		return t.buildGraph(n)

	case algebra.NodeExtend:
		child, err := t.build(n.Child, scope)
		if err != nil {
			return nil, fmt.Errorf("translator: extend child: %w", err)
		}
		return rowsource.NewExtend(t.Table, child, n.ExtendVar, n.Expr, t.Env), nil

	case algebra.NodeProject:
		child, err := t.build(n.Child, scope)
		if err != nil {
			return nil, fmt.Errorf("translator: project child: %w", err)
		}
		return rowsource.NewProject(t.Table, child, n.ProjectVars), nil

	case algebra.NodeDistinct:
		child, err := t.build(n.Child, scope)
		if err != nil {
			return nil, fmt.Errorf("translator: distinct child: %w", err)
		}
		return rowsource.NewDistinct(t.Table, child), nil

	case algebra.NodeOrderBy:
		child, err := t.build(n.Child, scope)
		if err != nil {
			return nil, fmt.Errorf("translator: orderby child: %w", err)
		}
		return rowsource.NewSort(t.Table, child, n.OrderBy, t.Env), nil

	case algebra.NodeSlice:
		child, err := t.build(n.Child, scope)
		if err != nil {
			return nil, fmt.Errorf("translator: slice child: %w", err)
		}
		return rowsource.NewSlice(t.Table, child, n.Limit, n.Offset), nil

	case algebra.NodeValues:
		return rowsource.NewValues(t.Table, n.ValuesVars, n.ValuesRows), nil

	case algebra.NodeGroup:
		child, err := t.build(n.Child, scope)
		if err != nil {
			return nil, fmt.Errorf("translator: group child: %w", err)
		}
		return rowsource.NewGroup(t.Table, child, n.GroupExprs, n.Aggregates, t.Env), nil

	case algebra.NodeToList:
		// ToList converts a multiset into a list for operators that care
		// about order; every rowsource here is already a sequential pull
		// iterator, so this is the identity translation.
		return t.build(n.Child, scope)

	case algebra.NodeService:
		return rowsource.NewService(t.Table, n.ServiceIRI, n.ServiceSilent, nil), nil

	default:
		return nil, fmt.Errorf("translator: unsupported node kind %d", n.Kind)
	}
}

func (t *Translator) buildPair(n *algebra.Node, scope *rowsource.GraphCell) (rowsource.Rowsource, rowsource.Rowsource, error) {
	left, err := t.build(n.Left, scope)
	if err != nil {
		return nil, nil, fmt.Errorf("left: %w", err)
	}
	right, err := t.build(n.Right, scope)
	if err != nil {
		left.Finish()
		return nil, nil, fmt.Errorf("right: %w", err)
	}
	return left, right, nil
}

func (t *Translator) buildBGP(n *algebra.Node, scope *rowsource.GraphCell) (rowsource.Rowsource, error) {
	patterns := n.Patterns[n.StartCol : n.EndCol+1]
	declaredIn := n.DeclaredIn[n.StartCol : n.EndCol+1]
	bgp := rowsource.NewBGP(t.Table, t.Source, patterns, declaredIn)
	bgp.Scope = scope
	return bgp, nil
}

func (t *Translator) buildGraph(n *algebra.Node) (rowsource.Rowsource, error) {
	cell := &rowsource.GraphCell{}
	child, err := t.build(n.Child, cell)
	if err != nil {
		return nil, fmt.Errorf("translator: graph child: %w", err)
	}
	return rowsource.NewGraph(t.Table, child, n.GraphTerm, t.Source, cell), nil
}
