// Package algebra defines the algebra tree (spec §3 "Algebra node"): the
// sum type a translator walks to build a rowsource tree. Nothing in this
// package parses SPARQL text — nodes are built directly by callers
// (tests, or a future query-rewriting collaborator the translator treats
// as external).
package algebra

import (
	"sparqlcore/engine/expr"
	"sparqlcore/pkg/rdf"
)

// NodeKind tags the concrete variant behind a Node, mirroring the
// optimizer's QueryPlan sum type this package generalizes.
type NodeKind int

const (
	NodeBGP NodeKind = iota
	NodeFilter
	NodeJoin
	NodeLeftJoin
	NodeUnion
	NodeMinus
	NodeGraph
	NodeExtend
	NodeProject
	NodeDistinct
	NodeOrderBy
	NodeSlice
	NodeValues
	NodeGroup
	NodeToList
	NodeService
)

// TriplePattern is one subject/predicate/object(/graph) pattern in a BGP;
// any position may be a *rdf.VariableRef naming a pattern variable, or a
// concrete constant term (spec §3 "Triple pattern").
type TriplePattern struct {
	Subject   rdf.Term
	Predicate rdf.Term
	Object    rdf.Term
	Graph     rdf.Term // nil outside GRAPH-scoped BGPs
}

// OrderCondition pairs an expression with its sort direction, used by
// both OrderBy and Group's ordering-adjacent wrappers (spec §4.2
// "ordering/group-condition wrappers").
type OrderCondition struct {
	Expr       *expr.Expr
	Descending bool
}

// Aggregate is one aggregate expression inside a Group node: a kind tag,
// the expression it aggregates (nil for COUNT(*)), a DISTINCT modifier,
// an output variable name, and (for GROUP_CONCAT) a separator.
type Aggregate struct {
	Kind      AggregateKind
	Expr      *expr.Expr
	Distinct  bool
	Output    string
	Separator string // GROUP_CONCAT only; defaults to " " per SPARQL
}

type AggregateKind int

const (
	AggCount AggregateKind = iota
	AggSum
	AggAvg
	AggMin
	AggMax
	AggSample
	AggGroupConcat
)

// ValuesRow is one materialised binding row inside a Values node: a
// parallel slice to the node's Variables naming which columns are bound.
type ValuesRow struct {
	Values []rdf.Term // nil entry means UNDEF for that column
}

// Node is one algebra-tree node. Which fields are meaningful depends on
// Kind; see the per-field comments and spec §3's "Algebra node" sum type.
type Node struct {
	Kind NodeKind

	// BGP
	Patterns    []TriplePattern
	DeclaredIn  []int // per-pattern-column: which TriplePattern first binds each referenced variable
	StartCol    int
	EndCol      int

	// Filter / LeftJoin's optional predicate / Extend's expression
	Expr *expr.Expr

	// Join / LeftJoin / Union / Minus
	Left  *Node
	Right *Node

	// single-child nodes: Filter, Graph, Extend, Project, Distinct,
	// OrderBy, Slice, Group, ToList, Service
	Child *Node

	// Graph
	GraphTerm rdf.Term // constant IRI or *rdf.VariableRef

	// Extend
	ExtendVar string

	// Project
	ProjectVars []string

	// OrderBy
	OrderBy []OrderCondition

	// Slice
	Limit  int  // -1 means "no limit"
	Offset int

	// Values
	ValuesVars []string
	ValuesRows []ValuesRow

	// Group
	GroupExprs  []*expr.Expr
	Aggregates  []Aggregate

	// Service
	ServiceIRI    rdf.Term
	ServiceSilent bool
}

// BGP builds a Basic Graph Pattern node over patterns[startCol:endCol+1]
// (spec §3 "BGP(triples-sequence, start-col, end-col)").
func BGP(patterns []TriplePattern, declaredIn []int, startCol, endCol int) *Node {
	return &Node{Kind: NodeBGP, Patterns: patterns, DeclaredIn: declaredIn, StartCol: startCol, EndCol: endCol}
}

func Filter(child *Node, e *expr.Expr) *Node { return &Node{Kind: NodeFilter, Child: child, Expr: e} }

func Join(left, right *Node) *Node { return &Node{Kind: NodeJoin, Left: left, Right: right} }

// LeftJoin builds an OPTIONAL node; filter may be nil (treated as `true`
// per spec §4.7).
func LeftJoin(left, right *Node, filter *expr.Expr) *Node {
	return &Node{Kind: NodeLeftJoin, Left: left, Right: right, Expr: filter}
}

func Union(left, right *Node) *Node { return &Node{Kind: NodeUnion, Left: left, Right: right} }

func Minus(left, right *Node) *Node { return &Node{Kind: NodeMinus, Left: left, Right: right} }

// Graph scopes child to the named graph identified by origin, a constant
// IRI or a *rdf.VariableRef (spec §4.15).
func Graph(child *Node, origin rdf.Term) *Node {
	return &Node{Kind: NodeGraph, Child: child, GraphTerm: origin}
}

// Extend adds variable, bound to the result of evaluating e over each
// child row (spec §4.16).
func Extend(child *Node, variable string, e *expr.Expr) *Node {
	return &Node{Kind: NodeExtend, Child: child, ExtendVar: variable, Expr: e}
}

func Project(child *Node, vars []string) *Node {
	return &Node{Kind: NodeProject, Child: child, ProjectVars: vars}
}

func Distinct(child *Node) *Node { return &Node{Kind: NodeDistinct, Child: child} }

func OrderBy(child *Node, conditions []OrderCondition) *Node {
	return &Node{Kind: NodeOrderBy, Child: child, OrderBy: conditions}
}

// Slice builds a LIMIT/OFFSET node; limit of -1 means unbounded (spec
// §4.13).
func Slice(child *Node, limit, offset int) *Node {
	return &Node{Kind: NodeSlice, Child: child, Limit: limit, Offset: offset}
}

func Values(vars []string, rows []ValuesRow) *Node {
	return &Node{Kind: NodeValues, ValuesVars: vars, ValuesRows: rows}
}

func Group(child *Node, groupExprs []*expr.Expr, aggregates []Aggregate) *Node {
	return &Node{Kind: NodeGroup, Child: child, GroupExprs: groupExprs, Aggregates: aggregates}
}

func ToList(child *Node) *Node { return &Node{Kind: NodeToList, Child: child} }

// Service builds a federated-query stub node (spec §1 non-goal: "federated
// SERVICE calls (stubbed)"); silent is recorded on the node, and the
// stub rowsource yields zero rows whether or not it is set.
func Service(iri rdf.Term, silent bool, child *Node) *Node {
	return &Node{Kind: NodeService, ServiceIRI: iri, ServiceSilent: silent, Child: child}
}

// Walk visits n and every descendant depth-first, calling visit once per
// node (spec §4.18 "node count is recorded via a visitor walk").
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	Walk(n.Left, visit)
	Walk(n.Right, visit)
	Walk(n.Child, visit)
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	c := 0
	Walk(n, func(*Node) { c++ })
	return c
}
