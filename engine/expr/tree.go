// Package expr implements the expression tree and evaluator (spec §4.2):
// a pure, stateless function from (expression tree, current row, context)
// to a term value or an evaluation error.
package expr

import (
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
)

// Op enumerates the expression tree node variants spec §4.2 names.
type Op int

const (
	OpLiteral Op = iota
	OpVariable

	OpAnd
	OpOr
	OpNot

	OpEQ
	OpNEQ
	OpLT
	OpGT
	OpLE
	OpGE

	OpStrEQ
	OpStrNEQ

	OpPlus
	OpMinus
	OpStar
	OpSlash
	OpRem
	OpUMinus
	OpTilde

	OpStrMatch
	OpStrNMatch

	OpCall // builtin function call, see Call.Name
)

// Expr is one node of the expression tree. Which fields are meaningful
// depends on Op: Value for OpLiteral, VarName for OpVariable, Left/Right
// for binary ops, Left for unary ops (Not/UMinus/Tilde), Call for
// OpCall.
type Expr struct {
	Op      Op
	Value   rdf.Term
	VarName string
	Left    *Expr
	Right   *Expr
	Call    *CallExpr
}

// CallExpr is a builtin-function or aggregate-marker call. Aggregate
// markers (COUNT, SUM, AVG, MIN, MAX, SAMPLE, GROUP_CONCAT) are only
// legal directly under a Group rowsource (spec §4.17); evaluated through
// the plain Evaluate entry point they raise ErrAggregateOutOfContext.
type CallExpr struct {
	Name     string // uppercased builtin name, or an XSD datatype IRI for CAST
	Args     []*Expr
	Distinct bool // DISTINCT modifier on an aggregate call, e.g. COUNT(DISTINCT ?x)
}

// Literal builds a constant leaf.
func Literal(v rdf.Term) *Expr { return &Expr{Op: OpLiteral, Value: v} }

// Var builds a variable-reference leaf.
func Var(name string) *Expr { return &Expr{Op: OpVariable, VarName: name} }

// Call builds a builtin/aggregate call node.
func Call(name string, distinct bool, args ...*Expr) *Expr {
	return &Expr{Op: OpCall, Call: &CallExpr{Name: name, Args: args, Distinct: distinct}}
}

func bin(op Op, l, r *Expr) *Expr { return &Expr{Op: op, Left: l, Right: r} }
func un(op Op, l *Expr) *Expr     { return &Expr{Op: op, Left: l} }

func And(l, r *Expr) *Expr       { return bin(OpAnd, l, r) }
func Or(l, r *Expr) *Expr        { return bin(OpOr, l, r) }
func Not(e *Expr) *Expr          { return un(OpNot, e) }
func EQ(l, r *Expr) *Expr        { return bin(OpEQ, l, r) }
func NEQ(l, r *Expr) *Expr       { return bin(OpNEQ, l, r) }
func LT(l, r *Expr) *Expr        { return bin(OpLT, l, r) }
func GT(l, r *Expr) *Expr        { return bin(OpGT, l, r) }
func LE(l, r *Expr) *Expr        { return bin(OpLE, l, r) }
func GE(l, r *Expr) *Expr        { return bin(OpGE, l, r) }
func StrEQ(l, r *Expr) *Expr     { return bin(OpStrEQ, l, r) }
func StrNEQ(l, r *Expr) *Expr    { return bin(OpStrNEQ, l, r) }
func Plus(l, r *Expr) *Expr      { return bin(OpPlus, l, r) }
func Minus(l, r *Expr) *Expr     { return bin(OpMinus, l, r) }
func Star(l, r *Expr) *Expr      { return bin(OpStar, l, r) }
func Slash(l, r *Expr) *Expr     { return bin(OpSlash, l, r) }
func Rem(l, r *Expr) *Expr       { return bin(OpRem, l, r) }
func UMinus(e *Expr) *Expr       { return un(OpUMinus, e) }
func Tilde(e *Expr) *Expr        { return un(OpTilde, e) }
func StrMatch(l, r *Expr) *Expr  { return bin(OpStrMatch, l, r) }
func StrNMatch(l, r *Expr) *Expr { return bin(OpStrNMatch, l, r) }

// Variables walks e and adds every variable name it references to out,
// used by the translator to size rowsources and by BOUND-adjacent
// static checks.
func (e *Expr) Variables(out map[string]struct{}) {
	if e == nil {
		return
	}
	switch e.Op {
	case OpVariable:
		out[e.VarName] = struct{}{}
	case OpCall:
		for _, a := range e.Call.Args {
			a.Variables(out)
		}
	default:
		e.Left.Variables(out)
		e.Right.Variables(out)
	}
}

// offsetOf resolves a variable name to its table offset, registering it
// if the evaluator is run before full translation (defensive; normal use
// runs after translation has interned every pattern variable).
func offsetOf(table *variable.Table, name string) variable.Offset {
	return table.Intern(name, -1)
}
