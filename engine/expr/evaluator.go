package expr

import (
	"errors"
	"math/rand"
	"time"

	"sparqlcore/engine/row"
	"sparqlcore/pkg/rdf"
)

// Errors signalled by the evaluator itself, distinct from the rdf
// package's type/arithmetic errors they wrap and propagate (spec §7
// "expression errors").
var (
	ErrUnboundInContext       = errors.New("expr: operand is unbound")
	ErrAggregateOutOfContext  = errors.New("expr: aggregate expression evaluated outside a grouping context")
	ErrUnsupportedFunction    = errors.New("expr: unsupported function")
	ErrWrongArity             = errors.New("expr: wrong number of arguments")
	ErrBoundRequiresVariable  = errors.New("expr: BOUND requires a variable argument")
	ErrCannotCoerceToString   = errors.New("expr: cannot coerce term to string")
	ErrUnsupportedRegexFlag   = errors.New("expr: unsupported regex flag")
)

// Context threads the per-evaluation state the spec's design notes call
// for: the current row, a clock, a seeded random generator for RAND(),
// and a shared counter for anonymous BNODE() labels (spec §9 "Random
// numbers", "Blank-node identifier generation").
type Context struct {
	Row         *row.Row
	Now         time.Time
	BlankPrefix string
	rand        *rand.Rand
	blankSeq    *uint64
}

// NewContext builds an evaluation context for one row. seed always seeds
// a fresh rand.NewSource, 0 included; tests pass a fixed seed for
// determinism (spec §9 "Deterministic reseed is exposed for tests").
func NewContext(r *row.Row, now time.Time, blankPrefix string, seed int64, blankSeq *uint64) *Context {
	src := rand.NewSource(seed)
	return &Context{Row: r, Now: now, BlankPrefix: blankPrefix, rand: rand.New(src), blankSeq: blankSeq}
}

func (c *Context) freshBlank() *rdf.Blank {
	*c.blankSeq++
	return rdf.NewBlank(c.BlankPrefix + itoa(*c.blankSeq))
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// Evaluate recursively evaluates e against ctx. A nil term with a nil
// error means "unbound" (SPARQL None); a non-nil error means "evaluation
// error" (SPARQL error) — the distinction callers (Filter, LeftJoin,
// COALESCE, AND/OR) must preserve (spec §9 "Expression tree recursion").
func Evaluate(ctx *Context, e *Expr) (rdf.Term, error) {
	if e == nil {
		return nil, nil
	}
	switch e.Op {
	case OpLiteral:
		return e.Value, nil
	case OpVariable:
		off, ok := ctx.Row.Table.OffsetByName(e.VarName)
		if !ok {
			return nil, nil
		}
		return ctx.Row.Get(off), nil
	case OpAnd:
		return evalAnd(ctx, e.Left, e.Right)
	case OpOr:
		return evalOr(ctx, e.Left, e.Right)
	case OpNot:
		b, err := evalBool(ctx, e.Left)
		if err != nil {
			return nil, err
		}
		return rdf.NewBooleanLiteral(!b), nil
	case OpEQ, OpNEQ:
		return evalEquality(ctx, e)
	case OpLT, OpGT, OpLE, OpGE:
		return evalOrdering(ctx, e)
	case OpStrEQ, OpStrNEQ:
		return evalStringCompare(ctx, e)
	case OpPlus, OpMinus, OpStar, OpSlash, OpRem:
		return evalArithmetic(ctx, e)
	case OpUMinus:
		return evalUnaryMinus(ctx, e)
	case OpTilde:
		return evalTilde(ctx, e)
	case OpStrMatch, OpStrNMatch:
		return evalStrMatch(ctx, e)
	case OpCall:
		return evalCall(ctx, e.Call)
	default:
		return nil, ErrUnsupportedFunction
	}
}

// evalBool evaluates e and coerces the result to EBV, treating an
// unbound result as an error (there is no term to coerce).
func evalBool(ctx *Context, e *Expr) (bool, error) {
	t, err := Evaluate(ctx, e)
	if err != nil {
		return false, err
	}
	if t == nil {
		return false, ErrUnboundInContext
	}
	return rdf.EffectiveBoolean(t)
}

// evalAnd implements spec §4.2's three-valued AND truth table: if both
// sides error, propagate error; "false AND error" is false; otherwise an
// error on either side propagates.
func evalAnd(ctx *Context, l, r *Expr) (rdf.Term, error) {
	lv, lerr := evalBool(ctx, l)
	if lerr == nil && !lv {
		return rdf.NewBooleanLiteral(false), nil
	}
	rv, rerr := evalBool(ctx, r)
	if rerr == nil && !rv {
		return rdf.NewBooleanLiteral(false), nil
	}
	if lerr != nil || rerr != nil {
		if lerr != nil {
			return nil, lerr
		}
		return nil, rerr
	}
	return rdf.NewBooleanLiteral(lv && rv), nil
}

// evalOr mirrors evalAnd: "true OR error" is true; otherwise an error on
// either side propagates.
func evalOr(ctx *Context, l, r *Expr) (rdf.Term, error) {
	lv, lerr := evalBool(ctx, l)
	if lerr == nil && lv {
		return rdf.NewBooleanLiteral(true), nil
	}
	rv, rerr := evalBool(ctx, r)
	if rerr == nil && rv {
		return rdf.NewBooleanLiteral(true), nil
	}
	if lerr != nil || rerr != nil {
		if lerr != nil {
			return nil, lerr
		}
		return nil, rerr
	}
	return rdf.NewBooleanLiteral(lv || rv), nil
}

func evalBoth(ctx *Context, l, r *Expr) (rdf.Term, rdf.Term, error) {
	lv, err := Evaluate(ctx, l)
	if err != nil {
		return nil, nil, err
	}
	rv, err := Evaluate(ctx, r)
	if err != nil {
		return nil, nil, err
	}
	if lv == nil || rv == nil {
		return nil, nil, ErrUnboundInContext
	}
	return lv, rv, nil
}

func evalEquality(ctx *Context, e *Expr) (rdf.Term, error) {
	lv, rv, err := evalBoth(ctx, e.Left, e.Right)
	if err != nil {
		return nil, err
	}
	eq, err := rdf.ValueEquals(lv, rv, false)
	if err != nil {
		return nil, err
	}
	if e.Op == OpNEQ {
		eq = !eq
	}
	return rdf.NewBooleanLiteral(eq), nil
}

func evalOrdering(ctx *Context, e *Expr) (rdf.Term, error) {
	lv, rv, err := evalBoth(ctx, e.Left, e.Right)
	if err != nil {
		return nil, err
	}
	c, err := rdf.Compare(lv, rv)
	if err != nil {
		return nil, err
	}
	var result bool
	switch e.Op {
	case OpLT:
		result = c < 0
	case OpGT:
		result = c > 0
	case OpLE:
		result = c <= 0
	case OpGE:
		result = c >= 0
	}
	return rdf.NewBooleanLiteral(result), nil
}

func evalStringCompare(ctx *Context, e *Expr) (rdf.Term, error) {
	lv, rv, err := evalBoth(ctx, e.Left, e.Right)
	if err != nil {
		return nil, err
	}
	ls, err := coerceString(lv)
	if err != nil {
		return nil, err
	}
	rs, err := coerceString(rv)
	if err != nil {
		return nil, err
	}
	eq := equalFold(ls, rs)
	if e.Op == OpStrNEQ {
		eq = !eq
	}
	return rdf.NewBooleanLiteral(eq), nil
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ac, bc := a[i], b[i]
		if 'A' <= ac && ac <= 'Z' {
			ac += 'a' - 'A'
		}
		if 'A' <= bc && bc <= 'Z' {
			bc += 'a' - 'A'
		}
		if ac != bc {
			return false
		}
	}
	return true
}

func evalArithmetic(ctx *Context, e *Expr) (rdf.Term, error) {
	lv, rv, err := evalBoth(ctx, e.Left, e.Right)
	if err != nil {
		return nil, err
	}
	ll, ok := lv.(*rdf.Literal)
	rl, rok := rv.(*rdf.Literal)
	if !ok || !rok {
		return nil, rdf.ErrTypeMismatch
	}
	switch e.Op {
	case OpPlus:
		return rdf.Add(ll, rl)
	case OpMinus:
		return rdf.Sub(ll, rl)
	case OpStar:
		return rdf.Mul(ll, rl)
	case OpSlash:
		return rdf.Div(ll, rl)
	case OpRem:
		return remainder(ll, rl)
	default:
		return nil, ErrUnsupportedFunction
	}
}

func remainder(a, b *rdf.Literal) (rdf.Term, error) {
	if a.Kind != rdf.LiteralKindInteger || b.Kind != rdf.LiteralKindInteger {
		return nil, rdf.ErrTypeMismatch
	}
	if b.IntValue == 0 {
		return nil, rdf.ErrDivideByZero
	}
	return rdf.NewIntegerLiteral(a.IntValue % b.IntValue), nil
}

func evalUnaryMinus(ctx *Context, e *Expr) (rdf.Term, error) {
	v, err := Evaluate(ctx, e.Left)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrUnboundInContext
	}
	lit, ok := v.(*rdf.Literal)
	if !ok {
		return nil, rdf.ErrTypeMismatch
	}
	return rdf.Negate(lit)
}

func evalTilde(ctx *Context, e *Expr) (rdf.Term, error) {
	v, err := Evaluate(ctx, e.Left)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrUnboundInContext
	}
	lit, ok := v.(*rdf.Literal)
	if !ok || lit.Kind != rdf.LiteralKindInteger {
		return nil, rdf.ErrTypeMismatch
	}
	return rdf.NewIntegerLiteral(^lit.IntValue), nil
}

func evalStrMatch(ctx *Context, e *Expr) (rdf.Term, error) {
	lv, rv, err := evalBoth(ctx, e.Left, e.Right)
	if err != nil {
		return nil, err
	}
	text, err := coerceString(lv)
	if err != nil {
		return nil, err
	}
	pattern, flags, err := patternAndFlags(rv)
	if err != nil {
		return nil, err
	}
	matched, err := regexMatch(text, pattern, flags)
	if err != nil {
		return nil, err
	}
	if e.Op == OpStrNMatch {
		matched = !matched
	}
	return rdf.NewBooleanLiteral(matched), nil
}

func patternAndFlags(t rdf.Term) (string, string, error) {
	if p, ok := t.(*rdf.Pattern); ok {
		return p.Regex, p.Flags, nil
	}
	s, err := coerceString(t)
	return s, "", err
}

// coerceString extracts the lexical form used by string-family
// builtins/operators: IRIs by their IRI text, any literal by its
// lexical form.
func coerceString(t rdf.Term) (string, error) {
	switch v := t.(type) {
	case *rdf.IRI:
		return v.Value, nil
	case *rdf.Literal:
		return v.Lexical, nil
	default:
		return "", ErrCannotCoerceToString
	}
}
