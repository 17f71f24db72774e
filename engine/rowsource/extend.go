package rowsource

import (
	"sparqlcore/engine/expr"
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
)

// Extend adds one variable, named up front, whose value is the result
// of evaluating an expression against the child row (spec §4.16). An
// expression error leaves the variable unbound rather than dropping
// the row. Emit order matches child order.
type Extend struct {
	base
	child  Rowsource
	off    variable.Offset
	hasOff bool
	expr   *expr.Expr
	env    *EvalEnv
}

func NewExtend(table *variable.Table, child Rowsource, varName string, e *expr.Expr, env *EvalEnv) *Extend {
	off, ok := table.OffsetByName(varName)
	return &Extend{base: base{table: table}, child: child, off: off, hasOff: ok, expr: e, env: env}
}

func (x *Extend) EnsureVariables() error          { return x.child.EnsureVariables() }
func (x *Extend) SetRequirements(r Requirements)  { x.child.SetRequirements(r) }
func (x *Extend) GetInnerRowsource(n int) Rowsource {
	if n == 0 {
		return x.child
	}
	return nil
}
func (x *Extend) Reset() error          { x.finished = false; x.failed = nil; return x.child.Reset() }
func (x *Extend) ReadAllRows() ([]*row.Row, error) { return ReadAll(x) }
func (x *Extend) Finish() error         { x.finished = true; return x.child.Finish() }

func (x *Extend) ReadRow() (*row.Row, error) {
	if r, err, done := x.checkFailed(); done {
		return r, err
	}
	r, err := x.child.ReadRow()
	if err != nil {
		return x.fail(err)
	}
	if r == nil {
		x.finished = true
		return nil, nil
	}
	if x.hasOff {
		ctx := x.env.Context(r)
		v, evalErr := expr.Evaluate(ctx, x.expr)
		if evalErr == nil && v != nil {
			r.Set(x.off, v)
		}
	}
	return r, nil
}
