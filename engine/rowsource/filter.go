package rowsource

import (
	"sparqlcore/engine/expr"
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
)

// Filter wraps one child, keeping rows whose filter expression
// evaluates to boolean true and dropping rows where it evaluates to
// false or errors (spec §4.5, §7 "expression errors... absorbed by
// Filter (drops row)"). Preserves child ordering and width.
type Filter struct {
	base
	child Rowsource
	expr  *expr.Expr
	env   *EvalEnv
}

func NewFilter(table *variable.Table, child Rowsource, e *expr.Expr, env *EvalEnv) *Filter {
	return &Filter{base: base{table: table}, child: child, expr: e, env: env}
}

func (f *Filter) EnsureVariables() error  { return f.child.EnsureVariables() }
func (f *Filter) SetRequirements(r Requirements) { f.child.SetRequirements(r) }
func (f *Filter) GetInnerRowsource(n int) Rowsource {
	if n == 0 {
		return f.child
	}
	return nil
}
func (f *Filter) Reset() error          { f.finished = false; f.failed = nil; return f.child.Reset() }
func (f *Filter) ReadAllRows() ([]*row.Row, error) { return ReadAll(f) }
func (f *Filter) Finish() error         { f.finished = true; return f.child.Finish() }

func (f *Filter) ReadRow() (*row.Row, error) {
	if r, err, done := f.checkFailed(); done {
		return r, err
	}
	for {
		r, err := f.child.ReadRow()
		if err != nil {
			return f.fail(err)
		}
		if r == nil {
			f.finished = true
			return nil, nil
		}
		ctx := f.env.Context(r)
		v, evalErr := expr.Evaluate(ctx, f.expr)
		if evalErr != nil {
			continue
		}
		if v == nil {
			continue
		}
		ok, evalErr := rdf.EffectiveBoolean(v)
		if evalErr != nil || !ok {
			continue
		}
		return r, nil
	}
}
