package rowsource

import (
	"sparqlcore/engine/expr"
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
)

// LeftJoin is the OPTIONAL rowsource (spec §4.7): like Join, but a
// merged row is only emitted when the rows are compatible AND the
// optional filter expression (nil means "true") evaluated over the
// merged bindings holds. If no right row satisfies that for a given
// left row, the left row is emitted unchanged with the right side
// left unbound.
type LeftJoin struct {
	base
	left, right   Rowsource
	filter        *expr.Expr
	env           *EvalEnv
	rightReady    bool
	currentLeft   *row.Row
	leftMatched   bool
	leftExhausted bool
}

func NewLeftJoin(table *variable.Table, left, right Rowsource, filter *expr.Expr, env *EvalEnv) *LeftJoin {
	return &LeftJoin{base: base{table: table}, left: left, right: right, filter: filter, env: env}
}

func (j *LeftJoin) EnsureVariables() error {
	if err := j.left.EnsureVariables(); err != nil {
		return err
	}
	return j.right.EnsureVariables()
}

func (j *LeftJoin) SetRequirements(Requirements) {}

func (j *LeftJoin) GetInnerRowsource(n int) Rowsource {
	switch n {
	case 0:
		return j.left
	case 1:
		return j.right
	default:
		return nil
	}
}

func (j *LeftJoin) Reset() error {
	j.finished = false
	j.failed = nil
	j.leftExhausted = false
	j.currentLeft = nil
	j.rightReady = false
	j.leftMatched = false
	if err := j.left.Reset(); err != nil {
		return err
	}
	return j.right.Reset()
}

func (j *LeftJoin) ReadAllRows() ([]*row.Row, error) { return ReadAll(j) }

func (j *LeftJoin) Finish() error {
	j.finished = true
	_ = j.right.Finish()
	return j.left.Finish()
}

func (j *LeftJoin) ReadRow() (*row.Row, error) {
	if r, err, done := j.checkFailed(); done {
		return r, err
	}
	for {
		if !j.rightReady {
			if j.leftExhausted {
				j.finished = true
				return nil, nil
			}
			lr, err := j.left.ReadRow()
			if err != nil {
				return j.fail(err)
			}
			if lr == nil {
				j.leftExhausted = true
				continue
			}
			j.currentLeft = lr
			j.leftMatched = false
			if err := j.right.Reset(); err != nil {
				return j.fail(err)
			}
			j.rightReady = true
		}

		rr, err := j.right.ReadRow()
		if err != nil {
			return j.fail(err)
		}
		if rr == nil {
			j.rightReady = false
			if !j.leftMatched {
				out := j.currentLeft.Clone()
				out.Offset = j.nextOffset()
				return out, nil
			}
			continue
		}
		if !row.Compatible(j.currentLeft, rr) {
			continue
		}
		merged := row.Merge(j.table.Len(), 0, j.currentLeft, rr)
		ok, predErr := j.evalFilter(merged)
		if predErr != nil || !ok {
			continue
		}
		j.leftMatched = true
		merged.Offset = j.nextOffset()
		return merged, nil
	}
}

func (j *LeftJoin) evalFilter(merged *row.Row) (bool, error) {
	if j.filter == nil {
		return true, nil
	}
	ctx := j.env.Context(merged)
	v, err := expr.Evaluate(ctx, j.filter)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, nil
	}
	b, err := rdf.EffectiveBoolean(v)
	if err != nil {
		return false, nil
	}
	return b, nil
}
