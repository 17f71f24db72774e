package rowsource

import (
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
)

// Join is the nested-loop inner-join rowsource (spec §4.6). For each
// left row it iterates the right rowsource (reset between left rows),
// emitting the merged row whenever the two rows are compatible — the
// same shape as the teacher's nestedLoopJoinIterator, generalized from
// a per-variable map merge to the shared offset-indexed row model,
// where merge and compatibility are the package-level row.Merge/
// row.Compatible helpers.
type Join struct {
	base
	left, right     Rowsource
	rightReady      bool
	currentLeft     *row.Row
	leftExhausted   bool
}

func NewJoin(table *variable.Table, left, right Rowsource) *Join {
	return &Join{base: base{table: table}, left: left, right: right}
}

func (j *Join) EnsureVariables() error {
	if err := j.left.EnsureVariables(); err != nil {
		return err
	}
	return j.right.EnsureVariables()
}

func (j *Join) SetRequirements(r Requirements) {}

func (j *Join) GetInnerRowsource(n int) Rowsource {
	switch n {
	case 0:
		return j.left
	case 1:
		return j.right
	default:
		return nil
	}
}

func (j *Join) Reset() error {
	j.finished = false
	j.failed = nil
	j.leftExhausted = false
	j.currentLeft = nil
	j.rightReady = false
	if err := j.left.Reset(); err != nil {
		return err
	}
	return j.right.Reset()
}

func (j *Join) ReadAllRows() ([]*row.Row, error) { return ReadAll(j) }

func (j *Join) Finish() error {
	j.finished = true
	_ = j.right.Finish()
	return j.left.Finish()
}

func (j *Join) ReadRow() (*row.Row, error) {
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
			continue
		}
		if !row.Compatible(j.currentLeft, rr) {
			continue
		}
		out := row.Merge(j.table.Len(), j.nextOffset(), j.currentLeft, rr)
		return out, nil
	}
}
