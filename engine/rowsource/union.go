package rowsource

import (
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
)

// Union yields all rows from the left rowsource followed by all rows
// from the right (spec §4.9), widening each to the shared global
// width — a variable absent on one side is simply left unbound in
// that side's rows.
type Union struct {
	base
	left, right Rowsource
	leftDone    bool
}

func NewUnion(table *variable.Table, left, right Rowsource) *Union {
	return &Union{base: base{table: table}, left: left, right: right}
}

func (u *Union) EnsureVariables() error {
	if err := u.left.EnsureVariables(); err != nil {
		return err
	}
	return u.right.EnsureVariables()
}

func (u *Union) SetRequirements(r Requirements) {
	u.left.SetRequirements(r)
	u.right.SetRequirements(r)
}

func (u *Union) GetInnerRowsource(n int) Rowsource {
	switch n {
	case 0:
		return u.left
	case 1:
		return u.right
	default:
		return nil
	}
}

func (u *Union) Reset() error {
	u.finished = false
	u.failed = nil
	u.leftDone = false
	if err := u.left.Reset(); err != nil {
		return err
	}
	return u.right.Reset()
}

func (u *Union) ReadAllRows() ([]*row.Row, error) { return ReadAll(u) }

func (u *Union) Finish() error {
	u.finished = true
	_ = u.right.Finish()
	return u.left.Finish()
}

func (u *Union) ReadRow() (*row.Row, error) {
	if r, err, done := u.checkFailed(); done {
		return r, err
	}
	if !u.leftDone {
		r, err := u.left.ReadRow()
		if err != nil {
			return u.fail(err)
		}
		if r != nil {
			r.Offset = u.nextOffset()
			return r, nil
		}
		u.leftDone = true
	}
	r, err := u.right.ReadRow()
	if err != nil {
		return u.fail(err)
	}
	if r == nil {
		u.finished = true
		return nil, nil
	}
	r.Offset = u.nextOffset()
	return r, nil
}
