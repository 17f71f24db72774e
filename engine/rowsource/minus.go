package rowsource

import (
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
)

// Minus is the set-difference rowsource (spec §4.8). For each left
// row, it scans the right rowsource fully (reset per left row) and
// drops the left row iff some right row shares at least one bound
// variable with it AND agrees with it on every shared bound variable.
// "Vacuously compatible" rows — zero shared bound variables — do NOT
// cause removal, the critical SPARQL MINUS rule row.SharedBound
// exists to test.
type Minus struct {
	base
	left, right Rowsource
}

func NewMinus(table *variable.Table, left, right Rowsource) *Minus {
	return &Minus{base: base{table: table}, left: left, right: right}
}

func (m *Minus) EnsureVariables() error {
	if err := m.left.EnsureVariables(); err != nil {
		return err
	}
	return m.right.EnsureVariables()
}

func (m *Minus) SetRequirements(Requirements) {}

func (m *Minus) GetInnerRowsource(n int) Rowsource {
	switch n {
	case 0:
		return m.left
	case 1:
		return m.right
	default:
		return nil
	}
}

func (m *Minus) Reset() error {
	m.finished = false
	m.failed = nil
	return m.left.Reset()
}

func (m *Minus) ReadAllRows() ([]*row.Row, error) { return ReadAll(m) }

func (m *Minus) Finish() error {
	m.finished = true
	_ = m.right.Finish()
	return m.left.Finish()
}

func (m *Minus) ReadRow() (*row.Row, error) {
	if r, err, done := m.checkFailed(); done {
		return r, err
	}
	for {
		lr, err := m.left.ReadRow()
		if err != nil {
			return m.fail(err)
		}
		if lr == nil {
			m.finished = true
			return nil, nil
		}
		if err := m.right.Reset(); err != nil {
			return m.fail(err)
		}
		removed, err := m.matchedByRight(lr)
		if err != nil {
			return m.fail(err)
		}
		if !removed {
			return lr, nil
		}
	}
}

func (m *Minus) matchedByRight(lr *row.Row) (bool, error) {
	for {
		rr, err := m.right.ReadRow()
		if err != nil {
			return false, err
		}
		if rr == nil {
			return false, nil
		}
		if !row.SharedBound(lr, rr) {
			continue
		}
		if row.Compatible(lr, rr) {
			return true, nil
		}
	}
}
