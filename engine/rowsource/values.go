package rowsource

import (
	"sparqlcore/engine/algebra"
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
)

// Values wraps a materialised rows sequence with its associated
// variable sequence (spec §4.14); read_row returns rows[i++] until
// exhausted. Used for VALUES clauses and as a leaf for tests (the
// spec's own "unit testing" use case).
type Values struct {
	base
	vars []string
	rows []algebra.ValuesRow
	pos  int
}

func NewValues(table *variable.Table, vars []string, rows []algebra.ValuesRow) *Values {
	return &Values{base: base{table: table}, vars: vars, rows: rows}
}

func (v *Values) EnsureVariables() error         { return nil }
func (v *Values) SetRequirements(Requirements)   {}
func (v *Values) GetInnerRowsource(int) Rowsource { return nil }

func (v *Values) Reset() error {
	v.finished = false
	v.failed = nil
	v.pos = 0
	return nil
}

func (v *Values) ReadAllRows() ([]*row.Row, error) { return ReadAll(v) }
func (v *Values) Finish() error                    { v.finished = true; return nil }

func (v *Values) ReadRow() (*row.Row, error) {
	if r, err, done := v.checkFailed(); done {
		return r, err
	}
	if v.pos >= len(v.rows) {
		v.finished = true
		return nil, nil
	}
	data := v.rows[v.pos]
	v.pos++
	out := v.newRow()
	for i, name := range v.vars {
		if i >= len(data.Values) || data.Values[i] == nil {
			continue
		}
		if off, ok := v.table.OffsetByName(name); ok {
			out.Set(off, data.Values[i])
		}
	}
	return out, nil
}
