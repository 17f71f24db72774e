package rowsource

import (
	"strconv"

	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
)

// Distinct streams duplicate elimination keyed by same-term tuple over
// every column (spec §4.11). A hash set is used, matching the
// teacher's distinctIterator; the observable contract is that the
// first occurrence of each distinct row survives in its original
// relative position.
type Distinct struct {
	base
	child Rowsource
	seen  map[string]struct{}
}

func NewDistinct(table *variable.Table, child Rowsource) *Distinct {
	return &Distinct{base: base{table: table}, child: child, seen: make(map[string]struct{})}
}

func (d *Distinct) EnsureVariables() error { return d.child.EnsureVariables() }
func (d *Distinct) SetRequirements(r Requirements) {
	r.DistinctOnly = true
	d.child.SetRequirements(r)
}
func (d *Distinct) GetInnerRowsource(n int) Rowsource {
	if n == 0 {
		return d.child
	}
	return nil
}
func (d *Distinct) Reset() error {
	d.finished = false
	d.failed = nil
	d.seen = make(map[string]struct{})
	return d.child.Reset()
}
func (d *Distinct) ReadAllRows() ([]*row.Row, error) { return ReadAll(d) }
func (d *Distinct) Finish() error                    { d.finished = true; return d.child.Finish() }

func (d *Distinct) ReadRow() (*row.Row, error) {
	if r, err, done := d.checkFailed(); done {
		return r, err
	}
	for {
		r, err := d.child.ReadRow()
		if err != nil {
			return d.fail(err)
		}
		if r == nil {
			d.finished = true
			return nil, nil
		}
		key := rowKey(r)
		if _, dup := d.seen[key]; dup {
			continue
		}
		d.seen[key] = struct{}{}
		return r, nil
	}
}

func rowKey(r *row.Row) string {
	key := make([]byte, 0, 64)
	for i := 0; i < r.Width(); i++ {
		v := r.Get(variable.Offset(i))
		key = append(key, '\x1f')
		if v == nil {
			key = append(key, '_')
			continue
		}
		key = strconv.AppendQuote(key, v.String())
	}
	return string(key)
}
