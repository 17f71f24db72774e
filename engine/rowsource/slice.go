package rowsource

import (
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
)

// Slice implements LIMIT/OFFSET (spec §4.13): discards the first
// offset child rows, then emits up to limit subsequent rows. Limit of
// -1 means unbounded, matching algebra.Node's Limit convention.
// Resetting re-skips the offset, mirroring the teacher's separate
// offsetIterator/limitIterator collapsed into one operator.
type Slice struct {
	base
	child   Rowsource
	limit   int
	offset  int
	skipped int
	emitted int
}

func NewSlice(table *variable.Table, child Rowsource, limit, offset int) *Slice {
	return &Slice{base: base{table: table}, child: child, limit: limit, offset: offset}
}

func (s *Slice) EnsureVariables() error { return s.child.EnsureVariables() }
func (s *Slice) SetRequirements(r Requirements) {
	if s.limit >= 0 {
		r.Limit = s.limit + s.offset
	}
	s.child.SetRequirements(r)
}
func (s *Slice) GetInnerRowsource(n int) Rowsource {
	if n == 0 {
		return s.child
	}
	return nil
}

func (s *Slice) Reset() error {
	s.finished = false
	s.failed = nil
	s.skipped = 0
	s.emitted = 0
	return s.child.Reset()
}

func (s *Slice) ReadAllRows() ([]*row.Row, error) { return ReadAll(s) }
func (s *Slice) Finish() error                    { s.finished = true; return s.child.Finish() }

func (s *Slice) ReadRow() (*row.Row, error) {
	if r, err, done := s.checkFailed(); done {
		return r, err
	}
	if s.limit >= 0 && s.emitted >= s.limit {
		s.finished = true
		return nil, nil
	}
	for s.skipped < s.offset {
		r, err := s.child.ReadRow()
		if err != nil {
			return s.fail(err)
		}
		if r == nil {
			s.finished = true
			return nil, nil
		}
		s.skipped++
	}
	r, err := s.child.ReadRow()
	if err != nil {
		return s.fail(err)
	}
	if r == nil {
		s.finished = true
		return nil, nil
	}
	s.emitted++
	return r, nil
}
