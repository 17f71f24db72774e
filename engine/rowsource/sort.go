package rowsource

import (
	"sort"

	"sparqlcore/engine/algebra"
	"sparqlcore/engine/expr"
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
)

// Sort materialises all child rows, then stable-sorts by an ordered
// list of ORDER BY conditions (spec §4.12). An expression error during
// comparison sorts as less than any value; a tie falls through to the
// next condition; with no conditions resolving, Go's stable sort
// preserves the original (offset) order, matching the spec's
// stability requirement. Once materialised the rowsource behaves as a
// plain rowsequence, mirroring the teacher's orderByIterator.
type Sort struct {
	base
	child      Rowsource
	conditions []algebra.OrderCondition
	env        *EvalEnv

	rows []*row.Row
	pos  int
	done bool
}

func NewSort(table *variable.Table, child Rowsource, conditions []algebra.OrderCondition, env *EvalEnv) *Sort {
	return &Sort{base: base{table: table}, child: child, conditions: conditions, env: env}
}

func (s *Sort) EnsureVariables() error { return s.child.EnsureVariables() }
func (s *Sort) SetRequirements(Requirements) {}
func (s *Sort) GetInnerRowsource(n int) Rowsource {
	if n == 0 {
		return s.child
	}
	return nil
}

func (s *Sort) Reset() error {
	s.finished = false
	s.failed = nil
	s.done = false
	s.rows = nil
	s.pos = 0
	return s.child.Reset()
}

func (s *Sort) ReadAllRows() ([]*row.Row, error) { return ReadAll(s) }
func (s *Sort) Finish() error                    { s.finished = true; return s.child.Finish() }

func (s *Sort) ReadRow() (*row.Row, error) {
	if r, err, done := s.checkFailed(); done {
		return r, err
	}
	if !s.done {
		rows, err := ReadAll(s.child)
		if err != nil {
			return s.fail(err)
		}
		s.rows = rows
		s.sortRows()
		s.done = true
	}
	if s.pos >= len(s.rows) {
		s.finished = true
		return nil, nil
	}
	r := s.rows[s.pos]
	s.pos++
	return r, nil
}

func (s *Sort) sortRows() {
	if len(s.conditions) == 0 {
		return
	}
	sort.SliceStable(s.rows, func(i, j int) bool {
		return s.less(s.rows[i], s.rows[j])
	})
}

func (s *Sort) less(a, b *row.Row) bool {
	for _, cond := range s.conditions {
		av, aerr := expr.Evaluate(s.env.Context(a), cond.Expr)
		bv, berr := expr.Evaluate(s.env.Context(b), cond.Expr)
		c := compareWithErrors(av, aerr, bv, berr)
		if c == 0 {
			continue
		}
		if cond.Descending {
			return c > 0
		}
		return c < 0
	}
	return false
}

// compareWithErrors implements "treat expression error as less than
// any value" (spec §4.12).
func compareWithErrors(av rdf.Term, aerr error, bv rdf.Term, berr error) int {
	if aerr != nil && berr != nil {
		return 0
	}
	if aerr != nil {
		return -1
	}
	if berr != nil {
		return 1
	}
	c, err := rdf.Compare(av, bv)
	if err != nil {
		return 0
	}
	return c
}
