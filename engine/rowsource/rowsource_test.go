package rowsource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparqlcore/engine/algebra"
	"sparqlcore/engine/expr"
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
)

// newTestTable interns names in declaration order and returns the table
// plus each name's offset, for building Values leaves by hand.
func newTestTable(names ...string) (*variable.Table, map[string]variable.Offset) {
	table := variable.NewTable()
	offs := make(map[string]variable.Offset, len(names))
	for _, n := range names {
		offs[n] = table.Intern(n, -1)
	}
	return table, offs
}

func valuesOf(table *variable.Table, vars []string, rows ...[]rdf.Term) *Values {
	vr := make([]algebra.ValuesRow, len(rows))
	for i, r := range rows {
		vr[i] = algebra.ValuesRow{Values: r}
	}
	return NewValues(table, vars, vr)
}

func testEnv() *EvalEnv {
	return NewEvalEnv(time.Now(), "b", 1)
}

func getVar(r *row.Row, offs map[string]variable.Offset, name string) rdf.Term {
	return r.Get(offs[name])
}

// 1. Basic compatible join.
func TestJoin_BasicCompatible(t *testing.T) {
	table, offs := newTestTable("a", "b")
	left := valuesOf(table, []string{"a", "b"}, []rdf.Term{rdf.NewPlainLiteral("v1"), rdf.NewPlainLiteral("v2")})
	right := valuesOf(table, []string{"a", "b"}, []rdf.Term{rdf.NewPlainLiteral("v1"), rdf.NewPlainLiteral("v2")})

	j := NewJoin(table, left, right)
	rows, err := ReadAll(j)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rdf.SameTerm(getVar(rows[0], offs, "a"), rdf.NewPlainLiteral("v1")))
	assert.True(t, rdf.SameTerm(getVar(rows[0], offs, "b"), rdf.NewPlainLiteral("v2")))
}

// 2. Incompatible join.
func TestJoin_Incompatible(t *testing.T) {
	table, _ := newTestTable("a")
	left := valuesOf(table, []string{"a"}, []rdf.Term{rdf.NewPlainLiteral("v1")})
	right := valuesOf(table, []string{"a"}, []rdf.Term{rdf.NewPlainLiteral("v2")})

	j := NewJoin(table, left, right)
	rows, err := ReadAll(j)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// 3. Vacuous compatibility: Join produces the merge, Minus survives.
func TestJoin_VacuousCompatibility(t *testing.T) {
	table, offs := newTestTable("a", "b")
	left := valuesOf(table, []string{"a"}, []rdf.Term{rdf.NewPlainLiteral("v1")})
	right := valuesOf(table, []string{"b"}, []rdf.Term{rdf.NewPlainLiteral("v2")})

	j := NewJoin(table, left, right)
	rows, err := ReadAll(j)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rdf.SameTerm(getVar(rows[0], offs, "a"), rdf.NewPlainLiteral("v1")))
	assert.True(t, rdf.SameTerm(getVar(rows[0], offs, "b"), rdf.NewPlainLiteral("v2")))
}

func TestMinus_VacuousCompatibilityDoesNotRemove(t *testing.T) {
	table, offs := newTestTable("a", "b")
	left := valuesOf(table, []string{"a"}, []rdf.Term{rdf.NewPlainLiteral("v1")})
	right := valuesOf(table, []string{"b"}, []rdf.Term{rdf.NewPlainLiteral("v2")})

	m := NewMinus(table, left, right)
	rows, err := ReadAll(m)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rdf.SameTerm(getVar(rows[0], offs, "a"), rdf.NewPlainLiteral("v1")))
}

func TestMinus_SharedAgreementRemoves(t *testing.T) {
	table, _ := newTestTable("a")
	left := valuesOf(table, []string{"a"}, []rdf.Term{rdf.NewPlainLiteral("v1")})
	right := valuesOf(table, []string{"a"}, []rdf.Term{rdf.NewPlainLiteral("v1")})

	m := NewMinus(table, left, right)
	rows, err := ReadAll(m)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// 4. OPTIONAL fallback: LeftJoin emits the left row unbound on the right
// when the right rowsource is empty.
func TestLeftJoin_OptionalFallback(t *testing.T) {
	table, offs := newTestTable("a", "b")
	left := valuesOf(table, []string{"a"}, []rdf.Term{rdf.NewPlainLiteral("v1")})
	right := valuesOf(table, []string{"a", "b"})

	lj := NewLeftJoin(table, left, right, nil, testEnv())
	rows, err := ReadAll(lj)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rdf.SameTerm(getVar(rows[0], offs, "a"), rdf.NewPlainLiteral("v1")))
	assert.False(t, rows[0].Bound(offs["b"]))
}

// 5. Filter drops error: ?x > 5 with ?x = "abc" drops the row instead of
// failing the whole iteration.
func TestFilter_DropsComparisonError(t *testing.T) {
	table, _ := newTestTable("x")
	child := valuesOf(table, []string{"x"}, []rdf.Term{rdf.NewPlainLiteral("abc")})

	gt5 := expr.GT(expr.Var("x"), expr.Literal(rdf.NewIntegerLiteral(5)))
	f := NewFilter(table, child, gt5, testEnv())
	rows, err := ReadAll(f)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// 6. COALESCE(unbound ?x, ?y + "abc", "fallback") with ?y=3 returns
// "fallback" because the second argument errors and the first is unbound.
func TestFilter_CoalesceSkipsUnboundAndErroring(t *testing.T) {
	table, offs := newTestTable("x", "y")
	r := row.New(table, table.Len(), 0)
	r.Set(offs["y"], rdf.NewIntegerLiteral(3))

	ctx := testEnv().Context(r)
	call := expr.Call("COALESCE", false,
		expr.Var("x"),
		expr.Plus(expr.Var("y"), expr.Literal(rdf.NewPlainLiteral("abc"))),
		expr.Literal(rdf.NewPlainLiteral("fallback")),
	)
	v, err := expr.Evaluate(ctx, call)
	require.NoError(t, err)
	assert.True(t, rdf.SameTerm(v, rdf.NewPlainLiteral("fallback")))
}

// 7. Projection of absent variable: every output row has the extra
// column unbound.
func TestProject_AbsentVariableAlwaysUnbound(t *testing.T) {
	table, offs := newTestTable("a", "b")
	child := valuesOf(table, []string{"a"}, []rdf.Term{rdf.NewPlainLiteral("v1")})

	p := NewProject(table, child, []string{"a", "b"})
	rows, err := ReadAll(p)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rdf.SameTerm(getVar(rows[0], offs, "a"), rdf.NewPlainLiteral("v1")))
	assert.False(t, rows[0].Bound(offs["b"]))
}

// 8. Distinct preserves the first occurrence's relative position.
func TestDistinct_PreservesFirstOccurrence(t *testing.T) {
	table, offs := newTestTable("a", "b")
	child := valuesOf(table, []string{"a", "b"},
		[]rdf.Term{rdf.NewIntegerLiteral(1), rdf.NewIntegerLiteral(1)},
		[]rdf.Term{rdf.NewIntegerLiteral(1), rdf.NewIntegerLiteral(2)},
		[]rdf.Term{rdf.NewIntegerLiteral(1), rdf.NewIntegerLiteral(1)},
		[]rdf.Term{rdf.NewIntegerLiteral(1), rdf.NewIntegerLiteral(3)},
	)

	d := NewDistinct(table, child)
	rows, err := ReadAll(d)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	wantB := []int64{1, 2, 3}
	for i, r := range rows {
		b := getVar(r, offs, "b").(*rdf.Literal)
		assert.Equal(t, wantB[i], b.IntValue)
	}
}

// Universal property: for any rowsource, ReadAllRows equals repeated
// ReadRow until exhaustion.
func TestReadAllRows_MatchesRepeatedReadRow(t *testing.T) {
	table, _ := newTestTable("a")
	rowsIn := [][]rdf.Term{
		{rdf.NewIntegerLiteral(1)},
		{rdf.NewIntegerLiteral(2)},
		{rdf.NewIntegerLiteral(3)},
	}
	v := valuesOf(table, []string{"a"}, rowsIn...)

	var viaReadRow []*row.Row
	for {
		r, err := v.ReadRow()
		require.NoError(t, err)
		if r == nil {
			break
		}
		viaReadRow = append(viaReadRow, r)
	}

	v2 := valuesOf(table, []string{"a"}, rowsIn...)
	viaReadAll, err := v2.ReadAllRows()
	require.NoError(t, err)

	require.Equal(t, len(viaReadRow), len(viaReadAll))
}

// Idempotence: Finish called twice is a no-op the second time.
func TestFinish_Idempotent(t *testing.T) {
	table, _ := newTestTable("a")
	v := valuesOf(table, []string{"a"}, []rdf.Term{rdf.NewIntegerLiteral(1)})
	require.NoError(t, v.Finish())
	require.NoError(t, v.Finish())
}

// Stability: Sort's output order is uniquely determined by
// (key-vector, original offset) — equal keys preserve input order.
func TestSort_StableOnTies(t *testing.T) {
	table, offs := newTestTable("k", "tag")
	child := valuesOf(table, []string{"k", "tag"},
		[]rdf.Term{rdf.NewIntegerLiteral(1), rdf.NewPlainLiteral("first")},
		[]rdf.Term{rdf.NewIntegerLiteral(1), rdf.NewPlainLiteral("second")},
		[]rdf.Term{rdf.NewIntegerLiteral(0), rdf.NewPlainLiteral("third")},
	)

	s := NewSort(table, child, []algebra.OrderCondition{{Expr: expr.Var("k")}}, testEnv())
	rows, err := ReadAll(s)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "third", getVar(rows[0], offs, "tag").(*rdf.Literal).Lexical)
	assert.Equal(t, "first", getVar(rows[1], offs, "tag").(*rdf.Literal).Lexical)
	assert.Equal(t, "second", getVar(rows[2], offs, "tag").(*rdf.Literal).Lexical)
}

// Join output invariant: every bound output column traces back to the
// side that bound it.
func TestJoin_OutputTracesToOwningSide(t *testing.T) {
	table, offs := newTestTable("a", "b", "c")
	left := valuesOf(table, []string{"a", "b"},
		[]rdf.Term{rdf.NewPlainLiteral("v1"), rdf.NewPlainLiteral("v2")})
	right := valuesOf(table, []string{"b", "c"},
		[]rdf.Term{rdf.NewPlainLiteral("v2"), rdf.NewPlainLiteral("v3")})

	j := NewJoin(table, left, right)
	rows, err := ReadAll(j)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rdf.SameTerm(getVar(rows[0], offs, "a"), rdf.NewPlainLiteral("v1")))
	assert.True(t, rdf.SameTerm(getVar(rows[0], offs, "b"), rdf.NewPlainLiteral("v2")))
	assert.True(t, rdf.SameTerm(getVar(rows[0], offs, "c"), rdf.NewPlainLiteral("v3")))
}

// LeftJoin cardinality: with a right side that never matches, the
// cardinality of the output equals |left|.
func TestLeftJoin_CardinalityAtLeastLeft(t *testing.T) {
	table, _ := newTestTable("a", "b")
	left := valuesOf(table, []string{"a"},
		[]rdf.Term{rdf.NewPlainLiteral("v1")},
		[]rdf.Term{rdf.NewPlainLiteral("v2")},
	)
	right := valuesOf(table, []string{"a", "b"},
		[]rdf.Term{rdf.NewPlainLiteral("v9"), rdf.NewPlainLiteral("w9")})

	lj := NewLeftJoin(table, left, right, nil, testEnv())
	rows, err := ReadAll(lj)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
