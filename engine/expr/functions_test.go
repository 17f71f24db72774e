package expr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
)

func newCtx(t *testing.T, vars map[string]rdf.Term) (*Context, *variable.Table) {
	t.Helper()
	table := variable.NewTable()
	for name := range vars {
		table.Intern(name, -1)
	}
	r := row.New(table, table.Len(), 0)
	for name, v := range vars {
		off, _ := table.OffsetByName(name)
		r.Set(off, v)
	}
	seq := uint64(0)
	return NewContext(r, time.Unix(1700000000, 0).UTC(), "b", 1, &seq), table
}

func TestBound(t *testing.T) {
	ctx, _ := newCtx(t, map[string]rdf.Term{"x": rdf.NewIntegerLiteral(1)})

	v, err := Evaluate(ctx, Call("BOUND", false, Var("x")))
	require.NoError(t, err)
	assert.Equal(t, true, v.(*rdf.Literal).BoolValue)

	v, err = Evaluate(ctx, Call("BOUND", false, Var("y")))
	require.NoError(t, err)
	assert.Equal(t, false, v.(*rdf.Literal).BoolValue)
}

func TestBoundDoesNotEvaluateItsArgument(t *testing.T) {
	ctx, _ := newCtx(t, nil)
	_, err := Evaluate(ctx, Call("BOUND", false, Literal(rdf.NewIntegerLiteral(1))))
	assert.ErrorIs(t, err, ErrBoundRequiresVariable)
}

func TestIfEvaluatesExactlyOneBranch(t *testing.T) {
	ctx, _ := newCtx(t, nil)

	v, err := Evaluate(ctx, Call("IF", false,
		Literal(rdf.NewBooleanLiteral(true)),
		Literal(rdf.NewPlainLiteral("then")),
		Slash(Literal(rdf.NewIntegerLiteral(1)), Literal(rdf.NewIntegerLiteral(0))), // would error if evaluated
	))
	require.NoError(t, err)
	assert.Equal(t, "then", v.(*rdf.Literal).Lexical)
}

func TestRegexFlags(t *testing.T) {
	ctx, _ := newCtx(t, nil)

	v, err := Evaluate(ctx, Call("REGEX", false,
		Literal(rdf.NewPlainLiteral("Hello")),
		Literal(rdf.NewPlainLiteral("^hello$")),
		Literal(rdf.NewPlainLiteral("i")),
	))
	require.NoError(t, err)
	assert.True(t, v.(*rdf.Literal).BoolValue)

	_, err = Evaluate(ctx, Call("REGEX", false,
		Literal(rdf.NewPlainLiteral("x")),
		Literal(rdf.NewPlainLiteral("x")),
		Literal(rdf.NewPlainLiteral("z")),
	))
	assert.ErrorIs(t, err, ErrUnsupportedRegexFlag)
}

func TestSubstr(t *testing.T) {
	ctx, _ := newCtx(t, nil)

	v, err := Evaluate(ctx, Call("SUBSTR", false,
		Literal(rdf.NewPlainLiteral("hello world")),
		Literal(rdf.NewIntegerLiteral(7)),
	))
	require.NoError(t, err)
	assert.Equal(t, "world", v.(*rdf.Literal).Lexical)

	v, err = Evaluate(ctx, Call("SUBSTR", false,
		Literal(rdf.NewPlainLiteral("hello world")),
		Literal(rdf.NewIntegerLiteral(1)),
		Literal(rdf.NewIntegerLiteral(5)),
	))
	require.NoError(t, err)
	assert.Equal(t, "hello", v.(*rdf.Literal).Lexical)
}

func TestConcatCommonDatatype(t *testing.T) {
	ctx, _ := newCtx(t, nil)

	v, err := Evaluate(ctx, Call("CONCAT", false,
		Literal(rdf.NewPlainLiteral("foo")),
		Literal(rdf.NewPlainLiteral("bar")),
	))
	require.NoError(t, err)
	lit := v.(*rdf.Literal)
	assert.Equal(t, "foobar", lit.Lexical)
	assert.Equal(t, rdf.LiteralKindPlain, lit.Kind)
}

func TestInAndNotIn(t *testing.T) {
	ctx, _ := newCtx(t, nil)

	v, err := Evaluate(ctx, Call("IN", false,
		Literal(rdf.NewIntegerLiteral(2)),
		Literal(rdf.NewIntegerLiteral(1)),
		Literal(rdf.NewIntegerLiteral(2)),
	))
	require.NoError(t, err)
	assert.True(t, v.(*rdf.Literal).BoolValue)

	v, err = Evaluate(ctx, Call("NOTIN", false,
		Literal(rdf.NewIntegerLiteral(3)),
		Literal(rdf.NewIntegerLiteral(1)),
		Literal(rdf.NewIntegerLiteral(2)),
	))
	require.NoError(t, err)
	assert.True(t, v.(*rdf.Literal).BoolValue)
}

func TestCastNumericAndBoolean(t *testing.T) {
	ctx, _ := newCtx(t, nil)

	v, err := Evaluate(ctx, Call(rdf.XSDInteger.Value, false, Literal(rdf.NewPlainLiteral("42"))))
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.(*rdf.Literal).IntValue)

	v, err = Evaluate(ctx, Call(rdf.XSDBoolean.Value, false, Literal(rdf.NewIntegerLiteral(0))))
	require.NoError(t, err)
	assert.False(t, v.(*rdf.Literal).BoolValue)
}

func TestArithmeticPromotion(t *testing.T) {
	ctx, _ := newCtx(t, nil)

	v, err := Evaluate(ctx, Plus(Literal(rdf.NewIntegerLiteral(2)), Literal(rdf.NewDoubleLiteral(1.5))))
	require.NoError(t, err)
	lit := v.(*rdf.Literal)
	assert.Equal(t, rdf.LiteralKindDouble, lit.Kind)
	assert.InDelta(t, 3.5, lit.DoubleVal, 1e-9)
}

func TestDivideByZeroPropagatesAsError(t *testing.T) {
	ctx, _ := newCtx(t, nil)
	_, err := Evaluate(ctx, Slash(Literal(rdf.NewIntegerLiteral(1)), Literal(rdf.NewIntegerLiteral(0))))
	assert.ErrorIs(t, err, rdf.ErrDivideByZero)
}

func TestAggregateMarkerOutsideGroupErrors(t *testing.T) {
	ctx, _ := newCtx(t, nil)
	_, err := Evaluate(ctx, Call("COUNT", false, Var("x")))
	assert.ErrorIs(t, err, ErrAggregateOutOfContext)
}
