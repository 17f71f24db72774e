package rdf

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameTermNumericKinds(t *testing.T) {
	one := NewIntegerLiteral(1)
	oneDec := NewDecimalLiteral(big.NewRat(1, 1))

	assert.False(t, SameTerm(one, oneDec), "integer 1 and decimal 1.0 must not be sameTerm")

	eq, err := ValueEquals(one, oneDec, false)
	require.NoError(t, err)
	assert.True(t, eq, "value-equality promotes numerics across kinds")
}

func TestSameTermReflexiveAndSymmetric(t *testing.T) {
	a := NewIRI("http://example.org/a")
	b := NewIRI("http://example.org/a")
	assert.True(t, SameTerm(a, a))
	assert.True(t, SameTerm(a, b))
	assert.True(t, SameTerm(b, a))
}

func TestFormatInteger(t *testing.T) {
	assert.Equal(t, "-0042", FormatInteger(-42, 5, '0'))
	assert.Equal(t, "00042", FormatInteger(42, 5, '0'))
	assert.Equal(t, "42", FormatInteger(42, 1, '0'))
}

func TestLangMatches(t *testing.T) {
	assert.True(t, LangMatches("en-US", "en"))
	assert.False(t, LangMatches("en", "en-US"))
	assert.True(t, LangMatches("fr-CA", "*"))
	assert.False(t, LangMatches("", "*"))
}

func TestCompareTypeRank(t *testing.T) {
	blank := NewBlank("b1")
	iri := NewIRI("http://example.org/x")
	plain := NewPlainLiteral("x")
	typed := NewIntegerLiteral(1)

	c, err := Compare(blank, iri)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(iri, plain)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(plain, typed)
	require.NoError(t, err)
	assert.Equal(t, -1, c)
}

func TestEffectiveBoolean(t *testing.T) {
	b, err := EffectiveBoolean(NewIntegerLiteral(0))
	require.NoError(t, err)
	assert.False(t, b)

	b, err = EffectiveBoolean(NewPlainLiteral("x"))
	require.NoError(t, err)
	assert.True(t, b)

	_, err = EffectiveBoolean(NewIRI("http://example.org/"))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestNumericArithmetic(t *testing.T) {
	sum, err := Add(NewIntegerLiteral(2), NewDoubleLiteral(1.5))
	require.NoError(t, err)
	assert.Equal(t, LiteralKindDouble, sum.Kind)
	assert.InDelta(t, 3.5, sum.DoubleVal, 1e-9)

	_, err = Div(NewIntegerLiteral(1), NewIntegerLiteral(0))
	assert.ErrorIs(t, err, ErrDivideByZero)
}
