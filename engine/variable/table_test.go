package variable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_InternIsIdempotentPerName(t *testing.T) {
	table := NewTable()
	a := table.Intern("x", 2)
	b := table.Intern("x", 5)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 2, table.Vars()[0].DeclaredAt)
}

func TestTable_OffsetsAreSequential(t *testing.T) {
	table := NewTable()
	x := table.Intern("x", 0)
	y := table.Intern("y", 0)
	assert.Equal(t, Offset(0), x)
	assert.Equal(t, Offset(1), y)
}

func TestTable_OffsetByNameMiss(t *testing.T) {
	table := NewTable()
	_, ok := table.OffsetByName("nope")
	assert.False(t, ok)
}

func TestTable_MustOffsetByNamePanicsOnMiss(t *testing.T) {
	table := NewTable()
	assert.Panics(t, func() { table.MustOffsetByName("nope") })
}

func TestTable_NameAtRoundTrips(t *testing.T) {
	table := NewTable()
	off := table.Intern("x", 0)
	assert.Equal(t, "x", table.NameAt(off))
}
