package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions_DefaultsAreSane(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, "b", o.BlankPrefix)
	assert.Equal(t, "json", o.DefaultFormat)
	assert.NotNil(t, o.Logger)
}

func TestOptions_NewAppliesOverrides(t *testing.T) {
	o := New(WithBlankPrefix("x"), WithSeed(42), WithDefaultFormat("tsv"))
	assert.Equal(t, "x", o.BlankPrefix)
	assert.Equal(t, int64(42), o.Seed)
	assert.Equal(t, "tsv", o.DefaultFormat)
}

func TestOptions_NegotiateVersionAcceptsInRange(t *testing.T) {
	o := New(WithVersionRange(1, 2))
	assert.NoError(t, o.NegotiateVersion("test-producer", 2))
}

func TestOptions_NegotiateVersionRejectsOutOfRange(t *testing.T) {
	o := New(WithVersionRange(1, 1))
	assert.Error(t, o.NegotiateVersion("test-producer", 3))
}
