package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DefaultIsFirstRegistered(t *testing.T) {
	r := NewDefaultRegistry()
	d := r.Default()
	require.NotNil(t, d)
	assert.Equal(t, "json", d.Name)
}

func TestRegistry_LookupByNameAliasAndMime(t *testing.T) {
	r := NewDefaultRegistry()

	byName, err := r.Lookup("tsv", DirectionEither)
	require.NoError(t, err)
	assert.Equal(t, "tsv", byName.Name)

	byMime, err := r.Lookup("text/tab-separated-values", DirectionEither)
	require.NoError(t, err)
	assert.Same(t, byName, byMime)

	byAlias, err := r.Lookup("http://www.w3.org/ns/formats/SPARQL_Results_TSV", DirectionEither)
	require.NoError(t, err)
	assert.Same(t, byName, byAlias)
}

func TestRegistry_LookupIsCaseInsensitive(t *testing.T) {
	r := NewDefaultRegistry()
	f, err := r.Lookup("JSON", DirectionEither)
	require.NoError(t, err)
	assert.Equal(t, "json", f.Name)
}

func TestRegistry_LookupEmptyKeyFallsBackToDefault(t *testing.T) {
	r := NewDefaultRegistry()
	f, err := r.Lookup("", DirectionEither)
	require.NoError(t, err)
	assert.Same(t, r.Default(), f)
}

func TestRegistry_LookupUnknownKeyErrors(t *testing.T) {
	r := NewDefaultRegistry()
	_, err := r.Lookup("does-not-exist", DirectionEither)
	assert.Error(t, err)
}

func TestRegistry_LookupDirectionRejectsUnsupportedFormat(t *testing.T) {
	r := NewDefaultRegistry()
	_, err := r.Lookup("csv", DirectionReader)
	assert.Error(t, err)

	_, err = r.Lookup("tsv", DirectionReader)
	assert.NoError(t, err)
}

func TestRegistry_GuessByContent(t *testing.T) {
	r := NewDefaultRegistry()

	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"json object", `{"head":{"vars":[]}}`, "json"},
		{"xml prolog", `<?xml version="1.0"?><sparql></sparql>`, "xml"},
		{"tsv header", "?x\t?y\n1\t2\n", "tsv"},
		{"csv header", "x,y\n1,2\n", "csv"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := r.GuessByContent([]byte(c.content))
			require.NotNil(t, got)
			assert.Equal(t, c.want, got.Name)
		})
	}
}
