package triplesource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparqlcore/pkg/rdf"
)

func loadedMemorySource(t *testing.T, quads ...*rdf.Quad) Source {
	t.Helper()
	src := NewMemorySource()
	loader, ok := src.(interface{ Load(*rdf.Quad) error })
	require.True(t, ok)
	for _, q := range quads {
		require.NoError(t, loader.Load(q))
	}
	return src
}

func drain(t *testing.T, it MatchIterator) []*rdf.Quad {
	t.Helper()
	defer it.Close()
	var out []*rdf.Quad
	for it.Next() {
		q, err := it.Quad()
		require.NoError(t, err)
		out = append(out, q)
	}
	return out
}

func TestMemorySource_TriplePresent(t *testing.T) {
	alice := rdf.NewIRI("http://example.org/alice")
	name := rdf.NewIRI("http://xmlns.com/foaf/0.1/name")
	obj := rdf.NewPlainLiteral("Alice")

	src := loadedMemorySource(t, rdf.NewQuad(alice, name, obj, rdf.DefaultGraphIRI))
	defer src.Close()

	present, err := src.TriplePresent(rdf.NewQuad(alice, name, obj, rdf.DefaultGraphIRI))
	require.NoError(t, err)
	assert.True(t, present)

	absent, err := src.TriplePresent(rdf.NewQuad(alice, name, rdf.NewPlainLiteral("Bob"), rdf.DefaultGraphIRI))
	require.NoError(t, err)
	assert.False(t, absent)
}

func TestMemorySource_MatchByBoundPositions(t *testing.T) {
	alice := rdf.NewIRI("http://example.org/alice")
	bob := rdf.NewIRI("http://example.org/bob")
	name := rdf.NewIRI("http://xmlns.com/foaf/0.1/name")

	src := loadedMemorySource(t,
		rdf.NewQuad(alice, name, rdf.NewPlainLiteral("Alice"), rdf.DefaultGraphIRI),
		rdf.NewQuad(bob, name, rdf.NewPlainLiteral("Bob"), rdf.DefaultGraphIRI),
	)
	defer src.Close()

	it, err := src.Match(QuadPattern{Predicate: name})
	require.NoError(t, err)
	assert.Len(t, drain(t, it), 2)

	it, err = src.Match(QuadPattern{Subject: alice})
	require.NoError(t, err)
	rows := drain(t, it)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0].Object.(*rdf.Literal).Lexical)

	it, err = src.Match(QuadPattern{})
	require.NoError(t, err)
	assert.Len(t, drain(t, it), 2)
}

func TestMemorySource_MatchRespectsNamedGraph(t *testing.T) {
	alice := rdf.NewIRI("http://example.org/alice")
	name := rdf.NewIRI("http://xmlns.com/foaf/0.1/name")
	g := rdf.NewIRI("http://example.org/g1")

	src := loadedMemorySource(t,
		rdf.NewQuad(alice, name, rdf.NewPlainLiteral("default-graph"), rdf.DefaultGraphIRI),
		rdf.NewQuad(alice, name, rdf.NewPlainLiteral("named-graph"), g),
	)
	defer src.Close()

	it, err := src.Match(QuadPattern{Subject: alice, Graph: g})
	require.NoError(t, err)
	rows := drain(t, it)
	require.Len(t, rows, 1)
	assert.Equal(t, "named-graph", rows[0].Object.(*rdf.Literal).Lexical)

	it, err = src.Match(QuadPattern{Subject: alice})
	require.NoError(t, err)
	rows = drain(t, it)
	require.Len(t, rows, 1)
	assert.Equal(t, "default-graph", rows[0].Object.(*rdf.Literal).Lexical)
}

func TestMemorySource_GraphsEnumeratesNamedGraphs(t *testing.T) {
	alice := rdf.NewIRI("http://example.org/alice")
	name := rdf.NewIRI("http://xmlns.com/foaf/0.1/name")
	g1 := rdf.NewIRI("http://example.org/g1")
	g2 := rdf.NewIRI("http://example.org/g2")

	src := loadedMemorySource(t,
		rdf.NewQuad(alice, name, rdf.NewPlainLiteral("v1"), g1),
		rdf.NewQuad(alice, name, rdf.NewPlainLiteral("v2"), g2),
		rdf.NewQuad(alice, name, rdf.NewPlainLiteral("default"), rdf.DefaultGraphIRI),
	)
	defer src.Close()

	graphs, err := src.Graphs()
	require.NoError(t, err)
	assert.Len(t, graphs, 2)
}

func TestMemorySource_SupportFeature(t *testing.T) {
	src := NewMemorySource()
	defer src.Close()
	assert.True(t, src.SupportFeature(FeatureExactGraphEnumeration))
	assert.False(t, src.SupportFeature("unknown-feature"))
}
