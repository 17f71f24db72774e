package translator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparqlcore/engine/algebra"
	"sparqlcore/engine/rowsource"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
	"sparqlcore/triplesource"
)

func newLoadedSource(t *testing.T, quads ...*rdf.Quad) triplesource.Source {
	t.Helper()
	src := triplesource.NewMemorySource()
	loader := src.(interface{ Load(*rdf.Quad) error })
	for _, q := range quads {
		require.NoError(t, loader.Load(q))
	}
	return src
}

func TestTranslator_BGPProject(t *testing.T) {
	alice := rdf.NewIRI("http://example.org/alice")
	bob := rdf.NewIRI("http://example.org/bob")
	name := rdf.NewIRI("http://xmlns.com/foaf/0.1/name")

	src := newLoadedSource(t,
		rdf.NewQuad(alice, name, rdf.NewPlainLiteral("Alice"), rdf.DefaultGraphIRI),
		rdf.NewQuad(bob, name, rdf.NewPlainLiteral("Bob"), rdf.DefaultGraphIRI),
	)
	defer src.Close()

	table := variable.NewTable()
	table.Intern("person", 0)
	table.Intern("name", 0)

	tree := algebra.Project(
		algebra.BGP(
			[]algebra.TriplePattern{{Subject: rdf.NewVariableRef("person"), Predicate: name, Object: rdf.NewVariableRef("name")}},
			[]int{0},
			0, 0,
		),
		[]string{"person", "name"},
	)

	env := rowsource.NewEvalEnv(time.Now(), "t", 1)
	tr := New(table, src, env)
	top, err := tr.Build(tree)
	require.NoError(t, err)
	defer top.Finish()

	rows, err := rowsource.ReadAll(top)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestTranslator_ToListIsIdentity(t *testing.T) {
	src := triplesource.NewMemorySource()
	defer src.Close()

	table := variable.NewTable()
	table.Intern("a", 0)

	leaf := algebra.Values([]string{"a"}, []algebra.ValuesRow{{Values: []rdf.Term{rdf.NewIntegerLiteral(1)}}})
	tree := algebra.ToList(leaf)

	env := rowsource.NewEvalEnv(time.Now(), "t", 1)
	tr := New(table, src, env)
	top, err := tr.Build(tree)
	require.NoError(t, err)
	defer top.Finish()

	rows, err := rowsource.ReadAll(top)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestTranslator_PairBuildTearsDownLeftOnRightError(t *testing.T) {
	src := triplesource.NewMemorySource()
	defer src.Close()

	table := variable.NewTable()
	left := algebra.Values(nil, nil)
	right := &algebra.Node{Kind: algebra.NodeKind(999)} // unsupported kind

	tree := algebra.Join(left, right)

	env := rowsource.NewEvalEnv(time.Now(), "t", 1)
	tr := New(table, src, env)
	_, err := tr.Build(tree)
	assert.Error(t, err)
}
