package queryresults

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

func newBindingsPipeline(t *testing.T, vars []string, rows ...algebra.ValuesRow) (*variable.Table, rowsource.Rowsource, *rowsource.EvalEnv) {
	t.Helper()
	table := variable.NewTable()
	for _, v := range vars {
		table.Intern(v, 0)
	}
	values := rowsource.NewValues(table, vars, rows)
	env := rowsource.NewEvalEnv(time.Now(), "f", 1)
	return table, values, env
}

func TestFacade_PendingToExecutingToFinished(t *testing.T) {
	table, top, env := newBindingsPipeline(t, []string{"x"},
		algebra.ValuesRow{Values: []rdf.Term{rdf.NewIntegerLiteral(1)}},
	)
	src := triplesource.NewMemorySource()
	f := NewBindingsFacade(table, src, top, env, []string{"x"}, nil)

	assert.False(t, f.Finished())
	require.NoError(t, f.ExecuteInit())
	assert.True(t, f.Next())
	assert.False(t, f.Next())
	assert.True(t, f.Finished())
	assert.True(t, f.FinishedOK())
}

func TestFacade_ExecuteInitIsIdempotent(t *testing.T) {
	table, top, env := newBindingsPipeline(t, []string{"x"})
	src := triplesource.NewMemorySource()
	f := NewBindingsFacade(table, src, top, env, []string{"x"}, nil)

	require.NoError(t, f.ExecuteInit())
	require.NoError(t, f.ExecuteInit())
	assert.Equal(t, StateExecuting, f.state)
}

func TestFacade_GetBindingValueByIndexAndName(t *testing.T) {
	table, top, env := newBindingsPipeline(t, []string{"x", "y"},
		algebra.ValuesRow{Values: []rdf.Term{rdf.NewIntegerLiteral(7), rdf.NewPlainLiteral("seven")}},
	)
	src := triplesource.NewMemorySource()
	f := NewBindingsFacade(table, src, top, env, []string{"x", "y"}, nil)
	require.NoError(t, f.ExecuteInit())
	require.True(t, f.Next())

	assert.Equal(t, int64(7), f.GetBindingValue(0).(*rdf.Literal).IntValue)
	assert.Equal(t, "seven", f.GetBindingValue(1).(*rdf.Literal).Lexical)
	assert.Equal(t, "seven", f.GetBindingValueByName("y").(*rdf.Literal).Lexical)
	assert.Nil(t, f.GetBindingValue(-1))
	assert.Nil(t, f.GetBindingValue(2))
	assert.Nil(t, f.GetBindingValueByName("nope"))

	assert.Equal(t, 2, f.GetBindingsCount())
	assert.Equal(t, "x", f.GetBindingName(0))
	assert.Equal(t, "", f.GetBindingName(5))
}

func TestFacade_NoRowsLeavesNoDataSentinel(t *testing.T) {
	table, top, env := newBindingsPipeline(t, []string{"x"})
	src := triplesource.NewMemorySource()
	f := NewBindingsFacade(table, src, top, env, []string{"x"}, nil)
	require.NoError(t, f.ExecuteInit())
	assert.False(t, f.Next())
	assert.Nil(t, f.GetBindingValue(0))
}

func TestFacade_GetBoolean(t *testing.T) {
	table, top, env := newBindingsPipeline(t, []string{"x"},
		algebra.ValuesRow{Values: []rdf.Term{rdf.NewIntegerLiteral(1)}},
	)
	src := triplesource.NewMemorySource()
	f := NewBooleanFacade(table, src, top, env, nil)

	assert.True(t, f.GetBoolean())
	assert.True(t, f.GetBoolean()) // cached, doesn't redrive
	assert.True(t, f.FinishedOK())
}

func TestFacade_GetBooleanFalseOnEmpty(t *testing.T) {
	table, top, env := newBindingsPipeline(t, []string{"x"})
	src := triplesource.NewMemorySource()
	f := NewBooleanFacade(table, src, top, env, nil)
	assert.False(t, f.GetBoolean())
}

func TestFacade_GraphInstantiateSkipsUnboundSubject(t *testing.T) {
	table, top, env := newBindingsPipeline(t, []string{"s", "o"},
		algebra.ValuesRow{Values: []rdf.Term{nil, rdf.NewPlainLiteral("v")}},
	)
	src := triplesource.NewMemorySource()
	p := rdf.NewIRI("http://example.org/p")
	template := []algebra.TriplePattern{{Subject: rdf.NewVariableRef("s"), Predicate: p, Object: rdf.NewVariableRef("o")}}
	f := NewGraphFacade(table, src, top, env, template, nil)

	require.NoError(t, f.ExecuteInit())
	assert.False(t, f.NextTriple())
	assert.Nil(t, f.GetTriple())
}

func TestFacade_GraphInstantiateSkipsLiteralSubject(t *testing.T) {
	table, top, env := newBindingsPipeline(t, []string{"s", "o"},
		algebra.ValuesRow{Values: []rdf.Term{rdf.NewPlainLiteral("not-a-subject"), rdf.NewPlainLiteral("v")}},
	)
	src := triplesource.NewMemorySource()
	p := rdf.NewIRI("http://example.org/p")
	template := []algebra.TriplePattern{{Subject: rdf.NewVariableRef("s"), Predicate: p, Object: rdf.NewVariableRef("o")}}
	f := NewGraphFacade(table, src, top, env, template, nil)

	require.NoError(t, f.ExecuteInit())
	assert.False(t, f.NextTriple())
}

func TestFacade_GraphInstantiateSkipsBlankPredicate(t *testing.T) {
	table, top, env := newBindingsPipeline(t, []string{"s"},
		algebra.ValuesRow{Values: []rdf.Term{rdf.NewIRI("http://example.org/s")}},
	)
	src := triplesource.NewMemorySource()
	template := []algebra.TriplePattern{{Subject: rdf.NewVariableRef("s"), Predicate: rdf.NewBlank("p"), Object: rdf.NewPlainLiteral("v")}}
	f := NewGraphFacade(table, src, top, env, template, nil)

	require.NoError(t, f.ExecuteInit())
	assert.False(t, f.NextTriple())
}

func TestFacade_GraphInstantiatesBoundTemplate(t *testing.T) {
	table, top, env := newBindingsPipeline(t, []string{"s", "o"},
		algebra.ValuesRow{Values: []rdf.Term{rdf.NewIRI("http://example.org/s"), rdf.NewPlainLiteral("v")}},
	)
	src := triplesource.NewMemorySource()
	p := rdf.NewIRI("http://example.org/p")
	template := []algebra.TriplePattern{{Subject: rdf.NewVariableRef("s"), Predicate: p, Object: rdf.NewVariableRef("o")}}
	f := NewGraphFacade(table, src, top, env, template, nil)

	require.NoError(t, f.ExecuteInit())
	require.True(t, f.NextTriple())
	q := f.GetTriple()
	require.NotNil(t, q)
	assert.Equal(t, "http://example.org/s", q.Subject.(*rdf.IRI).Value)
	assert.Nil(t, f.GetTriple())
}

func TestFacade_GraphTemplateBlankIsFreshPerRow(t *testing.T) {
	table, top, env := newBindingsPipeline(t, []string{"s"},
		algebra.ValuesRow{Values: []rdf.Term{rdf.NewIRI("http://example.org/a")}},
		algebra.ValuesRow{Values: []rdf.Term{rdf.NewIRI("http://example.org/b")}},
	)
	src := triplesource.NewMemorySource()
	p := rdf.NewIRI("http://example.org/p")
	template := []algebra.TriplePattern{{Subject: rdf.NewVariableRef("s"), Predicate: p, Object: rdf.NewBlank("n")}}
	f := NewGraphFacade(table, src, top, env, template, nil)

	require.NoError(t, f.ExecuteInit())
	q1 := f.GetTriple()
	q2 := f.GetTriple()
	require.NotNil(t, q1)
	require.NotNil(t, q2)
	assert.NotEqual(t, q1.Object.(*rdf.Blank).Label, q2.Object.(*rdf.Blank).Label)
}

func TestFacade_FinishIsIdempotent(t *testing.T) {
	table, top, env := newBindingsPipeline(t, []string{"x"})
	src := triplesource.NewMemorySource()
	f := NewBindingsFacade(table, src, top, env, []string{"x"}, nil)
	require.NoError(t, f.ExecuteInit())
	require.NoError(t, f.Finish())
	require.NoError(t, f.Finish())
}

func TestFacade_NextAfterFailStaysFalse(t *testing.T) {
	table, top, env := newBindingsPipeline(t, []string{"x"})
	src := triplesource.NewMemorySource()
	f := NewBindingsFacade(table, src, top, env, []string{"x"}, nil)
	require.NoError(t, f.ExecuteInit())
	f.fail(assert.AnError)
	assert.False(t, f.Next())
	assert.True(t, f.Finished())
	assert.False(t, f.FinishedOK())
}
