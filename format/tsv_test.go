package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparqlcore/engine/algebra"
	"sparqlcore/engine/rowsource"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
)

func TestTermToTSV_Escaping(t *testing.T) {
	cases := []struct {
		name string
		term rdf.Term
		want string
	}{
		{"iri", rdf.NewIRI("http://example.org/a"), "<http://example.org/a>"},
		{"blank", rdf.NewBlank("b0"), "_:b0"},
		{"plain literal", rdf.NewPlainLiteral("hello"), `"hello"`},
		{"lang literal", rdf.NewLangLiteral("hello", "en"), `"hello"@en`},
		{"integer is bare", rdf.NewIntegerLiteral(42), "42"},
		{"quote and backslash escaped", rdf.NewPlainLiteral(`a"b\c`), `"a\"b\\c"`},
		{"tab and newline escaped", rdf.NewPlainLiteral("a\tb\nc"), `"a\tb\nc"`},
		{"typed literal carries datatype", rdf.NewTypedLiteral("v", rdf.NewIRI("http://example.org/dt")), `"v"^^<http://example.org/dt>`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, termToTSV(c.term))
		})
	}
}

func newBindingsSourceForTSV(t *testing.T, vars []string, rows ...algebra.ValuesRow) BindingsSource {
	t.Helper()
	table := variable.NewTable()
	for _, v := range vars {
		table.Intern(v, 0)
	}
	values := rowsource.NewValues(table, vars, rows)
	require.NoError(t, values.EnsureVariables())
	return &valuesBindingsSource{table: table, vars: vars, rs: values}
}

// valuesBindingsSource adapts a bare rowsource.Values into the minimal
// BindingsSource shape the writers drive, without pulling in the
// façade (kept test-local to avoid an import cycle).
type valuesBindingsSource struct {
	table *variable.Table
	vars  []string
	rs    rowsource.Rowsource
	row   interface {
		Get(variable.Offset) rdf.Term
	}
}

func (v *valuesBindingsSource) GetBindingsCount() int      { return len(v.vars) }
func (v *valuesBindingsSource) GetBindingName(i int) string { return v.vars[i] }
func (v *valuesBindingsSource) Next() bool {
	r, err := v.rs.ReadRow()
	if err != nil || r == nil {
		v.row = nil
		return false
	}
	v.row = r
	return true
}
func (v *valuesBindingsSource) GetBindingValue(i int) rdf.Term {
	if v.row == nil {
		return nil
	}
	off, ok := v.table.OffsetByName(v.vars[i])
	if !ok {
		return nil
	}
	return v.row.Get(off)
}

func TestTSV_WriteThenReadRoundTrips(t *testing.T) {
	src := newBindingsSourceForTSV(t, []string{"x", "y"},
		algebra.ValuesRow{Values: []rdf.Term{rdf.NewIntegerLiteral(1), rdf.NewPlainLiteral("one")}},
		algebra.ValuesRow{Values: []rdf.Term{rdf.NewIRI("http://example.org/a"), nil}},
	)

	var buf bytes.Buffer
	w := NewTSVWriter()
	require.NoError(t, w.WriteBindings(&buf, src))

	readTable := variable.NewTable()
	r := NewTSVReader()
	rs, err := r.ReadBindings(&buf, readTable)
	require.NoError(t, err)

	rows, err := rowsource.ReadAll(rs)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	xOff, _ := readTable.OffsetByName("x")
	yOff, _ := readTable.OffsetByName("y")
	assert.Equal(t, int64(1), rows[0].Get(xOff).(*rdf.Literal).IntValue)
	assert.Equal(t, "one", rows[0].Get(yOff).(*rdf.Literal).Lexical)
	assert.Equal(t, "http://example.org/a", rows[1].Get(xOff).(*rdf.IRI).Value)
	assert.Nil(t, rows[1].Get(yOff))
}

func TestTSV_WriteBoolean(t *testing.T) {
	var buf bytes.Buffer
	w := NewTSVWriter()
	require.NoError(t, w.WriteBoolean(&buf, constBoolSource{true}))
	assert.Equal(t, "?result\ntrue\n", buf.String())
}

type constBoolSource struct{ v bool }

func (c constBoolSource) GetBoolean() bool { return c.v }

func TestParseQuotedTSVLiteral_HonorsEscapedQuotes(t *testing.T) {
	term := parseQuotedTSVLiteral(`"a\"b"@en`)
	lit := term.(*rdf.Literal)
	assert.Equal(t, `a"b`, lit.Lexical)
	assert.Equal(t, "en", lit.Language)
}

func TestParseTSVTerm_EmptyFieldIsNil(t *testing.T) {
	assert.Nil(t, parseTSVTerm(""))
}

func TestParseTSVTerm_NumericBareValues(t *testing.T) {
	assert.Equal(t, int64(7), parseTSVTerm("7").(*rdf.Literal).IntValue)
	assert.InDelta(t, 1.5, parseTSVTerm("1.5").(*rdf.Literal).DoubleVal, 1e-9)
}

func TestTSV_EmptyInputYieldsNoRows(t *testing.T) {
	table := variable.NewTable()
	rs, err := NewTSVReader().ReadBindings(strings.NewReader(""), table)
	require.NoError(t, err)
	rows, err := rowsource.ReadAll(rs)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
