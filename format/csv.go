package format

import (
	"encoding/csv"
	"io"

	"sparqlcore/pkg/rdf"
)

// SPARQL CSV Results Format (https://www.w3.org/TR/sparql11-results-csv-tsv/),
// grounded on pkg/server/results/csv.go; RFC 4180 quoting is delegated
// to the standard library's encoding/csv writer, matching the teacher.

type csvWriter struct{}

func NewCSVWriter() Writer { return csvWriter{} }

func (csvWriter) WriteBindings(out io.Writer, src BindingsSource) error {
	w := csv.NewWriter(out)
	n := src.GetBindingsCount()
	vars := make([]string, n)
	for i := range vars {
		vars[i] = src.GetBindingName(i)
	}
	if err := w.Write(vars); err != nil {
		return err
	}
	for src.Next() {
		row := make([]string, n)
		for i := range vars {
			if term := src.GetBindingValue(i); term != nil {
				row[i] = termToCSV(term)
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (csvWriter) WriteBoolean(out io.Writer, src BooleanSource) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"result"}); err != nil {
		return err
	}
	value := "false"
	if src.GetBoolean() {
		value = "true"
	}
	if err := w.Write([]string{value}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (csvWriter) WriteGraph(out io.Writer, src GraphSource) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"subject", "predicate", "object"}); err != nil {
		return err
	}
	for src.NextTriple() {
		q := src.GetTriple()
		row := []string{termToCSV(q.Subject), termToCSV(q.Predicate), termToCSV(q.Object)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// termToCSV formats a term per the CSV Results convention: IRIs and
// literal lexical forms unquoted (the csv.Writer applies RFC 4180
// quoting only where the value requires it), language tags appended
// with '@', blank nodes as "_:label".
func termToCSV(term rdf.Term) string {
	switch t := term.(type) {
	case *rdf.IRI:
		return t.Value
	case *rdf.Blank:
		return "_:" + t.Label
	case *rdf.Literal:
		value, _, lang := literalParts(t)
		if lang != "" {
			return value + "@" + lang
		}
		return value
	default:
		return term.String()
	}
}
