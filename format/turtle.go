package format

import (
	"fmt"
	"io"
	"strings"

	"sparqlcore/pkg/rdf"
)

// Minimal Turtle writer for CONSTRUCT/DESCRIBE graph results: every
// triple on its own line, every term fully spelled out (no prefixes,
// no triple-per-subject grouping). This is valid, if verbose, Turtle —
// grounded on pkg/server/results/formatter.go's
// FormatConstructResultNTriples, the teacher's closest analogue (it
// never emits Turtle proper, only its line-oriented N-Triples subset).
// WriteBindings/WriteBoolean are not meaningful for a triple syntax and
// return an error; the façade only routes graph results here.

type turtleWriter struct{}

func NewTurtleWriter() Writer { return turtleWriter{} }

func (turtleWriter) WriteBindings(io.Writer, BindingsSource) error {
	return fmt.Errorf("format: turtle does not support bindings results")
}

func (turtleWriter) WriteBoolean(io.Writer, BooleanSource) error {
	return fmt.Errorf("format: turtle does not support boolean results")
}

func (turtleWriter) WriteGraph(out io.Writer, src GraphSource) error {
	var b strings.Builder
	for src.NextTriple() {
		q := src.GetTriple()
		b.WriteString(termToTurtle(q.Subject))
		b.WriteByte(' ')
		b.WriteString(termToTurtle(q.Predicate))
		b.WriteByte(' ')
		b.WriteString(termToTurtle(q.Object))
		b.WriteString(" .\n")
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func termToTurtle(term rdf.Term) string {
	switch t := term.(type) {
	case *rdf.IRI:
		return "<" + t.Value + ">"
	case *rdf.Blank:
		return "_:" + t.Label
	case *rdf.Literal:
		value, datatype, lang := literalParts(t)
		escaped := escapeTurtleString(value)
		switch {
		case lang != "":
			return "\"" + escaped + "\"@" + lang
		case datatype != "":
			return "\"" + escaped + "\"^^<" + datatype + ">"
		default:
			return "\"" + escaped + "\""
		}
	default:
		return term.String()
	}
}

func escapeTurtleString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}
