package format

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sparqlcore/engine/algebra"
	"sparqlcore/engine/rowsource"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
)

// SPARQL TSV Results Format (https://www.w3.org/TR/sparql11-results-csv-tsv/),
// grounded on pkg/server/results/tsv.go's termToTSVValue conventions:
// IRIs bracketed, plain/lang literals quoted with N-Triples-style
// escaping, the three basic numeric datatypes printed bare.

type tsvWriter struct{}

func NewTSVWriter() Writer { return tsvWriter{} }

func (tsvWriter) WriteBindings(out io.Writer, src BindingsSource) error {
	var b strings.Builder
	n := src.GetBindingsCount()
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteByte('?')
		b.WriteString(src.GetBindingName(i))
	}
	b.WriteByte('\n')
	for src.Next() {
		for i := 0; i < n; i++ {
			if i > 0 {
				b.WriteByte('\t')
			}
			if term := src.GetBindingValue(i); term != nil {
				b.WriteString(termToTSV(term))
			}
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func (tsvWriter) WriteBoolean(out io.Writer, src BooleanSource) error {
	value := "false"
	if src.GetBoolean() {
		value = "true"
	}
	_, err := fmt.Fprintf(out, "?result\n%s\n", value)
	return err
}

func (tsvWriter) WriteGraph(out io.Writer, src GraphSource) error {
	var b strings.Builder
	b.WriteString("?subject\t?predicate\t?object\n")
	for src.NextTriple() {
		q := src.GetTriple()
		b.WriteString(termToTSV(q.Subject))
		b.WriteByte('\t')
		b.WriteString(termToTSV(q.Predicate))
		b.WriteByte('\t')
		b.WriteString(termToTSV(q.Object))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func termToTSV(term rdf.Term) string {
	switch t := term.(type) {
	case *rdf.IRI:
		return "<" + t.Value + ">"
	case *rdf.Blank:
		return "_:" + t.Label
	case *rdf.Literal:
		value, datatype, lang := literalParts(t)
		switch lang {
		case "":
		default:
			return "\"" + escapeTSVString(value) + "\"@" + lang
		}
		switch datatype {
		case rdf.XSDInteger.Value, rdf.XSDDecimal.Value:
			return value
		case rdf.XSDDouble.Value:
			return value
		case "":
			return "\"" + escapeTSVString(value) + "\""
		default:
			return "\"" + escapeTSVString(value) + "\"^^<" + datatype + ">"
		}
	default:
		return term.String()
	}
}

func escapeTSVString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}

func unescapeTSVString(s string) string {
	s = strings.ReplaceAll(s, "\\t", "\t")
	s = strings.ReplaceAll(s, "\\r", "\r")
	s = strings.ReplaceAll(s, "\\n", "\n")
	s = strings.ReplaceAll(s, "\\\"", "\"")
	s = strings.ReplaceAll(s, "\\\\", "\\")
	return s
}

type tsvReader struct{}

func NewTSVReader() Reader { return tsvReader{} }

// ReadBindings parses a term-per-column TSV stream back into a
// rowsource, the inverse of termToTSV. TSV's bracket/quote conventions
// make every field shape unambiguous, unlike CSV's bare-value
// convention (ground: no CSV/XML/JSON reader is registered — see
// DESIGN.md).
func (tsvReader) ReadBindings(in io.Reader, table *variable.Table) (rowsource.Rowsource, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return rowsource.NewValues(table, nil, nil), scanner.Err()
	}
	headerFields := strings.Split(scanner.Text(), "\t")
	vars := make([]string, len(headerFields))
	offsets := make([]variable.Offset, len(headerFields))
	for i, h := range headerFields {
		name := strings.TrimPrefix(h, "?")
		vars[i] = name
		offsets[i] = table.Intern(name, -1)
	}

	var rows []algebra.ValuesRow
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		values := make([]rdf.Term, len(offsets))
		for i := range offsets {
			if i < len(fields) {
				values[i] = parseTSVTerm(fields[i])
			}
		}
		rows = append(rows, algebra.ValuesRow{Values: values})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("format: tsv read: %w", err)
	}
	return rowsource.NewValues(table, vars, rows), nil
}

func parseTSVTerm(field string) rdf.Term {
	if field == "" {
		return nil
	}
	switch {
	case strings.HasPrefix(field, "<") && strings.HasSuffix(field, ">"):
		return rdf.NewIRI(field[1 : len(field)-1])
	case strings.HasPrefix(field, "_:"):
		return rdf.NewBlank(field[2:])
	case strings.HasPrefix(field, "\""):
		return parseQuotedTSVLiteral(field)
	default:
		if i, err := strconv.ParseInt(field, 10, 64); err == nil {
			return rdf.NewIntegerLiteral(i)
		}
		if f, err := strconv.ParseFloat(field, 64); err == nil {
			return rdf.NewDoubleLiteral(f)
		}
		return rdf.NewPlainLiteral(field)
	}
}

// parseQuotedTSVLiteral splits a "lexical"[@lang|^^<dt>] field, honoring
// backslash-escaped quotes inside the lexical part.
func parseQuotedTSVLiteral(field string) rdf.Term {
	i := 1
	for i < len(field) {
		if field[i] == '\\' {
			i += 2
			continue
		}
		if field[i] == '"' {
			break
		}
		i++
	}
	lexical := unescapeTSVString(field[1:i])
	rest := field[min(i+1, len(field)):]
	switch {
	case strings.HasPrefix(rest, "@"):
		return rdf.NewLangLiteral(lexical, rest[1:])
	case strings.HasPrefix(rest, "^^<") && strings.HasSuffix(rest, ">"):
		return rdf.NewTypedLiteral(lexical, rdf.NewIRI(rest[3:len(rest)-1]))
	default:
		return rdf.NewPlainLiteral(lexical)
	}
}
