package format

import (
	"encoding/json"
	"io"

	"sparqlcore/pkg/rdf"
)

// SPARQL JSON Results Format (https://www.w3.org/TR/sparql11-results-json/),
// grounded on the teacher's pkg/server/results/json.go struct shape,
// generalized to stream off a BindingsSource/BooleanSource/GraphSource
// instead of a materialised *executor.SelectResult.

type jsonWriter struct{}

func NewJSONWriter() Writer { return jsonWriter{} }

type jsonResults struct {
	Head    jsonHead      `json:"head"`
	Results *jsonBindings `json:"results,omitempty"`
	Boolean *bool         `json:"boolean,omitempty"`
}

type jsonHead struct {
	Vars []string `json:"vars"`
}

type jsonBindings struct {
	Bindings []map[string]jsonValue `json:"bindings"`
}

type jsonValue struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

func (jsonWriter) WriteBindings(out io.Writer, src BindingsSource) error {
	n := src.GetBindingsCount()
	vars := make([]string, n)
	for i := range vars {
		vars[i] = src.GetBindingName(i)
	}

	var bindings []map[string]jsonValue
	for src.Next() {
		row := make(map[string]jsonValue)
		for i, v := range vars {
			term := src.GetBindingValue(i)
			if term == nil {
				continue
			}
			row[v] = termToJSON(term)
		}
		bindings = append(bindings, row)
	}
	if bindings == nil {
		bindings = []map[string]jsonValue{}
	}

	doc := jsonResults{Head: jsonHead{Vars: vars}, Results: &jsonBindings{Bindings: bindings}}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (jsonWriter) WriteBoolean(out io.Writer, src BooleanSource) error {
	result := src.GetBoolean()
	doc := jsonResults{Head: jsonHead{Vars: []string{}}, Boolean: &result}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (jsonWriter) WriteGraph(out io.Writer, src GraphSource) error {
	var triples []map[string]string
	for src.NextTriple() {
		q := src.GetTriple()
		triples = append(triples, map[string]string{
			"subject":   q.Subject.String(),
			"predicate": q.Predicate.String(),
			"object":    q.Object.String(),
		})
	}
	if triples == nil {
		triples = []map[string]string{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(triples)
}

func termToJSON(term rdf.Term) jsonValue {
	switch t := term.(type) {
	case *rdf.IRI:
		return jsonValue{Type: "uri", Value: t.Value}
	case *rdf.Blank:
		return jsonValue{Type: "bnode", Value: t.Label}
	case *rdf.Literal:
		value, datatype, lang := literalParts(t)
		return jsonValue{Type: "literal", Value: value, Datatype: datatype, Lang: lang}
	default:
		return jsonValue{Type: "literal", Value: term.String()}
	}
}
