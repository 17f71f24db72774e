package format

import (
	"encoding/xml"
	"io"

	"sparqlcore/pkg/rdf"
)

// SPARQL XML Results Format (https://www.w3.org/TR/rdf-sparql-XMLres/),
// grounded on pkg/server/results/xml.go's struct-tag shape, generalized
// to stream off a BindingsSource/BooleanSource instead of a
// materialised *executor.SelectResult.

type xmlWriter struct{}

func NewXMLWriter() Writer { return xmlWriter{} }

type xmlResults struct {
	XMLName xml.Name       `xml:"sparql"`
	Head    xmlHead        `xml:"head"`
	Results *xmlResultsElt `xml:"results"`
	Boolean *bool          `xml:"boolean"`
}

type xmlHead struct {
	Variables []xmlVariable `xml:"variable"`
}

type xmlVariable struct {
	Name string `xml:"name,attr"`
}

type xmlResultsElt struct {
	Results []xmlResult `xml:"result"`
}

type xmlResult struct {
	Bindings []xmlBinding `xml:"binding"`
}

type xmlBinding struct {
	Name    string      `xml:"name,attr"`
	URI     *string     `xml:"uri,omitempty"`
	BNode   *string     `xml:"bnode,omitempty"`
	Literal *xmlLiteral `xml:"literal,omitempty"`
}

type xmlLiteral struct {
	Value    string `xml:",chardata"`
	Lang     string `xml:"lang,attr,omitempty"`
	Datatype string `xml:"datatype,attr,omitempty"`
}

func (xmlWriter) WriteBindings(out io.Writer, src BindingsSource) error {
	n := src.GetBindingsCount()
	vars := make([]string, n)
	head := xmlHead{}
	for i := range vars {
		vars[i] = src.GetBindingName(i)
		head.Variables = append(head.Variables, xmlVariable{Name: vars[i]})
	}

	var results []xmlResult
	for src.Next() {
		var bindings []xmlBinding
		for i, v := range vars {
			term := src.GetBindingValue(i)
			if term == nil {
				continue
			}
			bindings = append(bindings, termToXMLBinding(v, term))
		}
		results = append(results, xmlResult{Bindings: bindings})
	}

	doc := xmlResults{Head: head, Results: &xmlResultsElt{Results: results}}
	return writeXML(out, doc)
}

func (xmlWriter) WriteBoolean(out io.Writer, src BooleanSource) error {
	result := src.GetBoolean()
	doc := xmlResults{Boolean: &result}
	return writeXML(out, doc)
}

func (xmlWriter) WriteGraph(out io.Writer, src GraphSource) error {
	type triple struct {
		XMLName   xml.Name `xml:"triple"`
		Subject   string   `xml:"subject"`
		Predicate string   `xml:"predicate"`
		Object    string   `xml:"object"`
	}
	type graph struct {
		XMLName xml.Name `xml:"graph"`
		Triples []triple `xml:"triple"`
	}
	var g graph
	for src.NextTriple() {
		q := src.GetTriple()
		g.Triples = append(g.Triples, triple{
			Subject:   q.Subject.String(),
			Predicate: q.Predicate.String(),
			Object:    q.Object.String(),
		})
	}
	return writeXML(out, g)
}

func writeXML(out io.Writer, v interface{}) error {
	if _, err := io.WriteString(out, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(out)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}

func termToXMLBinding(name string, term rdf.Term) xmlBinding {
	switch t := term.(type) {
	case *rdf.IRI:
		v := t.Value
		return xmlBinding{Name: name, URI: &v}
	case *rdf.Blank:
		v := t.Label
		return xmlBinding{Name: name, BNode: &v}
	case *rdf.Literal:
		value, datatype, lang := literalParts(t)
		return xmlBinding{Name: name, Literal: &xmlLiteral{Value: value, Lang: lang, Datatype: datatype}}
	default:
		v := term.String()
		return xmlBinding{Name: name, Literal: &xmlLiteral{Value: v}}
	}
}
