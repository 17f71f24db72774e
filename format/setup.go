package format

// NewDefaultRegistry builds the registry with every built-in format.
// JSON registers first and so becomes Default(), matching the
// teacher's own negotiateFormat fallback ("Default to JSON" in
// pkg/server/utils.go) when no Accept header matches. CSV and JSON
// readers are intentionally not registered: CSV's bare-value
// convention can't unambiguously distinguish an IRI from a literal on
// read-back (the teacher's own termToCSVValue comment concedes this),
// and a JSON Results reader would require re-deriving the same
// literalParts decomposition CSV lacks the brackets for with no
// grounded teacher parser to follow; TSV is the one format whose
// writer is a lossless, round-trippable inverse, so it is the only
// registered reader (see DESIGN.md).
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&Format{
		Name:    "json",
		Aliases: []string{"http://www.w3.org/ns/formats/SPARQL_Results_JSON"},
		Mimes: []MimeType{
			{Type: "application/sparql-results+json", Quality: 10},
			{Type: "application/json", Quality: 6},
		},
		NewWriter: func() Writer { return NewJSONWriter() },
	})
	r.Register(&Format{
		Name:    "xml",
		Aliases: []string{"http://www.w3.org/ns/formats/SPARQL_Results_XML"},
		Mimes: []MimeType{
			{Type: "application/sparql-results+xml", Quality: 10},
			{Type: "application/xml", Quality: 5},
		},
		NewWriter: func() Writer { return NewXMLWriter() },
	})
	r.Register(&Format{
		Name:    "csv",
		Aliases: []string{"http://www.w3.org/ns/formats/SPARQL_Results_CSV"},
		Mimes: []MimeType{
			{Type: "text/csv", Quality: 10},
		},
		NewWriter: func() Writer { return NewCSVWriter() },
	})
	r.Register(&Format{
		Name:    "tsv",
		Aliases: []string{"http://www.w3.org/ns/formats/SPARQL_Results_TSV"},
		Mimes: []MimeType{
			{Type: "text/tab-separated-values", Quality: 10},
		},
		NewWriter: func() Writer { return NewTSVWriter() },
		NewReader: func() Reader { return NewTSVReader() },
	})
	r.Register(&Format{
		Name:    "turtle",
		Aliases: []string{"http://www.w3.org/ns/formats/Turtle"},
		Mimes: []MimeType{
			{Type: "text/turtle", Quality: 10},
		},
		NewWriter: func() Writer { return NewTurtleWriter() },
	})
	return r
}
