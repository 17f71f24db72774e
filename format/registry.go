// Package format implements the format registry (spec §6.2): named
// writers/readers looked up by short name, alias URI, or MIME type,
// with per-MIME-type quality scores and guess-by-content; lookups do not
// consult the quality scores. It is
// grounded on the teacher's pkg/server/results/*.go formatters, lifted
// out of the HTTP handler layer into a standalone registry the façade
// can drive directly.
package format

import (
	"fmt"
	"io"
	"strings"

	"sparqlcore/engine/rowsource"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
)

// Direction selects whether a format lookup requires read support,
// write support, or either.
type Direction int

const (
	DirectionEither Direction = iota
	DirectionReader
	DirectionWriter
)

// MimeType is one MIME alias for a format with a 0..10 quality score
// (spec §6.2 "a set of MIME types each with a quality score"); nothing
// in this package reads the score.
type MimeType struct {
	Type    string
	Quality int
}

// BindingsSource is the subset of the query-results façade a Writer
// needs to stream a SELECT result (spec §6.3's consumer surface,
// duck-typed here to avoid an import cycle with package queryresults).
type BindingsSource interface {
	GetBindingsCount() int
	GetBindingName(i int) string
	Next() bool
	GetBindingValue(i int) rdf.Term
}

// BooleanSource is the subset needed to stream an ASK result.
type BooleanSource interface {
	GetBoolean() bool
}

// GraphSource is the subset needed to stream a CONSTRUCT/DESCRIBE
// result.
type GraphSource interface {
	NextTriple() bool
	GetTriple() *rdf.Quad
}

// Writer is a streaming sink driven by the query-results façade; it
// consumes rows until exhaustion (spec §6.2 "Writers are streaming
// sinks ... consume rows until exhaustion").
type Writer interface {
	WriteBindings(out io.Writer, src BindingsSource) error
	WriteBoolean(out io.Writer, src BooleanSource) error
	WriteGraph(out io.Writer, src GraphSource) error
}

// Reader parses an input byte stream into a rowsource against the
// given variables table (spec §6.2 "Readers are rowsources that parse
// an input byte stream into rows against a supplied variables table").
// Variable names found in the stream that aren't already registered in
// table are interned with DeclaredAt -1 (no owning BGP column; the
// variable originates outside the algebra tree).
type Reader interface {
	ReadBindings(in io.Reader, table *variable.Table) (rowsource.Rowsource, error)
}

// Format names one registered serialization: a short name, alias URIs,
// scored MIME types, and optional writer/reader factories (nil reader
// means write-only, matching formats the teacher never parses back,
// e.g. XML/JSON results).
type Format struct {
	Name      string
	Aliases   []string
	Mimes     []MimeType
	NewWriter func() Writer
	NewReader func() Reader
}

func (f *Format) supports(dir Direction) bool {
	switch dir {
	case DirectionReader:
		return f.NewReader != nil
	case DirectionWriter:
		return f.NewWriter != nil
	default:
		return true
	}
}

// Registry is a name/URI/MIME-type lookup table of formats (spec
// §6.2). The first Register call establishes the default format.
type Registry struct {
	formats []*Format
	byKey   map[string]*Format
}

func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]*Format)}
}

// Register adds f, indexing it by name, every alias, and every MIME
// type. The first registered format becomes Default().
func (r *Registry) Register(f *Format) {
	r.formats = append(r.formats, f)
	r.byKey[strings.ToLower(f.Name)] = f
	for _, a := range f.Aliases {
		r.byKey[strings.ToLower(a)] = f
	}
	for _, m := range f.Mimes {
		r.byKey[strings.ToLower(m.Type)] = f
	}
}

// Default returns the first-registered format, or nil if none.
func (r *Registry) Default() *Format {
	if len(r.formats) == 0 {
		return nil
	}
	return r.formats[0]
}

// Lookup resolves key — a short name, alias URI, or MIME type — to a
// registered Format supporting dir. Falls back to Default() if key is
// empty.
func (r *Registry) Lookup(key string, dir Direction) (*Format, error) {
	if key == "" {
		if d := r.Default(); d != nil {
			return d, nil
		}
		return nil, fmt.Errorf("format: no formats registered")
	}
	f, ok := r.byKey[strings.ToLower(key)]
	if !ok {
		return nil, fmt.Errorf("format: unknown format %q", key)
	}
	if !f.supports(dir) {
		return nil, fmt.Errorf("format: %q does not support the requested direction", key)
	}
	return f, nil
}

// GuessByContent scores every registered format's sniff heuristic
// against content and returns the highest-scoring one (spec §6.2
// "Guess-by-content scores format candidates and picks the highest").
func (r *Registry) GuessByContent(content []byte) *Format {
	trimmed := strings.TrimSpace(string(content))
	var best *Format
	bestScore := -1
	for _, f := range r.formats {
		score := sniffScore(f.Name, trimmed)
		if score > bestScore {
			bestScore = score
			best = f
		}
	}
	return best
}

func sniffScore(name, trimmed string) int {
	switch name {
	case "json":
		if strings.HasPrefix(trimmed, "{") {
			return 8
		}
	case "xml":
		if strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<sparql") {
			return 8
		}
	case "csv":
		if strings.Contains(trimmed, ",") && !strings.Contains(trimmed, "\t") {
			return 5
		}
	case "tsv":
		if strings.Contains(trimmed, "\t") {
			return 6
		}
	case "turtle":
		if strings.Contains(trimmed, "<") && strings.Contains(trimmed, ">") && strings.HasSuffix(trimmed, ".") {
			return 4
		}
	}
	return 0
}
