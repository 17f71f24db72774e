// Package triplesource implements the triples-source interface (spec
// §6.1): a pluggable abstraction over a concrete RDF store, exposing
// triple-pattern matching as an iterator of bindings and exact-triple
// presence checks. Two backends are provided: an in-memory store for
// tests and small datasets, and a badger-backed store for anything
// larger than memory.
package triplesource

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"time"

	"sparqlcore/pkg/rdf"
)

// EncodedTermSize is the fixed width of an encoded term: one type byte
// plus 16 bytes of either a 128-bit hash or inline data (spec §9
// "reference-counted term sharing" realised here as a content-addressed
// fixed-width key so index scans never need variable-length keys).
const EncodedTermSize = 17

// MaxInlineStringSize bounds how large a string literal's lexical form
// can be before it is hashed instead of stored inline.
const MaxInlineStringSize = 16

// EncodedTerm is a term encoded as a sortable, fixed-size key.
type EncodedTerm [EncodedTermSize]byte

// encodedTermType mirrors rdf.TermType plus the literal sub-kinds that
// need distinct binary encodings (numeric/date kinds are stored inline
// rather than hashed; their big-endian bit patterns sort negative values
// after positive ones, so key order is not value order).
type encodedTermType byte

const (
	etIRI encodedTermType = iota + 1
	etBlank
	etPlainString
	etLangString
	etTypedLiteral
	etInteger
	etDecimal
	etFloat
	etDouble
	etBoolean
	etDateTime
	etDate
	etDefaultGraph
)

// Encoder turns rdf.Term values into fixed-size, content-addressed keys,
// optionally returning the original string to persist in the id2str
// table for terms that hash instead of inlining (spec §6.1's store-bound
// object needs this to reconstruct terms from a decoded key).
type Encoder struct{}

func NewEncoder() *Encoder { return &Encoder{} }

// EncodeTerm encodes term and reports the literal form to store in
// id2str when the term was hashed rather than inlined.
func (e *Encoder) EncodeTerm(term rdf.Term) (EncodedTerm, *string, error) {
	var enc EncodedTerm
	switch t := term.(type) {
	case *rdf.IRI:
		enc[0] = byte(etIRI)
		h := rdf.Hash128(t.Value)
		copy(enc[1:], h[:])
		return enc, &t.Value, nil
	case *rdf.Blank:
		enc[0] = byte(etBlank)
		h := rdf.Hash128(t.Label)
		copy(enc[1:], h[:])
		return enc, &t.Label, nil
	case *rdf.Literal:
		return e.encodeLiteral(t)
	default:
		return enc, nil, fmt.Errorf("triplesource: cannot encode term of type %T", term)
	}
}

func (e *Encoder) encodeLiteral(lit *rdf.Literal) (EncodedTerm, *string, error) {
	var enc EncodedTerm
	switch lit.Kind {
	case rdf.LiteralKindPlain:
		enc[0] = byte(etPlainString)
		return e.inlineOrHash(enc, lit.Lexical)
	case rdf.LiteralKindLangString:
		enc[0] = byte(etLangString)
		combined := lit.Lexical + "@" + lit.Language
		return e.inlineOrHash(enc, combined)
	case rdf.LiteralKindTyped:
		enc[0] = byte(etTypedLiteral)
		combined := lit.Lexical + "^^" + lit.Datatype.Value
		h := rdf.Hash128(combined)
		copy(enc[1:], h[:])
		return enc, &combined, nil
	case rdf.LiteralKindInteger:
		enc[0] = byte(etInteger)
		binary.BigEndian.PutUint64(enc[1:9], uint64(lit.IntValue))
		return enc, nil, nil
	case rdf.LiteralKindDecimal:
		enc[0] = byte(etDecimal)
		f, _ := lit.DecValue.Float64()
		binary.BigEndian.PutUint64(enc[1:9], math.Float64bits(f))
		return enc, nil, nil
	case rdf.LiteralKindFloat:
		enc[0] = byte(etFloat)
		binary.BigEndian.PutUint32(enc[1:5], math.Float32bits(lit.FloatVal))
		return enc, nil, nil
	case rdf.LiteralKindDouble:
		enc[0] = byte(etDouble)
		binary.BigEndian.PutUint64(enc[1:9], math.Float64bits(lit.DoubleVal))
		return enc, nil, nil
	case rdf.LiteralKindBoolean:
		enc[0] = byte(etBoolean)
		if lit.BoolValue {
			enc[1] = 1
		}
		return enc, nil, nil
	case rdf.LiteralKindDateTime:
		enc[0] = byte(etDateTime)
		binary.BigEndian.PutUint64(enc[1:9], uint64(lit.TimeValue.UnixNano()))
		return enc, nil, nil
	case rdf.LiteralKindDate:
		enc[0] = byte(etDate)
		days := lit.TimeValue.Unix() / 86400
		binary.BigEndian.PutUint64(enc[1:9], uint64(days))
		return enc, nil, nil
	default:
		return enc, nil, fmt.Errorf("triplesource: unsupported literal kind %d", lit.Kind)
	}
}

func (e *Encoder) inlineOrHash(enc EncodedTerm, s string) (EncodedTerm, *string, error) {
	if len(s) <= MaxInlineStringSize {
		copy(enc[1:], []byte(s))
		return enc, nil, nil
	}
	h := rdf.Hash128(s)
	copy(enc[1:], h[:])
	return enc, &s, nil
}

// EncodeDefaultGraph returns the reserved key for the unnamed graph.
func (e *Encoder) EncodeDefaultGraph() EncodedTerm {
	var enc EncodedTerm
	enc[0] = byte(etDefaultGraph)
	return enc
}

// EncodeQuadKey concatenates encoded terms in index-column order into a
// sortable scan key.
func (e *Encoder) EncodeQuadKey(terms ...EncodedTerm) []byte {
	out := make([]byte, 0, len(terms)*EncodedTermSize)
	for _, t := range terms {
		out = append(out, t[:]...)
	}
	return out
}

// Decoder reconstructs rdf.Term values from encoded keys, consulting a
// string lookup for hashed (non-inline) terms.
type Decoder struct{}

func NewDecoder() *Decoder { return &Decoder{} }

// DecodeTerm decodes enc, using lookup(enc) to fetch the original string
// for terms that were hashed rather than inlined.
func (d *Decoder) DecodeTerm(enc EncodedTerm, lookup func(EncodedTerm) (string, bool)) (rdf.Term, error) {
	switch encodedTermType(enc[0]) {
	case etIRI:
		s, ok := lookup(enc)
		if !ok {
			return nil, fmt.Errorf("triplesource: missing id2str entry for IRI")
		}
		return rdf.NewIRI(s), nil
	case etBlank:
		s, ok := lookup(enc)
		if !ok {
			return nil, fmt.Errorf("triplesource: missing id2str entry for blank node")
		}
		return rdf.NewBlank(s), nil
	case etPlainString:
		s, ok := decodeInlineOrLookup(enc, lookup)
		if !ok {
			return nil, fmt.Errorf("triplesource: missing id2str entry for string literal")
		}
		return rdf.NewPlainLiteral(s), nil
	case etLangString:
		s, ok := decodeInlineOrLookup(enc, lookup)
		if !ok {
			return nil, fmt.Errorf("triplesource: missing id2str entry for lang string")
		}
		lex, lang := splitLangString(s)
		return rdf.NewLangLiteral(lex, lang), nil
	case etTypedLiteral:
		s, ok := lookup(enc)
		if !ok {
			return nil, fmt.Errorf("triplesource: missing id2str entry for typed literal")
		}
		lex, dt := splitTypedLiteral(s)
		return rdf.NewTypedLiteral(lex, rdf.NewIRI(dt)), nil
	case etInteger:
		v := int64(binary.BigEndian.Uint64(enc[1:9]))
		return rdf.NewIntegerLiteral(v), nil
	case etDecimal:
		bits := binary.BigEndian.Uint64(enc[1:9])
		f := math.Float64frombits(bits)
		r := new(big.Rat).SetFloat64(f)
		if r == nil {
			r = new(big.Rat)
		}
		return rdf.NewDecimalLiteral(r), nil
	case etFloat:
		bits := binary.BigEndian.Uint32(enc[1:5])
		return rdf.NewFloatLiteral(math.Float32frombits(bits)), nil
	case etDouble:
		bits := binary.BigEndian.Uint64(enc[1:9])
		return rdf.NewDoubleLiteral(math.Float64frombits(bits)), nil
	case etBoolean:
		return rdf.NewBooleanLiteral(enc[1] != 0), nil
	case etDateTime:
		nanos := int64(binary.BigEndian.Uint64(enc[1:9]))
		return rdf.NewDateTimeLiteral(time.Unix(0, nanos).UTC()), nil
	case etDate:
		days := int64(binary.BigEndian.Uint64(enc[1:9]))
		return rdf.NewDateLiteral(time.Unix(days*86400, 0).UTC()), nil
	case etDefaultGraph:
		return rdf.DefaultGraphIRI, nil
	default:
		return nil, fmt.Errorf("triplesource: unknown encoded term type %d", enc[0])
	}
}

func decodeInlineOrLookup(enc EncodedTerm, lookup func(EncodedTerm) (string, bool)) (string, bool) {
	if s, ok := lookup(enc); ok {
		return s, true
	}
	n := 0
	for n < 16 && enc[1+n] != 0 {
		n++
	}
	return string(enc[1 : 1+n]), true
}

func splitLangString(s string) (lexical, lang string) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '@' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

func splitTypedLiteral(s string) (lexical, datatype string) {
	for i := 0; i < len(s)-1; i++ {
		if s[i] == '^' && s[i+1] == '^' {
			return s[:i], s[i+2:]
		}
	}
	return s, ""
}
