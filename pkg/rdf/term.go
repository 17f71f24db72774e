package rdf

import (
	"fmt"
	"math/big"
	"time"
)

// TermType tags the concrete variant behind a Term.
type TermType byte

const (
	TermTypeIRI TermType = iota + 1
	TermTypeBlank
	TermTypeLiteral
	TermTypePattern
	TermTypeQName
	TermTypeVariable
	TermTypeUnknown
)

// LiteralKind distinguishes the literal sub-variants the spec names
// explicitly: plain strings, language-tagged strings, generic typed
// literals, and the numeric/temporal/boolean kinds that get their own
// comparison and arithmetic rules.
type LiteralKind byte

const (
	LiteralKindPlain LiteralKind = iota
	LiteralKindLangString
	LiteralKindTyped
	LiteralKindInteger
	LiteralKindDecimal
	LiteralKindFloat
	LiteralKindDouble
	LiteralKindBoolean
	LiteralKindDateTime
	LiteralKindDate
)

// Term is an RDF term value: an IRI, a blank node, a literal (in any of its
// sub-kinds), a regex pattern literal, a qualified name awaiting expansion,
// a variable reference used as a term, or the unknown sentinel.
//
// Terms are immutable once constructed; sharing a *Term value across rows
// is always safe.
type Term interface {
	Type() TermType
	String() string
}

// IRI is an absolute or relative IRI reference.
type IRI struct {
	Value string
}

func NewIRI(value string) *IRI { return &IRI{Value: value} }

func (t *IRI) Type() TermType  { return TermTypeIRI }
func (t *IRI) String() string  { return fmt.Sprintf("<%s>", t.Value) }

// Blank is a blank node, identified by a label unique within the scope it
// was produced in (a source document, a query result, or a CONSTRUCT row).
type Blank struct {
	Label string
}

func NewBlank(label string) *Blank { return &Blank{Label: label} }

func (t *Blank) Type() TermType { return TermTypeBlank }
func (t *Blank) String() string { return "_:" + t.Label }

// Literal covers every RDF literal shape. Which fields are meaningful
// depends on Kind:
//   - Plain / LangString: Lexical (+ Language for LangString)
//   - Typed: Lexical + Datatype (an arbitrary, non-numeric datatype IRI)
//   - Integer/Decimal/Float/Double/Boolean/DateTime/Date: Lexical carries the
//     canonical textual form, and the matching parsed-value field is
//     populated when Valid is true.
//
// language and a non-string datatype are mutually exclusive by
// construction: the New* constructors never set both.
type Literal struct {
	Kind     LiteralKind
	Lexical  string
	Language string
	Datatype *IRI
	Valid    bool

	IntValue  int64
	DecValue  *big.Rat
	FloatVal  float32
	DoubleVal float64
	BoolValue bool
	TimeValue time.Time
	HasTZ     bool
}

func (t *Literal) Type() TermType { return TermTypeLiteral }

func (t *Literal) String() string {
	s := fmt.Sprintf("%q", t.Lexical)
	switch t.Kind {
	case LiteralKindLangString:
		s += "@" + t.Language
	case LiteralKindPlain:
		// XSD string, no suffix printed
	default:
		if dt := t.EffectiveDatatype(); dt != nil {
			s += "^^" + dt.String()
		}
	}
	return s
}

// EffectiveDatatype returns the datatype IRI this literal carries, per
// spec §3: a string without an explicit datatype is XSD string for the
// purposes of DATATYPE().
func (t *Literal) EffectiveDatatype() *IRI {
	switch t.Kind {
	case LiteralKindPlain:
		return XSDString
	case LiteralKindLangString:
		return nil
	case LiteralKindInteger:
		return XSDInteger
	case LiteralKindDecimal:
		return XSDDecimal
	case LiteralKindFloat:
		return XSDFloat
	case LiteralKindDouble:
		return XSDDouble
	case LiteralKindBoolean:
		return XSDBoolean
	case LiteralKindDateTime:
		return XSDDateTime
	case LiteralKindDate:
		return XSDDate
	default:
		return t.Datatype
	}
}

// IsNumeric reports whether this literal is one of the four numeric kinds.
func (t *Literal) IsNumeric() bool {
	switch t.Kind {
	case LiteralKindInteger, LiteralKindDecimal, LiteralKindFloat, LiteralKindDouble:
		return true
	default:
		return false
	}
}

// Pattern is a regex literal term: a pattern string plus an optional flags
// string (e.g. "i" for case-insensitive), used as a constant operand to
// REGEX-family expressions.
type Pattern struct {
	Regex string
	Flags string
}

func NewPattern(regex, flags string) *Pattern { return &Pattern{Regex: regex, Flags: flags} }

func (t *Pattern) Type() TermType { return TermTypePattern }
func (t *Pattern) String() string {
	if t.Flags == "" {
		return fmt.Sprintf("/%s/", t.Regex)
	}
	return fmt.Sprintf("/%s/%s", t.Regex, t.Flags)
}

// QName is a prefixed name not yet resolved against a namespace map.
type QName struct {
	Prefix string
	Local  string
}

func NewQName(prefix, local string) *QName { return &QName{Prefix: prefix, Local: local} }

func (t *QName) Type() TermType { return TermTypeQName }
func (t *QName) String() string { return t.Prefix + ":" + t.Local }

// VariableRef is a term-level reference to a variable name; distinct from
// engine/expr's variable leaf, this is used where a variable name needs to
// flow through a slot typed as a Term (e.g. a triple-pattern position or
// a GRAPH origin).
type VariableRef struct {
	Name string
}

func NewVariableRef(name string) *VariableRef { return &VariableRef{Name: name} }

func (t *VariableRef) Type() TermType { return TermTypeVariable }
func (t *VariableRef) String() string { return "?" + t.Name }

// Unknown is the sentinel term for lexical forms that could not be
// classified; it participates in no comparisons except same-term identity.
type Unknown struct {
	Raw string
}

func (t *Unknown) Type() TermType { return TermTypeUnknown }
func (t *Unknown) String() string { return t.Raw }

// Triple is a subject/predicate/object fact.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func NewTriple(s, p, o Term) *Triple { return &Triple{Subject: s, Predicate: p, Object: o} }

func (t *Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject.String(), t.Predicate.String(), t.Object.String())
}

// Quad is a Triple scoped to a named graph (DefaultGraphIRI for the
// default graph).
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

func NewQuad(s, p, o, g Term) *Quad { return &Quad{Subject: s, Predicate: p, Object: o, Graph: g} }

func (q *Quad) String() string {
	return fmt.Sprintf("%s %s %s %s .", q.Subject.String(), q.Predicate.String(), q.Object.String(), q.Graph.String())
}

// DefaultGraphIRI names the default (unnamed) graph in a triples source
// that otherwise addresses graphs purely by IRI.
var DefaultGraphIRI = NewIRI("urn:sparqlcore:default-graph")

// XSD datatype IRIs used throughout the term system and evaluator.
var (
	XSDString   = NewIRI("http://www.w3.org/2001/XMLSchema#string")
	XSDInteger  = NewIRI("http://www.w3.org/2001/XMLSchema#integer")
	XSDDecimal  = NewIRI("http://www.w3.org/2001/XMLSchema#decimal")
	XSDFloat    = NewIRI("http://www.w3.org/2001/XMLSchema#float")
	XSDDouble   = NewIRI("http://www.w3.org/2001/XMLSchema#double")
	XSDBoolean  = NewIRI("http://www.w3.org/2001/XMLSchema#boolean")
	XSDDateTime = NewIRI("http://www.w3.org/2001/XMLSchema#dateTime")
	XSDDate     = NewIRI("http://www.w3.org/2001/XMLSchema#date")
)

// NewPlainLiteral builds an untyped, unlanguaged string literal.
func NewPlainLiteral(lexical string) *Literal {
	return &Literal{Kind: LiteralKindPlain, Lexical: lexical, Valid: true}
}

// NewLangLiteral builds a language-tagged string literal.
func NewLangLiteral(lexical, language string) *Literal {
	return &Literal{Kind: LiteralKindLangString, Lexical: lexical, Language: language, Valid: true}
}

// NewTypedLiteral builds a literal with an arbitrary (non-numeric)
// datatype IRI; the lexical form is carried verbatim and Valid is left
// false since this constructor does no datatype-specific validation.
func NewTypedLiteral(lexical string, datatype *IRI) *Literal {
	return &Literal{Kind: LiteralKindTyped, Lexical: lexical, Datatype: datatype}
}

func NewIntegerLiteral(v int64) *Literal {
	return &Literal{Kind: LiteralKindInteger, Lexical: fmt.Sprintf("%d", v), IntValue: v, Valid: true}
}

func NewDecimalLiteral(v *big.Rat) *Literal {
	return &Literal{Kind: LiteralKindDecimal, Lexical: formatDecimal(v), DecValue: v, Valid: true}
}

func NewFloatLiteral(v float32) *Literal {
	return &Literal{Kind: LiteralKindFloat, Lexical: formatFloat32(v), FloatVal: v, Valid: true}
}

func NewDoubleLiteral(v float64) *Literal {
	return &Literal{Kind: LiteralKindDouble, Lexical: formatFloat64(v), DoubleVal: v, Valid: true}
}

func NewBooleanLiteral(v bool) *Literal {
	return &Literal{Kind: LiteralKindBoolean, Lexical: fmt.Sprintf("%t", v), BoolValue: v, Valid: true}
}

func NewDateTimeLiteral(v time.Time) *Literal {
	return &Literal{Kind: LiteralKindDateTime, Lexical: v.Format(time.RFC3339Nano), TimeValue: v, HasTZ: true, Valid: true}
}

func NewDateLiteral(v time.Time) *Literal {
	return &Literal{Kind: LiteralKindDate, Lexical: v.Format("2006-01-02"), TimeValue: v, Valid: true}
}

func formatFloat32(v float32) string {
	return formatFloat64(float64(v))
}

func formatFloat64(v float64) string {
	if v == float64(int64(v)) && v < 1e15 && v > -1e15 {
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%g", v)
}

func formatDecimal(v *big.Rat) string {
	if v.IsInt() {
		return v.RatString() + ".0"
	}
	return v.FloatString(10)
}
