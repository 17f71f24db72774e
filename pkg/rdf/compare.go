package rdf

import (
	"errors"
	"time"
)

// Errors signalled by the term-value system (spec §4.1, §7 "expression
// errors").
var (
	ErrTypeMismatch    = errors.New("rdf: type mismatch")
	ErrIncomparable    = errors.New("rdf: values are not comparable")
	ErrMalformedLexeme = errors.New("rdf: malformed lexical form for datatype")
	ErrDivideByZero    = errors.New("rdf: divide by zero")
	ErrIntegerOverflow = errors.New("rdf: integer overflow")
)

// EffectiveBoolean computes SPARQL's effective boolean value (EBV).
func EffectiveBoolean(t Term) (bool, error) {
	lit, ok := t.(*Literal)
	if !ok {
		return false, ErrTypeMismatch
	}
	switch lit.Kind {
	case LiteralKindBoolean:
		return lit.BoolValue, nil
	case LiteralKindInteger:
		return lit.IntValue != 0, nil
	case LiteralKindDecimal:
		return lit.DecValue.Sign() != 0, nil
	case LiteralKindFloat:
		return lit.FloatVal != 0 && !isNaN32(lit.FloatVal), nil
	case LiteralKindDouble:
		return lit.DoubleVal != 0 && !isNaN64(lit.DoubleVal), nil
	case LiteralKindPlain:
		return lit.Lexical != "", nil
	default:
		return false, ErrTypeMismatch
	}
}

func isNaN32(f float32) bool { return f != f }
func isNaN64(f float64) bool { return f != f }

// SameTerm implements byte-identical same-term equality (spec §4.1,
// GLOSSARY "Same-term"): identical IRIs, identical blank labels, or
// literals with identical lexical form, datatype IRI, and language tag.
//
// Two numeric literals of different kinds are never same-term, even when
// value-equal (e.g. "1"^^xsd:integer and "1.0"^^xsd:decimal) — see the
// Open Question decision in DESIGN.md.
func SameTerm(a, b Term) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case *IRI:
		bv, ok := b.(*IRI)
		return ok && av.Value == bv.Value
	case *Blank:
		bv, ok := b.(*Blank)
		return ok && av.Label == bv.Label
	case *Literal:
		bv, ok := b.(*Literal)
		if !ok || av.Kind != bv.Kind {
			return false
		}
		if av.Lexical != bv.Lexical || av.Language != bv.Language {
			return false
		}
		adt, bdt := av.EffectiveDatatype(), bv.EffectiveDatatype()
		if adt == nil || bdt == nil {
			return adt == bdt
		}
		return adt.Value == bdt.Value
	case *Pattern:
		bv, ok := b.(*Pattern)
		return ok && av.Regex == bv.Regex && av.Flags == bv.Flags
	case *QName:
		bv, ok := b.(*QName)
		return ok && av.Prefix == bv.Prefix && av.Local == bv.Local
	case *VariableRef:
		bv, ok := b.(*VariableRef)
		return ok && av.Name == bv.Name
	case *Unknown:
		bv, ok := b.(*Unknown)
		return ok && av.Raw == bv.Raw
	default:
		return false
	}
}

// ValueEquals implements SPARQL value-equality: same-term equality for
// non-numeric terms, and numeric promotion-then-compare for numeric
// literals. Comparing a literal with a non-literal raises ErrTypeMismatch
// unless relaxed is set, in which case it reports false instead of
// erroring (IN/NOT IN pass relaxed); other unequal pairs report false.
func ValueEquals(a, b Term, relaxed bool) (bool, error) {
	al, aok := a.(*Literal)
	bl, bok := b.(*Literal)
	if aok && bok && al.IsNumeric() && bl.IsNumeric() {
		c, err := CompareNumeric(al, bl)
		if err != nil {
			return false, err
		}
		return c == 0, nil
	}
	if aok && bok && al.Kind == LiteralKindDateTime && bl.Kind == LiteralKindDateTime {
		return al.TimeValue.Equal(bl.TimeValue), nil
	}
	if SameTerm(a, b) {
		return true, nil
	}
	if aok != bok {
		if relaxed {
			return false, nil
		}
		return false, ErrTypeMismatch
	}
	return false, nil
}

// typeRank assigns the total-order rank spec §4.1 requires across term
// kinds: blank < IRI < plain-literal < typed-literal.
func typeRank(t Term) int {
	switch v := t.(type) {
	case *Blank:
		return 0
	case *IRI:
		return 1
	case *Literal:
		switch v.Kind {
		case LiteralKindPlain, LiteralKindLangString:
			return 2
		default:
			return 3
		}
	default:
		return 4
	}
}

// Compare implements the total, stable ordering spec §4.1 requires for
// ORDER BY: across types by typeRank; within a type, numerics by value,
// strings by codepoint with language-tag tiebreak, date-times by instant.
// An expression error while comparing numerics propagates; callers that
// need "error sorts first" (sort rowsource) handle that at the call site.
func Compare(a, b Term) (int, error) {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return cmpInt(ra, rb), nil
	}
	switch av := a.(type) {
	case *Blank:
		bv := b.(*Blank)
		return cmpString(av.Label, bv.Label), nil
	case *IRI:
		bv := b.(*IRI)
		return cmpString(av.Value, bv.Value), nil
	case *Literal:
		bv := b.(*Literal)
		return compareLiterals(av, bv)
	default:
		return cmpString(a.String(), b.String()), nil
	}
}

func compareLiterals(a, b *Literal) (int, error) {
	if a.IsNumeric() && b.IsNumeric() {
		return CompareNumeric(a, b)
	}
	if a.Kind == LiteralKindDateTime && b.Kind == LiteralKindDateTime {
		return cmpTime(a.TimeValue, b.TimeValue), nil
	}
	if a.Kind == LiteralKindDate && b.Kind == LiteralKindDate {
		return cmpTime(a.TimeValue, b.TimeValue), nil
	}
	if c := cmpString(a.Lexical, b.Lexical); c != 0 {
		return c, nil
	}
	return cmpString(a.Language, b.Language), nil
}

func cmpTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
