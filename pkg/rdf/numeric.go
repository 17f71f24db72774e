package rdf

import (
	"math"
	"math/big"
	"strconv"
)

// numKind ranks the numeric promotion chain integer ⊂ decimal ⊂ float ⊂
// double (spec §4.1 "Numeric cast chain").
func numKind(l *Literal) int {
	switch l.Kind {
	case LiteralKindInteger:
		return 0
	case LiteralKindDecimal:
		return 1
	case LiteralKindFloat:
		return 2
	case LiteralKindDouble:
		return 3
	default:
		return -1
	}
}

func widest(a, b *Literal) int {
	ka, kb := numKind(a), numKind(b)
	if ka > kb {
		return ka
	}
	return kb
}

func asRat(l *Literal) *big.Rat {
	switch l.Kind {
	case LiteralKindInteger:
		return new(big.Rat).SetInt64(l.IntValue)
	case LiteralKindDecimal:
		return l.DecValue
	default:
		return nil
	}
}

func asFloat64(l *Literal) float64 {
	switch l.Kind {
	case LiteralKindInteger:
		return float64(l.IntValue)
	case LiteralKindDecimal:
		f, _ := l.DecValue.Float64()
		return f
	case LiteralKindFloat:
		return float64(l.FloatVal)
	case LiteralKindDouble:
		return l.DoubleVal
	default:
		return math.NaN()
	}
}

func fromKind(kind int, rat *big.Rat, f float64) *Literal {
	switch kind {
	case 0:
		num := rat.Num()
		return NewIntegerLiteral(num.Int64())
	case 1:
		return NewDecimalLiteral(rat)
	case 2:
		return NewFloatLiteral(float32(f))
	default:
		return NewDoubleLiteral(f)
	}
}

// CompareNumeric implements the numeric half of spec §4.1 ordering:
// promote to the widest kind present, then compare by value. NaN operands
// make the comparison undefined and are reported as ErrIncomparable so
// callers fold them into SPARQL's three-valued logic.
func CompareNumeric(a, b *Literal) (int, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return 0, ErrTypeMismatch
	}
	kind := widest(a, b)
	if kind <= 1 {
		ra, rb := numAsRat(a), numAsRat(b)
		return ra.Cmp(rb), nil
	}
	fa, fb := asFloat64(a), asFloat64(b)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return 0, ErrIncomparable
	}
	switch {
	case fa < fb:
		return -1, nil
	case fa > fb:
		return 1, nil
	default:
		return 0, nil
	}
}

func numAsRat(l *Literal) *big.Rat {
	if r := asRat(l); r != nil {
		return r
	}
	return new(big.Rat).SetFloat64(asFloat64(l))
}

// Add, Sub, Mul, Div implement spec §4.1 arithmetic: results are computed
// at the widest of the two operand kinds.
func Add(a, b *Literal) (*Literal, error) { return numericOp(a, b, '+') }
func Sub(a, b *Literal) (*Literal, error) { return numericOp(a, b, '-') }
func Mul(a, b *Literal) (*Literal, error) { return numericOp(a, b, '*') }

func Div(a, b *Literal) (*Literal, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return nil, ErrTypeMismatch
	}
	kind := widest(a, b)
	if kind <= 1 {
		rb := numAsRat(b)
		if rb.Sign() == 0 {
			return nil, ErrDivideByZero
		}
		result := new(big.Rat).Quo(numAsRat(a), rb)
		// SPARQL division always yields at least xsd:decimal, never integer.
		if kind == 0 {
			return NewDecimalLiteral(result), nil
		}
		return fromKind(kind, result, 0), nil
	}
	fb := asFloat64(b)
	if fb == 0 {
		return nil, ErrDivideByZero
	}
	return fromKind(kind, nil, asFloat64(a)/fb), nil
}

func numericOp(a, b *Literal, op byte) (*Literal, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return nil, ErrTypeMismatch
	}
	kind := widest(a, b)
	if kind <= 1 {
		ra, rb := numAsRat(a), numAsRat(b)
		result := new(big.Rat)
		switch op {
		case '+':
			result.Add(ra, rb)
		case '-':
			result.Sub(ra, rb)
		case '*':
			result.Mul(ra, rb)
		}
		return fromKind(kind, result, 0), nil
	}
	fa, fb := asFloat64(a), asFloat64(b)
	var f float64
	switch op {
	case '+':
		f = fa + fb
	case '-':
		f = fa - fb
	case '*':
		f = fa * fb
	}
	return fromKind(kind, nil, f), nil
}

// Negate implements unary minus.
func Negate(a *Literal) (*Literal, error) {
	if !a.IsNumeric() {
		return nil, ErrTypeMismatch
	}
	switch a.Kind {
	case LiteralKindInteger:
		if a.IntValue == math.MinInt64 {
			return nil, ErrIntegerOverflow
		}
		return NewIntegerLiteral(-a.IntValue), nil
	case LiteralKindDecimal:
		return NewDecimalLiteral(new(big.Rat).Neg(a.DecValue)), nil
	case LiteralKindFloat:
		return NewFloatLiteral(-a.FloatVal), nil
	default:
		return NewDoubleLiteral(-a.DoubleVal), nil
	}
}

// ParseNumeric constructs the numeric literal matching datatype for a
// lexical form, validating it against the XSD grammar for that kind.
func ParseNumeric(lexical string, datatype *IRI) (*Literal, error) {
	switch datatype.Value {
	case XSDInteger.Value:
		v, err := strconv.ParseInt(lexical, 10, 64)
		if err != nil {
			return nil, ErrMalformedLexeme
		}
		return NewIntegerLiteral(v), nil
	case XSDDecimal.Value:
		r, ok := new(big.Rat).SetString(lexical)
		if !ok {
			return nil, ErrMalformedLexeme
		}
		return NewDecimalLiteral(r), nil
	case XSDFloat.Value:
		v, err := strconv.ParseFloat(lexical, 32)
		if err != nil {
			return nil, ErrMalformedLexeme
		}
		return NewFloatLiteral(float32(v)), nil
	case XSDDouble.Value:
		v, err := strconv.ParseFloat(lexical, 64)
		if err != nil {
			return nil, ErrMalformedLexeme
		}
		return NewDoubleLiteral(v), nil
	default:
		return nil, ErrTypeMismatch
	}
}

// CastNumeric implements the numeric legs of SPARQL CAST: widen or narrow
// an existing term to the requested numeric datatype.
func CastNumeric(t Term, datatype *IRI) (*Literal, error) {
	switch v := t.(type) {
	case *Literal:
		if v.IsNumeric() {
			return castNumericLiteral(v, datatype)
		}
		if v.Kind == LiteralKindBoolean {
			var i int64
			if v.BoolValue {
				i = 1
			}
			return castNumericLiteral(NewIntegerLiteral(i), datatype)
		}
		return ParseNumeric(v.Lexical, datatype)
	default:
		return nil, ErrTypeMismatch
	}
}

func castNumericLiteral(l *Literal, datatype *IRI) (*Literal, error) {
	switch datatype.Value {
	case XSDInteger.Value:
		switch l.Kind {
		case LiteralKindInteger:
			return l, nil
		case LiteralKindDecimal:
			if !l.DecValue.IsInt() {
				return NewIntegerLiteral(new(big.Int).Div(l.DecValue.Num(), l.DecValue.Denom()).Int64()), nil
			}
			return NewIntegerLiteral(l.DecValue.Num().Int64()), nil
		default:
			f := asFloat64(l)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, ErrMalformedLexeme
			}
			return NewIntegerLiteral(int64(f)), nil
		}
	case XSDDecimal.Value:
		if l.Kind == LiteralKindDecimal {
			return l, nil
		}
		return NewDecimalLiteral(numAsRat(l)), nil
	case XSDFloat.Value:
		return NewFloatLiteral(float32(asFloat64(l))), nil
	case XSDDouble.Value:
		return NewDoubleLiteral(asFloat64(l)), nil
	default:
		return nil, ErrTypeMismatch
	}
}
