package expr

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"sparqlcore/pkg/rdf"
)

// evalCall dispatches a builtin or CAST call (spec §4.2's builtin list,
// supplemented per SPEC_FULL.md §12 with the string/numeric helpers the
// teacher's evaluator already carried).
func evalCall(ctx *Context, c *CallExpr) (rdf.Term, error) {
	switch c.Name {
	case "BOUND":
		return callBound(ctx, c.Args)
	case "STR":
		return callStr(ctx, c.Args)
	case "LANG":
		return callLang(ctx, c.Args)
	case "LANGMATCHES":
		return callLangMatches(ctx, c.Args)
	case "DATATYPE":
		return callDatatype(ctx, c.Args)
	case "SAMETERM":
		return callSameTerm(ctx, c.Args)
	case "ISIRI", "ISURI":
		return callIsIRI(ctx, c.Args)
	case "ISBLANK":
		return callIsBlank(ctx, c.Args)
	case "ISLITERAL":
		return callIsLiteral(ctx, c.Args)
	case "ISNUMERIC":
		return callIsNumeric(ctx, c.Args)
	case "IF":
		return callIf(ctx, c.Args)
	case "COALESCE":
		return callCoalesce(ctx, c.Args)
	case "IN":
		return callIn(ctx, c.Args, false)
	case "NOTIN":
		return callIn(ctx, c.Args, true)
	case "CONCAT":
		return callConcat(ctx, c.Args)
	case "STRDT":
		return callStrDt(ctx, c.Args)
	case "STRLANG":
		return callStrLang(ctx, c.Args)
	case "BNODE":
		return callBnode(ctx, c.Args)
	case "URI", "IRI":
		return callURI(ctx, c.Args)
	case "NOW":
		return rdf.NewDateTimeLiteral(ctx.Now), nil
	case "YEAR":
		return callDatePart(ctx, c.Args, func(t *rdf.Literal) int64 { return int64(t.TimeValue.Year()) })
	case "MONTH":
		return callDatePart(ctx, c.Args, func(t *rdf.Literal) int64 { return int64(t.TimeValue.Month()) })
	case "DAY":
		return callDatePart(ctx, c.Args, func(t *rdf.Literal) int64 { return int64(t.TimeValue.Day()) })
	case "HOURS":
		return callDatePart(ctx, c.Args, func(t *rdf.Literal) int64 { return int64(t.TimeValue.Hour()) })
	case "MINUTES":
		return callDatePart(ctx, c.Args, func(t *rdf.Literal) int64 { return int64(t.TimeValue.Minute()) })
	case "SECONDS":
		return callDatePart(ctx, c.Args, func(t *rdf.Literal) int64 { return int64(t.TimeValue.Second()) })
	case "TIMEZONE":
		return callTimezone(ctx, c.Args)
	case "TO_UNIXTIME":
		return callToUnixtime(ctx, c.Args)
	case "FROM_UNIXTIME":
		return callFromUnixtime(ctx, c.Args)
	case "RAND":
		return rdf.NewDoubleLiteral(ctx.rand.Float64()), nil
	case "STRLEN":
		return callStrLen(ctx, c.Args)
	case "SUBSTR":
		return callSubstr(ctx, c.Args)
	case "UCASE":
		return callCase(ctx, c.Args, strings.ToUpper)
	case "LCASE":
		return callCase(ctx, c.Args, strings.ToLower)
	case "CONTAINS":
		return callStrPred(ctx, c.Args, strings.Contains)
	case "STRSTARTS":
		return callStrPred(ctx, c.Args, strings.HasPrefix)
	case "STRENDS":
		return callStrPred(ctx, c.Args, strings.HasSuffix)
	case "REGEX":
		return callRegex(ctx, c.Args)
	case "ABS":
		return callNumericUnary(ctx, c.Args, absNumeric)
	case "CEIL":
		return callNumericUnary(ctx, c.Args, ceilNumeric)
	case "FLOOR":
		return callNumericUnary(ctx, c.Args, floorNumeric)
	case "ROUND":
		return callNumericUnary(ctx, c.Args, roundNumeric)
	case "COUNT", "SUM", "AVG", "MIN", "MAX", "SAMPLE", "GROUP_CONCAT":
		return nil, ErrAggregateOutOfContext
	default:
		if strings.HasPrefix(c.Name, "http://www.w3.org/2001/XMLSchema#") {
			return callCast(ctx, c.Args, c.Name)
		}
		return nil, ErrUnsupportedFunction
	}
}

func arity(args []*Expr, n int) error {
	if len(args) != n {
		return ErrWrongArity
	}
	return nil
}

// callBound does NOT evaluate its argument (spec §4.2): recursively
// evaluating would substitute the bound value, making "unbound" and
// "bound to an absent literal" indistinguishable.
func callBound(ctx *Context, args []*Expr) (rdf.Term, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	if args[0].Op != OpVariable {
		return nil, ErrBoundRequiresVariable
	}
	off, ok := ctx.Row.Table.OffsetByName(args[0].VarName)
	if !ok {
		return rdf.NewBooleanLiteral(false), nil
	}
	return rdf.NewBooleanLiteral(ctx.Row.Bound(off)), nil
}

func callStr(ctx *Context, args []*Expr) (rdf.Term, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrUnboundInContext
	}
	if _, ok := t.(*rdf.Blank); ok {
		return nil, rdf.ErrTypeMismatch
	}
	s, err := coerceString(t)
	if err != nil {
		return nil, err
	}
	return rdf.NewPlainLiteral(s), nil
}

func callLang(ctx *Context, args []*Expr) (rdf.Term, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	lit, ok := t.(*rdf.Literal)
	if !ok {
		return nil, rdf.ErrTypeMismatch
	}
	switch lit.Kind {
	case rdf.LiteralKindPlain:
		return rdf.NewPlainLiteral(""), nil
	case rdf.LiteralKindLangString:
		return rdf.NewPlainLiteral(lit.Language), nil
	default:
		return nil, rdf.ErrTypeMismatch
	}
}

func callLangMatches(ctx *Context, args []*Expr) (rdf.Term, error) {
	if err := arity(args, 2); err != nil {
		return nil, err
	}
	tagT, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	rangeT, err := Evaluate(ctx, args[1])
	if err != nil {
		return nil, err
	}
	tag, err := coerceString(tagT)
	if err != nil {
		return nil, err
	}
	rng, err := coerceString(rangeT)
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(rdf.LangMatches(tag, rng)), nil
}

// callDatatype: plain literal → xsd:string; language-tagged → error
// (per SPARQL); typed literal → its datatype IRI (spec §4.2).
func callDatatype(ctx *Context, args []*Expr) (rdf.Term, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	lit, ok := t.(*rdf.Literal)
	if !ok {
		return nil, rdf.ErrTypeMismatch
	}
	if lit.Kind == rdf.LiteralKindLangString {
		return nil, rdf.ErrTypeMismatch
	}
	return lit.EffectiveDatatype(), nil
}

func callSameTerm(ctx *Context, args []*Expr) (rdf.Term, error) {
	if err := arity(args, 2); err != nil {
		return nil, err
	}
	a, b, err := evalBoth(ctx, args[0], args[1])
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(rdf.SameTerm(a, b)), nil
}

func callIsIRI(ctx *Context, args []*Expr) (rdf.Term, error) {
	return callTypePredicate(ctx, args, func(t rdf.Term) bool { _, ok := t.(*rdf.IRI); return ok })
}

func callIsBlank(ctx *Context, args []*Expr) (rdf.Term, error) {
	return callTypePredicate(ctx, args, func(t rdf.Term) bool { _, ok := t.(*rdf.Blank); return ok })
}

func callIsLiteral(ctx *Context, args []*Expr) (rdf.Term, error) {
	return callTypePredicate(ctx, args, func(t rdf.Term) bool { _, ok := t.(*rdf.Literal); return ok })
}

func callIsNumeric(ctx *Context, args []*Expr) (rdf.Term, error) {
	return callTypePredicate(ctx, args, func(t rdf.Term) bool {
		lit, ok := t.(*rdf.Literal)
		return ok && lit.IsNumeric()
	})
}

func callTypePredicate(ctx *Context, args []*Expr, pred func(rdf.Term) bool) (rdf.Term, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrUnboundInContext
	}
	return rdf.NewBooleanLiteral(pred(t)), nil
}

// callIf evaluates exactly one branch (spec §4.2).
func callIf(ctx *Context, args []*Expr) (rdf.Term, error) {
	if err := arity(args, 3); err != nil {
		return nil, err
	}
	cond, err := evalBool(ctx, args[0])
	if err != nil {
		return nil, err
	}
	if cond {
		return Evaluate(ctx, args[1])
	}
	return Evaluate(ctx, args[2])
}

// callCoalesce returns the first argument that evaluates without error
// to a bound term. Erroring arguments and arguments that evaluate to
// unbound (nil, nil), such as a bare unbound variable, are skipped; when
// no argument qualifies the result is ErrUnboundInContext (spec §8
// example 6).
func callCoalesce(ctx *Context, args []*Expr) (rdf.Term, error) {
	for _, a := range args {
		t, err := Evaluate(ctx, a)
		if err == nil && t != nil {
			return t, nil
		}
	}
	return nil, ErrUnboundInContext
}

func callIn(ctx *Context, args []*Expr, negate bool) (rdf.Term, error) {
	if len(args) < 1 {
		return nil, ErrWrongArity
	}
	lhs, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	if lhs == nil {
		return nil, ErrUnboundInContext
	}
	found := false
	sawError := false
	for _, a := range args[1:] {
		rhs, err := Evaluate(ctx, a)
		if err != nil {
			sawError = true
			continue
		}
		if rhs == nil {
			continue
		}
		eq, err := rdf.ValueEquals(lhs, rhs, true)
		if err == nil && eq {
			found = true
			break
		}
	}
	if !found && sawError {
		return nil, ErrUnboundInContext
	}
	if negate {
		found = !found
	}
	return rdf.NewBooleanLiteral(found), nil
}

// callConcat: if every argument shares the same datatype URI the result
// carries it, otherwise a plain string (spec §4.2).
func callConcat(ctx *Context, args []*Expr) (rdf.Term, error) {
	var b strings.Builder
	var commonType *rdf.IRI
	first := true
	for _, a := range args {
		t, err := Evaluate(ctx, a)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, ErrUnboundInContext
		}
		s, err := coerceString(t)
		if err != nil {
			return nil, err
		}
		b.WriteString(s)
		if lit, ok := t.(*rdf.Literal); ok {
			dt := lit.EffectiveDatatype()
			if first {
				commonType = dt
				first = false
			} else if commonType == nil || dt == nil || commonType.Value != dt.Value {
				commonType = nil
			}
		} else {
			commonType = nil
		}
	}
	if commonType != nil && commonType.Value != rdf.XSDString.Value {
		return rdf.NewTypedLiteral(b.String(), commonType), nil
	}
	return rdf.NewPlainLiteral(b.String()), nil
}

func callStrDt(ctx *Context, args []*Expr) (rdf.Term, error) {
	if err := arity(args, 2); err != nil {
		return nil, err
	}
	valT, dtT, err := evalBoth(ctx, args[0], args[1])
	if err != nil {
		return nil, err
	}
	s, err := coerceString(valT)
	if err != nil {
		return nil, err
	}
	dt, ok := dtT.(*rdf.IRI)
	if !ok {
		return nil, rdf.ErrTypeMismatch
	}
	if lit, err := rdf.ParseNumeric(s, dt); err == nil {
		return lit, nil
	}
	return rdf.NewTypedLiteral(s, dt), nil
}

func callStrLang(ctx *Context, args []*Expr) (rdf.Term, error) {
	if err := arity(args, 2); err != nil {
		return nil, err
	}
	valT, langT, err := evalBoth(ctx, args[0], args[1])
	if err != nil {
		return nil, err
	}
	s, err := coerceString(valT)
	if err != nil {
		return nil, err
	}
	lang, err := coerceString(langT)
	if err != nil {
		return nil, err
	}
	return rdf.NewLangLiteral(s, lang), nil
}

// callBnode: no argument → fresh blank scoped to the context;
// BNODE(s) → deterministic label derived from s (spec §4.2, §9).
func callBnode(ctx *Context, args []*Expr) (rdf.Term, error) {
	if len(args) == 0 {
		return ctx.freshBlank(), nil
	}
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	s, err := coerceString(t)
	if err != nil {
		return nil, err
	}
	return rdf.NewBlank(rdf.DeterministicBlankLabel(s)), nil
}

func callURI(ctx *Context, args []*Expr) (rdf.Term, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	s, err := coerceString(t)
	if err != nil {
		return nil, err
	}
	return rdf.NewIRI(s), nil
}

func callDatePart(ctx *Context, args []*Expr, extract func(*rdf.Literal) int64) (rdf.Term, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	lit, ok := t.(*rdf.Literal)
	if !ok || (lit.Kind != rdf.LiteralKindDateTime && lit.Kind != rdf.LiteralKindDate) {
		return nil, rdf.ErrTypeMismatch
	}
	return rdf.NewIntegerLiteral(extract(lit)), nil
}

func callTimezone(ctx *Context, args []*Expr) (rdf.Term, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	lit, ok := t.(*rdf.Literal)
	if !ok || lit.Kind != rdf.LiteralKindDateTime {
		return nil, rdf.ErrTypeMismatch
	}
	_, offset := lit.TimeValue.Zone()
	hours := offset / 3600
	minutes := (offset % 3600) / 60
	if minutes < 0 {
		minutes = -minutes
	}
	sign := "+"
	if offset < 0 {
		sign = "-"
		hours = -hours
	}
	return rdf.NewTypedLiteral(strconvPad(sign, hours, minutes), rdf.NewIRI("http://www.w3.org/2001/XMLSchema#dayTimeDuration")), nil
}

func strconvPad(sign string, h, m int) string {
	return sign + "PT" + strconv.Itoa(h) + "H" + strconv.Itoa(m) + "M"
}

func callToUnixtime(ctx *Context, args []*Expr) (rdf.Term, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	lit, ok := t.(*rdf.Literal)
	if !ok || lit.Kind != rdf.LiteralKindDateTime {
		return nil, rdf.ErrTypeMismatch
	}
	return rdf.NewIntegerLiteral(lit.TimeValue.Unix()), nil
}

func callFromUnixtime(ctx *Context, args []*Expr) (rdf.Term, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	lit, ok := t.(*rdf.Literal)
	if !ok || lit.Kind != rdf.LiteralKindInteger {
		return nil, rdf.ErrTypeMismatch
	}
	return rdf.NewDateTimeLiteral(unixToTime(lit.IntValue)), nil
}

func callStrLen(ctx *Context, args []*Expr) (rdf.Term, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	s, err := coerceString(t)
	if err != nil {
		return nil, err
	}
	return rdf.NewIntegerLiteral(int64(len([]rune(s)))), nil
}

func callSubstr(ctx *Context, args []*Expr) (rdf.Term, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, ErrWrongArity
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	s, err := coerceString(t)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	startT, err := Evaluate(ctx, args[1])
	if err != nil {
		return nil, err
	}
	start, err := numericAsInt(startT)
	if err != nil {
		return nil, err
	}
	startIdx := int(start) - 1
	if startIdx < 0 {
		startIdx = 0
	}
	if startIdx >= len(runes) {
		return rdf.NewPlainLiteral(""), nil
	}
	if len(args) == 3 {
		lenT, err := Evaluate(ctx, args[2])
		if err != nil {
			return nil, err
		}
		length, err := numericAsInt(lenT)
		if err != nil {
			return nil, err
		}
		end := startIdx + int(length)
		if end > len(runes) {
			end = len(runes)
		}
		return rdf.NewPlainLiteral(string(runes[startIdx:end])), nil
	}
	return rdf.NewPlainLiteral(string(runes[startIdx:])), nil
}

func numericAsInt(t rdf.Term) (int64, error) {
	lit, ok := t.(*rdf.Literal)
	if !ok || !lit.IsNumeric() {
		return 0, rdf.ErrTypeMismatch
	}
	switch lit.Kind {
	case rdf.LiteralKindInteger:
		return lit.IntValue, nil
	default:
		return int64(numericToFloat(lit)), nil
	}
}

func callCase(ctx *Context, args []*Expr, transform func(string) string) (rdf.Term, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	s, err := coerceString(t)
	if err != nil {
		return nil, err
	}
	return rdf.NewPlainLiteral(transform(s)), nil
}

func callStrPred(ctx *Context, args []*Expr, pred func(s, substr string) bool) (rdf.Term, error) {
	if err := arity(args, 2); err != nil {
		return nil, err
	}
	a, b, err := evalBoth(ctx, args[0], args[1])
	if err != nil {
		return nil, err
	}
	s1, err := coerceString(a)
	if err != nil {
		return nil, err
	}
	s2, err := coerceString(b)
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(pred(s1, s2)), nil
}

// callRegex compiles pattern against flags (spec §4.2: "the flag `i`
// enables case-insensitive; pattern compile errors surface as expression
// errors").
func callRegex(ctx *Context, args []*Expr) (rdf.Term, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, ErrWrongArity
	}
	textT, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	text, err := coerceString(textT)
	if err != nil {
		return nil, err
	}
	patT, err := Evaluate(ctx, args[1])
	if err != nil {
		return nil, err
	}
	pattern, err := coerceString(patT)
	if err != nil {
		return nil, err
	}
	var flags string
	if len(args) == 3 {
		flagsT, err := Evaluate(ctx, args[2])
		if err != nil {
			return nil, err
		}
		flags, err = coerceString(flagsT)
		if err != nil {
			return nil, err
		}
	}
	matched, err := regexMatch(text, pattern, flags)
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(matched), nil
}

func regexMatch(text, pattern, flags string) (bool, error) {
	var quote bool
	var prefix string
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's', 'x':
			prefix += string(f)
		case 'q':
			quote = true
		default:
			return false, ErrUnsupportedRegexFlag
		}
	}
	if quote {
		pattern = regexp.QuoteMeta(pattern)
	}
	if prefix != "" {
		pattern = "(?" + prefix + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(text), nil
}

func callNumericUnary(ctx *Context, args []*Expr, f func(*rdf.Literal) (rdf.Term, error)) (rdf.Term, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	lit, ok := t.(*rdf.Literal)
	if !ok || !lit.IsNumeric() {
		return nil, rdf.ErrTypeMismatch
	}
	return f(lit)
}

func numericToFloat(l *rdf.Literal) float64 {
	switch l.Kind {
	case rdf.LiteralKindInteger:
		return float64(l.IntValue)
	case rdf.LiteralKindDecimal:
		f, _ := l.DecValue.Float64()
		return f
	case rdf.LiteralKindFloat:
		return float64(l.FloatVal)
	default:
		return l.DoubleVal
	}
}

func absNumeric(l *rdf.Literal) (rdf.Term, error) {
	switch l.Kind {
	case rdf.LiteralKindInteger:
		v := l.IntValue
		if v < 0 {
			v = -v
		}
		return rdf.NewIntegerLiteral(v), nil
	default:
		f := numericToFloat(l)
		if f < 0 {
			f = -f
		}
		return rebuildNumeric(l, f)
	}
}

func ceilNumeric(l *rdf.Literal) (rdf.Term, error) {
	if l.Kind == rdf.LiteralKindInteger {
		return l, nil
	}
	return rebuildNumeric(l, ceilFloat(numericToFloat(l)))
}

func floorNumeric(l *rdf.Literal) (rdf.Term, error) {
	if l.Kind == rdf.LiteralKindInteger {
		return l, nil
	}
	return rebuildNumeric(l, floorFloat(numericToFloat(l)))
}

func roundNumeric(l *rdf.Literal) (rdf.Term, error) {
	if l.Kind == rdf.LiteralKindInteger {
		return l, nil
	}
	return rebuildNumeric(l, roundFloat(numericToFloat(l)))
}

func rebuildNumeric(l *rdf.Literal, f float64) (rdf.Term, error) {
	switch l.Kind {
	case rdf.LiteralKindFloat:
		return rdf.NewFloatLiteral(float32(f)), nil
	case rdf.LiteralKindDouble:
		return rdf.NewDoubleLiteral(f), nil
	default:
		return rdf.CastNumeric(rdf.NewDoubleLiteral(f), rdf.XSDDecimal)
	}
}

func ceilFloat(f float64) float64 {
	i := int64(f)
	if f > float64(i) {
		return float64(i + 1)
	}
	return float64(i)
}

func floorFloat(f float64) float64 {
	i := int64(f)
	if f < float64(i) {
		return float64(i - 1)
	}
	return float64(i)
}

func roundFloat(f float64) float64 {
	if f >= 0 {
		return floorFloat(f + 0.5)
	}
	return ceilFloat(f - 0.5)
}

// callCast implements CAST(x AS xsd:Type): numeric kinds go through
// rdf.CastNumeric, xsd:string/xsd:boolean get direct lexical handling.
func callCast(ctx *Context, args []*Expr, datatypeIRI string) (rdf.Term, error) {
	if err := arity(args, 1); err != nil {
		return nil, err
	}
	t, err := Evaluate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrUnboundInContext
	}
	switch datatypeIRI {
	case rdf.XSDInteger.Value, rdf.XSDDecimal.Value, rdf.XSDFloat.Value, rdf.XSDDouble.Value:
		return rdf.CastNumeric(t, rdf.NewIRI(datatypeIRI))
	case rdf.XSDBoolean.Value:
		b, err := rdf.EffectiveBoolean(t)
		if err != nil {
			s, serr := coerceString(t)
			if serr != nil {
				return nil, err
			}
			parsed, perr := strconv.ParseBool(s)
			if perr != nil {
				return nil, rdf.ErrMalformedLexeme
			}
			return rdf.NewBooleanLiteral(parsed), nil
		}
		return rdf.NewBooleanLiteral(b), nil
	case rdf.XSDString.Value:
		s, err := coerceString(t)
		if err != nil {
			return nil, err
		}
		return rdf.NewPlainLiteral(s), nil
	default:
		s, err := coerceString(t)
		if err != nil {
			return nil, err
		}
		return rdf.NewTypedLiteral(s, rdf.NewIRI(datatypeIRI)), nil
	}
}

func unixToTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
