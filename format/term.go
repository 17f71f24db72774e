package format

import "sparqlcore/pkg/rdf"

// literalParts decomposes a literal into the (value, datatype-IRI,
// language) triple the SPARQL XML/JSON/CSV/TSV Results formats each
// need, with datatype left empty for the kinds Results formats treat
// as implicit-string (spec §6.4 bit-exactness).
func literalParts(lit *rdf.Literal) (value, datatype, lang string) {
	value = lit.Lexical
	switch lit.Kind {
	case rdf.LiteralKindLangString:
		lang = lit.Language
	case rdf.LiteralKindPlain:
		// no datatype, no language
	case rdf.LiteralKindTyped:
		if lit.Datatype != nil {
			datatype = lit.Datatype.Value
		}
	case rdf.LiteralKindInteger:
		datatype = rdf.XSDInteger.Value
	case rdf.LiteralKindDecimal:
		datatype = rdf.XSDDecimal.Value
	case rdf.LiteralKindFloat:
		datatype = rdf.XSDFloat.Value
	case rdf.LiteralKindDouble:
		datatype = rdf.XSDDouble.Value
	case rdf.LiteralKindBoolean:
		datatype = rdf.XSDBoolean.Value
	case rdf.LiteralKindDateTime:
		datatype = rdf.XSDDateTime.Value
	case rdf.LiteralKindDate:
		datatype = rdf.XSDDate.Value
	}
	return value, datatype, lang
}
