package rdf

import "strings"

// LangMatches implements RFC 4647 basic filtering, as SPARQL's
// LANGMATCHES() requires (spec §4.1): "*" matches any non-empty tag;
// otherwise a case-insensitive prefix match on subtags separated by "-".
func LangMatches(tag, pattern string) bool {
	if pattern == "*" {
		return tag != ""
	}
	tag = strings.ToLower(tag)
	pattern = strings.ToLower(pattern)
	if tag == pattern {
		return true
	}
	return strings.HasPrefix(tag, pattern+"-")
}
