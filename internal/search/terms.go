package search

import (
	"strings"
)

// LikePatterns turns a free-text query into SQL LIKE patterns, one per term,
// all lower-cased. Terms are space-separated and ANDed by the caller.
// A term wrapped in double quotes matches its content literally as a
// substring, spaces included. Any other term is a glob where * is the
// wildcard; a leading and trailing * are assumed when absent.
func LikePatterns(raw string) []string {
	var patterns []string
	for _, term := range splitTerms(raw) {
		if len(term) >= 2 && strings.HasPrefix(term, `"`) && strings.HasSuffix(term, `"`) {
			literal := term[1 : len(term)-1]
			if literal == "" {
				continue
			}
			patterns = append(patterns, "%"+escapeLike(literal)+"%")
			continue
		}
		if !strings.HasPrefix(term, "*") {
			term = "*" + term
		}
		if !strings.HasSuffix(term, "*") {
			term = term + "*"
		}
		patterns = append(patterns, globToLike(term))
	}
	for i, p := range patterns {
		patterns[i] = strings.ToLower(p)
	}
	return patterns
}

// splitTerms splits on whitespace but keeps double-quoted sections together,
// quotes included, so quoted phrases survive as single terms.
func splitTerms(raw string) []string {
	var terms []string
	var b strings.Builder
	inQuotes := false

	flush := func() {
		if b.Len() > 0 {
			terms = append(terms, b.String())
			b.Reset()
		}
	}

	for _, r := range raw {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			b.WriteRune(r)
		case (r == ' ' || r == '\t' || r == '\n') && !inQuotes:
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return terms
}

// escapeLike escapes the LIKE metacharacters so literal text matches itself.
// Postgres uses backslash as the default escape character.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// globToLike converts a glob term (* wildcard) to a LIKE pattern.
func globToLike(term string) string {
	var b strings.Builder
	for _, r := range term {
		switch r {
		case '*':
			b.WriteByte('%')
		case '%':
			b.WriteString(`\%`)
		case '_':
			b.WriteString(`\_`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
