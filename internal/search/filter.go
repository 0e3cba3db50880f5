package search

import "strings"

// NormalizeTerm lowercases a raw search term and strips surrounding
// whitespace. An empty result disables term filtering.
func NormalizeTerm(raw string) string {
	return strings.TrimSpace(strings.ToLower(raw))
}

// MatchesTerm reports whether a normalized term is a case-insensitive
// substring of the company name, its description or any of its keywords.
// Checks stop at the first hit.
func MatchesTerm(c Company, term string) bool {
	if term == "" {
		return true
	}
	if containsFold(c.CompanyName, term) {
		return true
	}
	if containsFold(c.Description, term) {
		return true
	}
	return keywordsMatch(c.Keywords, term)
}

// FilterByTerm keeps the companies matching term, preserving their order.
func FilterByTerm(companies []Company, term string) []Company {
	if term == "" {
		return companies
	}
	kept := make([]Company, 0, len(companies))
	for _, c := range companies {
		if MatchesTerm(c, term) {
			kept = append(kept, c)
		}
	}
	return kept
}

func containsFold(field *string, term string) bool {
	if field == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*field), term)
}

// keywordsMatch only looks inside list values. Anything else stored in the
// keywords column (object, string, number, null) counts as no match.
func keywordsMatch(keywords any, term string) bool {
	switch kws := keywords.(type) {
	case []string:
		for _, kw := range kws {
			if strings.Contains(strings.ToLower(kw), term) {
				return true
			}
		}
	case []any:
		for _, v := range kws {
			kw, ok := v.(string)
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(kw), term) {
				return true
			}
		}
	}
	return false
}
