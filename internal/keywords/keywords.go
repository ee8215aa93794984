// Package keywords turns free-text forum questions into normalized keyword
// lists used both for indexing new posts and for matching against prior ones.
package keywords

import (
	"strings"
	"unicode"
)

// stopwords are dropped during extraction. The list covers common English
// function words plus question scaffolding seen in forum posts.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "am": {}, "do": {}, "does": {}, "did": {},
	"have": {}, "has": {}, "had": {}, "will": {}, "would": {}, "shall": {},
	"should": {}, "can": {}, "could": {}, "may": {}, "might": {}, "must": {},
	"i": {}, "me": {}, "my": {}, "we": {}, "our": {}, "you": {}, "your": {},
	"he": {}, "she": {}, "it": {}, "its": {}, "they": {}, "them": {}, "their": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "there": {}, "here": {},
	"what": {}, "which": {}, "who": {}, "whom": {}, "when": {}, "where": {},
	"why": {}, "how": {}, "and": {}, "or": {}, "but": {}, "not": {}, "no": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "from": {}, "by": {},
	"for": {}, "with": {}, "about": {}, "into": {}, "over": {}, "under": {},
	"again": {}, "then": {}, "so": {}, "than": {}, "too": {}, "very": {},
	"just": {}, "please": {}, "help": {}, "any": {}, "some": {}, "if": {},
	"as": {}, "also": {}, "get": {}, "got": {}, "much": {}, "many": {},
}

// Extract returns the lowercase content words of text in first-occurrence
// order, with stopwords and duplicates removed. Empty input yields an empty
// slice.
func Extract(text string) []string {
	var out []string
	seen := make(map[string]struct{})

	for _, tok := range strings.FieldsFunc(strings.ToLower(text), isSeparator) {
		if tok == "" {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// ExtractJoined returns Extract(text) as a comma-joined string, the form
// stored on ForumPost.ExtractedKeywords. Extraction is idempotent: feeding
// the joined output back through Extract yields the same sequence.
func ExtractJoined(text string) string {
	return strings.Join(Extract(text), ",")
}

// Split parses a stored comma-joined keyword string back into a slice,
// dropping empty fields.
func Split(joined string) []string {
	if joined == "" {
		return nil
	}
	var out []string
	for _, kw := range strings.Split(joined, ",") {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// isSeparator treats anything that is not a letter or digit as a token
// boundary, so punctuation and the commas of previously joined output are
// both stripped.
func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
