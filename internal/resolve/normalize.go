package resolve

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

var (
	spaceRe   = regexp.MustCompile(`\s+`)
	punctRe   = regexp.MustCompile(`[^\w\s\-]`)
	tokenCut  = regexp.MustCompile(`[\s\-]+`)
	digitsRe  = regexp.MustCompile(`\d+`)
	trailNum  = regexp.MustCompile(`[\d\s\-]+$`)
)

// normalize lowercases, collapses whitespace and strips punctuation except
// hyphens, matching the canonical-name index normalization.
func normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = punctRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// tokenize splits a normalized string on spaces and hyphens and stems each
// token. Stemming keeps plural/singular ingredient forms in the same BM25
// term ("peptides" vs "peptide").
func tokenize(text string) []string {
	parts := tokenCut.Split(normalize(text), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		stemmed, err := snowball.Stem(p, "english", false)
		if err != nil || stemmed == "" {
			tokens = append(tokens, p)
			continue
		}
		tokens = append(tokens, stemmed)
	}
	return tokens
}

// numberVariantMismatch reports whether query and match are the same base
// name with different trailing numbers. "vitamin d" must not resolve to
// "vitamin d3", and "omega 3" must not resolve to "omega 6".
func numberVariantMismatch(query, match string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	m := strings.ToLower(strings.TrimSpace(match))

	qBase := strings.TrimSpace(trailNum.ReplaceAllString(q, ""))
	mBase := strings.TrimSpace(trailNum.ReplaceAllString(m, ""))
	if qBase == "" || qBase != mBase {
		return false
	}

	qNums := digitsRe.FindAllString(q, -1)
	mNums := digitsRe.FindAllString(m, -1)
	if len(qNums) != len(mNums) {
		return true
	}
	for i := range qNums {
		if qNums[i] != mNums[i] {
			return true
		}
	}
	return false
}
