package ranking

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// EnglishStopWords is a compact list of function words that carry no signal
// when comparing resumes with job descriptions.
var EnglishStopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "been": true, "but": true, "by": true, "can": true, "could": true,
	"did": true, "do": true, "does": true, "for": true, "from": true, "had": true,
	"has": true, "have": true, "he": true, "her": true, "his": true, "i": true,
	"in": true, "into": true, "is": true, "it": true, "its": true, "may": true,
	"me": true, "might": true, "must": true, "my": true, "of": true, "on": true,
	"or": true, "our": true, "shall": true, "she": true, "should": true, "such": true,
	"than": true, "that": true, "the": true, "their": true, "them": true, "these": true,
	"they": true, "this": true, "to": true, "us": true, "was": true, "we": true,
	"were": true, "which": true, "who": true, "will": true, "with": true, "would": true,
	"you": true, "your": true,
}

// Option configures the analyzer used by a single ranking call.
type Option func(*analyzer)

// WithStopWords drops the given lowercase terms before weighting.
func WithStopWords(words map[string]bool) Option {
	return func(a *analyzer) {
		a.stopWords = words
	}
}

// WithStemming reduces every term to its English snowball stem.
func WithStemming() Option {
	return func(a *analyzer) {
		a.stem = true
	}
}

type analyzer struct {
	stopWords map[string]bool
	stem      bool
}

func newAnalyzer(opts ...Option) *analyzer {
	a := &analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// terms lowercases the document and splits it into terms.
func (a *analyzer) terms(doc string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(doc), -1)
	if len(a.stopWords) == 0 && !a.stem {
		return tokens
	}

	terms := tokens[:0]
	for _, token := range tokens {
		if a.stopWords[token] {
			continue
		}
		if a.stem {
			token = stemWord(token)
		}
		terms = append(terms, token)
	}
	return terms
}

func stemWord(word string) string {
	stem, err := snowball.Stem(word, "english", true)
	if err != nil || stem == "" {
		return word
	}
	return stem
}
