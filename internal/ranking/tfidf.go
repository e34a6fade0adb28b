package ranking

import (
	"math"
	"sort"
)

// Vector is a sparse row of term weights keyed by vocabulary index.
type Vector map[int]float64

// Matrix holds the L2-normalised TF-IDF rows of one corpus.
type Matrix struct {
	Terms []string
	Rows  []Vector
}

// Vectorizer builds TF-IDF vectors with a vocabulary learned from the corpus it
// is given. A Vectorizer keeps no state between calls to FitTransform.
type Vectorizer struct {
	analyzer *analyzer
}

func NewVectorizer(opts ...Option) *Vectorizer {
	return &Vectorizer{analyzer: newAnalyzer(opts...)}
}

// FitTransform learns the vocabulary and idf weights of docs and returns one
// row per document, in input order.
//
// Weights use raw term counts and smoothed idf, ln((1+n)/(1+df)) + 1, and each
// row is scaled to unit length. Rows without terms stay empty.
func (v *Vectorizer) FitTransform(docs []string) (*Matrix, error) {
	counts := make([]map[string]int, len(docs))
	docFreq := make(map[string]int)

	for i, doc := range docs {
		tf := make(map[string]int)
		for _, term := range v.analyzer.terms(doc) {
			tf[term]++
		}
		for term := range tf {
			docFreq[term]++
		}
		counts[i] = tf
	}

	if len(docFreq) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		index[term] = i
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	rows := make([]Vector, len(docs))
	for i, tf := range counts {
		row := make(Vector, len(tf))
		var sumSquares float64
		for term, count := range tf {
			col := index[term]
			w := float64(count) * idf[col]
			row[col] = w
			sumSquares += w * w
		}
		if sumSquares > 0 {
			norm := math.Sqrt(sumSquares)
			for col := range row {
				row[col] /= norm
			}
		}
		rows[i] = row
	}

	return &Matrix{Terms: terms, Rows: rows}, nil
}

// Cosine returns the cosine similarity of a and b. Zero vectors have
// similarity 0 with everything.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot, normA, normB float64
	for col, wa := range a {
		normA += wa * wa
		if wb, ok := b[col]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b {
		normB += wb * wb
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
