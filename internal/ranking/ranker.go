package ranking

import "math"

// scoreTolerance absorbs floating point error so that identical documents,
// whose similarity is 1 up to rounding, still score 100.
const scoreTolerance = 1e-9

// Rank scores every candidate against reference on a 0..100 scale. Scores are
// returned in candidate order; sorting is left to the caller.
//
// The vocabulary is built from reference and candidates only, so every call
// is independent of any other.
func Rank(reference string, candidates []string, opts ...Option) ([]int, error) {
	if len(candidates) == 0 {
		return []int{}, nil
	}

	corpus := make([]string, 0, len(candidates)+1)
	corpus = append(corpus, reference)
	corpus = append(corpus, candidates...)

	matrix, err := NewVectorizer(opts...).FitTransform(corpus)
	if err != nil {
		return nil, err
	}

	ref := matrix.Rows[0]
	scores := make([]int, len(candidates))
	for i, row := range matrix.Rows[1:] {
		scores[i] = Score(Cosine(ref, row))
	}

	return scores, nil
}

// Score converts a cosine similarity into an integer percentage, truncating
// rather than rounding: 0.999 becomes 99.
func Score(similarity float64) int {
	if math.IsNaN(similarity) || similarity <= 0 {
		return 0
	}

	score := int(math.Trunc(similarity*100 + scoreTolerance))
	if score > 100 {
		return 100
	}
	return score
}
