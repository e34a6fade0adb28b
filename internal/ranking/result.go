package ranking

import (
	"fmt"
	"sort"
)

// ScoredResult is one row of a ranking run.
type ScoredResult struct {
	Name  string `json:"resume"`
	Score int    `json:"score"`
	Rank  int    `json:"rank"`
}

// Order returns the input positions of scores sorted by descending score.
// Equal scores keep their input order.
func Order(scores []int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	return order
}

// Assemble pairs names with scores, sorts them best first and assigns ranks
// 1..N in sorted order.
func Assemble(names []string, scores []int) ([]ScoredResult, error) {
	if len(names) != len(scores) {
		return nil, fmt.Errorf("%w: %d names, %d scores", ErrLengthMismatch, len(names), len(scores))
	}

	results := make([]ScoredResult, len(scores))
	for rank, i := range Order(scores) {
		results[rank] = ScoredResult{
			Name:  names[i],
			Score: scores[i],
			Rank:  rank + 1,
		}
	}

	return results, nil
}
