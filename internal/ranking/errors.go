package ranking

import (
	"errors"
	"fmt"
)

// VectorizationError is returned when a corpus cannot be turned into TF-IDF vectors.
type VectorizationError struct {
	Reason string
}

func (e *VectorizationError) Error() string {
	return fmt.Sprintf("vectorization failed: %s", e.Reason)
}

// ErrEmptyVocabulary means no document in the corpus produced a single term.
var ErrEmptyVocabulary = &VectorizationError{Reason: "empty vocabulary; documents contain no terms"}

var ErrLengthMismatch = errors.New("names and scores have different lengths")
