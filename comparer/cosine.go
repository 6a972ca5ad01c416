package comparer

import (
	"github.com/swdee/go-facepipe/result"
	"gonum.org/v1/gonum/floats"
)

// Comparator decides whether two faces belong to the same person
type Comparator interface {
	IsSame(a, b result.Face) bool
	Similarity(a, b result.Face) float64
}

// Cosine compares faces by the cosine similarity of their embeddings
type Cosine struct {
	// Threshold is the minimum similarity for two faces to be the same
	Threshold float64
}

// DefaultCosine returns a cosine comparator with the threshold used for
// live matching
func DefaultCosine() Cosine {
	return Cosine{Threshold: 0.6}
}

// Similarity returns the cosine similarity of the two embeddings in the
// range [-1, 1].  Faces without comparable embeddings score 0.
func (c Cosine) Similarity(a, b result.Face) float64 {

	if len(a.Embedding) == 0 || len(a.Embedding) != len(b.Embedding) {
		return 0
	}

	na := floats.Norm(a.Embedding, 2)
	nb := floats.Norm(b.Embedding, 2)

	if na == 0 || nb == 0 {
		return 0
	}

	return floats.Dot(a.Embedding, b.Embedding) / (na * nb)
}

// IsSame reports whether the similarity reaches the threshold
func (c Cosine) IsSame(a, b result.Face) bool {

	if len(a.Embedding) == 0 || len(b.Embedding) == 0 {
		return false
	}

	return c.Similarity(a, b) >= c.Threshold
}
