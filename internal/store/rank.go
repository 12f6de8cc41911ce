package store

import (
	"math"
	"sort"
)

// Candidate is a stored chunk loaded for brute-force scoring, in
// insertion order.
type Candidate struct {
	SourceID  string
	Text      string
	Embedding []float32
}

// Cosine returns dot(a,b) / (|a|*|b|). A zero-norm operand yields 0
// rather than a division fault, so all-zero embeddings (for instance
// from empty text) compare as unrelated to everything.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}

	norm := math.Sqrt(na) * math.Sqrt(nb)
	if norm == 0 {
		return 0
	}
	return dot / norm
}

// TopK scores every candidate against the query and returns the k
// best hits, descending by score. The sort is stable, so equal scores
// keep insertion order.
func TopK(query []float32, candidates []Candidate, k int) []SimilarityHit {
	if len(candidates) == 0 || k <= 0 {
		return []SimilarityHit{}
	}

	hits := make([]SimilarityHit, 0, len(candidates))
	for _, c := range candidates {
		hits = append(hits, SimilarityHit{
			SourceID: c.SourceID,
			Text:     c.Text,
			Score:    Cosine(query, c.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k]
}
