// Package embedding turns text into fixed-length vectors. A learned
// backend is used when an API key is configured; a deterministic
// hash-based embedder serves as the always-available fallback.
package embedding

import (
	"hash/fnv"
	"strings"
)

// hashWordBudget caps how many words feed the hashed dimensions, so
// very long chunks embed in constant time.
const hashWordBudget = 50

// HashEmbedder derives a vector from word statistics and hashed word
// positions. The same text always yields the same vector, which is
// what makes similarity search meaningful without a trained model.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder requires dim >= 3: two slots hold the length
// heuristics and at least one holds hashed word weight.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim < 3 {
		dim = 3
	}
	return &HashEmbedder{dim: dim}
}

func (e *HashEmbedder) Dimension() int {
	return e.dim
}

// Embed never fails; empty or whitespace-only text maps to the zero
// vector, which cosine similarity treats as unrelated to everything.
func (e *HashEmbedder) Embed(text string) []float32 {
	vec := make([]float32, e.dim)

	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return vec
	}

	wordCount := float32(len(words))
	charCount := float32(len(text))

	vec[0] = min32(wordCount/100, 1)
	vec[1] = min32(charCount/1000, 1)

	limit := len(words)
	if limit > hashWordBudget {
		limit = hashWordBudget
	}
	for _, w := range words[:limit] {
		h := fnv.New32a()
		h.Write([]byte(w))
		idx := 2 + int(h.Sum32())%(e.dim-2)
		vec[idx] += 1 / wordCount
	}

	return vec
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
