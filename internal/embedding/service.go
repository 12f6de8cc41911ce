package embedding

import (
	"context"
	"log/slog"
)

// LearnedEmbedder is the optional model-backed embedding seam.
type LearnedEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Service produces a vector for any input. When the learned backend
// is absent, fails, or returns a vector of the wrong length, the hash
// fallback answers instead, so Embed itself never fails. Mixing
// backend and fallback vectors in one store would make scores
// meaningless, which is why a wrong-length backend vector is treated
// the same as a backend error.
type Service struct {
	learned  LearnedEmbedder
	fallback *HashEmbedder
}

func NewService(learned LearnedEmbedder, dim int) *Service {
	return &Service{learned: learned, fallback: NewHashEmbedder(dim)}
}

func (s *Service) Dimension() int {
	return s.fallback.Dimension()
}

func (s *Service) Embed(ctx context.Context, text string) []float32 {
	if s.learned != nil {
		vec, err := s.learned.Embed(ctx, text)
		if err == nil && len(vec) == s.fallback.Dimension() {
			return vec
		}
		if err != nil {
			slog.WarnContext(ctx, "learned embedding failed, using hash fallback", "error", err)
		} else {
			slog.WarnContext(ctx, "learned embedding has unexpected length, using hash fallback",
				"got", len(vec), "want", s.fallback.Dimension())
		}
	}
	return s.fallback.Embed(text)
}
