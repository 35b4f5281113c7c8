// Package embedding produces fixed-length sentence vectors and cosine similarities.
package embedding

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"
)

// Dimension is the length of every vector handed out by Service.
const Dimension = 384

// Provider turns texts into vectors, one per input and in input order.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Service wraps a Provider so that callers always receive Dimension-length vectors.
// Provider failures are logged and replaced by zero vectors.
type Service struct {
	provider Provider
	logger   *zap.Logger
}

// NewService wraps provider. A nil provider falls back to the local hashing embedder.
func NewService(provider Provider, logger *zap.Logger) *Service {
	if provider == nil {
		provider = NewLocal()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, logger: logger}
}

// Embed returns one Dimension-length vector per text.
func (s *Service) Embed(ctx context.Context, texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	if len(texts) == 0 {
		return out
	}

	vectors, err := s.provider.Embed(ctx, texts)
	if err != nil {
		s.logger.Warn("embedding provider failed, using zero vectors", zap.Error(err), zap.Int("texts", len(texts)))
		vectors = nil
	} else if len(vectors) != len(texts) {
		s.logger.Warn("embedding provider returned unexpected number of vectors",
			zap.Int("want", len(texts)),
			zap.Int("got", len(vectors)),
		)
	}

	for i := range out {
		var v []float32
		if i < len(vectors) {
			v = vectors[i]
		}
		out[i] = fit(v)
	}
	return out
}

// Similarity is the cosine similarity of the embeddings of a and b, or 0 when either is blank.
func (s *Service) Similarity(ctx context.Context, a, b string) float64 {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}
	vectors := s.Embed(ctx, []string{a, b})
	return Cosine(vectors[0], vectors[1])
}

// Cosine returns the cosine similarity of a and b. Mismatched lengths and zero vectors yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// fit truncates or zero-pads v to Dimension.
func fit(v []float32) []float32 {
	out := make([]float32, Dimension)
	copy(out, v)
	return out
}
