package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
)

// Embedder turns text into a dense vector. Implementations must be safe for
// concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type SimilarityEngine interface {
	Similarity(ctx context.Context, a, b string) float64
}

type similarityEngine struct {
	embedder Embedder
	logger   *zap.Logger
}

// NewSimilarityEngine wraps a shared embedder. A nil embedder yields an
// engine that always scores 0.
func NewSimilarityEngine(embedder Embedder, logger *zap.Logger) SimilarityEngine {
	return &similarityEngine{
		embedder: embedder,
		logger:   logger,
	}
}

// Similarity implements SimilarityEngine. The result is the cosine of the two
// embeddings as a percentage in [0,100], rounded to 2 decimals. Empty input
// and embedding failures score 0.
func (s *similarityEngine) Similarity(ctx context.Context, a, b string) float64 {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}
	if s.embedder == nil {
		return 0
	}

	va, err := s.embedder.Embed(ctx, a)
	if err != nil {
		s.logger.Warn("similarity degraded to zero", zap.Error(fmt.Errorf("%w: %v", ErrEmbedding, err)))
		return 0
	}

	vb, err := s.embedder.Embed(ctx, b)
	if err != nil {
		s.logger.Warn("similarity degraded to zero", zap.Error(fmt.Errorf("%w: %v", ErrEmbedding, err)))
		return 0
	}

	cos := Cosine(va, vb)
	if cos < 0 {
		cos = 0
	}

	return round2(cos * 100)
}

// Cosine returns the cosine similarity of two vectors, or 0 when they differ
// in length or either has zero magnitude.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}

	if na == 0 || nb == 0 {
		return 0
	}

	cos := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(-1, math.Min(1, cos))
}
