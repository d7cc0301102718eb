package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingEmbedder struct {
	calls int
	err   error
}

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(text)), 1}, nil
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, string) ([]float32, error) {
	return nil, errors.New("redis down")
}

func (brokenCache) Set(context.Context, string, string, []float32) error {
	return errors.New("redis down")
}

func TestCachedEmbedder(t *testing.T) {
	next := &countingEmbedder{}
	embedder := NewCachedEmbedder(next, DefaultEmbedModel, NewMemoryEmbeddingCache(16, time.Hour), zap.NewNop())
	ctx := context.Background()

	first, err := embedder.Embed(ctx, "python")
	require.NoError(t, err)
	second, err := embedder.Embed(ctx, "python")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)

	_, err = embedder.Embed(ctx, "docker")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedEmbedder_CacheFailureFallsThrough(t *testing.T) {
	next := &countingEmbedder{}
	embedder := NewCachedEmbedder(next, DefaultEmbedModel, brokenCache{}, zap.NewNop())

	v, err := embedder.Embed(context.Background(), "sql")
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 1}, v)

	failing := NewCachedEmbedder(&countingEmbedder{err: errors.New("quota")}, DefaultEmbedModel, NewMemoryEmbeddingCache(16, time.Hour), zap.NewNop())
	_, err = failing.Embed(context.Background(), "sql")
	assert.Error(t, err)
}

func TestMemoryEmbeddingCache_Miss(t *testing.T) {
	cache := NewMemoryEmbeddingCache(16, time.Hour)

	_, err := cache.Get(context.Background(), "m", "text")
	assert.ErrorIs(t, err, ErrEmbeddingNotCached)

	require.NoError(t, cache.Set(context.Background(), "m", "text", []float32{1}))
	_, err = cache.Get(context.Background(), "other-model", "text")
	assert.ErrorIs(t, err, ErrEmbeddingNotCached)
}

func TestMemoryEmbeddingCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewMemoryEmbeddingCache(2, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "m", "python", []float32{1}))
	require.NoError(t, cache.Set(ctx, "m", "docker", []float32{2}))
	require.NoError(t, cache.Set(ctx, "m", "aws", []float32{3}))

	_, err := cache.Get(ctx, "m", "python")
	assert.ErrorIs(t, err, ErrEmbeddingNotCached)

	v, err := cache.Get(ctx, "m", "docker")
	require.NoError(t, err)
	assert.Equal(t, []float32{2}, v)

	v, err = cache.Get(ctx, "m", "aws")
	require.NoError(t, err)
	assert.Equal(t, []float32{3}, v)
}

func TestCachedEmbedder_BoundedCacheReembedsEvicted(t *testing.T) {
	next := &countingEmbedder{}
	embedder := NewCachedEmbedder(next, DefaultEmbedModel, NewMemoryEmbeddingCache(1, time.Hour), zap.NewNop())
	ctx := context.Background()

	for _, text := range []string{"python", "docker", "python"} {
		_, err := embedder.Embed(ctx, text)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, next.calls)
}

func TestMeanPool(t *testing.T) {
	v, err := meanPool([][]float32{{1, 3}, {3, 5}})
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 4}, v)

	_, err = meanPool([][]float32{{1, 3}, {3}})
	assert.Error(t, err)
}

func TestPointID(t *testing.T) {
	assert.Equal(t, PointID("a.pdf"), PointID("a.pdf"))
	assert.NotEqual(t, PointID("a.pdf"), PointID("b.pdf"))
}
