package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/ecache/memory/lru"
	eredis "github.com/ecodeclub/ecache/redis"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scanner/internal/scoring"
)

var ErrEmbeddingNotCached = errors.New("embedding not cached")

// EmbeddingCache stores embeddings keyed by model and text.
type EmbeddingCache interface {
	Get(ctx context.Context, model, text string) ([]float32, error)
	Set(ctx context.Context, model, text string, vector []float32) error
}

type embeddingCache struct {
	ec  ecache.Cache
	ttl time.Duration
}

func NewRedisEmbeddingCache(addr string, ttl time.Duration) EmbeddingCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return NewEmbeddingCache(eredis.NewCache(client), ttl)
}

// NewMemoryEmbeddingCache keeps at most capacity embeddings in process,
// evicting the least recently used one first.
func NewMemoryEmbeddingCache(capacity int, ttl time.Duration) EmbeddingCache {
	return NewEmbeddingCache(lru.NewCache(capacity), ttl)
}

func NewEmbeddingCache(ec ecache.Cache, ttl time.Duration) EmbeddingCache {
	return &embeddingCache{
		ec: &ecache.NamespaceCache{
			C:         ec,
			Namespace: "resume-scanner:embedding:",
		},
		ttl: ttl,
	}
}

func (c *embeddingCache) Get(ctx context.Context, model, text string) ([]float32, error) {
	val := c.ec.Get(ctx, embeddingKey(model, text))
	if val.KeyNotFound() {
		return nil, ErrEmbeddingNotCached
	}
	if val.Err != nil {
		return nil, errors.Wrap(val.Err, "failed to read embedding cache")
	}

	raw, ok := val.Val.(string)
	if !ok {
		return nil, errors.Errorf("unexpected cached value type %T", val.Val)
	}

	var vector []float32
	if err := json.Unmarshal([]byte(raw), &vector); err != nil {
		return nil, errors.Wrap(err, "failed to decode cached embedding")
	}
	return vector, nil
}

func (c *embeddingCache) Set(ctx context.Context, model, text string, vector []float32) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return errors.Wrap(err, "failed to encode embedding")
	}
	return errors.Wrap(c.ec.Set(ctx, embeddingKey(model, text), string(data), c.ttl), "failed to write embedding cache")
}

func embeddingKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return model + ":" + hex.EncodeToString(sum[:])
}

type cachedEmbedder struct {
	next   scoring.Embedder
	model  string
	cache  EmbeddingCache
	logger *zap.Logger
}

// NewCachedEmbedder serves repeated texts from cache. Cache failures fall
// through to the wrapped embedder.
func NewCachedEmbedder(next scoring.Embedder, model string, cache EmbeddingCache, logger *zap.Logger) scoring.Embedder {
	return &cachedEmbedder{
		next:   next,
		model:  model,
		cache:  cache,
		logger: logger,
	}
}

func (c *cachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vector, err := c.cache.Get(ctx, c.model, text)
	if err == nil {
		return vector, nil
	}
	if !errors.Is(err, ErrEmbeddingNotCached) {
		c.logger.Warn("embedding cache read failed", zap.Error(err))
	}

	vector, err = c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, c.model, text, vector); err != nil {
		c.logger.Warn("embedding cache write failed", zap.Error(err))
	}
	return vector, nil
}
