package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studylane/studylane-backend/internal/logger"
)

const embedCacheTTL = 24 * time.Hour

// cachedEmbedder fronts an Embedder with a redis cache keyed by input text.
// Skill queries are a small fixed vocabulary, so the hit rate is high and a
// cold or absent redis only costs the extra embedding call.
type cachedEmbedder struct {
	log   *logger.Logger
	inner Embedder
	rdb   *redis.Client
}

// NewCachedEmbedder wraps inner with a redis cache. A nil client returns
// inner unchanged.
func NewCachedEmbedder(log *logger.Logger, inner Embedder, rdb *redis.Client) Embedder {
	if rdb == nil {
		return inner
	}
	return &cachedEmbedder{
		log:   log.With("service", "CachedEmbedder"),
		inner: inner,
		rdb:   rdb,
	}
}

func embedCacheKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return "embed:" + hex.EncodeToString(sum[:])
}

func (c *cachedEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	var missing []string
	var missingIdx []int

	for i, input := range inputs {
		raw, err := c.rdb.Get(ctx, embedCacheKey(input)).Bytes()
		if err == nil {
			var vec []float32
			if json.Unmarshal(raw, &vec) == nil && len(vec) > 0 {
				out[i] = vec
				continue
			}
		} else if err != redis.Nil {
			c.log.Debug("embedding cache read failed", "error", err)
		}
		missing = append(missing, input)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	fresh, err := c.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, vec := range fresh {
		out[missingIdx[j]] = vec
		raw, err := json.Marshal(vec)
		if err != nil {
			continue
		}
		if err := c.rdb.Set(ctx, embedCacheKey(missing[j]), raw, embedCacheTTL).Err(); err != nil {
			c.log.Debug("embedding cache write failed", "error", err)
		}
	}
	return out, nil
}
