package openai

import (
	"context"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
)

// EmbeddingCache stores text→vector pairs. Implementations must treat the
// cache as best-effort: a miss or a storage failure never fails an Embed.
type EmbeddingCache interface {
	Get(ctx context.Context, texts []string) map[string][]float32
	Set(ctx context.Context, vectors map[string][]float32)
}

type cachedClient struct {
	inner Client
	cache EmbeddingCache
	log   *logger.Logger
}

// NewCachedClient wraps an embedding client with a cache. Embeddings are
// deterministic per model, so cached vectors stay valid until evicted.
func NewCachedClient(inner Client, cache EmbeddingCache, log *logger.Logger) Client {
	return &cachedClient{
		inner: inner,
		cache: cache,
		log:   log.With("client", "CachedEmbeddingClient"),
	}
}

func (cc *cachedClient) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}

	hits := cc.cache.Get(ctx, inputs)

	var misses []string
	seen := make(map[string]struct{}, len(inputs))
	for _, text := range inputs {
		if _, ok := hits[text]; ok {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		misses = append(misses, text)
	}

	if len(misses) > 0 {
		vecs, err := cc.inner.Embed(ctx, misses)
		if err != nil {
			return nil, err
		}
		fresh := make(map[string][]float32, len(misses))
		for i, text := range misses {
			hits[text] = vecs[i]
			fresh[text] = vecs[i]
		}
		cc.cache.Set(ctx, fresh)
	}

	cc.log.Debug("Embedding cache lookup", "inputs", len(inputs), "misses", len(misses))

	out := make([][]float32, len(inputs))
	for i, text := range inputs {
		out[i] = hits[text]
	}
	return out, nil
}
