package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/utils"
)

// EmbeddingCache is a best-effort Redis cache for embedding vectors, keyed by
// a hash of the input text. Failures degrade to cache misses, never errors.
type EmbeddingCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewEmbeddingCache(log *logger.Logger) (*EmbeddingCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlHours := utils.GetEnvAsInt("EMBED_CACHE_TTL_HOURS", 72, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &EmbeddingCache{
		log: log.With("client", "RedisEmbeddingCache"),
		rdb: rdb,
		ttl: time.Duration(ttlHours) * time.Hour,
	}, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embed:" + hex.EncodeToString(sum[:])
}

func (ec *EmbeddingCache) Get(ctx context.Context, texts []string) map[string][]float32 {
	hits := make(map[string][]float32)
	if len(texts) == 0 {
		return hits
	}

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = cacheKey(text)
	}

	values, err := ec.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		ec.log.Warn("Embedding cache read failed", "error", err)
		return hits
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var vec []float32
		if err := json.Unmarshal([]byte(raw), &vec); err != nil {
			ec.log.Warn("Embedding cache entry malformed, skipping", "key", keys[i], "error", err)
			continue
		}
		hits[texts[i]] = vec
	}
	return hits
}

func (ec *EmbeddingCache) Set(ctx context.Context, vectors map[string][]float32) {
	if len(vectors) == 0 {
		return
	}

	pipe := ec.rdb.Pipeline()
	for text, vec := range vectors {
		raw, err := json.Marshal(vec)
		if err != nil {
			continue
		}
		pipe.Set(ctx, cacheKey(text), raw, ec.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		ec.log.Warn("Embedding cache write failed", "error", err)
	}
}

func (ec *EmbeddingCache) Close() error {
	return ec.rdb.Close()
}
