package recommend

import (
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/utils"
)

// Config collects the tuning constants of the ranking engine. It is built
// once at startup and passed to each component constructor; nothing reads
// ambient state after that.
type Config struct {
	// NearInterestThreshold is the minimum cosine similarity between a user
	// interest and the query for the interest to be folded into the query.
	NearInterestThreshold float64
	// BiasExponent is in (0,1). Downward-biased values are raised to it,
	// upward-biased values to its reciprocal, relaxing stated thresholds
	// toward accepting near-misses.
	BiasExponent float64
	// ValueOfSecond monetizes transit time in fare units per second.
	ValueOfSecond float64
	// MaxRetrievalRounds caps the fetch-until-quota retry loop.
	MaxRetrievalRounds int
	// MaxPriceLevel and MaxRating bound the raw place attributes used when
	// building preference vectors.
	MaxPriceLevel int
	MaxRating     float64
	// FanOutLimit bounds concurrent per-candidate fetches.
	FanOutLimit int
	// EmbedBatchSize bounds how many texts go into one embedding request.
	EmbedBatchSize int
}

func DefaultConfig() Config {
	const hourlyWage = 18.0
	return Config{
		NearInterestThreshold: 0.1,
		BiasExponent:          0.7,
		ValueOfSecond:         hourlyWage / 3600,
		MaxRetrievalRounds:    4,
		MaxPriceLevel:         4,
		MaxRating:             5,
		FanOutLimit:           8,
		EmbedBatchSize:        64,
	}
}

func ConfigFromEnv(log *logger.Logger) Config {
	cfg := DefaultConfig()
	cfg.NearInterestThreshold = utils.GetEnvAsFloat("NEAR_INTEREST_THRESHOLD", cfg.NearInterestThreshold, log)
	cfg.BiasExponent = utils.GetEnvAsFloat("PREFERENCE_BIAS_EXPONENT", cfg.BiasExponent, log)
	cfg.ValueOfSecond = utils.GetEnvAsFloat("VALUE_OF_SECOND", cfg.ValueOfSecond, log)
	cfg.MaxRetrievalRounds = utils.GetEnvAsInt("MAX_RETRIEVAL_ROUNDS", cfg.MaxRetrievalRounds, log)
	cfg.FanOutLimit = utils.GetEnvAsInt("FETCH_FANOUT_LIMIT", cfg.FanOutLimit, log)
	cfg.EmbedBatchSize = utils.GetEnvAsInt("EMBED_BATCH_SIZE", cfg.EmbedBatchSize, log)
	return cfg
}
