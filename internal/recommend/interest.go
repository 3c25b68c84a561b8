package recommend

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
)

// InterestScorer measures the semantic match between the query (folded
// together with the user's aligned interests) and each candidate's
// description.
type InterestScorer struct {
	embed Embedder
	cfg   Config
	log   *logger.Logger
}

func NewInterestScorer(embed Embedder, cfg Config, log *logger.Logger) *InterestScorer {
	return &InterestScorer{
		embed: embed,
		cfg:   cfg,
		log:   log.With("component", "InterestScorer"),
	}
}

// Score returns one normalized score per option, index-aligned. The adjusted
// query embedding is the synchronization point: it must exist before any
// candidate description can be scored.
func (s *InterestScorer) Score(ctx context.Context, query string, interests []string, options []*types.Option) ([]float64, error) {
	scores := make([]float64, len(options))
	if len(options) == 0 {
		return scores, nil
	}

	adjusted, err := s.adjustedQueryEmbedding(ctx, query, interests)
	if err != nil {
		return nil, fmt.Errorf("interest scorer: %w", err)
	}

	descVecs := s.embedDescriptions(ctx, options)
	for i := range options {
		scores[i] = CosineSimilarity(adjusted, descVecs[i])
	}

	NormalizeInPlace(scores)
	return scores, nil
}

// adjustedQueryEmbedding embeds the query together with the subset of user
// interests near enough to it. Filtering keeps unrelated profile interests
// from diluting the query.
func (s *InterestScorer) adjustedQueryEmbedding(ctx context.Context, query string, interests []string) ([]float32, error) {
	inputs := append([]string{query}, interests...)
	vecs, err := s.embed.Embed(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("embed query and interests: %w", err)
	}
	queryVec := vecs[0]

	var aligned []string
	for i, interest := range interests {
		if CosineSimilarity(queryVec, vecs[i+1]) >= s.cfg.NearInterestThreshold {
			aligned = append(aligned, interest)
		}
	}
	s.log.Debug("Aligned interests selected", "interests", len(interests), "aligned", len(aligned))

	if len(aligned) == 0 {
		return queryVec, nil
	}

	adjusted := strings.Join(append([]string{query}, aligned...), ", ")
	adjVecs, err := s.embed.Embed(ctx, []string{adjusted})
	if err != nil {
		return nil, fmt.Errorf("embed adjusted query: %w", err)
	}
	return adjVecs[0], nil
}

// embedDescriptions embeds candidate descriptions in concurrent batches.
// A failed batch leaves nil vectors for its candidates, which score neutrally
// instead of failing the call.
func (s *InterestScorer) embedDescriptions(ctx context.Context, options []*types.Option) [][]float32 {
	descriptions := make([]string, len(options))
	for i, opt := range options {
		descriptions[i] = describePlace(&opt.Place)
	}

	vecs := make([][]float32, len(options))
	batchSize := s.cfg.EmbedBatchSize
	if batchSize <= 0 {
		batchSize = len(descriptions)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FanOutLimit)

	for start := 0; start < len(descriptions); start += batchSize {
		start := start
		end := start + batchSize
		if end > len(descriptions) {
			end = len(descriptions)
		}
		g.Go(func() error {
			batch, err := s.embed.Embed(gctx, descriptions[start:end])
			if err != nil {
				s.log.Warn("Description embedding batch failed, scoring batch neutrally",
					"start", start,
					"size", end-start,
					"error", err,
				)
				return nil
			}
			copy(vecs[start:end], batch)
			return nil
		})
	}
	_ = g.Wait()

	return vecs
}

func describePlace(p *types.Place) string {
	parts := []string{p.DisplayName.Text}
	if p.EditorialSummary != nil && p.EditorialSummary.Text != "" {
		parts = append(parts, p.EditorialSummary.Text)
	}
	if len(p.Types) > 0 {
		parts = append(parts, strings.Join(p.Types, ", "))
	}
	return strings.Join(parts, ". ")
}
