package search

import (
	"context"
	"fmt"
	"strings"

	"ambubot-be/internal/pkg/logger"
	"ambubot-be/internal/repository/contract"
	"ambubot-be/pkg/embedding"
)

// Passage is one retrieved reference excerpt.
type Passage struct {
	ChunkIndex int
	Content    string
	Score      float64
}

// PassageSearcher is the slice of the passage repository the orchestrator uses.
type PassageSearcher interface {
	SearchSimilarWithScore(ctx context.Context, embedding []float32, source string, limit int, threshold float64) ([]*contract.ScoredPassage, error)
}

// Orchestrator handles vector search and candidate filtering
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	passages          PassageSearcher
	source            string
	logger            logger.ILogger
}

func NewOrchestrator(embeddingProvider embedding.EmbeddingProvider, passages PassageSearcher, source string, log logger.ILogger) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		passages:          passages,
		source:            source,
		logger:            log,
	}
}

// Config encapsulates search parameters
type Config struct {
	Threshold float64
	TopK      int
}

// Execute returns at most TopK passages with similarity >= Threshold, best first.
func (o *Orchestrator) Execute(ctx context.Context, query string, config Config) ([]Passage, error) {
	embeddingRes, err := o.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := o.passages.SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, o.source, config.TopK, config.Threshold)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	candidates := o.filterAndDeduplicate(scored, config)

	o.logger.Debug("RetrievalOrchestrator", "Passages retrieved", map[string]interface{}{
		"source":    o.source,
		"raw":       len(scored),
		"kept":      len(candidates),
		"threshold": config.Threshold,
	})
	return candidates, nil
}

// filterAndDeduplicate re-applies the threshold and TopK and drops repeated text.
func (o *Orchestrator) filterAndDeduplicate(results []*contract.ScoredPassage, config Config) []Passage {
	candidates := make([]Passage, 0, len(results))
	seen := make(map[string]bool)

	for _, res := range results {
		if res == nil || res.Passage == nil || res.Similarity < config.Threshold {
			continue
		}
		key := strings.TrimSpace(res.Passage.Content)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, Passage{
			ChunkIndex: res.Passage.ChunkIndex,
			Content:    key,
			Score:      res.Similarity,
		})
		if config.TopK > 0 && len(candidates) == config.TopK {
			break
		}
	}
	return candidates
}
