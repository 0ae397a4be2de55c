package response

import (
	"context"

	"ambubot-be/internal/pkg/logger"
	"ambubot-be/pkg/intake"
	"ambubot-be/pkg/rag/prompt"
	"ambubot-be/pkg/rag/search"
)

// Retriever finds reference passages for a query.
type Retriever interface {
	Execute(ctx context.Context, query string, config search.Config) ([]search.Passage, error)
}

// Generator adds document grounding to a plain intake.Generator. Calls without
// Grounding pass straight through.
type Generator struct {
	base      intake.Generator
	retriever Retriever
	logger    logger.ILogger
}

var _ intake.Generator = (*Generator)(nil)

func NewGenerator(base intake.Generator, retriever Retriever, log logger.ILogger) *Generator {
	return &Generator{
		base:      base,
		retriever: retriever,
		logger:    log,
	}
}

// Generate retrieves passages at or above the threshold and puts them in the
// system prompt. With no passage, or when retrieval itself fails, the model is
// called with the bare system prompt and falls back to general guidance.
func (g *Generator) Generate(ctx context.Context, systemPrompt, query string, opts intake.GenerateOptions) (string, error) {
	if !opts.Grounding {
		return g.base.Generate(ctx, systemPrompt, query, opts)
	}

	passages, err := g.retriever.Execute(ctx, query, search.Config{
		Threshold: opts.RetrievalThreshold,
		TopK:      opts.RetrievalK,
	})
	if err != nil {
		g.logger.Warn("GroundedGenerator", "Retrieval failed, generating without reference material", map[string]interface{}{
			"error": err.Error(),
		})
		passages = nil
	}

	g.logger.Info("GroundedGenerator", "Generating grounded answer", map[string]interface{}{
		"passages": len(passages),
	})

	grounded := prompt.NewGroundedBuilder(systemPrompt, passages).Build()
	return g.base.Generate(ctx, grounded, query, opts)
}
