package llm

import (
	"context"
	"errors"
	"fmt"

	"ambubot-be/pkg/intake"
)

// Classifier runs yes/no classification prompts on a provider at temperature
// zero with no history.
type Classifier struct {
	provider LLMProvider
}

var _ intake.Classifier = (*Classifier)(nil)

func NewClassifier(provider LLMProvider) *Classifier {
	return &Classifier{provider: provider}
}

func (c *Classifier) Classify(ctx context.Context, systemPrompt, query string) (string, error) {
	out, err := c.provider.Chat(ctx, promptMessages(systemPrompt, query), WithTemperature(0))
	return out, classify(err)
}

// Generator is an ungrounded intake.Generator. Retrieval options are ignored;
// grounding is layered on top by the rag packages.
type Generator struct {
	provider LLMProvider
}

var _ intake.Generator = (*Generator)(nil)

func NewGenerator(provider LLMProvider) *Generator {
	return &Generator{provider: provider}
}

func (g *Generator) Generate(ctx context.Context, systemPrompt, query string, opts intake.GenerateOptions) (string, error) {
	out, err := g.provider.Chat(ctx, promptMessages(systemPrompt, query), WithTemperature(opts.Temperature))
	return out, classify(err)
}

func promptMessages(systemPrompt, query string) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: query},
	}
}

// classify tags empty responses as malformed output for the intake error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrEmptyResponse) {
		return fmt.Errorf("%w: %w", intake.ErrMalformedOutput, err)
	}
	return err
}
