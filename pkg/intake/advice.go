package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ambubot-be/internal/constant"
	"ambubot-be/internal/pkg/logger"
)

// Advice is the synthesizer's output. Fallback marks the fixed apology text.
type Advice struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
}

type AdviceSettings struct {
	Temperature        float64
	RetrievalThreshold float64
	RetrievalK         int
}

// DefaultAdviceSettings keeps generation close to the retrieved passages while
// leaving room for fluent wording.
func DefaultAdviceSettings() AdviceSettings {
	return AdviceSettings{
		Temperature:        0.2,
		RetrievalThreshold: 0.2,
		RetrievalK:         3,
	}
}

// AdviceSynthesizer turns the accumulated answers into home-remedy text using a
// grounded Generator call.
type AdviceSynthesizer struct {
	generator Generator
	settings  AdviceSettings
	timeout   time.Duration
	logger    logger.ILogger
}

func NewAdviceSynthesizer(generator Generator, settings AdviceSettings, timeout time.Duration, log logger.ILogger) *AdviceSynthesizer {
	return &AdviceSynthesizer{generator: generator, settings: settings, timeout: timeout, logger: log}
}

// Synthesize never returns a raw service error: any failure maps to the apology.
func (a *AdviceSynthesizer) Synthesize(ctx context.Context, complaint string, answers []Answer, duration string, severity int) Advice {
	query := ComposeAdviceQuery(complaint, answers, duration, severity)

	callCtx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.generator.Generate(callCtx, constant.AdviceSystemPrompt, query, GenerateOptions{
		Temperature:        a.settings.Temperature,
		Grounding:          true,
		RetrievalThreshold: a.settings.RetrievalThreshold,
		RetrievalK:         a.settings.RetrievalK,
	})

	var failure *ServiceError
	switch {
	case err != nil:
		failure = serviceFailure("generator", err)
	case strings.TrimSpace(text) == "":
		failure = malformed("generator", "empty advice text")
	}
	if failure != nil {
		a.logger.Error("AdviceSynthesizer", "Advice generation failed", map[string]interface{}{
			"kind":  string(failure.Kind),
			"error": failure.Error(),
		})
		return Advice{Text: constant.AdviceApology, Fallback: true}
	}

	return Advice{Text: strings.TrimSpace(text)}
}

// ComposeAdviceQuery embeds every collected answer into one downstream query.
func ComposeAdviceQuery(complaint string, answers []Answer, duration string, severity int) string {
	return fmt.Sprintf(constant.AdviceQueryTemplate,
		strings.TrimSpace(complaint),
		RenderAnswers(answers),
		strings.TrimSpace(duration),
		severity,
	)
}

// RenderAnswers renders answers in question order as "question: answer; ...".
func RenderAnswers(answers []Answer) string {
	if len(answers) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(answers))
	for _, a := range answers {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Question, a.Answer))
	}
	return strings.Join(parts, "; ")
}
