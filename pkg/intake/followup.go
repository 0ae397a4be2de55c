package intake

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"ambubot-be/internal/constant"
	"ambubot-be/internal/pkg/logger"
)

const followUpTemperature = 0.2

// FollowUpGenerator asks the Generator for up to MaxFollowUps questions scoped
// to the complaint.
type FollowUpGenerator struct {
	generator Generator
	timeout   time.Duration
	logger    logger.ILogger
}

func NewFollowUpGenerator(generator Generator, timeout time.Duration, log logger.ILogger) *FollowUpGenerator {
	return &FollowUpGenerator{generator: generator, timeout: timeout, logger: log}
}

// Generate makes exactly one Generator call. A failed call yields no questions
// so the dialogue moves on to the details step instead of stalling.
func (f *FollowUpGenerator) Generate(ctx context.Context, complaint string) []string {
	callCtx, cancel := withTimeout(ctx, f.timeout)
	defer cancel()

	raw, err := f.generator.Generate(
		callCtx,
		constant.FollowUpSystemPrompt,
		fmt.Sprintf(constant.FollowUpQueryTemplate, complaint),
		GenerateOptions{Temperature: followUpTemperature},
	)
	if err != nil {
		se := serviceFailure("generator", err)
		f.logger.Warn("FollowUpGenerator", "Generation failed, skipping follow-ups", map[string]interface{}{
			"kind":  string(se.Kind),
			"error": se.Error(),
		})
		return []string{}
	}

	questions := ParseFollowUps(raw)
	f.logger.Debug("FollowUpGenerator", "Follow-ups generated", map[string]interface{}{
		"count": len(questions),
	})
	return questions
}

// ParseFollowUps turns raw generator text into at most MaxFollowUps distinct
// question lines. The no-follow-ups sentinel yields an empty list.
func ParseFollowUps(raw string) []string {
	text := strings.TrimSpace(raw)
	if strings.EqualFold(text, constant.NoFollowUpsSentinel) {
		return []string{}
	}

	questions := make([]string, 0, MaxFollowUps)
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		q := stripListMarker(strings.TrimSpace(line))
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		questions = append(questions, q)
		if len(questions) == MaxFollowUps {
			break
		}
	}
	return questions
}

// stripListMarker removes "1.", "2)", "-", "*" and "•" prefixes.
func stripListMarker(line string) string {
	trimmed := strings.TrimLeft(line, "-*• \t")
	if trimmed != line {
		return strings.TrimSpace(trimmed)
	}

	i := 0
	for i < len(line) && unicode.IsDigit(rune(line[i])) {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:])
	}
	return line
}
