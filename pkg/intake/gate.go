package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ambubot-be/internal/constant"
	"ambubot-be/internal/pkg/logger"
)

type CheckKind int

const (
	CheckHealthRelated CheckKind = iota + 1
	CheckAnswersQuestion
)

func (k CheckKind) String() string {
	switch k {
	case CheckHealthRelated:
		return "health_related"
	case CheckAnswersQuestion:
		return "answers_question"
	default:
		return "unknown"
	}
}

// Check is one acceptability question for the Gate.
type Check struct {
	Kind     CheckKind
	Question string
	Text     string
}

// HealthRelated asks whether text describes a symptom, a symptom characteristic
// or a medical condition.
func HealthRelated(text string) Check {
	return Check{Kind: CheckHealthRelated, Text: text}
}

// AnswersQuestion asks whether answer addresses question, however tersely.
func AnswersQuestion(question, answer string) Check {
	return Check{Kind: CheckAnswersQuestion, Question: question, Text: answer}
}

func (c Check) prompts() (system, query string) {
	switch c.Kind {
	case CheckAnswersQuestion:
		return constant.AnswersQuestionSystemPrompt, fmt.Sprintf(constant.AnswersQuestionQueryTemplate, c.Question, c.Text)
	default:
		return constant.HealthRelatedSystemPrompt, fmt.Sprintf(constant.HealthRelatedQueryTemplate, c.Text)
	}
}

// Verdict is the Gate's decision. Err is set when the classifier failed or
// answered outside yes/no; Accepted is always false in that case.
type Verdict struct {
	Accepted bool
	Err      *ServiceError
}

// Gate wraps the Classifier. It fails closed, never retries and never caches.
type Gate struct {
	classifier Classifier
	timeout    time.Duration
	logger     logger.ILogger
}

func NewGate(classifier Classifier, timeout time.Duration, log logger.ILogger) *Gate {
	return &Gate{classifier: classifier, timeout: timeout, logger: log}
}

func (g *Gate) Evaluate(ctx context.Context, check Check) Verdict {
	system, query := check.prompts()

	callCtx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.classifier.Classify(callCtx, system, query)
	if err != nil {
		v := Verdict{Err: serviceFailure("classifier", err)}
		g.log(check, v)
		return v
	}

	accepted, ok := parseVerdict(raw)
	if !ok {
		v := Verdict{Err: malformed("classifier", "unexpected verdict %q", raw)}
		g.log(check, v)
		return v
	}

	v := Verdict{Accepted: accepted}
	g.log(check, v)
	return v
}

// IsAcceptable is Evaluate reduced to a boolean.
func (g *Gate) IsAcceptable(ctx context.Context, check Check) bool {
	return g.Evaluate(ctx, check).Accepted
}

func (g *Gate) log(check Check, v Verdict) {
	details := map[string]interface{}{
		"check":    check.Kind.String(),
		"accepted": v.Accepted,
	}
	if v.Err != nil {
		details["kind"] = string(v.Err.Kind)
		details["error"] = v.Err.Error()
		g.logger.Warn("IntakeGate", "Classifier verdict unusable, failing closed", details)
		return
	}
	g.logger.Debug("IntakeGate", "Classifier verdict", details)
}

// parseVerdict accepts exactly "yes" or "no", ignoring case and surrounding whitespace.
func parseVerdict(raw string) (accepted bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes":
		return true, true
	case "no":
		return false, true
	default:
		return false, false
	}
}
