package intake

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ambubot-be/internal/constant"
	"ambubot-be/internal/pkg/logger"
)

// Field names used in prompts and warnings.
const (
	FieldComplaint = "complaint"
	FieldAnswer    = "answer"
	FieldDuration  = "duration"
	FieldSeverity  = "severity"
	FieldLocation  = "location"
	FieldSession   = "session"
)

// Input is whatever the user submitted for the current step. Fields that do not
// belong to the current step are ignored.
type Input struct {
	Complaint string
	Answer    string
	Duration  string
	Severity  *int
	Location  string
}

// Prompt describes one field the caller should show next.
type Prompt struct {
	Field       string `json:"field"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	Default     string `json:"default,omitempty"`
}

type Warning struct {
	Field   string    `json:"field"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"kind"`
}

// Result is the outcome of one Advance call.
type Result struct {
	Step       Step            `json:"step"`
	Prompts    []Prompt        `json:"prompts"`
	Warnings   []Warning       `json:"warnings"`
	Advice     *Advice         `json:"advice,omitempty"`
	Facilities *FacilityResult `json:"facilities,omitempty"`
}

// Machine is the four-step intake dialogue. It owns every Session mutation and
// leaves the session untouched when a step's exit guard fails.
type Machine struct {
	gate      *Gate
	followUps *FollowUpGenerator
	advice    *AdviceSynthesizer
	resolver  *LocationResolver
	logger    logger.ILogger
	now       func() time.Time
}

func NewMachine(gate *Gate, followUps *FollowUpGenerator, advice *AdviceSynthesizer, resolver *LocationResolver, log logger.ILogger) *Machine {
	return &Machine{
		gate:      gate,
		followUps: followUps,
		advice:    advice,
		resolver:  resolver,
		logger:    log,
		now:       time.Now,
	}
}

// Advance applies one user action to the session and reports what to show next.
func (m *Machine) Advance(ctx context.Context, s *Session, in Input) *Result {
	switch s.Step {
	case StepComplaint:
		return m.advanceComplaint(ctx, s, in)
	case StepFollowUps:
		return m.advanceFollowUp(ctx, s, in)
	case StepDetails:
		return m.advanceDetails(ctx, s, in)
	case StepAdvice:
		return m.advanceAdvice(ctx, s, in)
	default:
		m.logger.Error("IntakeMachine", "Session in unknown step, restarting", map[string]interface{}{
			"session_id": s.ID,
			"step":       int(s.Step),
		})
		return m.Restart(s)
	}
}

// Restart returns the session to Step 1 with every field at its initial value.
func (m *Machine) Restart(s *Session) *Result {
	from := s.Step
	s.Reset(m.now())
	m.logger.Info("IntakeMachine", "Session restarted", map[string]interface{}{
		"session_id": s.ID,
		"from_step":  from.String(),
	})
	return m.View(s)
}

// View reports the prompts for the session's current step without changing it.
func (m *Machine) View(s *Session) *Result {
	r := &Result{Step: s.Step, Prompts: promptsFor(s), Warnings: []Warning{}}
	if s.Step == StepAdvice {
		r.Advice = s.Advice
		r.Facilities = s.Facilities
	}
	return r
}

func (m *Machine) advanceComplaint(ctx context.Context, s *Session, in Input) *Result {
	complaint := strings.TrimSpace(in.Complaint)
	if complaint == "" {
		return m.reject(s, FieldComplaint, constant.WarnComplaintMissing, KindValidationRejected)
	}

	verdict := m.gate.Evaluate(ctx, HealthRelated(complaint))
	if !verdict.Accepted {
		return m.reject(s, FieldComplaint, constant.WarnComplaintRejected, verdictKind(verdict))
	}

	questions := s.FollowUpQuestions
	if !s.FollowUpsGenerated {
		questions = m.followUps.Generate(ctx, complaint)
	}

	s.PrimaryComplaint = complaint
	s.FollowUpQuestions = questions
	s.FollowUpIndex = 0
	s.FollowUpAnswers = []Answer{}
	s.FollowUpsGenerated = true
	m.transition(s, StepFollowUps)
	m.settleFollowUps(s)

	return m.View(s)
}

func (m *Machine) advanceFollowUp(ctx context.Context, s *Session, in Input) *Result {
	question, ok := s.CurrentQuestion()
	if !ok {
		m.settleFollowUps(s)
		return m.View(s)
	}

	warning := fmt.Sprintf(constant.WarnFollowUpTemplate, question)
	answer := strings.TrimSpace(in.Answer)
	if answer == "" {
		return m.reject(s, FieldAnswer, warning, KindValidationRejected)
	}

	verdict := m.gate.Evaluate(ctx, AnswersQuestion(question, answer))
	if !verdict.Accepted {
		return m.reject(s, FieldAnswer, warning, verdictKind(verdict))
	}

	s.recordAnswer(question, answer)
	s.FollowUpIndex++
	s.UpdatedAt = m.now()
	m.settleFollowUps(s)

	return m.View(s)
}

func (m *Machine) advanceDetails(ctx context.Context, s *Session, in Input) *Result {
	duration := strings.TrimSpace(in.Duration)
	location := strings.TrimSpace(in.Location)
	severity := DefaultSeverity
	if in.Severity != nil {
		severity = *in.Severity
	}

	var warnings []Warning
	if duration == "" {
		warnings = append(warnings, Warning{Field: FieldDuration, Message: constant.WarnDurationInvalid, Kind: KindValidationRejected})
	}
	if severity < MinSeverity || severity > MaxSeverity {
		warnings = append(warnings, Warning{Field: FieldSeverity, Message: constant.WarnSeverityOutOfRange, Kind: KindValidationRejected})
	}
	if location == "" {
		warnings = append(warnings, Warning{Field: FieldLocation, Message: constant.WarnLocationMissing, Kind: KindValidationRejected})
	}
	if len(warnings) > 0 {
		r := m.View(s)
		r.Warnings = warnings
		return r
	}

	verdict := m.gate.Evaluate(ctx, AnswersQuestion(constant.DurationQuestion, duration))
	if !verdict.Accepted {
		return m.reject(s, FieldDuration, constant.WarnDurationInvalid, verdictKind(verdict))
	}

	s.Duration = duration
	s.Severity = severity
	s.Location = location
	m.transition(s, StepAdvice)
	m.complete(ctx, s)

	return m.View(s)
}

func (m *Machine) advanceAdvice(ctx context.Context, s *Session, in Input) *Result {
	if s.Advice == nil || s.Facilities == nil {
		m.complete(ctx, s)
		return m.View(s)
	}

	r := m.View(s)
	if in != (Input{}) {
		r.Warnings = []Warning{{Field: FieldSession, Message: constant.WarnAlreadyComplete, Kind: KindValidationRejected}}
	}
	return r
}

// complete runs the Step 4 work and stores its results on the session. The
// facility lookup runs for every severity.
func (m *Machine) complete(ctx context.Context, s *Session) {
	if s.Advice == nil {
		advice := m.advice.Synthesize(ctx, s.PrimaryComplaint, s.FollowUpAnswers, s.Duration, s.Severity)
		s.Advice = &advice
	}
	if s.Facilities == nil {
		facilities := m.resolver.Resolve(ctx, s.Location)
		s.Facilities = &facilities
	}
	s.UpdatedAt = m.now()
}

// settleFollowUps moves on to Step 3 once every question has an answer,
// including the zero-question case.
func (m *Machine) settleFollowUps(s *Session) {
	if s.Step == StepFollowUps && s.FollowUpIndex >= len(s.FollowUpQuestions) {
		m.transition(s, StepDetails)
	}
}

func (m *Machine) transition(s *Session, to Step) {
	from := s.Step
	s.Step = to
	s.UpdatedAt = m.now()
	m.logger.Info("IntakeMachine", fmt.Sprintf("Transitioned to %s", to), map[string]interface{}{
		"session_id": s.ID,
		"from_step":  from.String(),
		"follow_ups": len(s.FollowUpQuestions),
	})
}

func (m *Machine) reject(s *Session, field, message string, kind ErrorKind) *Result {
	m.logger.Debug("IntakeMachine", "Input rejected", map[string]interface{}{
		"session_id": s.ID,
		"step":       s.Step.String(),
		"field":      field,
		"kind":       string(kind),
	})
	r := m.View(s)
	r.Warnings = []Warning{{Field: field, Message: message, Kind: kind}}
	return r
}

func verdictKind(v Verdict) ErrorKind {
	if v.Err != nil {
		return v.Err.Kind
	}
	return KindValidationRejected
}

func promptsFor(s *Session) []Prompt {
	switch s.Step {
	case StepComplaint:
		return []Prompt{{
			Field:       FieldComplaint,
			Label:       constant.ComplaintLabel,
			Placeholder: constant.ComplaintPlaceholder,
			Default:     s.PrimaryComplaint,
		}}
	case StepFollowUps:
		question, ok := s.CurrentQuestion()
		if !ok {
			return []Prompt{}
		}
		previous, _ := s.AnswerFor(question)
		return []Prompt{{Field: FieldAnswer, Label: question, Default: previous}}
	case StepDetails:
		return []Prompt{
			{Field: FieldDuration, Label: constant.DurationQuestion, Placeholder: constant.DurationPlaceholder, Default: s.Duration},
			{Field: FieldSeverity, Label: constant.SeverityLabel, Default: strconv.Itoa(s.Severity)},
			{Field: FieldLocation, Label: constant.LocationLabel, Placeholder: constant.LocationPlaceholder, Default: s.Location},
		}
	default:
		return []Prompt{}
	}
}
