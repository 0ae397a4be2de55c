package intake

import (
	"time"
)

// Step is the only explicit state variable of an intake session.
type Step int

const (
	StepComplaint Step = 1 // collect the primary complaint
	StepFollowUps Step = 2 // walk the generated follow-up questions
	StepDetails   Step = 3 // duration, severity, location
	StepAdvice    Step = 4 // advice + nearby facilities, terminal until restart
)

func (s Step) String() string {
	switch s {
	case StepComplaint:
		return "COMPLAINT"
	case StepFollowUps:
		return "FOLLOW_UPS"
	case StepDetails:
		return "DETAILS"
	case StepAdvice:
		return "ADVICE"
	default:
		return "UNKNOWN"
	}
}

func (s Step) IsValid() bool {
	return s >= StepComplaint && s <= StepAdvice
}

const (
	MaxFollowUps    = 3
	DefaultSeverity = 5
	MinSeverity     = 1
	MaxSeverity     = 10
)

// Answer is one validated follow-up answer. Answers are kept as an ordered
// slice so that insertion order always equals question order.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Session is the per-user conversation state. It is owned by the Machine and
// held in memory only for the lifetime of the interaction.
type Session struct {
	ID   string `json:"id"`
	Step Step   `json:"step"`

	PrimaryComplaint   string   `json:"primary_complaint"`
	FollowUpQuestions  []string `json:"follow_up_questions"`
	FollowUpIndex      int      `json:"follow_up_index"`
	FollowUpAnswers    []Answer `json:"follow_up_answers"`
	FollowUpsGenerated bool     `json:"follow_ups_generated"`

	Duration string `json:"duration"`
	Severity int    `json:"severity"`
	Location string `json:"location"`

	// Step 4 results, kept so reads don't repeat external calls
	Advice     *Advice         `json:"advice,omitempty"`
	Facilities *FacilityResult `json:"facilities,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns a session at Step 1 with every field at its initial value.
func NewSession(id string, now time.Time) *Session {
	s := &Session{ID: id, CreatedAt: now}
	s.Reset(now)
	return s
}

// Reset restores every field except ID and CreatedAt to its Step 1 value.
func (s *Session) Reset(now time.Time) {
	s.Step = StepComplaint
	s.PrimaryComplaint = ""
	s.FollowUpQuestions = []string{}
	s.FollowUpIndex = 0
	s.FollowUpAnswers = []Answer{}
	s.FollowUpsGenerated = false
	s.Duration = ""
	s.Severity = DefaultSeverity
	s.Location = ""
	s.Advice = nil
	s.Facilities = nil
	s.UpdatedAt = now
}

// CurrentQuestion returns the follow-up question at FollowUpIndex, if any remain.
func (s *Session) CurrentQuestion() (string, bool) {
	if s.FollowUpIndex < 0 || s.FollowUpIndex >= len(s.FollowUpQuestions) {
		return "", false
	}
	return s.FollowUpQuestions[s.FollowUpIndex], true
}

// AnswerFor returns the stored answer for a question.
func (s *Session) AnswerFor(question string) (string, bool) {
	for _, a := range s.FollowUpAnswers {
		if a.Question == question {
			return a.Answer, true
		}
	}
	return "", false
}

// recordAnswer stores or overwrites the answer for question, keeping its position.
func (s *Session) recordAnswer(question, answer string) {
	for i := range s.FollowUpAnswers {
		if s.FollowUpAnswers[i].Question == question {
			s.FollowUpAnswers[i].Answer = answer
			return
		}
	}
	s.FollowUpAnswers = append(s.FollowUpAnswers, Answer{Question: question, Answer: answer})
}

// Clone returns a deep copy. Stores hand out clones so a reader never observes
// a session that the Machine is halfway through mutating.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.FollowUpQuestions = append([]string{}, s.FollowUpQuestions...)
	c.FollowUpAnswers = append([]Answer{}, s.FollowUpAnswers...)
	if s.Advice != nil {
		advice := *s.Advice
		c.Advice = &advice
	}
	if s.Facilities != nil {
		facilities := *s.Facilities
		facilities.Facilities = append([]string{}, s.Facilities.Facilities...)
		c.Facilities = &facilities
	}
	return &c
}
