package dto

import (
	"time"

	"ambubot-be/pkg/intake"
)

type AdvanceRequest struct {
	Complaint string `json:"complaint" validate:"max=2000"`
	Answer    string `json:"answer" validate:"max=2000"`
	Duration  string `json:"duration" validate:"max=200"`
	Severity  *int   `json:"severity"` // range is enforced by the dialogue, not here
	Location  string `json:"location" validate:"max=300"`
}

func (r *AdvanceRequest) ToInput() intake.Input {
	return intake.Input{
		Complaint: r.Complaint,
		Answer:    r.Answer,
		Duration:  r.Duration,
		Severity:  r.Severity,
		Location:  r.Location,
	}
}

type SessionResponse struct {
	Id                string                 `json:"id"`
	Step              intake.Step            `json:"step"`
	StepName          string                 `json:"step_name"`
	PrimaryComplaint  string                 `json:"primary_complaint"`
	FollowUpQuestions []string               `json:"follow_up_questions"`
	FollowUpIndex     int                    `json:"follow_up_index"`
	FollowUpAnswers   []intake.Answer        `json:"follow_up_answers"`
	Duration          string                 `json:"duration"`
	Severity          int                    `json:"severity"`
	Location          string                 `json:"location"`
	Prompts           []intake.Prompt        `json:"prompts"`
	Advice            *intake.Advice         `json:"advice,omitempty"`
	Facilities        *intake.FacilityResult `json:"facilities,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

type AdvanceResponse struct {
	SessionId  string                 `json:"session_id"`
	Step       intake.Step            `json:"step"`
	StepName   string                 `json:"step_name"`
	Prompts    []intake.Prompt        `json:"prompts"`
	Warnings   []intake.Warning       `json:"warnings"`
	Advice     *intake.Advice         `json:"advice,omitempty"`
	Facilities *intake.FacilityResult `json:"facilities,omitempty"`
}

func NewSessionResponse(s *intake.Session, view *intake.Result) *SessionResponse {
	return &SessionResponse{
		Id:                s.ID,
		Step:              s.Step,
		StepName:          s.Step.String(),
		PrimaryComplaint:  s.PrimaryComplaint,
		FollowUpQuestions: s.FollowUpQuestions,
		FollowUpIndex:     s.FollowUpIndex,
		FollowUpAnswers:   s.FollowUpAnswers,
		Duration:          s.Duration,
		Severity:          s.Severity,
		Location:          s.Location,
		Prompts:           view.Prompts,
		Advice:            view.Advice,
		Facilities:        view.Facilities,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func NewAdvanceResponse(sessionId string, r *intake.Result) *AdvanceResponse {
	return &AdvanceResponse{
		SessionId:  sessionId,
		Step:       r.Step,
		StepName:   r.Step.String(),
		Prompts:    r.Prompts,
		Warnings:   r.Warnings,
		Advice:     r.Advice,
		Facilities: r.Facilities,
	}
}
