package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"ambubot-be/internal/dto"
	"ambubot-be/pkg/events"
	"ambubot-be/pkg/intake"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// go-cache janitor goroutines live until the cache is collected
		goleak.IgnoreAnyFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)
}

func severity(n int) *int { return &n }

func walkToAdvice(t *testing.T, svc IIntakeService, id string) *dto.AdvanceResponse {
	t.Helper()
	ctx := context.Background()

	res, err := svc.Advance(ctx, id, &dto.AdvanceRequest{Complaint: "headache"})
	require.NoError(t, err)
	require.Equal(t, intake.StepFollowUps, res.Step)

	res, err = svc.Advance(ctx, id, &dto.AdvanceRequest{Answer: "yes, on the left side"})
	require.NoError(t, err)
	require.Equal(t, intake.StepDetails, res.Step)

	res, err = svc.Advance(ctx, id, &dto.AdvanceRequest{Duration: "2 days", Severity: severity(6), Location: "Boston, MA"})
	require.NoError(t, err)
	require.Equal(t, intake.StepAdvice, res.Step)
	return res
}

func TestIntakeServiceFullDialogue(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestIntakeService(&yesClassifier{}, pub)

	created, err := svc.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, intake.StepComplaint, created.Step)
	assert.Equal(t, 5, created.Severity)

	res := walkToAdvice(t, svc, created.Id)

	require.NotNil(t, res.Advice)
	assert.Equal(t, "Rest and drink fluids.", res.Advice.Text)
	require.NotNil(t, res.Facilities)
	assert.Equal(t, []string{"Massachusetts General Hospital"}, res.Facilities.Facilities)

	got, err := svc.GetSession(context.Background(), created.Id)
	require.NoError(t, err)
	assert.Equal(t, intake.StepAdvice, got.Step)
	assert.Equal(t, "headache", got.PrimaryComplaint)
	assert.Equal(t, []intake.Answer{{Question: "Is the pain throbbing?", Answer: "yes, on the left side"}}, got.FollowUpAnswers)
	assert.Equal(t, res.Advice, got.Advice)

	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeIntakeCompleted, published[0].EventType())
	assert.Equal(t, created.Id, published[0].Payload()["session_id"])
	assert.Equal(t, "found", published[0].Payload()["facility_outcome"])
}

func TestIntakeServicePublishesOnlyOnEnteringAdvice(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestIntakeService(&yesClassifier{}, pub)
	created, _ := svc.CreateSession(context.Background())
	walkToAdvice(t, svc, created.Id)

	_, err := svc.Advance(context.Background(), created.Id, &dto.AdvanceRequest{})
	require.NoError(t, err)

	assert.Len(t, pub.published(), 1)
}

func TestIntakeServicePublishFailureIsNotSurfaced(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("nats down")}
	svc := newTestIntakeService(&yesClassifier{}, pub)
	created, _ := svc.CreateSession(context.Background())

	res := walkToAdvice(t, svc, created.Id)

	assert.Equal(t, intake.StepAdvice, res.Step)
}

func TestIntakeServiceRestartKeepsId(t *testing.T) {
	svc := newTestIntakeService(&yesClassifier{}, nil)
	created, _ := svc.CreateSession(context.Background())
	walkToAdvice(t, svc, created.Id)

	restarted, err := svc.Restart(context.Background(), created.Id)

	require.NoError(t, err)
	assert.Equal(t, created.Id, restarted.Id)
	assert.Equal(t, intake.StepComplaint, restarted.Step)
	assert.Empty(t, restarted.PrimaryComplaint)
	assert.Empty(t, restarted.FollowUpQuestions)
	assert.Nil(t, restarted.Advice)
	assert.Equal(t, created.CreatedAt, restarted.CreatedAt)
}

func TestIntakeServiceUnknownSession(t *testing.T) {
	svc := newTestIntakeService(&yesClassifier{}, nil)

	_, err := svc.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Advance(context.Background(), "missing", &dto.AdvanceRequest{Complaint: "cough"})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Restart(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestIntakeServiceRefusesConcurrentActionsOnOneSession(t *testing.T) {
	classifier := &yesClassifier{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	svc := newTestIntakeService(classifier, nil)
	created, _ := svc.CreateSession(context.Background())
	other, _ := svc.CreateSession(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	var first *dto.AdvanceResponse
	var firstErr error
	go func() {
		defer wg.Done()
		first, firstErr = svc.Advance(context.Background(), created.Id, &dto.AdvanceRequest{Complaint: "headache"})
	}()
	<-classifier.entered

	_, err := svc.Advance(context.Background(), created.Id, &dto.AdvanceRequest{Complaint: "fever"})
	assert.ErrorIs(t, err, ErrSessionBusy)
	_, err = svc.Restart(context.Background(), created.Id)
	assert.ErrorIs(t, err, ErrSessionBusy)

	// other sessions are unaffected
	view, err := svc.GetSession(context.Background(), other.Id)
	require.NoError(t, err)
	assert.Equal(t, intake.StepComplaint, view.Step)

	classifier.gate <- struct{}{}
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, intake.StepFollowUps, first.Step)

	got, _ := svc.GetSession(context.Background(), created.Id)
	assert.Equal(t, "headache", got.PrimaryComplaint)
}
