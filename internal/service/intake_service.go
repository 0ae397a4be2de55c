package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"ambubot-be/internal/dto"
	"ambubot-be/internal/pkg/logger"
	"ambubot-be/internal/repository/memory"
	"ambubot-be/pkg/events"
	"ambubot-be/pkg/intake"
)

var (
	ErrSessionNotFound = errors.New("session not found or expired")
	ErrSessionBusy     = errors.New("session is still processing a previous request")
)

const publishTimeout = 5 * time.Second

type IIntakeService interface {
	CreateSession(ctx context.Context) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, id string) (*dto.SessionResponse, error)
	Advance(ctx context.Context, id string, req *dto.AdvanceRequest) (*dto.AdvanceResponse, error)
	Restart(ctx context.Context, id string) (*dto.SessionResponse, error)
}

type intakeService struct {
	machine   *intake.Machine
	sessions  *memory.SessionRepository
	publisher events.Publisher
	logger    logger.ILogger
	now       func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewIntakeService(
	machine *intake.Machine,
	sessions *memory.SessionRepository,
	publisher events.Publisher,
	log logger.ILogger,
) IIntakeService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &intakeService{
		machine:   machine,
		sessions:  sessions,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
		inFlight:  make(map[string]struct{}),
	}
}

func (s *intakeService) CreateSession(ctx context.Context) (*dto.SessionResponse, error) {
	session := intake.NewSession(uuid.NewString(), s.now())
	s.sessions.Save(session)

	s.logger.Info("INTAKE", "Session created", map[string]interface{}{
		"session_id": session.ID,
	})
	return dto.NewSessionResponse(session, s.machine.View(session)), nil
}

func (s *intakeService) GetSession(ctx context.Context, id string) (*dto.SessionResponse, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return dto.NewSessionResponse(session, s.machine.View(session)), nil
}

func (s *intakeService) Advance(ctx context.Context, id string, req *dto.AdvanceRequest) (*dto.AdvanceResponse, error) {
	release, err := s.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	from := session.Step
	result := s.machine.Advance(ctx, session, req.ToInput())
	s.sessions.Save(session)

	if from != intake.StepAdvice && session.Step == intake.StepAdvice {
		s.publishCompleted(ctx, session)
	}

	return dto.NewAdvanceResponse(session.ID, result), nil
}

func (s *intakeService) Restart(ctx context.Context, id string) (*dto.SessionResponse, error) {
	release, err := s.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	view := s.machine.Restart(session)
	s.sessions.Save(session)
	return dto.NewSessionResponse(session, view), nil
}

// acquire marks a session as in flight. A second caller for the same session
// is refused instead of queued; distinct sessions never contend.
func (s *intakeService) acquire(id string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[id]; busy {
		return nil, ErrSessionBusy
	}
	s.inFlight[id] = struct{}{}

	return func() {
		s.mu.Lock()
		delete(s.inFlight, id)
		s.mu.Unlock()
	}, nil
}

func (s *intakeService) publishCompleted(ctx context.Context, session *intake.Session) {
	var (
		fallback = true
		outcome  = string(intake.OutcomeServiceError)
		count    int
	)
	if session.Advice != nil {
		fallback = session.Advice.Fallback
	}
	if session.Facilities != nil {
		outcome = string(session.Facilities.Outcome)
		count = len(session.Facilities.Facilities)
	}

	evt := events.NewIntakeCompleted(session.ID, session.Severity, fallback, outcome, count, s.now())

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, evt); err != nil {
		s.logger.Warn("INTAKE", "Failed to publish completion event", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
	}
}
