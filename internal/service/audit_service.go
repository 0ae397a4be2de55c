package service

import (
	"context"

	"ambubot-be/internal/pkg/logger"
	"ambubot-be/pkg/events"
	pktNats "ambubot-be/pkg/nats"
)

const auditDurable = "intake-audit-worker"

// EventSubscriber is satisfied by *pktNats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType, durableName string, handler pktNats.EventHandler) error
}

// AuditService writes one audit line per completed intake to its own log file.
type AuditService struct {
	subscriber EventSubscriber
	logger     logger.ILogger
}

func NewAuditService(sub EventSubscriber, log logger.ILogger) *AuditService {
	return &AuditService{subscriber: sub, logger: log}
}

// Start begins listening to the event bus.
func (s *AuditService) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, events.TypeIntakeCompleted, auditDurable, s.handleEvent); err != nil {
		s.logger.Error("AuditService", "Failed to start audit subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("AuditService", "Audit service started", map[string]interface{}{"event": events.TypeIntakeCompleted})
	return nil
}

func (s *AuditService) handleEvent(_ context.Context, event events.Event) error {
	details := make(map[string]interface{}, len(event.Payload())+1)
	for k, v := range event.Payload() {
		details[k] = v
	}
	details["occurred_at"] = event.Timestamp()

	s.logger.Info("AuditService", "Intake completed", details)
	return nil
}
