package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"ambubot-be/internal/dto"
	"ambubot-be/internal/pkg/logger"
	"ambubot-be/pkg/rag/ingest"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// CorpusIngestor is satisfied by *ingest.Ingestor.
type CorpusIngestor interface {
	Ingest(ctx context.Context, path, source string) (*ingest.Report, error)
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	ingestor   CorpusIngestor
	tracker    *IngestTracker
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	ingestor CorpusIngestor,
	tracker *IngestTracker,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		ingestor:   ingestor,
		tracker:    tracker,
		logger:     log,
	}
}

// Consume subscribes and processes jobs on a background goroutine until ctx
// is cancelled or the subscriber is closed.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage acks every job, failed or not. Ingestion failures are
// recorded on the tracker and retried by queueing again.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IngestCorpusMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CORPUS", "Failed to unmarshal ingestion job", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	cs.logger.Info("CORPUS", "Processing ingestion job", map[string]interface{}{
		"job_id": payload.JobId,
		"path":   payload.Path,
		"source": payload.Source,
	})

	info := dto.IngestInfo{JobId: payload.JobId, Path: payload.Path}
	report, err := cs.ingestor.Ingest(ctx, payload.Path, payload.Source)
	if err != nil {
		info.Error = err.Error()
		cs.logger.Error("CORPUS", "Ingestion failed", map[string]interface{}{
			"job_id": payload.JobId,
			"error":  err.Error(),
		})
	} else {
		info.Passages = report.Passages
		cs.logger.Info("CORPUS", "Ingestion finished", map[string]interface{}{
			"job_id":   payload.JobId,
			"passages": report.Passages,
		})
	}
	info.FinishedAt = time.Now()
	cs.tracker.Finish(info)

	msg.Ack()
}
