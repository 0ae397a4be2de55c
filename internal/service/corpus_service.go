package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ambubot-be/internal/dto"
	"ambubot-be/internal/pkg/logger"
	"ambubot-be/internal/repository/specification"
	"ambubot-be/internal/repository/unitofwork"
)

var (
	ErrCorpusPathRequired = errors.New("no corpus path given and CORPUS_PATH is not set")
	ErrCorpusFileNotFound = errors.New("corpus file not found")
)

type ICorpusService interface {
	Status(ctx context.Context) (*dto.CorpusStatusResponse, error)
	QueueIngest(ctx context.Context, req *dto.IngestCorpusRequest) (*dto.IngestCorpusResponse, error)
	// EnsureIngested queues the configured corpus when its source has no passages.
	EnsureIngested(ctx context.Context) error
}

// IngestTracker remembers the running and the last finished ingestion job.
type IngestTracker struct {
	mu      sync.Mutex
	running map[string]struct{}
	last    *dto.IngestInfo
}

func NewIngestTracker() *IngestTracker {
	return &IngestTracker{running: make(map[string]struct{})}
}

func (t *IngestTracker) Start(jobId string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running[jobId] = struct{}{}
}

func (t *IngestTracker) Finish(info dto.IngestInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.running, info.JobId)
	t.last = &info
}

func (t *IngestTracker) Snapshot() (bool, *dto.IngestInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return len(t.running) > 0, nil
	}
	last := *t.last
	return len(t.running) > 0, &last
}

type corpusService struct {
	uowFactory    unitofwork.RepositoryFactory
	publisher     IPublisherService
	tracker       *IngestTracker
	defaultPath   string
	defaultSource string
	logger        logger.ILogger
}

func NewCorpusService(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	tracker *IngestTracker,
	defaultPath, defaultSource string,
	log logger.ILogger,
) ICorpusService {
	return &corpusService{
		uowFactory:    uowFactory,
		publisher:     publisher,
		tracker:       tracker,
		defaultPath:   defaultPath,
		defaultSource: defaultSource,
		logger:        log,
	}
}

func (s *corpusService) Status(ctx context.Context) (*dto.CorpusStatusResponse, error) {
	count, err := s.count(ctx, s.defaultSource)
	if err != nil {
		return nil, err
	}

	ingesting, last := s.tracker.Snapshot()
	return &dto.CorpusStatusResponse{
		Source:     s.defaultSource,
		Passages:   count,
		Ingesting:  ingesting,
		LastIngest: last,
	}, nil
}

func (s *corpusService) QueueIngest(ctx context.Context, req *dto.IngestCorpusRequest) (*dto.IngestCorpusResponse, error) {
	path := strings.TrimSpace(req.Path)
	if path == "" {
		path = s.defaultPath
	}
	if path == "" {
		return nil, ErrCorpusPathRequired
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorpusFileNotFound, path)
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = s.defaultSource
	}

	msg := dto.IngestCorpusMessage{JobId: uuid.NewString(), Path: path, Source: source}
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	s.tracker.Start(msg.JobId)
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.tracker.Finish(dto.IngestInfo{JobId: msg.JobId, Path: path, Error: err.Error(), FinishedAt: time.Now()})
		return nil, fmt.Errorf("queue ingestion: %w", err)
	}

	s.logger.Info("CORPUS", "Ingestion queued", map[string]interface{}{
		"job_id": msg.JobId,
		"path":   path,
		"source": source,
	})
	return &dto.IngestCorpusResponse{JobId: msg.JobId, Path: path, Source: source}, nil
}

func (s *corpusService) EnsureIngested(ctx context.Context) error {
	if s.defaultPath == "" {
		s.logger.Info("CORPUS", "CORPUS_PATH not set, skipping boot ingestion", nil)
		return nil
	}

	count, err := s.count(ctx, s.defaultSource)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("CORPUS", "Corpus already ingested", map[string]interface{}{
			"source":   s.defaultSource,
			"passages": count,
		})
		return nil
	}

	_, err = s.QueueIngest(ctx, &dto.IngestCorpusRequest{})
	return err
}

func (s *corpusService) count(ctx context.Context, source string) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ReferencePassageRepository().Count(ctx, specification.BySource{Source: source})
}
