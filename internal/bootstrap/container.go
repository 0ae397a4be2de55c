package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ambubot-be/internal/config"
	"ambubot-be/internal/controller"
	"ambubot-be/internal/pkg/logger"
	"ambubot-be/internal/repository/implementation"
	"ambubot-be/internal/repository/memory"
	"ambubot-be/internal/repository/unitofwork"
	"ambubot-be/internal/service"
	"ambubot-be/pkg/embedding"
	"ambubot-be/pkg/events"
	"ambubot-be/pkg/geo"
	"ambubot-be/pkg/intake"
	"ambubot-be/pkg/llm"
	"ambubot-be/pkg/llm/factory"
	pktNats "ambubot-be/pkg/nats"
	"ambubot-be/pkg/rag/ingest"
	"ambubot-be/pkg/rag/response"
	"ambubot-be/pkg/rag/search"
)

const ingestTopic = "INGEST_CORPUS"

type Container struct {
	// Controllers
	IntakeController   controller.IIntakeController
	LocationController controller.ILocationController
	CorpusController   controller.ICorpusController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	CorpusService   service.ICorpusService
	AuditService    *service.AuditService

	Logger logger.ILogger

	closers []func() error
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	c.Logger = sysLogger
	c.closers = append(c.closers, sysLogger.Sync)

	// 2. Event Bus (in-process jobs)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 16},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	// 3. Providers
	embeddingProvider, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.EmbeddingAPIKey,
	)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "Embedding provider ready", map[string]interface{}{
		"provider": cfg.Ai.EmbeddingProvider,
		"model":    cfg.Ai.EmbeddingModel,
	})

	llmProvider, err := factory.NewLLMProvider(ctx, factory.ProviderConfig{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		OpenAIAPIKey:  cfg.Ai.OpenAIAPIKey,
		OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
		GeminiAPIKey:  cfg.Ai.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	// 4. Infrastructure
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS publisher unavailable, events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			publisher = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS subscriber unavailable, audit disabled", map[string]interface{}{"error": err.Error()})
		} else {
			auditLogger := logger.NewIsolatedLogger("logs/intake_audit.log")
			c.AuditService = service.NewAuditService(natsSub, auditLogger)
			c.closers = append(c.closers, func() error { natsSub.Close(); return nil })
		}
	}

	var geocoder intake.Geocoder = geo.NewNominatim(cfg.Location.NominatimURL, cfg.Location.UserAgent)
	if cfg.App.RedisURL != "" {
		rdb, err := newRedisClient(ctx, cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Redis unavailable, geocode cache disabled", map[string]interface{}{"error": err.Error()})
		} else {
			geocoder = geo.NewCachedGeocoder(geocoder, geo.NewRedisStore(rdb), cfg.Location.GeocodeCacheTTL, sysLogger)
			c.closers = append(c.closers, rdb.Close)
		}
	}
	poiSearch := geo.NewOverpass(cfg.Location.OverpassURL, cfg.Location.UserAgent)

	// 5. Domain
	retriever := search.NewOrchestrator(
		embeddingProvider,
		implementation.NewReferencePassageRepository(db),
		cfg.Rag.CorpusSource,
		sysLogger,
	)
	generator := response.NewGenerator(llm.NewGenerator(llmProvider), retriever, sysLogger)
	timeout := cfg.Ai.ExternalCallTimeout

	resolver := intake.NewLocationResolver(geocoder, poiSearch, intake.ResolverSettings{
		RadiusMeters:     cfg.Location.RadiusMeters,
		CountryQualifier: cfg.Location.DefaultCountry,
	}, timeout, sysLogger)

	machine := intake.NewMachine(
		intake.NewGate(llm.NewClassifier(llmProvider), timeout, sysLogger),
		intake.NewFollowUpGenerator(generator, timeout, sysLogger),
		intake.NewAdviceSynthesizer(generator, intake.AdviceSettings{
			Temperature:        intake.DefaultAdviceSettings().Temperature,
			RetrievalThreshold: cfg.Rag.Threshold,
			RetrievalK:         cfg.Rag.TopK,
		}, timeout, sysLogger),
		resolver,
		sysLogger,
	)

	// 6. Services
	sessionRepo := memory.NewSessionRepository(cfg.App.SessionTTL, 10*time.Minute)
	intakeService := service.NewIntakeService(machine, sessionRepo, publisher, sysLogger)
	locationService := service.NewLocationService(resolver)

	tracker := service.NewIngestTracker()
	ingestor := ingest.NewIngestor(uowFactory, embeddingProvider, ingest.Config{
		ChunkSize:    cfg.Rag.ChunkSize,
		ChunkOverlap: cfg.Rag.ChunkOverlap,
	}, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, ingestTopic, ingestor, tracker, sysLogger)
	c.CorpusService = service.NewCorpusService(
		uowFactory,
		service.NewPublisherService(ingestTopic, pubSub),
		tracker,
		cfg.Rag.CorpusPath,
		cfg.Rag.CorpusSource,
		sysLogger,
	)

	// 7. Controllers
	c.IntakeController = controller.NewIntakeController(intakeService)
	c.LocationController = controller.NewLocationController(locationService)
	c.CorpusController = controller.NewCorpusController(c.CorpusService)

	return c, nil
}

// Close releases infrastructure in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
}

func newRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
