package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"ambubot-be/internal/bootstrap"
	"ambubot-be/internal/config"
	"ambubot-be/internal/model"
	"ambubot-be/internal/server"
	"ambubot-be/internal/tracer"
	"ambubot-be/pkg/database"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("DB_CONNECTION_STRING is not set")
	}

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	defer database.Close(gormDB)

	if err := database.Migrate(gormDB, &model.ReferencePassage{}); err != nil {
		log.Panicf("Unable to migrate database: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg)
	if err != nil {
		log.Panicf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	shutdownTracer := tracer.InitTracer(ctx, cfg.App.OtelEnabled, cfg.App.OtelEndpoint, container.Logger)
	defer shutdownTracer(context.Background())

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Panicf("Unable to start ingestion consumer: %v", err)
	}
	if err := container.CorpusService.EnsureIngested(ctx); err != nil {
		container.Logger.Warn("MAIN", "Boot ingestion was not queued", map[string]interface{}{"error": err.Error()})
	}
	if container.AuditService != nil {
		if err := container.AuditService.Start(ctx); err != nil {
			container.Logger.Warn("MAIN", "Audit service not started", map[string]interface{}{"error": err.Error()})
		}
	}

	// 5. Run Server until a signal arrives
	srv := server.New(cfg, container)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		container.Logger.Info("MAIN", "Shutting down", nil)
		return srv.Shutdown(10 * time.Second)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		container.Logger.Error("MAIN", "Server stopped with error", map[string]interface{}{"error": err.Error()})
	}
}
