package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ambubot-be/internal/config"
	"ambubot-be/internal/model"
	"ambubot-be/internal/pkg/logger"
	"ambubot-be/internal/repository/unitofwork"
	"ambubot-be/pkg/database"
	"ambubot-be/pkg/embedding"
	"ambubot-be/pkg/rag/ingest"
)

type ingestOptions struct {
	path         string
	source       string
	chunkSize    int
	chunkOverlap int
	dryRun       bool
}

// resolve fills unset options from configuration.
func (o *ingestOptions) resolve(cfg *config.Config) error {
	if o.path == "" {
		o.path = cfg.Rag.CorpusPath
	}
	if o.path == "" {
		return errors.New("--path is required when CORPUS_PATH is not set")
	}
	if o.source == "" {
		o.source = cfg.Rag.CorpusSource
	}
	if o.chunkSize <= 0 {
		o.chunkSize = cfg.Rag.ChunkSize
	}
	if o.chunkOverlap < 0 {
		o.chunkOverlap = cfg.Rag.ChunkOverlap
	}
	if o.chunkOverlap >= o.chunkSize {
		return fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", o.chunkOverlap, o.chunkSize)
	}
	return nil
}

func runIngest(ctx context.Context, out io.Writer, opts *ingestOptions) error {
	cfg := config.Load()
	if err := opts.resolve(cfg); err != nil {
		return err
	}

	log := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	defer log.Sync()

	chunking := ingest.Config{ChunkSize: opts.chunkSize, ChunkOverlap: opts.chunkOverlap}

	if opts.dryRun {
		passages, err := ingest.NewIngestor(nil, nil, chunking, log).Split(ctx, opts.path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %d passages (dry run)\n", opts.path, len(passages))
		return nil
	}

	if cfg.Database.Connection == "" {
		return errors.New("DB_CONNECTION_STRING is not set")
	}
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db, &model.ReferencePassage{}); err != nil {
		return err
	}

	embedder, err := embedding.NewProvider(cfg.Ai.EmbeddingProvider, cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingAPIKey)
	if err != nil {
		return err
	}

	ingestor := ingest.NewIngestor(unitofwork.NewRepositoryFactory(db), embedder, chunking, log)
	report, err := ingestor.Ingest(ctx, opts.path, opts.source)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s -> %s: %d passages stored\n", report.Path, report.Source, report.Passages)
	return nil
}
