package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"

	"ambubot-be/internal/entity"
	"ambubot-be/internal/pkg/logger"
	"ambubot-be/internal/repository/unitofwork"
	"ambubot-be/pkg/embedding"
)

type Config struct {
	ChunkSize    int
	ChunkOverlap int
}

func DefaultConfig() Config {
	return Config{ChunkSize: 1000, ChunkOverlap: 200}
}

// Report summarises one ingestion run.
type Report struct {
	Source   string `json:"source"`
	Path     string `json:"path"`
	Passages int    `json:"passages"`
}

// Ingestor loads a reference document, splits it, embeds every chunk and
// replaces the source's passages in one transaction.
type Ingestor struct {
	factory  unitofwork.RepositoryFactory
	embedder embedding.EmbeddingProvider
	config   Config
	logger   logger.ILogger
}

func NewIngestor(factory unitofwork.RepositoryFactory, embedder embedding.EmbeddingProvider, config Config, log logger.ILogger) *Ingestor {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultConfig().ChunkSize
	}
	if config.ChunkOverlap < 0 || config.ChunkOverlap >= config.ChunkSize {
		config.ChunkOverlap = config.ChunkSize / 5
	}
	return &Ingestor{factory: factory, embedder: embedder, config: config, logger: log}
}

func (i *Ingestor) Ingest(ctx context.Context, path, source string) (*Report, error) {
	if source == "" {
		source = filepath.Base(path)
	}

	chunks, err := i.Split(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text extracted from %s", path)
	}

	passages := make([]*entity.ReferencePassage, 0, len(chunks))
	for idx, chunk := range chunks {
		res, err := i.embedder.Generate(ctx, chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", idx, err)
		}
		passages = append(passages, &entity.ReferencePassage{
			Source:         source,
			ChunkIndex:     idx,
			Content:        chunk,
			EmbeddingValue: res.Embedding.Values,
		})
	}

	if err := i.replace(ctx, source, passages); err != nil {
		return nil, err
	}

	i.logger.Info("CorpusIngestor", "Reference corpus ingested", map[string]interface{}{
		"source":   source,
		"path":     path,
		"passages": len(passages),
	})
	return &Report{Source: source, Path: path, Passages: len(passages)}, nil
}

// Split loads path (PDF by extension, plain text otherwise) and returns the
// non-blank chunks in document order.
func (i *Ingestor) Split(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference document: %w", err)
	}
	defer f.Close()

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(i.config.ChunkSize),
		textsplitter.WithChunkOverlap(i.config.ChunkOverlap),
	)

	var docs []schema.Document
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat reference document: %w", err)
		}
		docs, err = documentloaders.NewPDF(f, info.Size()).LoadAndSplit(ctx, splitter)
		if err != nil {
			return nil, fmt.Errorf("load pdf: %w", err)
		}
	} else {
		docs, err = documentloaders.NewText(f).LoadAndSplit(ctx, splitter)
		if err != nil {
			return nil, fmt.Errorf("load text: %w", err)
		}
	}

	chunks := make([]string, 0, len(docs))
	for _, d := range docs {
		if text := strings.TrimSpace(d.PageContent); text != "" {
			chunks = append(chunks, text)
		}
	}
	return chunks, nil
}

func (i *Ingestor) replace(ctx context.Context, source string, passages []*entity.ReferencePassage) (err error) {
	uow := i.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	repo := uow.ReferencePassageRepository()
	if err = repo.DeleteBySource(ctx, source); err != nil {
		return fmt.Errorf("delete old passages: %w", err)
	}
	if err = repo.CreateBulk(ctx, passages); err != nil {
		return fmt.Errorf("store passages: %w", err)
	}
	if err = uow.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
