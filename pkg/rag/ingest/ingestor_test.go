package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambubot-be/internal/entity"
	"ambubot-be/internal/pkg/logger"
	"ambubot-be/internal/repository/contract"
	"ambubot-be/internal/repository/specification"
	"ambubot-be/internal/repository/unitofwork"
	"ambubot-be/pkg/embedding"
)

type memoryPassages struct {
	stored  map[string][]*entity.ReferencePassage
	failAdd bool
}

func (m *memoryPassages) CreateBulk(_ context.Context, passages []*entity.ReferencePassage) error {
	if m.failAdd {
		return errors.New("insert failed")
	}
	for _, p := range passages {
		m.stored[p.Source] = append(m.stored[p.Source], p)
	}
	return nil
}

func (m *memoryPassages) DeleteBySource(_ context.Context, source string) error {
	delete(m.stored, source)
	return nil
}

func (m *memoryPassages) FindAll(context.Context, ...specification.Specification) ([]*entity.ReferencePassage, error) {
	return nil, nil
}

func (m *memoryPassages) Count(context.Context, ...specification.Specification) (int64, error) {
	return 0, nil
}

func (m *memoryPassages) SearchSimilarWithScore(context.Context, []float32, string, int, float64) ([]*contract.ScoredPassage, error) {
	return nil, nil
}

type memoryUnit struct {
	repo       *memoryPassages
	committed  bool
	rolledBack bool
}

func (u *memoryUnit) Begin(context.Context) error { return nil }
func (u *memoryUnit) Commit() error               { u.committed = true; return nil }
func (u *memoryUnit) Rollback() error             { u.rolledBack = true; return nil }
func (u *memoryUnit) ReferencePassageRepository() contract.ReferencePassageRepository {
	return u.repo
}

type memoryFactory struct{ unit *memoryUnit }

func (f memoryFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.unit }

type constantEmbedder struct{}

func (constantEmbedder) Generate(context.Context, string, string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: make([]float32, embedding.Dimensions)}}, nil
}

func writeCorpus(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Headache: rest in a quiet dark room and drink plenty of water.\n\n")
	}
	path := filepath.Join(t.TempDir(), "home_remedies.txt")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestIngestorSplit(t *testing.T) {
	ing := NewIngestor(nil, constantEmbedder{}, Config{ChunkSize: 200, ChunkOverlap: 20}, logger.NewNopLogger())

	chunks, err := ing.Split(context.Background(), writeCorpus(t))

	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 200)
		assert.NotEmpty(t, c)
	}
}

func TestIngestorReplacesSource(t *testing.T) {
	repo := &memoryPassages{stored: map[string][]*entity.ReferencePassage{
		"home_remedies": {{Source: "home_remedies", Content: "stale"}},
	}}
	unit := &memoryUnit{repo: repo}
	ing := NewIngestor(memoryFactory{unit: unit}, constantEmbedder{}, Config{ChunkSize: 200, ChunkOverlap: 20}, logger.NewNopLogger())

	report, err := ing.Ingest(context.Background(), writeCorpus(t), "home_remedies")

	require.NoError(t, err)
	assert.True(t, unit.committed)
	assert.False(t, unit.rolledBack)
	stored := repo.stored["home_remedies"]
	require.Len(t, stored, report.Passages)
	for i, p := range stored {
		assert.Equal(t, i, p.ChunkIndex)
		assert.NotEqual(t, "stale", p.Content)
	}
}

func TestIngestorRollsBackOnStoreFailure(t *testing.T) {
	unit := &memoryUnit{repo: &memoryPassages{stored: map[string][]*entity.ReferencePassage{}, failAdd: true}}
	ing := NewIngestor(memoryFactory{unit: unit}, constantEmbedder{}, Config{ChunkSize: 200, ChunkOverlap: 20}, logger.NewNopLogger())

	_, err := ing.Ingest(context.Background(), writeCorpus(t), "")

	assert.ErrorContains(t, err, "store passages")
	assert.True(t, unit.rolledBack)
	assert.False(t, unit.committed)
}

func TestIngestorMissingFile(t *testing.T) {
	ing := NewIngestor(nil, constantEmbedder{}, DefaultConfig(), logger.NewNopLogger())

	_, err := ing.Ingest(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), "x")

	assert.ErrorContains(t, err, "open reference document")
}
