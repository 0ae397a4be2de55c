package implementation_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambubot-be/internal/entity"
	"ambubot-be/internal/model"
	"ambubot-be/internal/repository/specification"
	"ambubot-be/internal/repository/unitofwork"
	"ambubot-be/pkg/database"
	"ambubot-be/pkg/embedding"
)

// axis returns a unit vector pointing along dimension i.
func axis(i int) []float32 {
	v := make([]float32, embedding.Dimensions)
	v[i] = 1
	return v
}

func TestReferencePassageRepositoryAgainstPostgres(t *testing.T) {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db, &model.ReferencePassage{}))

	ctx := context.Background()
	source := "integration-" + uuid.NewString()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	repo := uow.ReferencePassageRepository()
	t.Cleanup(func() { _ = repo.DeleteBySource(context.Background(), source) })

	t.Run("create in a transaction", func(t *testing.T) {
		require.NoError(t, uow.Begin(ctx))
		passages := []*entity.ReferencePassage{
			{Source: source, ChunkIndex: 0, Content: "Drink ginger tea for nausea.", EmbeddingValue: axis(0)},
			{Source: source, ChunkIndex: 1, Content: "Rest in a dark room for a headache.", EmbeddingValue: axis(1)},
		}
		require.NoError(t, uow.ReferencePassageRepository().CreateBulk(ctx, passages))
		require.NoError(t, uow.Commit())

		for _, p := range passages {
			assert.NotEqual(t, uuid.Nil, p.Id)
		}
	})

	t.Run("count by source", func(t *testing.T) {
		count, err := repo.Count(ctx, specification.BySource{Source: source})
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("similarity search honours threshold", func(t *testing.T) {
		hits, err := repo.SearchSimilarWithScore(ctx, axis(1), source, 3, 0.5)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, 1, hits[0].Passage.ChunkIndex)
		assert.InDelta(t, 1.0, hits[0].Similarity, 1e-4)
	})

	t.Run("find all is ordered by chunk", func(t *testing.T) {
		all, err := repo.FindAll(ctx, specification.BySource{Source: source})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, 0, all[0].ChunkIndex)
		assert.Equal(t, 1, all[1].ChunkIndex)
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.ReferencePassageRepository().CreateBulk(ctx, []*entity.ReferencePassage{
			{Source: source, ChunkIndex: 2, Content: "discarded", EmbeddingValue: axis(2)},
		}))
		require.NoError(t, uow.Rollback())

		count, err := repo.Count(ctx, specification.BySource{Source: source})
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("delete by source", func(t *testing.T) {
		require.NoError(t, repo.DeleteBySource(ctx, source))
		count, err := repo.Count(ctx, specification.BySource{Source: source})
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
