package implementation

import (
	"context"

	"ambubot-be/internal/entity"
	"ambubot-be/internal/mapper"
	"ambubot-be/internal/model"
	"ambubot-be/internal/repository/contract"
	"ambubot-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

const insertBatchSize = 100

type ReferencePassageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReferencePassageMapper
}

func NewReferencePassageRepository(db *gorm.DB) contract.ReferencePassageRepository {
	return &ReferencePassageRepositoryImpl{
		db:     db,
		mapper: mapper.NewReferencePassageMapper(),
	}
}

func (r *ReferencePassageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ReferencePassageRepositoryImpl) CreateBulk(ctx context.Context, passages []*entity.ReferencePassage) error {
	if len(passages) == 0 {
		return nil
	}
	models := r.mapper.ToModels(passages)
	if err := r.db.WithContext(ctx).CreateInBatches(models, insertBatchSize).Error; err != nil {
		return err
	}
	for i, m := range models {
		*passages[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ReferencePassageRepositoryImpl) DeleteBySource(ctx context.Context, source string) error {
	return r.db.WithContext(ctx).Where("source = ?", source).Delete(&model.ReferencePassage{}).Error
}

func (r *ReferencePassageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ReferencePassage, error) {
	var models []*model.ReferencePassage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Order("chunk_index ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ReferencePassageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ReferencePassage{}).Count(&count).Error
	return count, err
}

func (r *ReferencePassageRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, source string, limit int, threshold float64) ([]*contract.ScoredPassage, error) {
	if limit <= 0 {
		limit = 3
	}

	// Cosine distance in pgvector is 1 - cosine_similarity
	type result struct {
		model.ReferencePassage
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("reference_passages").
		Select("reference_passages.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("source = ?", source).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPassage, len(results))
	for i := range results {
		scored[i] = &contract.ScoredPassage{
			Passage:    r.mapper.ToEntity(&results[i].ReferencePassage),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}
