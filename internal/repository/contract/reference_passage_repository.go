package contract

import (
	"context"

	"ambubot-be/internal/entity"
	"ambubot-be/internal/repository/specification"
)

// ScoredPassage wraps ReferencePassage with its cosine similarity to the query.
type ScoredPassage struct {
	Passage    *entity.ReferencePassage
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ReferencePassageRepository interface {
	CreateBulk(ctx context.Context, passages []*entity.ReferencePassage) error
	DeleteBySource(ctx context.Context, source string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ReferencePassage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns up to limit passages of source whose
	// similarity is at least threshold, best first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, source string, limit int, threshold float64) ([]*ScoredPassage, error)
}
