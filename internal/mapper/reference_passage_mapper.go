package mapper

import (
	"ambubot-be/internal/entity"
	"ambubot-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ReferencePassageMapper struct{}

func NewReferencePassageMapper() *ReferencePassageMapper {
	return &ReferencePassageMapper{}
}

func (m *ReferencePassageMapper) ToEntity(p *model.ReferencePassage) *entity.ReferencePassage {
	if p == nil {
		return nil
	}
	return &entity.ReferencePassage{
		Id:             p.Id,
		Source:         p.Source,
		ChunkIndex:     p.ChunkIndex,
		Content:        p.Content,
		EmbeddingValue: p.EmbeddingValue.Slice(),
		CreatedAt:      p.CreatedAt,
	}
}

func (m *ReferencePassageMapper) ToModel(p *entity.ReferencePassage) *model.ReferencePassage {
	if p == nil {
		return nil
	}
	return &model.ReferencePassage{
		Id:             p.Id,
		Source:         p.Source,
		ChunkIndex:     p.ChunkIndex,
		Content:        p.Content,
		EmbeddingValue: pgvector.NewVector(p.EmbeddingValue),
		CreatedAt:      p.CreatedAt,
	}
}

func (m *ReferencePassageMapper) ToEntities(passages []*model.ReferencePassage) []*entity.ReferencePassage {
	entities := make([]*entity.ReferencePassage, len(passages))
	for i, p := range passages {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *ReferencePassageMapper) ToModels(passages []*entity.ReferencePassage) []*model.ReferencePassage {
	models := make([]*model.ReferencePassage, len(passages))
	for i, p := range passages {
		models[i] = m.ToModel(p)
	}
	return models
}
