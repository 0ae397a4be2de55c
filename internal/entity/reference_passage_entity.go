package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReferencePassage struct {
	Id             uuid.UUID
	Source         string
	ChunkIndex     int
	Content        string
	EmbeddingValue []float32
	CreatedAt      time.Time
}
