package embedding

import (
	"context"
	"fmt"
	"math"
)

// Dimensions is the vector width stored in the corpus table. Every provider
// must return vectors of this size.
const Dimensions = 768

// Task types understood by providers that distinguish them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

// NewProvider picks the backend named by provider.
func NewProvider(provider, baseURL, model, apiKey string) (EmbeddingProvider, error) {
	switch provider {
	case "ollama", "":
		return NewOllamaProvider(baseURL, model), nil
	case "gemini":
		if apiKey == "" {
			return nil, fmt.Errorf("gemini embeddings require an api key")
		}
		return NewGeminiProvider(apiKey), nil
	case "jina":
		if apiKey == "" {
			return nil, fmt.Errorf("jina embeddings require an api key")
		}
		return NewJinaProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

// normalizeVector normalizes a vector to unit length so that pgvector's cosine
// distance compares directions only.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}

func checkDimensions(provider string, values []float32) error {
	if len(values) != Dimensions {
		return fmt.Errorf("%s embedding has %d dimensions, want %d", provider, len(values), Dimensions)
	}
	return nil
}
