package intake

import "context"

// Classifier answers a yes/no question about free text. Implementations must be
// stateless per call (no conversational memory, no document grounding) and run
// at temperature zero.
type Classifier interface {
	Classify(ctx context.Context, systemPrompt, query string) (string, error)
}

// GenerateOptions tunes a single Generator call.
type GenerateOptions struct {
	Temperature float64
	// Grounding enables retrieval against the pre-ingested reference corpus.
	Grounding          bool
	RetrievalThreshold float64
	RetrievalK         int
}

// Generator is a prompted text completion service, optionally grounded.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, query string, opts GenerateOptions) (string, error)
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder maps free text to coordinates. A nil result with a nil error means
// the service had no match.
type Geocoder interface {
	Resolve(ctx context.Context, text string) (*Coordinates, error)
}

// TagFilter is one key=value tag that marks a point of interest as hospital-like.
type TagFilter struct {
	Key   string
	Value string
}

type Facility struct {
	Name string            `json:"name"`
	Tags map[string]string `json:"tags,omitempty"`
}

// PoiSearch returns the union of facilities matching any of the filters within
// radiusMeters of the point. Deduplication is the service's job.
type PoiSearch interface {
	Search(ctx context.Context, latitude, longitude float64, radiusMeters int, filters []TagFilter) ([]Facility, error)
}
