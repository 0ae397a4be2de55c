package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ambubot-be/pkg/intake"
)

const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// Overpass searches OpenStreetMap nodes around a point.
type Overpass struct {
	Endpoint  string
	UserAgent string
	Client    *http.Client
}

var _ intake.PoiSearch = (*Overpass)(nil)

func NewOverpass(endpoint, userAgent string) *Overpass {
	if endpoint == "" {
		endpoint = DefaultOverpassURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Overpass{
		Endpoint:  endpoint,
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type overpassResponse struct {
	Elements []struct {
		Type string            `json:"type"`
		ID   int64             `json:"id"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// BuildQuery renders one union block with an around-filter per tag.
func BuildQuery(latitude, longitude float64, radiusMeters int, filters []intake.TagFilter) string {
	lat := strconv.FormatFloat(latitude, 'f', -1, 64)
	lon := strconv.FormatFloat(longitude, 'f', -1, 64)

	var q strings.Builder
	q.WriteString("[out:json][timeout:25];\n(\n")
	for _, f := range filters {
		fmt.Fprintf(&q, "  node[%q=%q](around:%d,%s,%s);\n", f.Key, f.Value, radiusMeters, lat, lon)
	}
	q.WriteString(");\nout center;")
	return q.String()
}

// Search returns facilities in the order Overpass lists them. Overpass already
// deduplicates the union by element identity.
func (o *Overpass) Search(ctx context.Context, latitude, longitude float64, radiusMeters int, filters []intake.TagFilter) ([]intake.Facility, error) {
	form := url.Values{}
	form.Set("data", BuildQuery(latitude, longitude, radiusMeters, filters))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", o.UserAgent)

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed overpassResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: overpass body: %v", intake.ErrMalformedOutput, err)
	}

	facilities := make([]intake.Facility, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		facilities = append(facilities, intake.Facility{Name: el.Tags["name"], Tags: el.Tags})
	}
	return facilities, nil
}
