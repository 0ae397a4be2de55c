package intake

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var errUpstream = errors.New("upstream unavailable")

// fakeClassifier answers from a function of the query and records every call.
type fakeClassifier struct {
	mu      sync.Mutex
	answer  func(system, query string) (string, error)
	queries []string
}

func classifierSaying(verdict string) *fakeClassifier {
	return &fakeClassifier{answer: func(string, string) (string, error) { return verdict, nil }}
}

func (f *fakeClassifier) Classify(_ context.Context, system, query string) (string, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.answer(system, query)
}

func (f *fakeClassifier) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type generateCall struct {
	System string
	Query  string
	Opts   GenerateOptions
}

// fakeGenerator returns canned text keyed by whether grounding was requested.
type fakeGenerator struct {
	mu        sync.Mutex
	followUps string
	advice    string
	err       error
	history   []generateCall
}

func (f *fakeGenerator) Generate(_ context.Context, system, query string, opts GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, generateCall{System: system, Query: query, Opts: opts})
	if f.err != nil {
		return "", f.err
	}
	if opts.Grounding {
		return f.advice, nil
	}
	return f.followUps, nil
}

func (f *fakeGenerator) calls() []generateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]generateCall{}, f.history...)
}

// fakeGeocoder resolves texts present in known; everything else has no match.
type fakeGeocoder struct {
	known   map[string]Coordinates
	err     error
	queries []string
}

func (f *fakeGeocoder) Resolve(_ context.Context, text string) (*Coordinates, error) {
	f.queries = append(f.queries, text)
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.known[text]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type fakePoiSearch struct {
	facilities []Facility
	err        error
	calls      int
	radius     int
	filters    []TagFilter
}

func (f *fakePoiSearch) Search(_ context.Context, _, _ float64, radiusMeters int, filters []TagFilter) ([]Facility, error) {
	f.calls++
	f.radius = radiusMeters
	f.filters = filters
	if f.err != nil {
		return nil, f.err
	}
	return f.facilities, nil
}

func named(names ...string) []Facility {
	out := make([]Facility, 0, len(names))
	for _, n := range names {
		out = append(out, Facility{Name: n})
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
