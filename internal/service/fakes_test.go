package service

import (
	"context"
	"sync"
	"time"

	"ambubot-be/internal/pkg/logger"
	"ambubot-be/internal/repository/memory"
	"ambubot-be/pkg/events"
	"ambubot-be/pkg/intake"
)

type yesClassifier struct {
	// gate, when set, blocks each call until a value is received
	gate chan struct{}
	// entered is signalled when a blocked call starts
	entered chan struct{}
}

func (c *yesClassifier) Classify(ctx context.Context, _, _ string) (string, error) {
	if c.gate != nil {
		c.entered <- struct{}{}
		select {
		case <-c.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "Yes", nil
}

type cannedGenerator struct{}

func (cannedGenerator) Generate(_ context.Context, _, _ string, opts intake.GenerateOptions) (string, error) {
	if opts.Grounding {
		return "Rest and drink fluids.", nil
	}
	return "Is the pain throbbing?", nil
}

type fixedGeocoder struct{}

func (fixedGeocoder) Resolve(context.Context, string) (*intake.Coordinates, error) {
	return &intake.Coordinates{Latitude: 42.36, Longitude: -71.06}, nil
}

type fixedPoi struct{}

func (fixedPoi) Search(context.Context, float64, float64, int, []intake.TagFilter) ([]intake.Facility, error) {
	return []intake.Facility{{Name: "Massachusetts General Hospital"}, {Name: "Boston Children's Hospital"}}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event{}, p.events...)
}

func newTestMachine(classifier intake.Classifier) *intake.Machine {
	log := logger.NewNopLogger()
	timeout := time.Second
	return intake.NewMachine(
		intake.NewGate(classifier, timeout, log),
		intake.NewFollowUpGenerator(cannedGenerator{}, timeout, log),
		intake.NewAdviceSynthesizer(cannedGenerator{}, intake.DefaultAdviceSettings(), timeout, log),
		intake.NewLocationResolver(fixedGeocoder{}, fixedPoi{}, intake.DefaultResolverSettings(), timeout, log),
		log,
	)
}

func newTestIntakeService(classifier intake.Classifier, pub events.Publisher) IIntakeService {
	return NewIntakeService(
		newTestMachine(classifier),
		memory.NewSessionRepository(time.Minute, time.Minute),
		pub,
		logger.NewNopLogger(),
	)
}
