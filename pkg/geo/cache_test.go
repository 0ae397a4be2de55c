package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambubot-be/internal/pkg/logger"
	"ambubot-be/pkg/intake"
)

type mapStore struct {
	data    map[string]string
	ttl     time.Duration
	readErr error
}

func (m *mapStore) Get(_ context.Context, key string) (string, bool, error) {
	if m.readErr != nil {
		return "", false, m.readErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.data[key] = value
	m.ttl = ttl
	return nil
}

type countingGeocoder struct {
	result *intake.Coordinates
	err    error
	calls  int
}

func (c *countingGeocoder) Resolve(context.Context, string) (*intake.Coordinates, error) {
	c.calls++
	return c.result, c.err
}

func TestCachedGeocoderHitSkipsUpstream(t *testing.T) {
	store := &mapStore{data: map[string]string{}}
	upstream := &countingGeocoder{result: &intake.Coordinates{Latitude: 51.5, Longitude: -0.12}}
	c := NewCachedGeocoder(upstream, store, time.Hour, logger.NewNopLogger())

	first, err := c.Resolve(context.Background(), "London, UK")
	require.NoError(t, err)
	second, err := c.Resolve(context.Background(), "  london,   uk ")
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, time.Hour, store.ttl)
}

func TestCachedGeocoderDoesNotCacheMisses(t *testing.T) {
	store := &mapStore{data: map[string]string{}}
	upstream := &countingGeocoder{}
	c := NewCachedGeocoder(upstream, store, time.Hour, logger.NewNopLogger())

	for i := 0; i < 2; i++ {
		got, err := c.Resolve(context.Background(), "Atlantis")
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, 2, upstream.calls)
	assert.Empty(t, store.data)
}

func TestCachedGeocoderSurvivesStoreOutage(t *testing.T) {
	store := &mapStore{data: map[string]string{}, readErr: errors.New("connection refused")}
	upstream := &countingGeocoder{result: &intake.Coordinates{Latitude: 1, Longitude: 2}}
	c := NewCachedGeocoder(upstream, store, time.Hour, logger.NewNopLogger())

	got, err := c.Resolve(context.Background(), "Paris")

	require.NoError(t, err)
	assert.Equal(t, &intake.Coordinates{Latitude: 1, Longitude: 2}, got)
}

func TestCachedGeocoderPropagatesUpstreamError(t *testing.T) {
	upstream := &countingGeocoder{err: errors.New("timeout")}
	c := NewCachedGeocoder(upstream, &mapStore{data: map[string]string{}}, time.Hour, logger.NewNopLogger())

	_, err := c.Resolve(context.Background(), "Paris")

	assert.Error(t, err)
}
