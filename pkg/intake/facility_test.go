package intake

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ambubot-be/internal/constant"
	"ambubot-be/internal/pkg/logger"
)

func TestFilterFacilities(t *testing.T) {
	tests := []struct {
		name  string
		input []Facility
		want  []string
	}{
		{
			name:  "drops pediatric and psychiatric",
			input: named("City Pediatric Hospital", "City General Hospital", "St. Mary's Psychiatric Center"),
			want:  []string{"City General Hospital"},
		},
		{
			name:  "case-insensitive substring",
			input: named("CHILDREN'S MEDICAL", "Mental Health Clinic", "Eastside Rehabilitation", "Mercy Hospital"),
			want:  []string{"Mercy Hospital"},
		},
		{
			name:  "unnamed kept with display name",
			input: []Facility{{Name: ""}, {Name: "Bay Urgent Care"}},
			want:  []string{constant.UnnamedFacility, "Bay Urgent Care"},
		},
		{
			name:  "order preserved",
			input: named("Z Hospital", "A Hospital", "M Hospital", "B Hospital"),
			want:  []string{"Z Hospital", "A Hospital", "M Hospital", "B Hospital"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterFacilities(tt.input, DefaultExcludedKeywords()))
		})
	}
}

func newTestResolver(geo *fakeGeocoder, poi *fakePoiSearch) *LocationResolver {
	return NewLocationResolver(geo, poi, DefaultResolverSettings(), time.Second, logger.NewNopLogger())
}

func TestLocationResolverCoordinatesNotFound(t *testing.T) {
	geo := &fakeGeocoder{known: map[string]Coordinates{}}
	poi := &fakePoiSearch{}

	got := newTestResolver(geo, poi).Resolve(context.Background(), "Atlantis")

	assert.Equal(t, OutcomeCoordinatesNotFound, got.Outcome)
	assert.Equal(t, constant.MsgCoordinatesNotFound, got.Message)
	assert.Empty(t, got.Facilities)
	assert.Equal(t, 0, poi.calls)
	assert.Equal(t, []string{"Atlantis"}, geo.queries, "no widening retry without a comma")
}

func TestLocationResolverWideningRetry(t *testing.T) {
	geo := &fakeGeocoder{known: map[string]Coordinates{
		"Springfield, IL, USA": {Latitude: 39.78, Longitude: -89.65},
	}}
	poi := &fakePoiSearch{facilities: named("Memorial Medical Center")}

	got := newTestResolver(geo, poi).Resolve(context.Background(), "Springfield, IL")

	assert.Equal(t, OutcomeFound, got.Outcome)
	assert.Equal(t, []string{"Memorial Medical Center"}, got.Facilities)
	assert.Equal(t, []string{"Springfield, IL", "Springfield, IL, USA"}, geo.queries)
}

func TestLocationResolverSearch(t *testing.T) {
	geo := &fakeGeocoder{known: map[string]Coordinates{"Boston, MA": {Latitude: 42.36, Longitude: -71.06}}}
	poi := &fakePoiSearch{facilities: named(
		"Boston Children's Hospital",
		"Massachusetts General Hospital",
		"McLean Psychiatric Hospital",
		"Tufts Medical Center",
		"Beth Israel Deaconess",
		"Brigham and Women's Hospital",
	)}

	got := newTestResolver(geo, poi).Resolve(context.Background(), "Boston, MA")

	assert.Equal(t, OutcomeFound, got.Outcome)
	assert.Equal(t, []string{"Massachusetts General Hospital", "Tufts Medical Center", "Beth Israel Deaconess"}, got.Facilities)
	assert.Equal(t, DefaultSearchRadiusMeters, poi.radius)
	assert.Equal(t, DefaultTagFilters(), poi.filters)
}

func TestLocationResolverNoFacility(t *testing.T) {
	geo := &fakeGeocoder{known: map[string]Coordinates{"Nowhere": {}}}

	for name, poi := range map[string]*fakePoiSearch{
		"empty union":        {facilities: nil},
		"everything dropped": {facilities: named("Kids Pediatric Center", "Rehabilitation Institute")},
	} {
		t.Run(name, func(t *testing.T) {
			got := newTestResolver(geo, poi).Resolve(context.Background(), "Nowhere")
			assert.Equal(t, OutcomeNoFacility, got.Outcome)
			assert.Equal(t, constant.MsgNoSuitableFacility, got.Message)
			assert.Empty(t, got.Facilities)
		})
	}
}

func TestLocationResolverServiceErrors(t *testing.T) {
	t.Run("geocoder", func(t *testing.T) {
		poi := &fakePoiSearch{}
		got := newTestResolver(&fakeGeocoder{err: errUpstream}, poi).Resolve(context.Background(), "Boston, MA")
		assert.Equal(t, OutcomeServiceError, got.Outcome)
		assert.Equal(t, constant.MsgFacilityLookupError, got.Message)
		assert.Equal(t, 0, poi.calls)
	})

	t.Run("poi search", func(t *testing.T) {
		geo := &fakeGeocoder{known: map[string]Coordinates{"Boston": {}}}
		got := newTestResolver(geo, &fakePoiSearch{err: errUpstream}).Resolve(context.Background(), "Boston")
		assert.Equal(t, OutcomeServiceError, got.Outcome)
		assert.Equal(t, constant.MsgFacilityLookupError, got.Message)
	})
}
