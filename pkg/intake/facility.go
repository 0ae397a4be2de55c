package intake

import (
	"context"
	"strings"
	"time"

	"ambubot-be/internal/constant"
	"ambubot-be/internal/pkg/logger"
)

type FacilityOutcome string

const (
	OutcomeFound               FacilityOutcome = "found"
	OutcomeCoordinatesNotFound FacilityOutcome = "coordinates_not_found"
	OutcomeNoFacility          FacilityOutcome = "no_facility"
	OutcomeServiceError        FacilityOutcome = "service_error"
)

// FacilityResult is either up to three facility names or one explanatory message.
type FacilityResult struct {
	Outcome    FacilityOutcome `json:"outcome"`
	Facilities []string        `json:"facilities"`
	Message    string          `json:"message,omitempty"`
}

const (
	DefaultSearchRadiusMeters = 20000
	DefaultCountryQualifier   = "USA"
	maxFacilities             = 3
)

// DefaultTagFilters are the tag dimensions that each independently mark a
// point of interest as hospital-like.
func DefaultTagFilters() []TagFilter {
	return []TagFilter{
		{Key: "amenity", Value: "hospital"},
		{Key: "healthcare", Value: "hospital"},
		{Key: "building", Value: "hospital"},
		{Key: "urgent_care", Value: "yes"},
	}
}

func DefaultExcludedKeywords() []string {
	return []string{"child", "pediatric", "mental", "psychiatric", "rehabilitation"}
}

type ResolverSettings struct {
	RadiusMeters     int
	CountryQualifier string
	TagFilters       []TagFilter
	ExcludedKeywords []string
}

func DefaultResolverSettings() ResolverSettings {
	return ResolverSettings{
		RadiusMeters:     DefaultSearchRadiusMeters,
		CountryQualifier: DefaultCountryQualifier,
		TagFilters:       DefaultTagFilters(),
		ExcludedKeywords: DefaultExcludedKeywords(),
	}
}

// LocationResolver turns free-text location into nearby facility names.
type LocationResolver struct {
	geocoder Geocoder
	search   PoiSearch
	settings ResolverSettings
	timeout  time.Duration
	logger   logger.ILogger
}

func NewLocationResolver(geocoder Geocoder, search PoiSearch, settings ResolverSettings, timeout time.Duration, log logger.ILogger) *LocationResolver {
	if settings.RadiusMeters <= 0 {
		settings.RadiusMeters = DefaultSearchRadiusMeters
	}
	if settings.CountryQualifier == "" {
		settings.CountryQualifier = DefaultCountryQualifier
	}
	if len(settings.TagFilters) == 0 {
		settings.TagFilters = DefaultTagFilters()
	}
	if settings.ExcludedKeywords == nil {
		settings.ExcludedKeywords = DefaultExcludedKeywords()
	}
	return &LocationResolver{
		geocoder: geocoder,
		search:   search,
		settings: settings,
		timeout:  timeout,
		logger:   log,
	}
}

// Resolve never returns an error: every failure collapses into a result message.
func (r *LocationResolver) Resolve(ctx context.Context, location string) FacilityResult {
	location = strings.TrimSpace(location)

	coords, err := r.geocode(ctx, location)
	if err != nil {
		return r.failed("geocoder", location, err)
	}
	if coords == nil {
		r.logger.Info("LocationResolver", "No coordinates for location", map[string]interface{}{
			"location": location,
		})
		return FacilityResult{
			Outcome:    OutcomeCoordinatesNotFound,
			Facilities: []string{},
			Message:    constant.MsgCoordinatesNotFound,
		}
	}

	callCtx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	found, err := r.search.Search(callCtx, coords.Latitude, coords.Longitude, r.settings.RadiusMeters, r.settings.TagFilters)
	if err != nil {
		return r.failed("poi_search", location, err)
	}

	names := FilterFacilities(found, r.settings.ExcludedKeywords)
	if len(names) == 0 {
		r.logger.Info("LocationResolver", "No suitable facility nearby", map[string]interface{}{
			"location":   location,
			"candidates": len(found),
		})
		return FacilityResult{
			Outcome:    OutcomeNoFacility,
			Facilities: []string{},
			Message:    constant.MsgNoSuitableFacility,
		}
	}
	if len(names) > maxFacilities {
		names = names[:maxFacilities]
	}

	r.logger.Debug("LocationResolver", "Facilities resolved", map[string]interface{}{
		"location":   location,
		"candidates": len(found),
		"returned":   len(names),
	})
	return FacilityResult{Outcome: OutcomeFound, Facilities: names}
}

// geocode tries the raw text, then once more with the country qualifier when
// the text looks like "city, region".
func (r *LocationResolver) geocode(ctx context.Context, location string) (*Coordinates, error) {
	coords, err := r.geocodeOnce(ctx, location)
	if err != nil || coords != nil {
		return coords, err
	}
	if !strings.Contains(location, ",") {
		return nil, nil
	}
	return r.geocodeOnce(ctx, location+", "+r.settings.CountryQualifier)
}

func (r *LocationResolver) geocodeOnce(ctx context.Context, text string) (*Coordinates, error) {
	callCtx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	return r.geocoder.Resolve(callCtx, text)
}

func (r *LocationResolver) failed(service, location string, err error) FacilityResult {
	se := serviceFailure(service, err)
	r.logger.Error("LocationResolver", "Facility lookup failed", map[string]interface{}{
		"location": location,
		"kind":     string(se.Kind),
		"error":    se.Error(),
	})
	return FacilityResult{
		Outcome:    OutcomeServiceError,
		Facilities: []string{},
		Message:    constant.MsgFacilityLookupError,
	}
}

// FilterFacilities drops facilities whose display name contains any excluded
// keyword (case-insensitive) and returns the remaining names in input order.
// Blank names display as UnnamedFacility.
func FilterFacilities(facilities []Facility, excluded []string) []string {
	names := make([]string, 0, len(facilities))
	for _, f := range facilities {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			name = constant.UnnamedFacility
		}
		if containsAny(strings.ToLower(name), excluded) {
			continue
		}
		names = append(names, name)
	}
	return names
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
