package service

import (
	"context"
	"strings"

	"ambubot-be/internal/dto"
	"ambubot-be/pkg/intake"
)

type ILocationService interface {
	FindFacilities(ctx context.Context, query string) (*dto.FacilityLookupResponse, error)
}

type locationService struct {
	resolver *intake.LocationResolver
}

func NewLocationService(resolver *intake.LocationResolver) ILocationService {
	return &locationService{resolver: resolver}
}

// FindFacilities runs the same lookup the dialogue performs at its last step.
// Upstream failures are reported in the result, not as an error.
func (s *locationService) FindFacilities(ctx context.Context, query string) (*dto.FacilityLookupResponse, error) {
	query = strings.TrimSpace(query)
	result := s.resolver.Resolve(ctx, query)

	return &dto.FacilityLookupResponse{
		Query:      query,
		Outcome:    string(result.Outcome),
		Facilities: result.Facilities,
		Message:    result.Message,
	}, nil
}
