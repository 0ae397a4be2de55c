package controller

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"ambubot-be/internal/dto"
	"ambubot-be/internal/pkg/serverutils"
)

type stubLocationService struct{ query string }

func (s *stubLocationService) FindFacilities(_ context.Context, query string) (*dto.FacilityLookupResponse, error) {
	s.query = query
	return &dto.FacilityLookupResponse{Query: query, Outcome: "found", Facilities: []string{"General Hospital"}}, nil
}

func TestLocationControllerFindFacilities(t *testing.T) {
	svc := &stubLocationService{}
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewLocationController(svc).RegisterRoutes(app.Group("/api"))

	status, body := do(t, app, "GET", "/api/location/v1/facilities?q=Boston%2C%20MA", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "Boston, MA", svc.query)
	assert.JSONEq(t, `{"query":"Boston, MA","outcome":"found","facilities":["General Hospital"]}`, string(body.Data))

	status, _ = do(t, app, "GET", "/api/location/v1/facilities", "")
	assert.Equal(t, 400, status)
}
