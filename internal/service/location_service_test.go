package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambubot-be/internal/pkg/logger"
	"ambubot-be/pkg/intake"
)

func TestLocationServiceFindFacilities(t *testing.T) {
	resolver := intake.NewLocationResolver(fixedGeocoder{}, fixedPoi{}, intake.DefaultResolverSettings(), time.Second, logger.NewNopLogger())
	svc := NewLocationService(resolver)

	res, err := svc.FindFacilities(context.Background(), "  Boston, MA ")

	require.NoError(t, err)
	assert.Equal(t, "Boston, MA", res.Query)
	assert.Equal(t, "found", res.Outcome)
	assert.Equal(t, []string{"Massachusetts General Hospital"}, res.Facilities)
}
