package nats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambubot-be/pkg/events"
)

func TestEnvelopeRoundTripKeepsTypeAndTime(t *testing.T) {
	at := time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC)
	data, err := encode(events.NewIntakeCompleted("s-1", 4, true, "no_facility", 0, at))
	require.NoError(t, err)

	got, err := decode(data)

	require.NoError(t, err)
	assert.Equal(t, events.TypeIntakeCompleted, got.Type)
	assert.True(t, at.Equal(got.OccurredAt))
	assert.Equal(t, true, got.Data["advice_fallback"])
}

func TestDecodeRejectsUntypedMessages(t *testing.T) {
	_, err := decode([]byte(`{"data":{}}`))
	assert.Error(t, err)

	_, err = decode([]byte(`not json`))
	assert.Error(t, err)
}
