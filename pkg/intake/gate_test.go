package intake

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambubot-be/internal/pkg/logger"
)

func TestGateEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		err        error
		wantAccept bool
		wantKind   ErrorKind
	}{
		{name: "yes", raw: "Yes", wantAccept: true},
		{name: "no", raw: "No", wantAccept: false},
		{name: "whitespace and case", raw: "  YES \n", wantAccept: true},
		{name: "extra words", raw: "Yes, it is.", wantKind: KindMalformedServiceOutput},
		{name: "empty", raw: "", wantKind: KindMalformedServiceOutput},
		{name: "service failure", err: errUpstream, wantKind: KindServiceUnavailable},
		{name: "adapter flags malformed", err: fmt.Errorf("ollama: %w", ErrMalformedOutput), wantKind: KindMalformedServiceOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := &fakeClassifier{answer: func(string, string) (string, error) { return tt.raw, tt.err }}
			gate := NewGate(classifier, time.Second, logger.NewNopLogger())

			v := gate.Evaluate(context.Background(), HealthRelated("headache"))

			assert.Equal(t, tt.wantAccept, v.Accepted)
			if tt.wantKind == "" {
				assert.Nil(t, v.Err)
				return
			}
			require.NotNil(t, v.Err)
			assert.Equal(t, tt.wantKind, v.Err.Kind)
			assert.Equal(t, tt.wantKind, KindOf(v.Err))
		})
	}
}

func TestGatePrompts(t *testing.T) {
	classifier := classifierSaying("yes")
	gate := NewGate(classifier, time.Second, logger.NewNopLogger())

	assert.True(t, gate.IsAcceptable(context.Background(), HealthRelated("sharp")))
	assert.True(t, gate.IsAcceptable(context.Background(), AnswersQuestion("Is it throbbing?", "on and off")))

	require.Equal(t, 2, classifier.calls())
	assert.Contains(t, classifier.queries[0], "User input: 'sharp'")
	assert.Contains(t, classifier.queries[1], "Follow-up Question: Is it throbbing?")
	assert.Contains(t, classifier.queries[1], "User Answer: on and off")
}

func TestGateIsIdempotentForDeterministicClassifier(t *testing.T) {
	classifier := &fakeClassifier{answer: func(_, query string) (string, error) {
		if containsFold(query, "weather") {
			return "No", nil
		}
		return "Yes", nil
	}}
	gate := NewGate(classifier, time.Second, logger.NewNopLogger())

	for _, check := range []Check{HealthRelated("what's the weather"), HealthRelated("fever"), AnswersQuestion("Any chills?", "no")} {
		first := gate.IsAcceptable(context.Background(), check)
		second := gate.IsAcceptable(context.Background(), check)
		assert.Equal(t, first, second, check.Kind.String())
	}
	assert.Equal(t, 6, classifier.calls(), "gate must not cache")
}

func TestGateTimeoutFailsClosed(t *testing.T) {
	slow := classifierFunc(func(ctx context.Context, _, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	gate := NewGate(slow, 10*time.Millisecond, logger.NewNopLogger())

	v := gate.Evaluate(context.Background(), HealthRelated("cough"))

	assert.False(t, v.Accepted)
	require.NotNil(t, v.Err)
	assert.Equal(t, KindServiceUnavailable, v.Err.Kind)
}

type classifierFunc func(ctx context.Context, system, query string) (string, error)

func (f classifierFunc) Classify(ctx context.Context, system, query string) (string, error) {
	return f(ctx, system, query)
}
