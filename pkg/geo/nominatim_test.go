package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambubot-be/pkg/intake"
)

func TestNominatimResolve(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		want      *intake.Coordinates
		wantErr   bool
		malformed bool
	}{
		{name: "match", status: 200, body: `[{"lat":"42.3601","lon":"-71.0589","display_name":"Boston"}]`, want: &intake.Coordinates{Latitude: 42.3601, Longitude: -71.0589}},
		{name: "no match", status: 200, body: `[]`},
		{name: "bad coordinates", status: 200, body: `[{"lat":"north","lon":"west"}]`, wantErr: true, malformed: true},
		{name: "not json", status: 200, body: `<html>`, wantErr: true, malformed: true},
		{name: "rate limited", status: 429, body: `slow down`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/search", r.URL.Path)
				assert.Equal(t, "Boston, MA", r.URL.Query().Get("q"))
				assert.Equal(t, "json", r.URL.Query().Get("format"))
				assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewNominatim(srv.URL, "").Resolve(context.Background(), "Boston, MA")

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.malformed, errors.Is(err, intake.ErrMalformedOutput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
