package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL:    srv.URL,
		APIKey:     "secret",
		HTTPClient: srv.Client(),
	})
}

func TestFetchCitySendsBearerAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cities/paris", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"paris","coordinates":[48.85,2.35],"population":2148000,"knownFor":["Eiffel Tower"]}`))
	})

	rec, err := c.FetchCity(context.Background(), "paris")
	require.NoError(t, err)
	require.NotNil(t, rec.Coordinates)
	assert.Equal(t, 48.85, rec.Coordinates[0])
	require.NotNil(t, rec.Population)
	assert.Equal(t, int64(2148000), *rec.Population)
	assert.Equal(t, []string{"Eiffel Tower"}, rec.KnownFor)
}

func TestFetchCityPartialRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"paris"}`))
	})

	rec, err := c.FetchCity(context.Background(), "paris")
	require.NoError(t, err)
	assert.Nil(t, rec.Coordinates)
	assert.Nil(t, rec.Population)
	assert.Nil(t, rec.KnownFor)
}

func TestFetchCityClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Outcome
	}{
		{"not found status", http.StatusNotFound, `{"error":"nope"}`, OutcomeNotFound},
		{"unauthorized", http.StatusUnauthorized, ``, OutcomeNotFound},
		{"empty body", http.StatusOK, ``, OutcomeNotFound},
		{"null body", http.StatusOK, `null`, OutcomeNotFound},
		{"server error", http.StatusBadGateway, ``, OutcomeUnavailable},
		{"rate limited", http.StatusTooManyRequests, ``, OutcomeUnavailable},
		{"malformed json", http.StatusOK, `{"id":`, OutcomeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.FetchCity(context.Background(), "paris")
			require.Error(t, err)
			assert.Equal(t, tt.want, Classify(err))
		})
	}
}

func TestFetchCityTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url})
	_, err := c.FetchCity(context.Background(), "paris")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, OutcomeUnavailable, Classify(err))
}

func TestFetchWeather(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Outcome
		entries int
	}{
		{"predictions", `{"cityId":"paris","predictions":[{"when":"today","min":12,"max":21},{"when":"tomorrow","min":10,"max":18}]}`, OutcomeFound, 2},
		{"empty predictions", `{"predictions":[]}`, OutcomeFound, 0},
		{"missing predictions", `{"cityId":"paris"}`, OutcomeNotFound, 0},
		{"null predictions", `{"predictions":null}`, OutcomeNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/weather/paris", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			})

			fc, err := c.FetchWeather(context.Background(), "paris")
			assert.Equal(t, tt.want, Classify(err))
			if tt.want == OutcomeFound {
				assert.Len(t, fc.Predictions, tt.entries)
			}
		})
	}
}

func TestFetchWeatherKeepsEntriesVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predictions":[{"when":1718000000,"min":12,"max":21,"humidity":0.4}]}`))
	})

	fc, err := c.FetchWeather(context.Background(), "paris")
	require.NoError(t, err)
	require.Len(t, fc.Predictions, 1)
	assert.JSONEq(t, `{"when":1718000000,"min":12,"max":21,"humidity":0.4}`, string(fc.Predictions[0]))
}

func TestNoRetriesByDefault(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.FetchCity(context.Background(), "paris")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetriesWhenConfigured(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"id":"paris"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		Backoff: BackoffConfig{
			MaxRetries:      2,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
		},
	})

	_, err := c.FetchCity(context.Background(), "paris")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCircuitOpensAfterRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 10; i++ {
		_, err := c.FetchCity(context.Background(), "paris")
		assert.Equal(t, OutcomeUnavailable, Classify(err))
	}
	assert.Less(t, calls.Load(), int32(10))
}

func TestNotFoundDoesNotTripCircuit(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 10; i++ {
		_, err := c.FetchCity(context.Background(), "atlantis")
		assert.Equal(t, OutcomeNotFound, Classify(err))
	}
	assert.Equal(t, int32(10), calls.Load())
}
