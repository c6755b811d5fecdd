package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/city-infos/internal/city"
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Backoff    BackoffConfig
}

// Client talks to the City and Weather APIs. Both are served from the same
// base URL and authenticated with the same bearer credential.
type Client struct {
	baseURL string
	apiKey  string
	httpCfg HTTPClientConfig

	cityCircuit    *gobreaker.CircuitBreaker
	weatherCircuit *gobreaker.CircuitBreaker
}

// NewClient creates a Client. Without an explicit http.Client one with a
// ten second timeout is used.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpCfg: HTTPClientConfig{
			Client:  hc,
			Backoff: cfg.Backoff,
		},
		cityCircuit:    newCircuit("city-api"),
		weatherCircuit: newCircuit("weather-api"),
	}
}

// FetchCity returns the City API record for cityID.
func (c *Client) FetchCity(ctx context.Context, cityID string) (rec city.Record, err error) {
	defer func() { observe("city", err) }()

	body, err := c.get(ctx, c.cityCircuit, "/cities/"+url.PathEscape(cityID))
	if err != nil {
		return city.Record{}, err
	}
	if err := json.Unmarshal(body, &rec); err != nil {
		return city.Record{}, fmt.Errorf("%w: decode city %q: %w", ErrUnavailable, cityID, err)
	}
	return rec, nil
}

// FetchWeather returns the Weather API forecast for cityID.
// A payload without predictions is reported as ErrNotFound.
func (c *Client) FetchWeather(ctx context.Context, cityID string) (fc city.Forecast, err error) {
	defer func() { observe("weather", err) }()

	body, err := c.get(ctx, c.weatherCircuit, "/weather/"+url.PathEscape(cityID))
	if err != nil {
		return city.Forecast{}, err
	}
	if err := json.Unmarshal(body, &fc); err != nil {
		return city.Forecast{}, fmt.Errorf("%w: decode weather %q: %w", ErrUnavailable, cityID, err)
	}
	if fc.Predictions == nil {
		return city.Forecast{}, fmt.Errorf("%w: no predictions for %q", ErrNotFound, cityID)
	}
	return fc, nil
}

// get performs an authenticated GET and returns the body. An empty or null
// body is reported as ErrNotFound.
func (c *Client) get(ctx context.Context, cb *gobreaker.CircuitBreaker, path string) ([]byte, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, cb, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrUnavailable, path, err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: empty body from %s", ErrNotFound, path)
	}
	return trimmed, nil
}
