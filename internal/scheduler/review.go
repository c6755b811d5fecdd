package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ReviewSubmitter notifies the review service that this instance is listening.
type ReviewSubmitter struct {
	client    *http.Client
	endpoint  string
	apiKey    string
	publicURL string
}

// NewReviewSubmitter creates a ReviewSubmitter posting to endpoint.
func NewReviewSubmitter(client *http.Client, endpoint, apiKey, publicURL string) *ReviewSubmitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &ReviewSubmitter{
		client:    client,
		endpoint:  endpoint,
		apiKey:    apiKey,
		publicURL: publicURL,
	}
}

// Submit posts {"url": publicURL} to the review endpoint.
func (r *ReviewSubmitter) Submit(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{"url": r.publicURL})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("review endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
