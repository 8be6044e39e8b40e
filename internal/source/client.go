package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"telephony-gateway/internal/domain"
)

// Client fetches one upstream server's stats endpoint and flattens the
// nested payload into metric records.
type Client interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Metric, error)
}

// FetchError is the single failure kind for a source fetch. Network
// errors, bad status codes, timeouts and malformed payloads all
// collapse into it, tagged with the source identity.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s metrics: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type metricInfo struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// statsResponse mirrors the upstream stats payload; extra fields are
// ignored on decode.
type statsResponse struct {
	ServerType string                `json:"server_type"`
	Metrics    map[string]metricInfo `json:"metrics"`
}

// HTTPClient collects from one stats endpoint over HTTP. It performs
// no retries; retry policy belongs to the caller.
type HTTPClient struct {
	name   string
	url    string
	client *http.Client
}

func NewHTTPClient(name, url string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		name: name,
		url:  url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPClient) Name() string {
	return c.name
}

// Fetch issues one GET to the stats endpoint and returns one metric
// record per entry of the payload's metrics map, in sorted name order.
// Timestamps are left unset; the caller stamps the cycle time.
func (c *HTTPClient) Fetch(ctx context.Context) ([]domain.Metric, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{Source: c.name, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: c.name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &FetchError{Source: c.name, Err: fmt.Errorf("unexpected status code %d", resp.StatusCode)}
	}

	var stats statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, &FetchError{Source: c.name, Err: fmt.Errorf("malformed response body: %w", err)}
	}

	if len(stats.Metrics) == 0 {
		return nil, &FetchError{Source: c.name, Err: errors.New("response has no metrics")}
	}

	serverType := stats.ServerType
	if serverType == "" {
		serverType = c.name
	}

	names := make([]string, 0, len(stats.Metrics))
	for name := range stats.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	metrics := make([]domain.Metric, 0, len(names))
	for _, name := range names {
		info := stats.Metrics[name]
		metrics = append(metrics, domain.Metric{
			ServerType:  serverType,
			MetricName:  name,
			MetricValue: info.Value,
			Unit:        info.Unit,
		})
	}

	return metrics, nil
}
