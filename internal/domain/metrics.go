package domain

import (
	"context"
	"math"
)

// Metric is one normalized time-series data point flattened from an
// upstream server's nested stats payload.
type Metric struct {
	ID          int64   `json:"id"`
	Timestamp   int64   `json:"timestamp"`
	ServerType  string  `json:"server_type"`
	MetricName  string  `json:"metric_name"`
	MetricValue float64 `json:"metric_value"`
	Unit        string  `json:"unit"`
}

// IsValid reports whether the metric may be persisted. Non-finite
// values and empty identity fields are rejected before the store.
func (m Metric) IsValid() bool {
	if m.ServerType == "" || m.MetricName == "" {
		return false
	}
	if math.IsNaN(m.MetricValue) || math.IsInf(m.MetricValue, 0) {
		return false
	}
	return true
}

type MetricStore interface {
	Init() error
	AppendMetrics(ctx context.Context, metrics []Metric) (int, error)
	CountMetrics(ctx context.Context) (int64, error)
	Close() error
}
