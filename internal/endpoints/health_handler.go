package endpoints

import (
	"errors"
	"net/http"
	"time"

	"telephony-gateway/internal/util"
)

// SchedulerStatus exposes the scheduler's run state for reporting.
type SchedulerStatus interface {
	State() string
	Enabled() bool
	Interval() time.Duration
}

// CollectionStats exposes the orchestrator's process-lifetime counters.
type CollectionStats interface {
	LastRun() time.Time
	LifetimeSaved() int64
}

type HealthStatus struct {
	Status                 string  `json:"status"`
	Timestamp              string  `json:"timestamp"`
	Service                string  `json:"service"`
	SchedulerState         string  `json:"scheduler_state"`
	PollingEnabled         bool    `json:"polling_enabled"`
	PollingIntervalSeconds int     `json:"polling_interval_seconds"`
	LastCollection         *string `json:"last_collection"`
	TotalMetricsCollected  int64   `json:"total_metrics_collected"`
}

type Health struct {
	Response  APIResponse
	logger    *util.GatewayLogger
	scheduler SchedulerStatus
	stats     CollectionStats
}

func (h *Health) Init(scheduler SchedulerStatus, stats CollectionStats, webSlogger *util.GatewayLogger) {
	h.scheduler = scheduler
	h.stats = stats
	h.logger = webSlogger
}

func (h *Health) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.logger.LogEvent(util.LOG_LEVEL_ERROR, "Method Not Allowed. Only GET requests are supported", http.StatusMethodNotAllowed)
		h.Response.WriteErrorResponseWithStatusCode(w, errors.New("method Not Allowed. Only GET requests are supported"), http.StatusMethodNotAllowed)
		return
	}

	status := HealthStatus{
		Status:                 "healthy",
		Timestamp:              time.Now().UTC().Format(time.RFC3339),
		Service:                "telephony-gateway",
		SchedulerState:         h.scheduler.State(),
		PollingEnabled:         h.scheduler.Enabled(),
		PollingIntervalSeconds: int(h.scheduler.Interval() / time.Second),
		TotalMetricsCollected:  h.stats.LifetimeSaved(),
	}

	if lastRun := h.stats.LastRun(); !lastRun.IsZero() {
		formatted := lastRun.Format(time.RFC3339)
		status.LastCollection = &formatted
	}

	h.Response.WriteResultResponse(w, status)
}
