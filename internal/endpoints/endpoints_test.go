package endpoints

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telephony-gateway/internal/domain"
	"telephony-gateway/internal/util"
)

// fakeRunner returns a canned outcome from RunOnce.
type fakeRunner struct {
	outcome domain.CollectionOutcome
	calls   int
}

func (f *fakeRunner) RunOnce(ctx context.Context) domain.CollectionOutcome {
	f.calls++
	return f.outcome
}

type fakeSchedulerStatus struct {
	state    string
	enabled  bool
	interval time.Duration
}

func (f *fakeSchedulerStatus) State() string           { return f.state }
func (f *fakeSchedulerStatus) Enabled() bool           { return f.enabled }
func (f *fakeSchedulerStatus) Interval() time.Duration { return f.interval }

type fakeStats struct {
	lastRun       time.Time
	lifetimeSaved int64
}

func (f *fakeStats) LastRun() time.Time   { return f.lastRun }
func (f *fakeStats) LifetimeSaved() int64 { return f.lifetimeSaved }

func decodeOutcome(t *testing.T, apiResponse APIResponse) domain.CollectionOutcome {
	t.Helper()
	var outcome domain.CollectionOutcome
	valueBytes, err := json.Marshal(apiResponse.Value)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(valueBytes, &outcome))
	return outcome
}

func TestTriggerCollectionHandler(t *testing.T) {
	// case 1: successful collection
	runner := &fakeRunner{outcome: domain.CollectionOutcome{
		Success:        true,
		PerSourceCount: map[string]int{"uccx": 2, "cucm": 1},
		TotalSaved:     3,
		Errors:         []string{},
		Timestamp:      time.Now().Unix(),
	}}

	collectHandler := &Collect{}
	collectHandler.Init(runner, &util.GatewayLogger{})

	req, err := http.NewRequest("GET", "/api/collect", nil)
	assert.NoError(t, err)

	rr := httptest.NewRecorder()
	collectHandler.TriggerCollectionHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "Expected status OK")
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, 1, runner.calls, "Trigger should run exactly one cycle")

	var apiResponse APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiResponse))
	assert.True(t, apiResponse.Status)
	assert.Equal(t, API_SUCCESS, apiResponse.ErrorCode)

	outcome := decodeOutcome(t, apiResponse)
	assert.Equal(t, 3, outcome.TotalSaved)
	assert.Equal(t, 2, outcome.PerSourceCount["uccx"])

	// case 2: degraded collection (one source failed, partial counts visible)
	runner = &fakeRunner{outcome: domain.CollectionOutcome{
		Success:        false,
		PerSourceCount: map[string]int{"uccx": 0, "cucm": 1},
		TotalSaved:     1,
		Errors:         []string{"failed to fetch uccx metrics: connection refused"},
		Timestamp:      time.Now().Unix(),
	}}
	collectHandler = &Collect{}
	collectHandler.Init(runner, &util.GatewayLogger{})

	req, _ = http.NewRequest("GET", "/api/collect", nil)
	rr = httptest.NewRecorder()
	collectHandler.TriggerCollectionHandler(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code, "Expected Bad Gateway for degraded collection")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiResponse))
	assert.False(t, apiResponse.Status)
	assert.Equal(t, COLLECTION_DEGRADED, apiResponse.ErrorCode)
	assert.Contains(t, apiResponse.Error, ErrCollectionDegraded.Error())

	outcome = decodeOutcome(t, apiResponse)
	assert.Equal(t, 1, outcome.TotalSaved, "Partial counts must survive into the degraded response")
	assert.Len(t, outcome.Errors, 1)

	// case 3: total outage (all sources failed, nothing saved)
	runner = &fakeRunner{outcome: domain.CollectionOutcome{
		Success:        false,
		PerSourceCount: map[string]int{"uccx": 0, "cucm": 0},
		TotalSaved:     0,
		Errors:         []string{"failed to fetch uccx metrics: timeout", "failed to fetch cucm metrics: timeout"},
		Timestamp:      time.Now().Unix(),
	}}
	collectHandler = &Collect{}
	collectHandler.Init(runner, &util.GatewayLogger{})

	req, _ = http.NewRequest("GET", "/api/collect", nil)
	rr = httptest.NewRecorder()
	collectHandler.TriggerCollectionHandler(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiResponse))
	assert.False(t, apiResponse.Status)
	assert.Equal(t, COLLECTION_FAILED, apiResponse.ErrorCode, "Total outage must be distinguishable from degraded")
	assert.Contains(t, apiResponse.Error, ErrCollectionFailed.Error())

	outcome = decodeOutcome(t, apiResponse)
	assert.Equal(t, 0, outcome.TotalFetched())
	assert.Equal(t, 0, outcome.TotalSaved)

	// case 4: client cancels while the cycle is running
	runner = &fakeRunner{outcome: domain.CollectionOutcome{
		Success:        true,
		PerSourceCount: map[string]int{"uccx": 2, "cucm": 1},
		TotalSaved:     3,
		Errors:         []string{},
		Timestamp:      time.Now().Unix(),
	}}
	collectHandler = &Collect{}
	collectHandler.Init(runner, &util.GatewayLogger{})

	req, _ = http.NewRequest("GET", "/api/collect", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	req = req.WithContext(ctx)

	rr = httptest.NewRecorder()
	collectHandler.TriggerCollectionHandler(rr, req)

	assert.Equal(t, http.StatusRequestTimeout, rr.Code, "Expected Request Timeout for cancelled context")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiResponse))
	assert.False(t, apiResponse.Status)
	assert.Equal(t, REQUEST_CANCELLED, apiResponse.ErrorCode, "Expected REQUEST_CANCELLED error code")
	assert.Contains(t, apiResponse.Error, ErrRequestCancelled.Error())

	// case 5: POST request rejected
	req, _ = http.NewRequest("POST", "/api/collect", nil)
	rr = httptest.NewRecorder()
	collectHandler.TriggerCollectionHandler(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiResponse))
	assert.False(t, apiResponse.Status)
	assert.Equal(t, API_FAILURE, apiResponse.ErrorCode)
	assert.Contains(t, apiResponse.Error, "method Not Allowed. Only GET requests are supported")
}

func TestHealthHandler(t *testing.T) {
	lastRun := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	healthHandler := &Health{}
	healthHandler.Init(
		&fakeSchedulerStatus{state: "running", enabled: true, interval: 60 * time.Second},
		&fakeStats{lastRun: lastRun, lifetimeSaved: 1234},
		&util.GatewayLogger{},
	)

	req, err := http.NewRequest("GET", "/health", nil)
	assert.NoError(t, err)

	rr := httptest.NewRecorder()
	healthHandler.HealthHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var apiResponse APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiResponse))
	assert.True(t, apiResponse.Status)

	var status HealthStatus
	valueBytes, _ := json.Marshal(apiResponse.Value)
	require.NoError(t, json.Unmarshal(valueBytes, &status))

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "telephony-gateway", status.Service)
	assert.Equal(t, "running", status.SchedulerState)
	assert.True(t, status.PollingEnabled)
	assert.Equal(t, 60, status.PollingIntervalSeconds)
	require.NotNil(t, status.LastCollection)
	assert.Equal(t, lastRun.Format(time.RFC3339), *status.LastCollection)
	assert.Equal(t, int64(1234), status.TotalMetricsCollected)
}

func TestHealthHandler_NoCollectionYet(t *testing.T) {
	healthHandler := &Health{}
	healthHandler.Init(
		&fakeSchedulerStatus{state: "stopped", enabled: false, interval: 60 * time.Second},
		&fakeStats{},
		&util.GatewayLogger{},
	)

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	healthHandler.HealthHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var apiResponse APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiResponse))

	var status HealthStatus
	valueBytes, _ := json.Marshal(apiResponse.Value)
	require.NoError(t, json.Unmarshal(valueBytes, &status))

	assert.Equal(t, "stopped", status.SchedulerState)
	assert.False(t, status.PollingEnabled)
	assert.Nil(t, status.LastCollection, "last_collection should be null before the first cycle")
	assert.Equal(t, int64(0), status.TotalMetricsCollected)
}
