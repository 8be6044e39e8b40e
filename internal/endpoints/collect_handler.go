package endpoints

import (
	"context"
	"errors"
	"net/http"

	"telephony-gateway/internal/domain"
	"telephony-gateway/internal/util"
)

// CollectionRunner executes one collection cycle. The orchestrator
// implements it; tests substitute their own.
type CollectionRunner interface {
	RunOnce(ctx context.Context) domain.CollectionOutcome
}

type Collect struct {
	Response APIResponse
	logger   *util.GatewayLogger
	runner   CollectionRunner
}

func (c *Collect) Init(runner CollectionRunner, webSlogger *util.GatewayLogger) {
	c.runner = runner
	c.logger = webSlogger
}

// TriggerCollectionHandler runs a collection cycle immediately and
// returns its outcome synchronously. A cycle with errors is reported as
// degraded with its partial counts still visible; a cycle where every
// source failed and nothing was saved is reported as failed.
func (c *Collect) TriggerCollectionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		c.logger.LogEvent(util.LOG_LEVEL_ERROR, "Method Not Allowed. Only GET requests are supported", http.StatusMethodNotAllowed)
		c.Response.WriteErrorResponseWithStatusCode(w, errors.New("method Not Allowed. Only GET requests are supported"), http.StatusMethodNotAllowed)
		return
	}

	c.logger.LogEvent(util.LOG_LEVEL_INFO, "Manual collection triggered via API")

	outcome := c.runner.RunOnce(r.Context())

	if r.Context().Err() != nil {
		c.logger.LogEvent(util.LOG_LEVEL_WARN, "Context cancelled")
		c.Response.WriteErrorResponseWithStatusCode(w, ErrRequestCancelled, http.StatusRequestTimeout)
		return
	}

	if outcome.Success {
		c.Response.WriteResultResponse(w, outcome)
		return
	}

	if outcome.TotalFetched() == 0 && outcome.TotalSaved == 0 {
		c.logger.LogEvent(util.LOG_LEVEL_ERROR, "Collection failed entirely: ", outcome.Errors)
		c.Response.WriteDegradedResponse(w, ErrCollectionFailed, http.StatusBadGateway, outcome)
		return
	}

	c.logger.LogEvent(util.LOG_LEVEL_WARN, "Collection completed with errors: ", outcome.Errors)
	c.Response.WriteDegradedResponse(w, ErrCollectionDegraded, http.StatusBadGateway, outcome)
}
