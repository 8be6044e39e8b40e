package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"telephony-gateway/internal/domain"
	"telephony-gateway/internal/source"
	"telephony-gateway/internal/util"
)

// Orchestrator runs collection cycles: fetch from every configured
// source, validate, and persist the combined batch in one transaction.
// Its run bookkeeping (last run time, lifetime saved count) lives here
// behind a mutex rather than in package globals.
type Orchestrator struct {
	sources []source.Client
	store   domain.MetricStore
	logger  *util.GatewayLogger

	mu            sync.Mutex
	lastRun       time.Time
	lifetimeSaved int64
}

func NewOrchestrator(sources []source.Client, store domain.MetricStore, logger *util.GatewayLogger) *Orchestrator {
	return &Orchestrator{
		sources: sources,
		store:   store,
		logger:  logger,
	}
}

// RunOnce executes one collection cycle and always returns an outcome;
// every failure is captured into the outcome's Errors instead of
// propagating. Safe to call concurrently with the scheduled loop.
func (o *Orchestrator) RunOnce(ctx context.Context) domain.CollectionOutcome {
	o.logger.LogEvent(util.LOG_LEVEL_INFO, "Starting metrics collection cycle")

	results := o.fetchAll(ctx)

	outcome := domain.CollectionOutcome{
		PerSourceCount: make(map[string]int, len(o.sources)),
		Errors:         []string{},
	}

	// One shared timestamp per cycle so all rows of a batch land in the
	// same time bucket downstream.
	cycleTime := time.Now().UTC().Unix()

	var batch []domain.Metric
	for _, res := range results {
		if res.Err != nil {
			o.logger.LogEvent(util.LOG_LEVEL_ERROR, res.Err.Error())
			outcome.PerSourceCount[res.Source] = 0
			outcome.Errors = append(outcome.Errors, res.Err.Error())
			continue
		}

		outcome.PerSourceCount[res.Source] = len(res.Metrics)
		for _, m := range res.Metrics {
			if !m.IsValid() {
				outcome.Dropped++
				o.logger.LogEvent(util.LOG_LEVEL_WARN, "Dropping invalid metric", res.Source, m.MetricName)
				continue
			}
			m.Timestamp = cycleTime
			batch = append(batch, m)
		}
	}

	if len(batch) > 0 {
		saved, err := o.store.AppendMetrics(ctx, batch)
		if err != nil {
			msg := fmt.Sprintf("failed to save metrics to store: %v", err)
			o.logger.LogEvent(util.LOG_LEVEL_ERROR, msg)
			outcome.Errors = append(outcome.Errors, msg)
		} else {
			outcome.TotalSaved = saved
		}
	}

	outcome.Success = len(outcome.Errors) == 0

	completed := time.Now().UTC()
	outcome.Timestamp = completed.Unix()

	o.mu.Lock()
	o.lastRun = completed
	o.lifetimeSaved += int64(outcome.TotalSaved)
	o.mu.Unlock()

	o.logger.LogEvent(util.LOG_LEVEL_INFO,
		fmt.Sprintf("Collection cycle complete: fetched %d, saved %d, dropped %d, errors %d",
			outcome.TotalFetched(), outcome.TotalSaved, outcome.Dropped, len(outcome.Errors)))

	return outcome
}

// fetchAll calls every source concurrently. Results keep configuration
// order so the batch stays grouped per source, and every fetch runs to
// completion before the batch is assembled.
func (o *Orchestrator) fetchAll(ctx context.Context) []domain.FetchResult {
	results := make([]domain.FetchResult, len(o.sources))

	var wg sync.WaitGroup
	for i, src := range o.sources {
		wg.Add(1)
		go func(i int, src source.Client) {
			defer wg.Done()
			metrics, err := src.Fetch(ctx)
			results[i] = domain.FetchResult{Source: src.Name(), Metrics: metrics, Err: err}
		}(i, src)
	}
	wg.Wait()

	return results
}

// LastRun returns when the most recent cycle completed, zero if none
// has run yet.
func (o *Orchestrator) LastRun() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastRun
}

// LifetimeSaved returns the records saved since process start. The
// counter is never persisted and resets on restart.
func (o *Orchestrator) LifetimeSaved() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lifetimeSaved
}
