package collector

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"telephony-gateway/internal/util"
)

// Scheduler run states.
const (
	StateStopped int32 = iota
	StateRunning
	StateStopping
)

// Scheduler runs the orchestrator on a fixed interval in a single
// background goroutine. Cancellation interrupts a pending wait promptly
// but an in-flight cycle always runs to completion.
type Scheduler struct {
	orchestrator *Orchestrator
	interval     time.Duration
	enabled      bool
	logger       *util.GatewayLogger

	state  atomic.Int32
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(orchestrator *Orchestrator, interval time.Duration, enabled bool, logger *util.GatewayLogger) *Scheduler {
	return &Scheduler{
		orchestrator: orchestrator,
		interval:     interval,
		enabled:      enabled,
		logger:       logger,
	}
}

// Start launches the poll loop. It is a no-op when polling is disabled
// by configuration or the scheduler is already running.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.enabled {
		s.logger.LogEvent(util.LOG_LEVEL_INFO, "Background polling is disabled")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CompareAndSwap(StateStopped, StateRunning) {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	s.logger.LogEvent(util.LOG_LEVEL_INFO, fmt.Sprintf("Polling loop started (interval: %s)", s.interval))
	go s.loop(ctx, s.done)
}

// Stop requests cancellation and blocks until the loop has exited. A
// cycle that is already running finishes first; no further cycles are
// scheduled afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel == nil || !s.state.CompareAndSwap(StateRunning, StateStopping) {
		return
	}

	cancel()
	<-done

	s.logger.LogEvent(util.LOG_LEVEL_INFO, "Polling loop stopped")
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer s.state.Store(StateStopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		// The cycle gets its own context: cancellation only stops the
		// scheduling of future cycles, never an in-progress write.
		outcome := s.orchestrator.RunOnce(context.Background())

		if outcome.Success {
			s.logger.LogEvent(util.LOG_LEVEL_INFO,
				fmt.Sprintf("Scheduled collection complete: %d metrics saved", outcome.TotalSaved))
		} else {
			s.logger.LogEvent(util.LOG_LEVEL_WARN,
				fmt.Sprintf("Scheduled collection had errors: %d errors", len(outcome.Errors)))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// State reports the current run state for the health endpoint.
func (s *Scheduler) State() string {
	switch s.state.Load() {
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "stopped"
	}
}

// Enabled reports whether background polling was configured on.
func (s *Scheduler) Enabled() bool {
	return s.enabled
}

// Interval returns the configured poll interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}
