package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/transportguide-api/internal/common/alert"
	"github.com/transportguide-api/internal/common/logger"
	"github.com/transportguide-api/internal/engine"
)

// Scheduler keeps the routing graph in step with the route/stop tables.
// It periodically fingerprints the data and triggers a rebuild when the
// fingerprint no longer matches the published graph. Queries keep running
// against the old graph until the new one is swapped in.
type Scheduler struct {
	interval time.Duration
	planner  *engine.Planner
	store    engine.Store
	notifier *alert.Notifier
	logger   logger.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

func NewScheduler(
	interval time.Duration,
	planner *engine.Planner,
	store engine.Store,
	notifier *alert.Notifier,
	logger logger.Logger,
) *Scheduler {
	return &Scheduler{
		interval: interval,
		planner:  planner,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Start runs the periodic check until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.mu.Unlock()

	s.logger.Info("Starting graph refresh scheduler", "check_interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Graph refresh scheduler stopped")
			return nil
		case <-ticker.C:
			if err := s.checkAndRefresh(ctx); err != nil {
				s.logger.Error("Graph refresh failed", "error", err)
				if alertErr := s.notifier.Notify("ERROR", "Routing graph refresh failed", map[string]interface{}{
					"error": err.Error(),
				}); alertErr != nil {
					s.logger.Warn("Alert delivery failed", "error", alertErr)
				}
			}
		}
	}
}

// Stop cancels a running scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.running = false
}

func (s *Scheduler) checkAndRefresh(ctx context.Context) error {
	fingerprint, err := s.store.Fingerprint(ctx)
	if err != nil {
		return fmt.Errorf("checking data fingerprint: %w", err)
	}

	current := s.planner.Fingerprint()
	if fingerprint == current {
		s.logger.Debug("Transit data unchanged", "fingerprint", fingerprint)
		return nil
	}

	s.logger.Info("Transit data changed, rebuilding graph",
		"old_fingerprint", current,
		"new_fingerprint", fingerprint)

	if err := s.planner.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuilding graph: %w", err)
	}

	return nil
}
