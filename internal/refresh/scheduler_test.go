package refresh

import (
	"context"
	"testing"
	"time"

	"github.com/transportguide-api/internal/common/alert"
	"github.com/transportguide-api/internal/common/logger"
	"github.com/transportguide-api/internal/engine"
	"github.com/transportguide-api/internal/engine/graph"
	"github.com/transportguide-api/pkg/transit/models"
)

type countingStore struct {
	fingerprint   string
	snapshotCalls int
}

func (c *countingStore) Snapshot(ctx context.Context) ([]*models.RouteStop, error) {
	c.snapshotCalls++
	return nil, nil
}

func (c *countingStore) Nearby(ctx context.Context, lat, lng, maxKm float64) ([]models.StopDistance, error) {
	return nil, nil
}

func (c *countingStore) PairsWithin(ctx context.Context, maxMeters float64) ([]graph.StopPair, error) {
	return nil, nil
}

func (c *countingStore) Fingerprint(ctx context.Context) (string, error) {
	return c.fingerprint, nil
}

func TestCheckAndRefreshSkipsUnchangedData(t *testing.T) {
	store := &countingStore{fingerprint: "v1"}
	planner := engine.NewPlanner(store, logger.Discard())
	if err := planner.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	buildsBefore := store.snapshotCalls

	s := NewScheduler(time.Minute, planner, store, alert.NewNotifier(""), logger.Discard())

	if err := s.checkAndRefresh(context.Background()); err != nil {
		t.Fatalf("checkAndRefresh: %v", err)
	}
	if store.snapshotCalls != buildsBefore {
		t.Errorf("rebuild ran %d extra times for unchanged data", store.snapshotCalls-buildsBefore)
	}
}

func TestCheckAndRefreshRebuildsOnChange(t *testing.T) {
	store := &countingStore{fingerprint: "v1"}
	planner := engine.NewPlanner(store, logger.Discard())
	if err := planner.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	s := NewScheduler(time.Minute, planner, store, alert.NewNotifier(""), logger.Discard())

	store.fingerprint = "v2"
	if err := s.checkAndRefresh(context.Background()); err != nil {
		t.Fatalf("checkAndRefresh: %v", err)
	}
	if planner.Fingerprint() != "v2" {
		t.Errorf("planner fingerprint = %q, want v2", planner.Fingerprint())
	}
}

func TestStartRejectsSecondRun(t *testing.T) {
	store := &countingStore{fingerprint: "v1"}
	planner := engine.NewPlanner(store, logger.Discard())
	s := NewScheduler(time.Hour, planner, store, alert.NewNotifier(""), logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	// Give the first Start a moment to claim the running flag.
	time.Sleep(20 * time.Millisecond)
	if err := s.Start(context.Background()); err == nil {
		t.Error("second Start did not fail")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Start returned %v after cancel, want nil", err)
	}
}
