package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/transportguide-api/internal/common/logger"
	"github.com/transportguide-api/internal/engine/geo"
	"github.com/transportguide-api/internal/engine/graph"
	"github.com/transportguide-api/internal/engine/search"
	"github.com/transportguide-api/internal/engine/trip"
	"github.com/transportguide-api/pkg/transit/models"
)

const (
	// MaxTripKm caps the origin-destination great-circle distance.
	MaxTripKm = 200.0
	// MaxWalkKm bounds the walk from an endpoint to its candidate stops.
	MaxWalkKm = 0.7
	// MaxCandidates caps candidate stops per endpoint, nearest first.
	MaxCandidates = 3
	// BoundaryWalkWeight scales boundary walking distance into seed cost.
	BoundaryWalkWeight = 1.5
)

// Store supplies the data snapshot and the geospatial lookups the planner
// depends on. The production implementation lives in internal/store/postgres.
type Store interface {
	// Snapshot returns every stop assignment with direction, route and stop
	// context resolved. Used only at graph-build time.
	Snapshot(ctx context.Context) ([]*models.RouteStop, error)
	// Nearby returns stops within maxKm of a point, ascending by distance.
	Nearby(ctx context.Context, lat, lng, maxKm float64) ([]models.StopDistance, error)
	// PairsWithin returns each unordered pair of distinct stops within
	// maxMeters of each other exactly once.
	PairsWithin(ctx context.Context, maxMeters float64) ([]graph.StopPair, error)
	// Fingerprint identifies the current state of the route/stop data.
	Fingerprint(ctx context.Context) (string, error)
}

// graphHandle bundles one built graph with the data state it was built
// from. Handles are immutable; rebuilds publish a fresh one.
type graphHandle struct {
	graph       *graph.Graph
	fingerprint string
	builtAt     time.Time
}

// Planner owns the routing graph lifecycle and answers trip queries.
// Queries read whatever handle is currently published and never observe a
// partial build, so any number of them may run concurrently with a rebuild.
type Planner struct {
	store   Store
	logger  logger.Logger
	current atomic.Pointer[graphHandle]
}

func NewPlanner(store Store, logger logger.Logger) *Planner {
	return &Planner{
		store:  store,
		logger: logger,
	}
}

// Rebuild constructs a new graph from a fresh snapshot and publishes it
// atomically. On error the previously published graph stays in service.
func (p *Planner) Rebuild(ctx context.Context) error {
	start := time.Now()

	fingerprint, err := p.store.Fingerprint(ctx)
	if err != nil {
		return fmt.Errorf("fingerprinting transit data: %w", err)
	}

	snapshot, err := p.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	pairs, err := p.store.PairsWithin(ctx, graph.TransferRadiusMeters)
	if err != nil {
		return fmt.Errorf("loading transfer pairs: %w", err)
	}

	g := graph.Build(snapshot, pairs)

	p.current.Store(&graphHandle{
		graph:       g,
		fingerprint: fingerprint,
		builtAt:     time.Now(),
	})

	p.logger.Info("Routing graph built",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"fingerprint", fingerprint,
		"took", time.Since(start))

	return nil
}

// Ready reports whether a graph has been published.
func (p *Planner) Ready() bool {
	return p.current.Load() != nil
}

// Fingerprint returns the data fingerprint the current graph was built
// from, or empty when no graph is published.
func (p *Planner) Fingerprint() string {
	if h := p.current.Load(); h != nil {
		return h.fingerprint
	}
	return ""
}

// PlanTrip answers a routing request between two points. It returns one of
// the package sentinel errors for the expected negative outcomes.
func (p *Planner) PlanTrip(ctx context.Context, from, to models.Location) (*models.TripPlan, error) {
	handle := p.current.Load()
	if handle == nil {
		return nil, ErrGraphNotReady
	}

	if geo.Distance(from.Lat, from.Lng, to.Lat, to.Lng) > MaxTripKm {
		return nil, ErrTooFar
	}

	startCandidates, err := p.nearbyCandidates(ctx, from)
	if err != nil {
		return nil, err
	}
	endCandidates, err := p.nearbyCandidates(ctx, to)
	if err != nil {
		return nil, err
	}
	if len(startCandidates) == 0 || len(endCandidates) == 0 {
		return nil, ErrNoNearbyStops
	}

	g := handle.graph

	// Seed every assignment at each candidate start stop, keeping the
	// cheapest seed when two candidates share an assignment.
	startCosts := make(map[int64]float64)
	for _, c := range startCandidates {
		cost := c.DistanceKm * BoundaryWalkWeight
		for _, node := range g.ByStop[c.Stop.ID] {
			if best, ok := startCosts[node.ID]; !ok || cost < best {
				startCosts[node.ID] = cost
			}
		}
	}
	if len(startCosts) == 0 {
		// Stops exist nearby but no route serves them.
		return nil, ErrNoNearbyStops
	}

	endStopCosts := make(map[int64]float64, len(endCandidates))
	for _, c := range endCandidates {
		endStopCosts[c.Stop.ID] = c.DistanceKm * BoundaryWalkWeight
	}

	result, ok := search.Shortest(g, startCosts, endStopCosts)
	if !ok {
		return nil, ErrNoPath
	}

	ids := trip.RebuildPath(result.EndNode, result.Prev)
	path := make([]*models.RouteStop, len(ids))
	for i, id := range ids {
		path[i] = g.Nodes[id]
	}

	walkStartKm := candidateWalk(startCandidates, path[0].StopID)
	walkEndKm := candidateWalk(endCandidates, path[len(path)-1].StopID)

	plan := trip.Assemble(path, walkStartKm, walkEndKm)

	p.logger.Debug("Trip planned",
		"nodes", len(path),
		"segments", len(plan.RouteSegments),
		"total_cost", result.TotalCost)

	return plan, nil
}

func (p *Planner) nearbyCandidates(ctx context.Context, loc models.Location) ([]models.StopDistance, error) {
	candidates, err := p.store.Nearby(ctx, loc.Lat, loc.Lng, MaxWalkKm)
	if err != nil {
		return nil, fmt.Errorf("looking up nearby stops: %w", err)
	}
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	return candidates, nil
}

// candidateWalk returns the walking distance recorded for a stop among the
// endpoint's candidates, zero when the stop is not one of them.
func candidateWalk(candidates []models.StopDistance, stopID int64) float64 {
	for _, c := range candidates {
		if c.Stop.ID == stopID {
			return c.DistanceKm
		}
	}
	return 0
}
