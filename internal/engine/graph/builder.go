package graph

import (
	"sort"

	"github.com/transportguide-api/pkg/transit/models"
)

const (
	// WalkWeight scales walking distance into generalized cost. Walking a
	// kilometer is considered three times as expensive as riding one.
	WalkWeight = 3.0
	// TransferPenalty is the fixed cost of leaving one vehicle for another.
	TransferPenalty = 0.6
	// TransferRadiusMeters bounds which stop pairs count as walkable transfers.
	TransferRadiusMeters = 300.0
)

// Build constructs the routing graph from one consistent snapshot of
// stop assignments plus the walkable stop pairs from the spatial lookup.
//
// Three edge passes:
//  1. ride edges between consecutive assignments of each direction,
//  2. walking transfers between assignments of nearby stops on
//     different directions,
//  3. zero-distance transfers between different directions at the
//     same physical stop.
//
// Build is deterministic for a given snapshot: rebuilding yields the same
// edge set and weights.
func Build(routeStops []*models.RouteStop, pairs []StopPair) *Graph {
	g := &Graph{
		Adj:    make(map[int64][]Edge),
		Nodes:  make(map[int64]*models.RouteStop, len(routeStops)),
		ByStop: make(map[int64][]*models.RouteStop),
	}

	byDirection := make(map[int64][]*models.RouteStop)
	for _, rs := range routeStops {
		g.Nodes[rs.ID] = rs
		byDirection[rs.DirectionID] = append(byDirection[rs.DirectionID], rs)
		g.ByStop[rs.StopID] = append(g.ByStop[rs.StopID], rs)
	}

	// Pass 1: ride edges along each direction.
	for _, stops := range byDirection {
		sort.Slice(stops, func(i, j int) bool {
			return stops[i].Order < stops[j].Order
		})
		for i := 0; i < len(stops)-1; i++ {
			a, b := stops[i], stops[i+1]
			// An assignment without a measured distance profile yields no
			// edge rather than an invented weight.
			if a.DistanceFromStart == nil || b.DistanceFromStart == nil {
				continue
			}
			w := *b.DistanceFromStart - *a.DistanceFromStart
			g.Adj[a.ID] = append(g.Adj[a.ID], Edge{To: b.ID, Weight: w})
		}
	}

	// Pass 2: walking transfers between nearby stops. Each unordered pair
	// is expanded symmetrically so walking reachability never depends on
	// which ordering the spatial lookup happened to return.
	for _, pair := range pairs {
		w := pair.DistanceKm*WalkWeight + TransferPenalty
		for _, rsA := range g.ByStop[pair.StopA] {
			for _, rsB := range g.ByStop[pair.StopB] {
				if rsA.DirectionID == rsB.DirectionID {
					continue
				}
				g.Adj[rsA.ID] = append(g.Adj[rsA.ID], Edge{To: rsB.ID, Weight: w})
				g.Adj[rsB.ID] = append(g.Adj[rsB.ID], Edge{To: rsA.ID, Weight: w})
			}
		}
	}

	// Pass 3: same-stop transfers, walking distance zero.
	for _, rsList := range g.ByStop {
		for _, a := range rsList {
			for _, b := range rsList {
				if a.DirectionID == b.DirectionID {
					continue
				}
				g.Adj[a.ID] = append(g.Adj[a.ID], Edge{To: b.ID, Weight: TransferPenalty})
			}
		}
	}

	return g
}
