package graph

import (
	"github.com/transportguide-api/pkg/transit/models"
)

// Edge is a directed, non-negatively weighted connection between two
// route-stop nodes. The weight unit is an abstract generalized cost, not a
// physical quantity.
type Edge struct {
	To     int64
	Weight float64
}

// StopPair is an unordered pair of distinct physical stops within walking
// range of each other, as reported by the spatial lookup. Each pair appears
// exactly once; the builder inserts walking edges in both directions.
type StopPair struct {
	StopA      int64
	StopB      int64
	DistanceKm float64
}

// Graph is the routing graph over route-stop nodes plus the indexes needed
// to answer queries without touching the store. It is built in full from
// one snapshot and never mutated afterwards, so it is safe for unbounded
// concurrent reads.
type Graph struct {
	// Adj maps a route-stop id to its outgoing edges.
	Adj map[int64][]Edge
	// Nodes maps a route-stop id to its fully resolved record
	// (direction, route and stop pre-joined at build time).
	Nodes map[int64]*models.RouteStop
	// ByStop maps a physical stop id to every assignment serving it.
	ByStop map[int64][]*models.RouteStop
}

// NodeCount returns the number of route-stop nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the total number of directed edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, edges := range g.Adj {
		n += len(edges)
	}
	return n
}
