package search

import (
	"container/heap"
	"math"

	"github.com/transportguide-api/internal/engine/graph"
)

// Result of a shortest-path search. EndNode is the route-stop node whose
// popped cost plus its stop's remaining cost was the global minimum. Prev
// reconstructs the node path back to whichever start node it grew from.
type Result struct {
	EndNode   int64
	TotalCost float64
	Prev      map[int64]int64
}

// Shortest runs a multi-source, multi-sink Dijkstra over g.
//
// startCosts seeds the frontier: route-stop node id to the cost of reaching
// it from the origin point. endStopCosts maps physical stop ids to the
// remaining cost from that stop to the destination point. All costs and
// edge weights must be non-negative; behavior is undefined otherwise.
//
// Reaching a destination stop does not stop the search, because a node at
// a destination stop is not necessarily the endpoint of the globally
// cheapest trip. The search only stops once the frontier minimum can no
// longer beat the best total seen.
//
// The second return value is false when no destination stop is reachable.
func Shortest(g *graph.Graph, startCosts map[int64]float64, endStopCosts map[int64]float64) (Result, bool) {
	dist := make(map[int64]float64, len(startCosts))
	prev := make(map[int64]int64)

	pq := &frontier{}
	for id, cost := range startCosts {
		dist[id] = cost
		heap.Push(pq, entry{node: id, cost: cost})
	}

	var bestEnd int64
	bestTotal := math.Inf(1)
	found := false

	for pq.Len() > 0 {
		cur := pq.pop()

		// Stale entry: this node was re-pushed with a better cost later.
		if best, ok := dist[cur.node]; !ok || cur.cost > best {
			continue
		}

		// The frontier minimum is non-decreasing and remaining costs are
		// non-negative, so nothing cheaper than the best total remains.
		if cur.cost >= bestTotal {
			break
		}

		if node := g.Nodes[cur.node]; node != nil {
			if remaining, ok := endStopCosts[node.StopID]; ok {
				if total := cur.cost + remaining; total < bestTotal {
					bestTotal = total
					bestEnd = cur.node
					found = true
				}
			}
		}

		for _, e := range g.Adj[cur.node] {
			next := cur.cost + e.Weight
			if best, ok := dist[e.To]; !ok || next < best {
				dist[e.To] = next
				prev[e.To] = cur.node
				heap.Push(pq, entry{node: e.To, cost: next})
			}
		}
	}

	if !found {
		return Result{}, false
	}
	return Result{EndNode: bestEnd, TotalCost: bestTotal, Prev: prev}, true
}

type entry struct {
	node int64
	cost float64
}

// frontier is a min-heap of tentative costs. Superseded entries are left in
// place and skipped on pop.
type frontier []entry

func (f frontier) Len() int            { return len(f) }
func (f frontier) Less(i, j int) bool  { return f[i].cost < f[j].cost }
func (f frontier) Swap(i, j int)       { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x interface{}) { *f = append(*f, x.(entry)) }

func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	e := old[n-1]
	*f = old[:n-1]
	return e
}

func (f *frontier) pop() entry {
	return heap.Pop(f).(entry)
}
