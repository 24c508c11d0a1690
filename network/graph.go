// Package network builds the two subgraph views over a world's junctions
// and roads — a directed weighted graph for vehicles, an undirected
// weighted graph for pedestrians — and answers routing and lane-preference
// queries against them, grounded on gonum.org/v1/gonum/graph/simple and
// graph/path the way the pack's own graphCA/element-vehicle.go example
// wires gonum.org/v1/gonum/graph/simple into a CA vehicle simulation.
package network

import (
	"math"

	"gonum.org/v1/gonum/graph/simple"
	"trafficsim/world"
)

// Network is the built-once-at-load backing store for routing and the
// lane-preference oracle. It never mutates after Build; the engine builds it
// once, in engine.New.
type Network struct {
	w *world.World

	vehicular  *simple.WeightedDirectedGraph
	pedestrian *simple.WeightedUndirectedGraph

	// outgoing indexes junction id -> road ids whose Source is that junction,
	// across both kinds. gonum's simple graphs collapse parallel edges
	// between the same two nodes to whichever was added last, so this side
	// index is what the lane oracle and spawner logic walk for the true
	// road multiset at a junction.
	outgoing map[int][]int
}

// Build constructs the vehicular and pedestrian subgraph views from w.
// Junction ids are used directly as gonum node ids.
func Build(w *world.World) *Network {
	n := &Network{
		w:          w,
		vehicular:  simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		pedestrian: simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		outgoing:   make(map[int][]int),
	}

	for id := range w.Junctions {
		n.vehicular.AddNode(simple.Node(id))
		n.pedestrian.AddNode(simple.Node(id))
	}

	for _, r := range w.Roads {
		n.outgoing[r.Source] = append(n.outgoing[r.Source], r.ID)

		weight := r.Length
		switch r.Kind {
		case world.Vehicular:
			n.vehicular.SetWeightedEdge(n.vehicular.NewWeightedEdge(
				simple.Node(r.Source), simple.Node(r.Target), weight))
		case world.Pedestrian:
			n.pedestrian.SetWeightedEdge(n.pedestrian.NewWeightedEdge(
				simple.Node(r.Source), simple.Node(r.Target), weight))
		}
	}

	return n
}

// OutgoingRoads returns the ids of every road whose Source is junction.
func (n *Network) OutgoingRoads(junction int) []int {
	return n.outgoing[junction]
}

// RoadBetween returns the id of a road whose Source is source and Target is
// target, if one exists. Ties (parallel roads) resolve to the
// smallest-id road, giving a deterministic answer.
func (n *Network) RoadBetween(source, target int) (int, bool) {
	best, found := -1, false
	for _, rid := range n.outgoing[source] {
		r := n.w.Roads[rid]
		if r.Target == target && (!found || rid < best) {
			best, found = rid, true
		}
	}
	return best, found
}

// RoadBetweenUndirected returns the id of a road connecting a and b in
// either direction, for pedestrian-road lookups where traversal ignores
// edge direction (§4.4).
func (n *Network) RoadBetweenUndirected(a, b int) (int, bool) {
	if rid, ok := n.RoadBetween(a, b); ok {
		return rid, true
	}
	return n.RoadBetween(b, a)
}

// ClosestJunction returns the junction an actor travelling down road r is
// approaching: its target endpoint (§4.4).
func (n *Network) ClosestJunction(roadID int) int {
	return n.w.Roads[roadID].Target
}

func (n *Network) euclidean(a, b int) float64 {
	ja, jb := n.w.Junctions[a], n.w.Junctions[b]
	dx, dy := ja.X-jb.X, ja.Y-jb.Y
	return math.Sqrt(dx*dx + dy*dy)
}
