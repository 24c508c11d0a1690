package network

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// VehiclePath runs A* with a Euclidean heuristic over the vehicular
// subgraph from source junction to target junction, returning the junction
// ids in path order. Returns NoPathError if target is unreachable.
func (n *Network) VehiclePath(source, target int) ([]int, error) {
	return n.astar(n.vehicular, source, target)
}

// PedestrianPath runs A* over the undirected pedestrian subgraph, ignoring
// edge direction per §4.4.
func (n *Network) PedestrianPath(source, target int) ([]int, error) {
	return n.astar(n.pedestrian, source, target)
}

func (n *Network) astar(g graph.Graph, source, target int) ([]int, error) {
	heuristic := func(x, y graph.Node) float64 {
		return n.euclidean(int(x.ID()), int(y.ID()))
	}

	shortest, _ := path.AStar(simple.Node(source), simple.Node(target), g, heuristic)
	nodes, _ := shortest.To(int64(target))
	if len(nodes) == 0 {
		return nil, NoPathError{From: source, To: target}
	}

	ids := make([]int, len(nodes))
	for i, node := range nodes {
		ids[i] = int(node.ID())
	}
	return ids, nil
}

// RouteToDestination tries each candidate terminal junction in turn, via
// pather, until accept approves the resulting route, returning the first
// approved route and its destination. Used by spawn placement (§4.3/4.4,
// where accept also requires a free entry lane on the route's first road)
// and jam reroute (§4.6a, where accept is trivially true once a route
// exists), both of which fall back across the caller's shrinking candidate
// list rather than the full terminal set (§9 ambiguity c) and never the
// global NoDestination list themselves — that surfaces only once the
// caller's candidates are exhausted.
func RouteToDestination(
	source int,
	candidates []int,
	pather func(source, target int) ([]int, error),
	accept func(route []int) bool,
) (route []int, destination int, err error) {
	for _, candidate := range candidates {
		r, perr := pather(source, candidate)
		if perr != nil || !accept(r) {
			continue
		}
		return r, candidate, nil
	}
	return nil, 0, NoDestinationError{From: source}
}
