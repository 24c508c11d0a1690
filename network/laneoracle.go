package network

import (
	"math"
	"sort"

	"trafficsim/world"
)

// LanePreference answers §4.5's lane-preference oracle: given an arriving
// road R at junction J and an intended outgoing road R', returns the
// preferred lane indices on R, rightmost (most-preferred) first.
//
// Outgoing roads at J are sorted by the bearing of (target(e)-J) relative
// to the arrival bearing (J-source(R)), ascending. k is R''s index in that
// sorted list, K the count of outgoing roads; L is the lane count of the
// *arriving* road R. The preferred range is the half-open
// [floor(kL/K), ceil((k+1)L/K)), reversed.
func (n *Network) LanePreference(arrivingRoad, outgoingRoad int) []int {
	r := n.w.Roads[arrivingRoad]
	junction := r.Target

	arrivalBearing := n.bearing(r.Source, junction)

	type bearingEdge struct {
		roadID int
		delta  float64
	}
	candidates := n.OutgoingRoads(junction)
	outs := make([]bearingEdge, 0, len(candidates))
	for _, rid := range candidates {
		out := n.w.Roads[rid]
		if out.Kind != world.Vehicular {
			continue
		}
		delta := n.bearing(junction, out.Target) - arrivalBearing
		outs = append(outs, bearingEdge{roadID: rid, delta: delta})
	}
	sort.SliceStable(outs, func(i, j int) bool { return outs[i].delta < outs[j].delta })

	k := -1
	for i, e := range outs {
		if e.roadID == outgoingRoad {
			k = i
			break
		}
	}
	if k == -1 {
		return nil
	}
	K := len(outs)
	L := r.Lanes

	lo := int(math.Floor(float64(k*L) / float64(K)))
	hi := int(math.Ceil(float64((k+1)*L) / float64(K)))
	if hi > L {
		hi = L
	}
	if lo < 0 {
		lo = 0
	}

	lanes := make([]int, 0, hi-lo)
	for lane := hi - 1; lane >= lo; lane-- {
		lanes = append(lanes, lane)
	}
	return lanes
}

func (n *Network) bearing(from, to int) float64 {
	a, b := n.w.Junctions[from], n.w.Junctions[to]
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}
