package engine

import "trafficsim/world"

// preJunctionLaneChange implements §4.6(d): as the vehicle nears the end of
// its road, it stochastically considers shifting toward the lane-preference
// oracle's desired lane set for the outgoing road its A* route takes next.
func (e *Engine) preJunctionLaneChange(v *world.Vehicle, road *world.Road, route []int) {
	dRem := remainingDistance(v, road)

	triggered := dRem < e.cfg.LaneChangeNearDistance
	if !triggered {
		switch {
		case dRem < e.cfg.LaneChangeMidDistance:
			triggered = e.rng.Coin(2.0 / 3.0)
		case dRem < e.cfg.LaneChangeFarDistance:
			triggered = e.rng.Coin(1.0 / 3.0)
		}
	}
	if !triggered {
		triggered = e.rng.Coin(e.cfg.LaneChangeBaseProb)
	}
	if !triggered {
		return
	}

	if len(route) < 2 {
		return
	}
	outgoingRoadID, ok := e.net.RoadBetween(route[0], route[1])
	if !ok {
		return
	}
	desired := e.net.LanePreference(v.RoadID, outgoingRoadID)
	if len(desired) == 0 {
		return
	}

	l := v.Lane
	if !containsLane(desired, l) {
		target := desired[len(desired)-1]
		if l > desired[0] {
			target = desired[0]
		}
		if road.Cells.At(target, v.Cell) == world.EmptyCell && e.rng.Coin(e.cfg.LaneChangeMoveCoinProb) {
			moveLane(road, v, stepToward(l, target))
		}
		return
	}

	for _, ln := range desired {
		if ln == l {
			break
		}
		if abs(ln-l) == 1 && road.Cells.At(ln, v.Cell) == world.EmptyCell && e.rng.Coin(e.cfg.LaneChangeMoveCoinProb) {
			moveLane(road, v, ln)
			break
		}
	}
}

func remainingDistance(v *world.Vehicle, road *world.Road) float64 {
	return road.Length - float64(v.Cell+1)*road.DCell
}

func containsLane(lanes []int, l int) bool {
	for _, ln := range lanes {
		if ln == l {
			return true
		}
	}
	return false
}

func stepToward(from, to int) int {
	if to > from {
		return from + 1
	}
	if to < from {
		return from - 1
	}
	return from
}

func moveLane(road *world.Road, v *world.Vehicle, newLane int) {
	road.Cells.Free(v.Lane, v.Cell)
	_ = road.Cells.Occupy(newLane, v.Cell, v.ID)
	v.Lane = newLane
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
