package engine

import (
	"trafficsim/network"
	"trafficsim/rng"
	"trafficsim/world"
)

// stepVehicle applies §4.6's vehicle step rule to v and reports whether v
// reached its destination and should be destroyed.
func (e *Engine) stepVehicle(v *world.Vehicle) (destroyed bool, err error) {
	t := e.cfg.StepTime
	p := v.Profile

	if v.Velocity == 0 {
		v.JamSeconds += t
	}
	jamThreshold := e.cfg.JamMultiplier * (e.cfg.JamConstant + (2*p - 1))
	if v.JamSeconds > jamThreshold {
		v.JamSeconds = 0
		if err := e.jamReroute(v); err != nil {
			return false, err
		}
	}

	road := e.world.Roads[v.RoadID]
	origin := e.net.ClosestJunction(v.RoadID)
	route, err := e.net.VehiclePath(origin, v.Target)
	if err != nil {
		return false, NoPathError{Actor: v.ID, From: origin, To: v.Target}
	}

	if v.Cell == road.NCell-1 {
		return e.handleEndOfRoad(v, road, route)
	}

	e.preJunctionLaneChange(v, road, route)
	deltaC, newV := e.longitudinalUpdate(v, road)
	finalLane := e.opportunisticPass(v, road, deltaC, &newV)
	e.commitLongitudinal(v, road, finalLane, deltaC, newV)
	return false, nil
}

// jamReroute implements §4.6(a): pick a new reachable terminal destination
// other than the current one, from the set of reachable terminals, giving
// up with NoDestinationError only if every terminal is exhausted.
func (e *Engine) jamReroute(v *world.Vehicle) error {
	candidates := shuffledTerminals(e.world.OtherTerminals(v.Target), e.rng)
	origin := e.net.ClosestJunction(v.RoadID)
	anyRoute := func(route []int) bool { return true }
	_, destination, err := network.RouteToDestination(origin, candidates, e.net.VehiclePath, anyRoute)
	if err != nil {
		return NoDestinationError{Actor: v.ID}
	}
	v.Target = destination
	return nil
}

func shuffledTerminals(terminals []int, r *rng.Source) []int {
	shuffled := append([]int(nil), terminals...)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// handleEndOfRoad implements §4.6(c). It always returns from stepVehicle:
// destroy on arrival, stall on red, stall with no free entry lane, or a
// committed transition onto the next road.
func (e *Engine) handleEndOfRoad(v *world.Vehicle, road *world.Road, route []int) (destroyed bool, err error) {
	if len(route) == 1 {
		road.Cells.Free(v.Lane, v.Cell)
		return true, nil
	}

	if road.LightID != world.NoLight {
		light := e.world.Lights[road.LightID]
		if light.Phase == world.Red {
			v.Velocity = 0
			return false, nil
		}
	}

	nextRoadID, ok := e.net.RoadBetween(route[0], route[1])
	if !ok {
		return false, NoPathError{Actor: v.ID, From: route[0], To: route[1]}
	}
	nextRoad := e.world.Roads[nextRoadID]

	lo, hi := inOutLaneRange(v.Lane, road.Lanes, nextRoad.Lanes)
	for lane := lo; lane < hi; lane++ {
		if nextRoad.Cells.At(lane, 0) == world.EmptyCell {
			road.Cells.Free(v.Lane, v.Cell)
			_ = nextRoad.Cells.Occupy(lane, 0, v.ID)
			v.RoadID = nextRoadID
			v.Lane = lane
			v.Cell = 0
			v.Velocity = v.JunctionVelocity
			return false, nil
		}
	}

	v.Velocity = 0
	return false, nil
}

// inOutLaneRange computes the acceptable entry-lane half-open range
// floor(l*L'/L) .. ceil((l+1)*L'/L) for incoming lane l under an L->L' lane
// count change (§4.6c.3).
func inOutLaneRange(l, lanesIn, lanesOut int) (lo, hi int) {
	lo = (l * lanesOut) / lanesIn
	hi = ((l+1)*lanesOut + lanesIn - 1) / lanesIn
	if hi > lanesOut {
		hi = lanesOut
	}
	return lo, hi
}
