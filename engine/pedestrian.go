package engine

import (
	"trafficsim/rng"
	"trafficsim/world"
)

// stepPedestrian applies §4.7's pedestrian step rule to p and reports
// whether p reached its destination and should be destroyed.
func (e *Engine) stepPedestrian(p *world.Pedestrian) bool {
	road := e.world.Roads[p.RoadID]

	route, err := e.net.PedestrianPath(road.Target, p.Target)
	if err != nil {
		// Pedestrians have no reroute mechanism (§4.7 specifies none); a
		// momentarily unreachable target just stalls the pedestrian in place
		// rather than aborting the tick, unlike the vehicle rule's fatal NoPath.
		return false
	}

	reversed := pedestrianReversedOrder(route, road)
	forwardEndCell := road.NCell - 1
	forwardJunction := road.Target
	if reversed {
		forwardEndCell = 0
		forwardJunction = road.Source
	}

	if p.Cell == forwardEndCell {
		return e.pedestrianAtForwardEnd(p, road, route, reversed, forwardJunction)
	}

	if e.rng.Coin(e.cfg.PedestrianDawdleProb) {
		return false
	}

	e.pedestrianLaneDiscipline(p, road, reversed)
	e.pedestrianAdvance(p, road, reversed)
	return false
}

// pedestrianReversedOrder derives §4.7's reversed_order flag: true when the
// pedestrian's forward direction runs opposite to R's stored source->target
// orientation. At a degenerate length-1 path it is pinned (§9) to whether
// the lone node is R's source.
func pedestrianReversedOrder(route []int, road *world.Road) bool {
	if len(route) == 1 {
		return route[0] == road.Source
	}
	return route[1] == road.Source
}

func (e *Engine) pedestrianAtForwardEnd(p *world.Pedestrian, road *world.Road, route []int, reversed bool, forwardJunction int) bool {
	if forwardJunction == p.Target {
		road.Cells.Free(p.Lane, p.Cell)
		return true
	}

	if !reversed && road.LightID != world.NoLight {
		light := e.world.Lights[road.LightID]
		if light.Phase == world.Red {
			return false
		}
		if light.RemainingTime() < p.TWalkLights {
			return false
		}
	}

	idx := 0
	if reversed {
		idx = 1
	}
	if idx+1 >= len(route) {
		return false
	}

	nextRoadID, ok := e.net.RoadBetweenUndirected(route[idx], route[idx+1])
	if !ok {
		return false
	}
	nextRoad := e.world.Roads[nextRoadID]
	nextReversed := nextRoad.Target == route[idx]

	lane := p.Lane
	if reversed != nextReversed {
		lane = nextRoad.Lanes - 1 - lane
	}
	if lane < 0 {
		lane = 0
	}
	if lane >= nextRoad.Lanes {
		lane = nextRoad.Lanes - 1
	}

	entryCell := 0
	if nextReversed {
		entryCell = nextRoad.NCell - 1
	}

	if nextRoad.Cells.At(lane, entryCell) != world.EmptyCell {
		free := make([]int, 0, nextRoad.Lanes)
		for ln := 0; ln < nextRoad.Lanes; ln++ {
			if nextRoad.Cells.At(ln, entryCell) == world.EmptyCell {
				free = append(free, ln)
			}
		}
		if len(free) == 0 {
			return false
		}
		lane = rng.Pick(e.rng, free)
	}

	road.Cells.Free(p.Lane, p.Cell)
	_ = nextRoad.Cells.Occupy(lane, entryCell, p.ID)
	p.RoadID = nextRoadID
	p.Lane = lane
	p.Cell = entryCell
	p.Velocity = world.PedestrianNominalSpeed
	return false
}

func (e *Engine) pedestrianLaneDiscipline(p *world.Pedestrian, road *world.Road, reversed bool) {
	half := road.Lanes / 2

	if e.rng.Coin(e.cfg.PedestrianNudgeProb) {
		switch {
		case !reversed && p.Lane < half && road.Cells.At(p.Lane+1, p.Cell) == world.EmptyCell:
			movePedestrianLane(road, p, p.Lane+1)
		case reversed && p.Lane >= half && p.Lane > 0 && road.Cells.At(p.Lane-1, p.Cell) == world.EmptyCell:
			movePedestrianLane(road, p, p.Lane-1)
		}
	}

	if e.rng.Coin(e.cfg.PedestrianUndoProb) {
		switch {
		case !reversed && p.Lane > half && road.Cells.At(p.Lane-1, p.Cell) == world.EmptyCell:
			movePedestrianLane(road, p, p.Lane-1)
		case reversed && p.Lane < half-1 && p.Lane+1 < road.Lanes && road.Cells.At(p.Lane+1, p.Cell) == world.EmptyCell:
			movePedestrianLane(road, p, p.Lane+1)
		}
	}
}

func movePedestrianLane(road *world.Road, p *world.Pedestrian, newLane int) {
	road.Cells.Free(p.Lane, p.Cell)
	_ = road.Cells.Occupy(newLane, p.Cell, p.ID)
	p.Lane = newLane
}

func (e *Engine) pedestrianAdvance(p *world.Pedestrian, road *world.Road, reversed bool) {
	next := p.Cell + 1
	if reversed {
		next = p.Cell - 1
	}
	if next < 0 || next >= road.NCell || road.Cells.At(p.Lane, next) != world.EmptyCell {
		p.Velocity = 0
		return
	}
	road.Cells.Free(p.Lane, p.Cell)
	_ = road.Cells.Occupy(p.Lane, next, p.ID)
	p.Cell = next
	p.Velocity = world.PedestrianNominalSpeed
}
