package engine

import (
	"trafficsim/network"
	"trafficsim/world"
)

// tickSpawner advances one spawner: on fire, or while its overflow queue is
// nonempty, it attempts to place an actor; failure grows the queue instead
// (§4.3).
func (e *Engine) tickSpawner(s *world.Spawner) {
	fired := s.Tick(e.cfg.StepTime, e.rng)
	switch {
	case fired:
		if !e.placeActor(s) {
			s.Enqueue()
		}
	case s.Queue > 0:
		if e.placeActor(s) {
			s.Dequeue()
		}
	}
}

// placeActor tries every candidate terminal destination (shrinking, never
// falling back to the global terminal list — §9 ambiguity "spawn reroute
// code mixes ... use the shrinking list only") until one yields a route
// whose first road has a free entry cell.
func (e *Engine) placeActor(s *world.Spawner) bool {
	candidates := shuffledTerminals(e.world.OtherTerminals(s.JunctionID), e.rng)
	if s.Kind == world.VehicleSpawner {
		return e.placeVehicle(s.JunctionID, candidates)
	}
	return e.placePedestrian(s.JunctionID, candidates)
}

func (e *Engine) placeVehicle(junction int, candidates []int) bool {
	var entryRoad *world.Road
	var entryLane int

	hasFreeEntryLane := func(route []int) bool {
		if len(route) < 2 {
			return false
		}
		roadID, ok := e.net.RoadBetween(route[0], route[1])
		if !ok {
			return false
		}
		road := e.world.Roads[roadID]
		for lane := 0; lane < road.Lanes; lane++ {
			if road.Cells.At(lane, 0) == world.EmptyCell {
				entryRoad, entryLane = road, lane
				return true
			}
		}
		return false
	}

	_, target, err := network.RouteToDestination(junction, candidates, e.net.VehiclePath, hasFreeEntryLane)
	if err != nil {
		return false
	}

	profile := e.rng.Profile()
	id := e.world.NextVehicleID()
	v := world.NewVehicle(id, entryRoad.ID, entryLane, 0, target, 0, profile)
	e.world.Vehicles[id] = v
	_ = entryRoad.Cells.Occupy(entryLane, 0, id)
	return true
}

func (e *Engine) placePedestrian(junction int, candidates []int) bool {
	var entryRoad *world.Road
	var entryLane, entryCell int

	hasFreeEntryLane := func(route []int) bool {
		if len(route) < 2 {
			return false
		}
		roadID, ok := e.net.RoadBetweenUndirected(route[0], route[1])
		if !ok {
			return false
		}
		road := e.world.Roads[roadID]
		cell := 0
		if road.Target == junction {
			cell = road.NCell - 1
		}
		for lane := 0; lane < road.Lanes; lane++ {
			if road.Cells.At(lane, cell) == world.EmptyCell {
				entryRoad, entryLane, entryCell = road, lane, cell
				return true
			}
		}
		return false
	}

	_, target, err := network.RouteToDestination(junction, candidates, e.net.PedestrianPath, hasFreeEntryLane)
	if err != nil {
		return false
	}

	id := e.world.NextPedestrianID()
	p := world.NewPedestrian(id, entryRoad.ID, entryLane, entryCell, target, 5.0)
	e.world.Pedestrians[id] = p
	_ = entryRoad.Cells.Occupy(entryLane, entryCell, id)
	return true
}
