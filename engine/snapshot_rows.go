package engine

import (
	"trafficsim/network"
	"trafficsim/snapshot"
	"trafficsim/world"
)

func snapshotCarRow(step int, v *world.Vehicle, net *network.Network) snapshot.CarRow {
	return snapshot.CarRow{
		Step:            step,
		ID:              v.ID,
		Road:            v.RoadID,
		Lane:            v.Lane,
		Cell:            v.Cell,
		Velocity:        v.Velocity,
		Target:          v.Target,
		ClosestJunction: net.ClosestJunction(v.RoadID),
	}
}

func snapshotLightRow(step int, l *world.Light) snapshot.LightRow {
	return snapshot.LightRow{
		Step:      step,
		ID:        l.ID,
		Road:      l.RoadID,
		Phase:     l.Phase.String(),
		Remaining: l.RemainingTime(),
	}
}
