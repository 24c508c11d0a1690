package engine

import (
	"math"

	"trafficsim/world"
)

// opportunisticPass implements §4.6(f): a vehicle held up behind a much
// slower car may swing one lane left and add a speed boost, if the two
// cells behind its landing spot in that lane are clear. Returns the lane
// the vehicle will land in (unchanged unless the pass triggers).
func (e *Engine) opportunisticPass(v *world.Vehicle, road *world.Road, deltaC int, newV *float64) int {
	if v.Lane == 0 {
		return v.Lane
	}
	landing := v.Cell + deltaC
	if landing > road.NCell-1-3 {
		return v.Lane
	}

	aheadIdx := v.Cell + 1
	if aheadIdx >= road.NCell {
		return v.Lane
	}
	aheadID := road.Cells.At(v.Lane, aheadIdx)
	if aheadID == world.EmptyCell {
		return v.Lane
	}
	ahead, ok := e.world.Vehicles[int(aheadID)]
	if !ok || ahead.Velocity == 0 || *newV/ahead.Velocity < e.cfg.PassSpeedRatio {
		return v.Lane
	}

	leftLane := v.Lane - 1
	b1, b2 := landing-1, landing-2
	if b1 < 0 || b2 < 0 {
		return v.Lane
	}
	if road.Cells.At(leftLane, b1) != world.EmptyCell || road.Cells.At(leftLane, b2) != world.EmptyCell {
		return v.Lane
	}

	if !e.rng.Coin(e.cfg.PassProb) {
		return v.Lane
	}

	cap := road.VAvg + math.Abs(road.VStd) + 2
	*newV = math.Min(*newV+e.cfg.PassBoost, cap)
	return leftLane
}

// commitLongitudinal implements §4.6(g): free the old cell, occupy the new
// (lane, cell), and update v's recorded state.
func (e *Engine) commitLongitudinal(v *world.Vehicle, road *world.Road, finalLane, deltaC int, newV float64) {
	newCell := v.Cell + deltaC
	road.Cells.Free(v.Lane, v.Cell)
	_ = road.Cells.Occupy(finalLane, newCell, v.ID)
	v.Lane = finalLane
	v.Cell = newCell
	v.Velocity = newV
}
