package engine

import (
	"math"

	"trafficsim/world"
)

// longitudinalUpdate implements §4.6(e): computes a desired cell advance and
// resulting velocity without committing them to the grid — opportunisticPass
// may still revise both before commitLongitudinal writes the final state.
func (e *Engine) longitudinalUpdate(v *world.Vehicle, road *world.Road) (deltaC int, newV float64) {
	t := e.cfg.StepTime
	p := v.Profile
	aMax := v.MaxAcceleration()
	d := road.DCell

	aheadCell := firstOccupiedAhead(road, v.Lane, v.Cell)

	vSpecial := v.JunctionVelocity
	if aheadCell >= 0 {
		vSpecial = 0
	}

	dRem := remainingDistance(v, road)
	if aheadCell >= 0 {
		distToAhead := float64(aheadCell-v.Cell-1) * d
		if distToAhead < dRem {
			dRem = distToAhead
		}
	}

	braking := false
	if v.Velocity > vSpecial {
		dSafe := ((v.Velocity-vSpecial)/aMax)*((v.Velocity+vSpecial)/2) + d
		if dRem < dSafe {
			braking = true
		}
	}

	vDes := vSpecial
	if !braking {
		accelTarget := v.Velocity + aMax*(1+p)/(2*t)
		cruiseTarget := road.VAvg + road.VStd*(2*p-1)
		vDes = math.Min(accelTarget, cruiseTarget)
	}

	a := clip((vDes-v.Velocity)/t, -aMax, aMax)
	newV = math.Max(0, v.Velocity+a*t)

	deltaC = int(math.Floor(newV * t / d))
	if newV > 0 && deltaC == 0 {
		deltaC = 1
	}
	if v.Cell+deltaC > road.NCell-1 {
		deltaC = road.NCell - 1 - v.Cell
	}

	if deltaC > 0 && road.Cells.At(v.Lane, v.Cell+deltaC) != world.EmptyCell {
		for deltaC > 0 && road.Cells.At(v.Lane, v.Cell+deltaC) != world.EmptyCell {
			deltaC--
		}
		// §9 ambiguity (a): velocity is reset from the actual achieved cell
		// advance, not the original d/t or v-d/t candidates.
		newV = math.Max(0, float64(deltaC)/t)
	}

	return deltaC, newV
}

// firstOccupiedAhead returns the index of the first occupied cell in lane
// strictly after cell, or -1 if the lane is clear the rest of the way.
func firstOccupiedAhead(road *world.Road, lane, cell int) int {
	row := road.Cells.Lane(lane)
	for c := cell + 1; c < len(row); c++ {
		if row[c] != world.EmptyCell {
			return c
		}
	}
	return -1
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
