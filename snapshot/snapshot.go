// Package snapshot holds the append-only per-tick tables a renderer reads
// (§4.9): one row per live vehicle and one per light, recorded after each
// tick completes. Rows, once appended, are immutable, so a reader holding
// the engine's mutex for its draw pass (§5) can safely retain a returned
// slice past the critical section.
package snapshot

// CarRow is one vehicle's recorded state at a given step.
type CarRow struct {
	Step            int
	ID              int
	Road            int
	Lane            int
	Cell            int
	Velocity        float64
	Target          int
	ClosestJunction int
}

// LightRow is one light's recorded state at a given step.
type LightRow struct {
	Step      int
	ID        int
	Road      int
	Phase     string
	Remaining float64
}

// TickUpdate is the per-tick payload streamed to subscribers (§6 ADDED
// HTTP/WebSocket surface): the rows appended by a single completed tick.
type TickUpdate struct {
	Step   int
	Cars   []CarRow
	Lights []LightRow
}

// Tables is the append-only store of every tick's snapshot rows.
type Tables struct {
	cars   []CarRow
	lights []LightRow
}

// NewTables returns an empty snapshot store.
func NewTables() *Tables {
	return &Tables{}
}

// AppendCar appends one vehicle row.
func (t *Tables) AppendCar(row CarRow) {
	t.cars = append(t.cars, row)
}

// AppendLight appends one light row.
func (t *Tables) AppendLight(row LightRow) {
	t.lights = append(t.lights, row)
}

// CarsAtStep returns a copy of every car row recorded at step.
func (t *Tables) CarsAtStep(step int) []CarRow {
	var out []CarRow
	for _, r := range t.cars {
		if r.Step == step {
			out = append(out, r)
		}
	}
	return out
}

// LightsAtStep returns a copy of every light row recorded at step.
func (t *Tables) LightsAtStep(step int) []LightRow {
	var out []LightRow
	for _, r := range t.lights {
		if r.Step == step {
			out = append(out, r)
		}
	}
	return out
}

// Latest returns the most recent step's car and light rows, or nil slices
// if no tick has completed yet.
func (t *Tables) Latest() (cars []CarRow, lights []LightRow) {
	if len(t.cars) == 0 && len(t.lights) == 0 {
		return nil, nil
	}
	step := 0
	if n := len(t.cars); n > 0 {
		step = t.cars[n-1].Step
	}
	if n := len(t.lights); n > 0 && t.lights[n-1].Step > step {
		step = t.lights[n-1].Step
	}
	return t.CarsAtStep(step), t.LightsAtStep(step)
}
