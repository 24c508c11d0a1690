package world

import "trafficsim/rng"

// SpawnerKind is the kind of actor a spawner produces.
type SpawnerKind int

const (
	VehicleSpawner SpawnerKind = iota
	PedestrianSpawner
)

// Spawner generates Poisson-like arrivals at a junction, with an overflow
// queue for ticks where no entry cell is free.
type Spawner struct {
	JunctionID int
	Kind       SpawnerKind
	Freq       float64 // lambda, 1/s
	FreqStd    float64 // sigma

	counter   float64
	threshold float64
	Queue     int
}

// NewSpawner constructs a spawner. If randomDelayOnStart, the initial
// countdown is a uniform draw in (-C/2, 0] so co-located spawners desync.
func NewSpawner(junction int, kind SpawnerKind, freq, freqStd float64, randomDelayOnStart bool, r *rng.Source) *Spawner {
	s := &Spawner{
		JunctionID: junction,
		Kind:       kind,
		Freq:       freq,
		FreqStd:    freqStd,
	}
	s.threshold = 1 / s.sampleEffectiveRate(r)
	if randomDelayOnStart {
		s.counter = -r.Uniform01() * s.threshold / 2
	}
	return s
}

// sampleEffectiveRate draws lambda_eff = clamp(lambda + (2u-1)*sigma, 1e-5, 1).
func (s *Spawner) sampleEffectiveRate(r *rng.Source) float64 {
	return rng.Clamp(s.Freq+r.SignedUnit()*s.FreqStd, 1e-5, 1)
}

func (s *Spawner) reset(r *rng.Source) {
	s.counter = 0
	s.threshold = 1 / s.sampleEffectiveRate(r)
}

// Tick advances the countdown by dt seconds. It returns true exactly on the
// tick where the countdown fires (reset occurs); the caller is responsible
// for attempting placement on fire, and on every subsequent tick while the
// queue is nonempty.
func (s *Spawner) Tick(dt float64, r *rng.Source) (fired bool) {
	s.counter += dt
	if s.counter >= s.threshold {
		s.reset(r)
		return true
	}
	return false
}

// Enqueue records a failed placement attempt.
func (s *Spawner) Enqueue() {
	s.Queue++
}

// Dequeue records a successful placement from the queue.
func (s *Spawner) Dequeue() {
	s.Queue--
}
