// Package engine runs the tick loop: the simulation thread that owns all
// mutable world state and advances it one tick at a time behind a single
// mutex (§5), pacing ticks with the teacher's channerics.NewTicker idiom
// (see reinforcement.Train's estimator loop and server.publishEleUpdates's
// pinger in the teacher) rather than a bare time.Sleep.
package engine

import (
	"sort"
	"sync"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"trafficsim/atomicfloat"
	"trafficsim/config"
	"trafficsim/network"
	"trafficsim/rng"
	"trafficsim/sceneio"
	"trafficsim/snapshot"
	"trafficsim/world"
)

// Engine is a value: New returns one, Stop halts its owned pacing loop, and
// nothing about it is process-global (§9, "the engine is a value, not a
// singleton").
type Engine struct {
	mu sync.Mutex

	world *world.World
	net   *network.Network
	cfg   *config.EngineConfig
	rng   *rng.Source
	snap  *snapshot.Tables

	currentStep int
	maxSteps    int

	stopCh  chan struct{}
	stopped bool

	// subMu guards subs separately from mu: publish() runs while mu is still
	// held by tick(), but a subscriber's cancel func must never block on the
	// tick loop, so it gets its own lock.
	subMu sync.Mutex
	subs  []*subscriber

	// Gauges read by the /metrics surface outside of mu (§5: best-effort,
	// torn-free reads are acceptable for these).
	gaugeMeanVelocity    *atomicfloat.Float64
	gaugeVehicleCount    *atomicfloat.Float64
	gaugePedestrianCount *atomicfloat.Float64
	gaugeStep            *atomicfloat.Float64
}

type subscriber struct {
	ch chan snapshot.TickUpdate
}

// Subscribe registers a channel that receives one snapshot.TickUpdate per
// completed tick until cancel is called. Sends are non-blocking: a
// subscriber that falls behind misses intermediate ticks rather than
// stalling the simulation, generalizing the teacher's single-reader
// drop-when-too-fast discipline (fastview.client.publish) to engine-side
// fan-out across any number of readers.
func (e *Engine) Subscribe() (updates <-chan snapshot.TickUpdate, cancel func()) {
	ch := make(chan snapshot.TickUpdate, 1)
	sub := &subscriber{ch: ch}

	e.subMu.Lock()
	e.subs = append(e.subs, sub)
	e.subMu.Unlock()

	cancel = func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		for i, s := range e.subs {
			if s == sub {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				break
			}
		}
		close(ch)
	}
	return ch, cancel
}

func (e *Engine) publish(update snapshot.TickUpdate) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, s := range e.subs {
		select {
		case s.ch <- update:
		default:
		}
	}
}

// Gauges returns the latest lock-free metric readings for /metrics.
func (e *Engine) Gauges() (meanVelocity, vehicleCount, pedestrianCount, step float64) {
	return e.gaugeMeanVelocity.Load(), e.gaugeVehicleCount.Load(), e.gaugePedestrianCount.Load(), e.gaugeStep.Load()
}

// New loads scenePath and, if configPath is non-empty, overrides the
// default engine configuration from it.
func New(scenePath, configPath string) (*Engine, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.FromYaml(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	r := rng.New(cfg.RNGSeed)
	w, err := sceneio.Load(scenePath, r)
	if err != nil {
		return nil, err
	}

	return &Engine{
		world:                w,
		net:                  network.Build(w),
		cfg:                  cfg,
		rng:                  r,
		snap:                 snapshot.NewTables(),
		stopCh:               make(chan struct{}),
		gaugeMeanVelocity:    atomicfloat.New(0),
		gaugeVehicleCount:    atomicfloat.New(0),
		gaugePedestrianCount: atomicfloat.New(0),
		gaugeStep:            atomicfloat.New(0),
	}, nil
}

// CurrentStep returns the number of ticks completed so far.
func (e *Engine) CurrentStep() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentStep
}

// MaxSteps returns the step budget requested by the most recent Step call.
func (e *Engine) MaxSteps() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maxSteps
}

// TimeElapsed returns current_step * step_time seconds.
func (e *Engine) TimeElapsed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return float64(e.currentStep) * e.cfg.StepTime
}

// Snapshot returns the engine's snapshot tables for querying.
func (e *Engine) Snapshot() *snapshot.Tables {
	return e.snap
}

// Stop sets the stop flag: the pacing loop halts before its next tick and
// any in-progress Step call returns promptly. In-flight ticks always run to
// completion; there is no mid-tick cancellation (§5).
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.stopped {
		e.stopped = true
		close(e.stopCh)
	}
}

// Step runs up to n ticks. When tGap>0, the engine waits tGap seconds (or
// until a stop signal) between ticks. The stop signal is checked at the top
// of the pacing wait and at the top of each tick.
func (e *Engine) Step(n int, tGap float64) error {
	e.mu.Lock()
	e.maxSteps = n
	e.mu.Unlock()

	var ticker <-chan time.Time
	if tGap > 0 {
		ticker = channerics.NewTicker(e.stopCh, time.Duration(tGap*float64(time.Second)))
	}

	for i := 0; i < n; i++ {
		select {
		case <-e.stopCh:
			return nil
		default:
		}

		if ticker != nil && i > 0 {
			select {
			case <-e.stopCh:
				return nil
			case <-ticker:
			}
		}

		if err := e.tick(); err != nil {
			return err
		}
	}
	return nil
}

// sortedVehicleIDs returns vehicle ids in ascending order, giving the tick
// loop a stable iteration order over the vehicle map (§4.8).
func sortedVehicleIDs(w *world.World) []int {
	ids := make([]int, 0, len(w.Vehicles))
	for id := range w.Vehicles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func sortedPedestrianIDs(w *world.World) []int {
	ids := make([]int, 0, len(w.Pedestrians))
	for id := range w.Pedestrians {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func sortedLightIDs(w *world.World) []int {
	ids := make([]int, 0, len(w.Lights))
	for id := range w.Lights {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
