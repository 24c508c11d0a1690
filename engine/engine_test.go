package engine

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"trafficsim/atomicfloat"
	"trafficsim/config"
	"trafficsim/network"
	"trafficsim/rng"
	"trafficsim/snapshot"
	"trafficsim/world"
)

func newTestEngine(w *world.World, cfg *config.EngineConfig, seed int64) *Engine {
	return &Engine{
		world:                w,
		net:                  network.Build(w),
		cfg:                  cfg,
		rng:                  rng.New(seed),
		snap:                 snapshot.NewTables(),
		stopCh:               make(chan struct{}),
		gaugeMeanVelocity:    atomicfloat.New(0),
		gaugeVehicleCount:    atomicfloat.New(0),
		gaugePedestrianCount: atomicfloat.New(0),
		gaugeStep:            atomicfloat.New(0),
	}
}

func straightRoadWorld(length float64, lanes int) (*world.World, *world.Road) {
	w := world.New()
	w.Junctions[0] = world.Junction{ID: 0, X: 0, Y: 0, Terminal: false}
	w.Junctions[1] = world.Junction{ID: 1, X: length, Y: 0, Terminal: true}
	w.TerminalJunctions = []int{1}
	r := world.NewRoad(1, 0, 1, lanes, 10, 0, length, world.Vehicular)
	w.Roads[1] = r
	return w, r
}

func TestScenarioSingleCarLongRoad(t *testing.T) {
	Convey("Given a single car on a long one-lane road with no light", t, func() {
		w, road := straightRoadWorld(100, 1)
		v := world.NewVehicle(1, road.ID, 0, 0, 1, 0, 0.5)
		w.Vehicles[1] = v
		_ = road.Cells.Occupy(0, 0, 1)

		e := newTestEngine(w, config.Default(), 1)

		Convey("Within 50 ticks the car reaches the end of the road and is destroyed", func() {
			destroyedAtTick := -1
			for i := 1; i <= 50; i++ {
				err := e.tick()
				So(err, ShouldBeNil)
				if _, alive := e.world.Vehicles[1]; !alive {
					destroyedAtTick = i
					break
				}
			}
			So(destroyedAtTick, ShouldBeGreaterThan, 0)
			So(destroyedAtTick, ShouldBeLessThanOrEqualTo, 50)
		})
	})
}

func TestScenarioRedLightHoldsCar(t *testing.T) {
	Convey("Given a red light at the end of the car's road", t, func() {
		w, road := straightRoadWorld(100, 1)
		light := world.NewLight(1, road.ID, 10, 30, world.Red)
		w.Lights[1] = light
		road.LightID = 1
		// second road beyond the junction so the car has somewhere to go once green.
		w.Junctions[2] = world.Junction{ID: 2, X: 200, Y: 0, Terminal: true}
		w.TerminalJunctions = append(w.TerminalJunctions, 2)
		road2 := world.NewRoad(2, 1, 2, 1, 10, 0, 100, world.Vehicular)
		w.Roads[2] = road2

		v := world.NewVehicle(1, road.ID, 0, road.NCell-1, 2, 0, 0.5)
		w.Vehicles[1] = v
		_ = road.Cells.Occupy(0, road.NCell-1, 1)

		e := newTestEngine(w, config.Default(), 1)

		Convey("The car stalls at v=0 while the light is red", func() {
			for i := 0; i < 29; i++ {
				So(e.tick(), ShouldBeNil)
				So(v.Velocity, ShouldEqual, 0)
				So(v.Cell, ShouldEqual, road.NCell-1)
			}
		})

		Convey("Once the light flips green the car transitions to the next road", func() {
			for i := 0; i < 31; i++ {
				So(e.tick(), ShouldBeNil)
			}
			So(v.RoadID, ShouldEqual, road2.ID)
		})
	})
}

func TestScenarioJamReroute(t *testing.T) {
	Convey("Given a car boxed in with a reachable alternative terminal", t, func() {
		w, road := straightRoadWorld(50, 1)
		w.Junctions[1] = world.Junction{ID: 1, X: 50, Y: 0, Terminal: true}
		w.Junctions[2] = world.Junction{ID: 2, X: 100, Y: 0, Terminal: true}
		w.TerminalJunctions = []int{1, 2}
		road2 := world.NewRoad(2, 1, 2, 1, 10, 0, 50, world.Vehicular)
		w.Roads[2] = road2

		v := world.NewVehicle(1, road.ID, 0, 0, 1, 0, 0.5)
		w.Vehicles[1] = v
		_ = road.Cells.Occupy(0, 0, 1)
		// phantom blocker directly ahead keeps the car at v=0 indefinitely.
		_ = road.Cells.Occupy(0, 1, -2)

		cfg := config.Default()
		cfg.JamMultiplier = 1
		cfg.JamConstant = 3
		e := newTestEngine(w, cfg, 1)

		Convey("After the jam threshold the target changes and the jam counter resets", func() {
			for i := 0; i < 4; i++ {
				So(e.tick(), ShouldBeNil)
			}
			So(v.Target, ShouldEqual, 2)
			So(v.JamSeconds, ShouldEqual, 0)
		})
	})
}

func TestScenarioPedestrianRefusesToCross(t *testing.T) {
	Convey("Given a pedestrian at a sidewalk's light-controlled end", t, func() {
		w := world.New()
		w.Junctions[0] = world.Junction{ID: 0, X: 0, Y: 0, Terminal: false}
		w.Junctions[1] = world.Junction{ID: 1, X: 20, Y: 0, Terminal: false}
		w.Junctions[2] = world.Junction{ID: 2, X: 40, Y: 0, Terminal: true}
		w.TerminalJunctions = []int{2}

		sidewalk := world.NewRoad(1, 0, 1, 1, 0, 0, 20, world.Pedestrian)
		w.Roads[1] = sidewalk
		beyond := world.NewRoad(2, 1, 2, 1, 0, 0, 20, world.Pedestrian)
		w.Roads[2] = beyond

		light := world.NewLight(1, sidewalk.ID, 10, 30, world.Green)
		light.Remaining = 2
		w.Lights[1] = light
		sidewalk.LightID = 1

		p := world.NewPedestrian(1, sidewalk.ID, 0, sidewalk.NCell-1, 2, 5)
		w.Pedestrians[1] = p
		_ = sidewalk.Cells.Occupy(0, sidewalk.NCell-1, 1)

		e := newTestEngine(w, config.Default(), 1)

		Convey("It does not advance while green-remaining is below t_walk_lights", func() {
			destroyed := e.stepPedestrian(p)
			So(destroyed, ShouldBeFalse)
			So(p.RoadID, ShouldEqual, sidewalk.ID)
			So(p.Cell, ShouldEqual, sidewalk.NCell-1)
		})

		Convey("It proceeds once the light has full green remaining", func() {
			light.Remaining = 10
			destroyed := e.stepPedestrian(p)
			So(destroyed, ShouldBeFalse)
			So(p.RoadID, ShouldEqual, beyond.ID)
		})
	})
}

func TestForwardOnlyMotion(t *testing.T) {
	Convey("Given a car advancing along a road over many ticks", t, func() {
		w, road := straightRoadWorld(200, 1)
		v := world.NewVehicle(1, road.ID, 0, 0, 1, 0, 0.3)
		w.Vehicles[1] = v
		_ = road.Cells.Occupy(0, 0, 1)

		e := newTestEngine(w, config.Default(), 7)

		Convey("Its cell never decreases on the same road between ticks", func() {
			lastCell := v.Cell
			for i := 0; i < 10; i++ {
				if _, alive := e.world.Vehicles[1]; !alive {
					break
				}
				roadBefore := v.RoadID
				So(e.tick(), ShouldBeNil)
				if _, alive := e.world.Vehicles[1]; !alive {
					break
				}
				if v.RoadID == roadBefore {
					So(v.Cell, ShouldBeGreaterThanOrEqualTo, lastCell)
				}
				lastCell = v.Cell
			}
		})
	})
}
