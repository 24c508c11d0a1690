package world

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"trafficsim/rng"
)

func TestSpawnerQueueDiscipline(t *testing.T) {
	Convey("Given a vehicle spawner with lambda=1/s and sigma=0", t, func() {
		r := rng.New(1)
		s := NewSpawner(1, VehicleSpawner, 1, 0, false, r)

		Convey("It fires once per second", func() {
			fired := 0
			for i := 0; i < 10; i++ {
				if s.Tick(1, r) {
					fired++
				}
			}
			So(fired, ShouldEqual, 10)
		})

		Convey("Enqueue/Dequeue track backpressure without going negative across a fire-then-drain cycle", func() {
			s.Tick(1, r)
			s.Enqueue()
			So(s.Queue, ShouldEqual, 1)
			s.Dequeue()
			So(s.Queue, ShouldEqual, 0)
		})
	})

	Convey("Given random_delay_on_start, the initial counter is in [-C/2, 0]", t, func() {
		r := rng.New(2)
		s := NewSpawner(1, VehicleSpawner, 1, 0, true, r)
		So(s.counter, ShouldBeLessThanOrEqualTo, 0)
		So(s.counter, ShouldBeGreaterThanOrEqualTo, -s.threshold/2)
	})
}
