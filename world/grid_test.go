package world

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGrid(t *testing.T) {
	Convey("Given a 2-lane, 5-cell grid", t, func() {
		g := NewGrid(2, 5)

		Convey("All cells start empty", func() {
			for l := 0; l < 2; l++ {
				for c := 0; c < 5; c++ {
					So(g.At(l, c), ShouldEqual, int32(EmptyCell))
				}
			}
		})

		Convey("Occupy places the actor id and At reflects it", func() {
			So(g.Occupy(1, 3, 42), ShouldBeNil)
			So(g.At(1, 3), ShouldEqual, int32(42))
		})

		Convey("Occupy rejects an out-of-range lane", func() {
			err := g.Occupy(2, 0, 1)
			So(err, ShouldNotBeNil)
			So(err, ShouldHaveSameTypeAs, BadLaneError{})
		})

		Convey("Occupy rejects an out-of-range cell", func() {
			err := g.Occupy(0, 5, 1)
			So(err, ShouldNotBeNil)
			So(err, ShouldHaveSameTypeAs, CellOutOfRangeError{})
		})

		Convey("Free clears a previously occupied cell", func() {
			So(g.Occupy(0, 0, 7), ShouldBeNil)
			g.Free(0, 0)
			So(g.At(0, 0), ShouldEqual, int32(EmptyCell))
		})
	})
}

func TestRoadCellGeometry(t *testing.T) {
	Convey("Given a 22m vehicular road", t, func() {
		rd := NewRoad(1, 10, 20, 1, 10, 0, 22, Vehicular)

		Convey("n_cell is ceil(22/5) = 5", func() {
			So(rd.NCell, ShouldEqual, 5)
		})

		Convey("d_cell evenly divides the road length", func() {
			So(rd.DCell*float64(rd.NCell), ShouldAlmostEqual, 22)
		})
	})

	Convey("Given a 9m pedestrian road", t, func() {
		rd := NewRoad(2, 10, 20, 1, 0, 0, 9, Pedestrian)

		Convey("n_cell is ceil(9/2) = 5", func() {
			So(rd.NCell, ShouldEqual, 5)
		})
	})
}
