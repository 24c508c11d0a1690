package world

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLightPhaseMachine(t *testing.T) {
	Convey("Given a light starting RED with d_red=30, d_green=10", t, func() {
		l := NewLight(1, 100, 10, 30, Red)

		Convey("It stays red for 29 ticks", func() {
			for i := 0; i < 29; i++ {
				l.Tick(1)
			}
			So(l.Phase, ShouldEqual, Red)
			So(l.RemainingTime(), ShouldEqual, 1)
		})

		Convey("It flips to green on the 30th tick, carrying slack", func() {
			for i := 0; i < 30; i++ {
				l.Tick(1)
			}
			So(l.Phase, ShouldEqual, Green)
			So(l.RemainingTime(), ShouldEqual, 10)
		})

		Convey("Remaining never drops below zero going into the next phase", func() {
			l2 := NewLight(2, 101, 10, 7, Red)
			l2.Tick(10) // overshoots d_red=7 by 3
			So(l2.Phase, ShouldEqual, Green)
			So(l2.RemainingTime(), ShouldEqual, 7)
		})
	})

	Convey("Given a complementary light negating another that starts GREEN", t, func() {
		l1 := NewLight(1, 100, 10, 30, Green)
		l2 := NewComplementaryLight(2, 101, l1, true)

		Convey("Durations are swapped", func() {
			So(l2.DurationGreen, ShouldEqual, 30)
			So(l2.DurationRed, ShouldEqual, 10)
		})

		Convey("Phase is the logical negation, so the pair is never both green", func() {
			So(l2.Phase, ShouldEqual, Red)
		})

		Convey("The pair stays out of phase across a full cycle", func() {
			for t := 0; t < 80; t++ {
				l1.Tick(1)
				l2.Tick(1)
				So(l1.Phase == Green && l2.Phase == Green, ShouldBeFalse)
			}
		})
	})

	Convey("Given a complementary light that copies (negates=false)", t, func() {
		l1 := NewLight(1, 100, 10, 30, Green)
		l2 := NewComplementaryLight(2, 101, l1, false)

		Convey("Durations and phase are copied", func() {
			So(l2.DurationGreen, ShouldEqual, l1.DurationGreen)
			So(l2.DurationRed, ShouldEqual, l1.DurationRed)
			So(l2.Phase, ShouldEqual, l1.Phase)
		})
	})
}
