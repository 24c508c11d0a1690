package sceneio

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"trafficsim/rng"
	"trafficsim/world"
)

const minimalScene = `{
  "width": 200, "height": 200,
  "junctions": [
    {"id": 0, "x": 0, "y": 0, "terminal": true},
    {"id": 1, "x": 100, "y": 0, "terminal": true}
  ],
  "roads": [
    {"id": 1, "source": 0, "target": 1, "lanes": 1, "v_avg": 10, "v_std": 0, "is_sidewalk": false}
  ],
  "cars": [
    {"id": 1, "road": 1, "lane": 0, "cell": 0, "target_junction": 1, "velocity": 0}
  ],
  "pedestrians": [],
  "lights": [
    {"id": 1, "road": 1, "duration_green": 10, "duration_red": 30, "state": "red"}
  ],
  "spawners": []
}`

func TestLoad(t *testing.T) {
	Convey("Given a minimal well-formed scene", t, func() {
		r := rng.New(1)
		w, err := decode(strings.NewReader(minimalScene), r)

		Convey("It loads without error", func() {
			So(err, ShouldBeNil)
			So(w.Junctions, ShouldHaveLength, 2)
			So(w.Roads, ShouldHaveLength, 1)
		})

		Convey("The car occupies its declared cell", func() {
			So(w.Roads[1].Cells.At(0, 0), ShouldEqual, int32(1))
		})

		Convey("The light is wired to its road", func() {
			So(w.Roads[1].LightID, ShouldEqual, 1)
			So(w.Lights[1].Phase, ShouldEqual, world.Red)
		})
	})

	Convey("Given a car referencing an unknown road", t, func() {
		bad := strings.Replace(minimalScene, `"road": 1, "lane": 0, "cell": 0, "target_junction": 1, "velocity": 0`,
			`"road": 99, "lane": 0, "cell": 0, "target_junction": 1, "velocity": 0`, 1)
		_, err := decode(strings.NewReader(bad), rng.New(1))

		Convey("Load fails with LoadError", func() {
			So(err, ShouldNotBeNil)
			_, ok := err.(LoadError)
			So(ok, ShouldBeTrue)
		})
	})

	Convey("Given a pedestrian placed on a vehicular road", t, func() {
		bad := strings.Replace(minimalScene, `"pedestrians": [],`,
			`"pedestrians": [{"id": 2, "road": 1, "lane": 0, "cell": 0, "target_junction": 1, "velocity": 0, "t_walk_lights": 5}],`, 1)
		_, err := decode(strings.NewReader(bad), rng.New(1))

		Convey("Load fails validating road kind", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
