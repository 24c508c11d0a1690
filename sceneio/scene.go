// Package sceneio loads a scene description (the §6 JSON format) into a
// populated world.World. Deserialization and cross-reference validation use
// only encoding/json: the corpus offers no alternative for a one-shot,
// load-time JSON document (see DESIGN.md — the one stdlib-by-design
// component of the module).
package sceneio

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"trafficsim/rng"
	"trafficsim/world"
)

type junctionJSON struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Terminal bool    `json:"terminal"`
}

type roadJSON struct {
	ID         int     `json:"id"`
	Source     int     `json:"source"`
	Target     int     `json:"target"`
	Lanes      int     `json:"lanes"`
	VAvg       float64 `json:"v_avg"`
	VStd       float64 `json:"v_std"`
	IsSidewalk bool    `json:"is_sidewalk"`
}

type carJSON struct {
	ID             int     `json:"id"`
	Road           int     `json:"road"`
	Lane           int     `json:"lane"`
	Cell           int     `json:"cell"`
	TargetJunction int     `json:"target_junction"`
	Velocity       float64 `json:"velocity"`
}

type pedestrianJSON struct {
	ID             int     `json:"id"`
	Road           int     `json:"road"`
	Lane           int     `json:"lane"`
	Cell           int     `json:"cell"`
	TargetJunction int     `json:"target_junction"`
	Velocity       float64 `json:"velocity"`
	TWalkLights    float64 `json:"t_walk_lights"`
}

type lightJSON struct {
	ID              int      `json:"id"`
	Road            int      `json:"road"`
	DurationGreen   *float64 `json:"duration_green"`
	DurationRed     *float64 `json:"duration_red"`
	State           *string  `json:"state"`
	ComplementaryTo *int     `json:"complementary_to"`
	Negates         bool     `json:"negates"`
}

type spawnerJSON struct {
	Junction           int     `json:"junction"`
	SpawnsPedestrians  bool    `json:"spawns_pedestrians"`
	SpawnFreq          float64 `json:"spawn_freq"`
	SpawnFreqStd       float64 `json:"spawn_freq_std"`
	RandomDelayOnStart bool    `json:"random_delay_on_start"`
}

type sceneJSON struct {
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	Junctions   []junctionJSON   `json:"junctions"`
	Roads       []roadJSON       `json:"roads"`
	Cars        []carJSON        `json:"cars"`
	Pedestrians []pedestrianJSON `json:"pedestrians"`
	Lights      []lightJSON      `json:"lights"`
	Spawners    []spawnerJSON    `json:"spawners"`
}

// Load reads and validates a scene file at path, constructing a populated
// world.World. r seeds the profile draws for load-time cars.
func Load(path string, r *rng.Source) (*world.World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadError{Kind: "open", Detail: err.Error()}
	}
	defer f.Close()
	return decode(f, r)
}

func decode(rd io.Reader, r *rng.Source) (*world.World, error) {
	var doc sceneJSON
	if err := json.NewDecoder(rd).Decode(&doc); err != nil {
		return nil, LoadError{Kind: "json", Detail: err.Error()}
	}

	w := world.New()
	w.Width, w.Height = doc.Width, doc.Height

	for _, j := range doc.Junctions {
		w.Junctions[j.ID] = world.Junction{ID: j.ID, X: j.X, Y: j.Y, Terminal: j.Terminal}
		if j.Terminal {
			w.TerminalJunctions = append(w.TerminalJunctions, j.ID)
		}
	}

	for _, rd := range doc.Roads {
		if _, ok := w.Junctions[rd.Source]; !ok {
			return nil, LoadError{Kind: "road", Detail: fmt.Sprintf("road %d: unknown source junction %d", rd.ID, rd.Source)}
		}
		if _, ok := w.Junctions[rd.Target]; !ok {
			return nil, LoadError{Kind: "road", Detail: fmt.Sprintf("road %d: unknown target junction %d", rd.ID, rd.Target)}
		}
		kind := world.Vehicular
		if rd.IsSidewalk {
			kind = world.Pedestrian
		}
		w.Roads[rd.ID] = world.NewRoad(rd.ID, rd.Source, rd.Target, rd.Lanes, rd.VAvg, rd.VStd, roadLength(w, rd), kind)
	}

	if err := loadLights(w, doc.Lights); err != nil {
		return nil, err
	}

	for _, c := range doc.Cars {
		rd, ok := w.Roads[c.Road]
		if !ok {
			return nil, LoadError{Kind: "car", Detail: fmt.Sprintf("car %d: unknown road %d", c.ID, c.Road)}
		}
		if rd.Kind != world.Vehicular {
			return nil, LoadError{Kind: "car", Detail: fmt.Sprintf("car %d: road %d is not vehicular", c.ID, c.Road)}
		}
		profile := r.Profile()
		v := world.NewVehicle(c.ID, c.Road, c.Lane, c.Cell, c.TargetJunction, c.Velocity, profile)
		w.Vehicles[c.ID] = v
		if err := rd.Cells.Occupy(c.Lane, c.Cell, c.ID); err != nil {
			return nil, LoadError{Kind: "car", Detail: fmt.Sprintf("car %d: %s", c.ID, err)}
		}
	}

	for _, p := range doc.Pedestrians {
		rd, ok := w.Roads[p.Road]
		if !ok {
			return nil, LoadError{Kind: "pedestrian", Detail: fmt.Sprintf("pedestrian %d: unknown road %d", p.ID, p.Road)}
		}
		if rd.Kind != world.Pedestrian {
			return nil, LoadError{Kind: "pedestrian", Detail: fmt.Sprintf("pedestrian %d: road %d is not a sidewalk", p.ID, p.Road)}
		}
		ped := world.NewPedestrian(p.ID, p.Road, p.Lane, p.Cell, p.TargetJunction, p.TWalkLights)
		ped.Velocity = p.Velocity
		w.Pedestrians[p.ID] = ped
		if err := rd.Cells.Occupy(p.Lane, p.Cell, p.ID); err != nil {
			return nil, LoadError{Kind: "pedestrian", Detail: fmt.Sprintf("pedestrian %d: %s", p.ID, err)}
		}
	}

	if err := loadSpawners(w, doc.Spawners, r); err != nil {
		return nil, err
	}

	return w, nil
}

// roadLength recovers a straight-line length when the scene doesn't carry
// one explicitly; §6's road schema has no length field, so it is derived
// from junction coordinates the way a grid-laid-out scene implies.
func roadLength(w *world.World, rd roadJSON) float64 {
	src, tgt := w.Junctions[rd.Source], w.Junctions[rd.Target]
	dx, dy := tgt.X-src.X, tgt.Y-src.Y
	length := math.Hypot(dx, dy)
	if length <= 0 {
		return 1
	}
	return length
}

func loadLights(w *world.World, lights []lightJSON) error {
	pending := make([]lightJSON, 0, len(lights))
	for _, l := range lights {
		if l.ComplementaryTo != nil {
			pending = append(pending, l)
			continue
		}
		rd, ok := w.Roads[l.Road]
		if !ok {
			return LoadError{Kind: "light", Detail: fmt.Sprintf("light %d: unknown road %d", l.ID, l.Road)}
		}
		if l.DurationGreen == nil || l.DurationRed == nil || l.State == nil {
			return LoadError{Kind: "light", Detail: fmt.Sprintf("light %d: missing duration/state", l.ID)}
		}
		phase := world.Red
		if *l.State == "green" {
			phase = world.Green
		}
		light := world.NewLight(l.ID, l.Road, *l.DurationGreen, *l.DurationRed, phase)
		w.Lights[l.ID] = light
		rd.LightID = l.ID
	}

	for _, l := range pending {
		rd, ok := w.Roads[l.Road]
		if !ok {
			return LoadError{Kind: "light", Detail: fmt.Sprintf("light %d: unknown road %d", l.ID, l.Road)}
		}
		other, ok := w.Lights[*l.ComplementaryTo]
		if !ok {
			return LoadError{Kind: "light", Detail: fmt.Sprintf("light %d: unknown complementary_to %d", l.ID, *l.ComplementaryTo)}
		}
		light := world.NewComplementaryLight(l.ID, l.Road, other, l.Negates)
		w.Lights[l.ID] = light
		rd.LightID = l.ID
	}
	return nil
}

func loadSpawners(w *world.World, spawners []spawnerJSON, r *rng.Source) error {
	for _, s := range spawners {
		j, ok := w.Junctions[s.Junction]
		if !ok {
			return LoadError{Kind: "spawner", Detail: fmt.Sprintf("spawner: unknown junction %d", s.Junction)}
		}
		kind := world.VehicleSpawner
		if s.SpawnsPedestrians {
			kind = world.PedestrianSpawner
		}
		if err := validateSpawnerJunction(w, j.ID, kind); err != nil {
			return err
		}
		w.Spawners = append(w.Spawners, world.NewSpawner(j.ID, kind, s.SpawnFreq, s.SpawnFreqStd, s.RandomDelayOnStart, r))
	}
	return nil
}

func validateSpawnerJunction(w *world.World, junctionID int, kind world.SpawnerKind) error {
	wantKind := world.Vehicular
	if kind == world.PedestrianSpawner {
		wantKind = world.Pedestrian
	}
	for _, rd := range w.Roads {
		if rd.Source == junctionID && rd.Kind == wantKind {
			return nil
		}
		if kind == world.PedestrianSpawner && rd.Kind == wantKind && (rd.Source == junctionID || rd.Target == junctionID) {
			return nil
		}
	}
	return LoadError{Kind: "spawner", Detail: fmt.Sprintf("junction %d has no outgoing edge suitable for this spawner kind", junctionID)}
}
