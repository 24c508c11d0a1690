package world

import "math"

// RoadKind distinguishes vehicular roads from pedestrian sidewalks.
type RoadKind int

const (
	Vehicular RoadKind = iota
	Pedestrian
)

const (
	// CellLengthVehicular is the average cell length used to derive n_cell for vehicular roads.
	CellLengthVehicular = 5.0
	// CellLengthPedestrian is the average cell length used to derive n_cell for pedestrian roads.
	CellLengthPedestrian = 2.0
	// NoLight marks a road with no traffic light at its target end.
	NoLight = -1
)

// Road is a directed edge from Source to Target carrying either vehicular
// or pedestrian traffic, with its own lane x cell occupancy grid.
type Road struct {
	ID      int
	Source  int
	Target  int
	Lanes   int
	VAvg    float64
	VStd    float64
	Kind    RoadKind
	LightID int // NoLight if none

	Length float64 // meters
	DCell  float64 // derived cell length
	NCell  int     // derived cell count

	Cells *Grid
}

// NewRoad derives cell geometry from length and kind and allocates an empty grid.
func NewRoad(id, source, target, lanes int, vAvg, vStd, length float64, kind RoadKind) *Road {
	avg := CellLengthVehicular
	if kind == Pedestrian {
		avg = CellLengthPedestrian
	}
	nCell := int(math.Ceil(length / avg))
	if nCell < 1 {
		nCell = 1
	}
	return &Road{
		ID:      id,
		Source:  source,
		Target:  target,
		Lanes:   lanes,
		VAvg:    vAvg,
		VStd:    vStd,
		Kind:    kind,
		LightID: NoLight,
		Length:  length,
		DCell:   length / float64(nCell),
		NCell:   nCell,
		Cells:   NewGrid(lanes, nCell),
	}
}
