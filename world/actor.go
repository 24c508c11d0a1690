package world

// Vehicle is a car occupying exactly one (road, lane, cell).
type Vehicle struct {
	ID     int
	RoadID int
	Lane   int
	Cell   int
	Target int

	Velocity float64 // m/s
	Profile  float64 // p in [0,1), sampled once at creation

	// JunctionVelocity is the speed a vehicle takes on immediately after
	// crossing into a new road: 5 + (2p-1) m/s, sampled once at creation.
	JunctionVelocity float64

	// JamSeconds is the count of seconds spent at v=0 on the current route.
	JamSeconds float64
}

// NewVehicle constructs a vehicle with its profile-derived junction velocity.
func NewVehicle(id, roadID, lane, cell, target int, velocity, profile float64) *Vehicle {
	return &Vehicle{
		ID:               id,
		RoadID:           roadID,
		Lane:             lane,
		Cell:             cell,
		Target:           target,
		Velocity:         velocity,
		Profile:          profile,
		JunctionVelocity: 5 + (2*profile - 1),
	}
}

// MaxAcceleration returns a_max = 1.25 + p for this vehicle.
func (v *Vehicle) MaxAcceleration() float64 {
	return 1.25 + v.Profile
}

// PedestrianNominalSpeed is the constant walking speed, m/s.
const PedestrianNominalSpeed = 1.1

// Pedestrian is a walker occupying exactly one (road, lane, cell) on a
// pedestrian road.
type Pedestrian struct {
	ID     int
	RoadID int
	Lane   int
	Cell   int
	Target int

	Velocity    float64
	TWalkLights float64 // minimum green remaining required to start crossing
}

// NewPedestrian constructs a pedestrian at rest.
func NewPedestrian(id, roadID, lane, cell, target int, tWalkLights float64) *Pedestrian {
	return &Pedestrian{
		ID:          id,
		RoadID:      roadID,
		Lane:        lane,
		Cell:        cell,
		Target:      target,
		TWalkLights: tWalkLights,
	}
}
