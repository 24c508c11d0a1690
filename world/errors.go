package world

import "fmt"

// BadLaneError is returned when a grid operation addresses a lane outside [0, Lanes).
type BadLaneError struct {
	Lane  int
	Lanes int
}

func (e BadLaneError) Error() string {
	return fmt.Sprintf("bad lane %d: road has %d lanes", e.Lane, e.Lanes)
}

// CellOutOfRangeError is returned when a grid operation addresses a cell outside [0, NCell).
type CellOutOfRangeError struct {
	Cell  int
	Cells int
}

func (e CellOutOfRangeError) Error() string {
	return fmt.Sprintf("cell %d out of range: road has %d cells", e.Cell, e.Cells)
}
