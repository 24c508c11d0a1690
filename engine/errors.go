package engine

import "fmt"

// NoPathError is the fatal error propagated when a vehicle's route query
// fails mid-tick on a well-formed scene (§7).
type NoPathError struct {
	Actor, From, To int
}

func (e NoPathError) Error() string {
	return fmt.Sprintf("actor %d: no path from junction %d to junction %d", e.Actor, e.From, e.To)
}

// NoDestinationError is fatal: no reachable terminal junction remained
// while spawning or jam-rerouting.
type NoDestinationError struct {
	Actor int
}

func (e NoDestinationError) Error() string {
	return fmt.Sprintf("actor %d: no reachable destination", e.Actor)
}
