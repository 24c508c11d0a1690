package engine

import "trafficsim/snapshot"

// tick runs one full tick under the engine's mutex: lights, then vehicles
// in stable id order, prune, pedestrians in stable id order, prune,
// spawners, then a snapshot append — the fixed order of §4.8. The step
// counter increments before the tick body runs.
func (e *Engine) tick() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.currentStep++

	for _, id := range sortedLightIDs(e.world) {
		e.world.Lights[id].Tick(e.cfg.StepTime)
	}

	var destroyedVehicles []int
	for _, id := range sortedVehicleIDs(e.world) {
		v, ok := e.world.Vehicles[id]
		if !ok {
			continue
		}
		destroyed, err := e.stepVehicle(v)
		if err != nil {
			return err
		}
		if destroyed {
			destroyedVehicles = append(destroyedVehicles, id)
		}
	}
	for _, id := range destroyedVehicles {
		delete(e.world.Vehicles, id)
	}

	var destroyedPedestrians []int
	for _, id := range sortedPedestrianIDs(e.world) {
		p, ok := e.world.Pedestrians[id]
		if !ok {
			continue
		}
		if e.stepPedestrian(p) {
			destroyedPedestrians = append(destroyedPedestrians, id)
		}
	}
	for _, id := range destroyedPedestrians {
		delete(e.world.Pedestrians, id)
	}

	for _, s := range e.world.Spawners {
		e.tickSpawner(s)
	}

	update := e.appendSnapshot()
	e.updateGauges(update)
	e.publish(update)
	return nil
}

func (e *Engine) appendSnapshot() snapshot.TickUpdate {
	update := snapshot.TickUpdate{Step: e.currentStep}
	for _, id := range sortedVehicleIDs(e.world) {
		v := e.world.Vehicles[id]
		row := snapshotCarRow(e.currentStep, v, e.net)
		e.snap.AppendCar(row)
		update.Cars = append(update.Cars, row)
	}
	for _, id := range sortedLightIDs(e.world) {
		l := e.world.Lights[id]
		row := snapshotLightRow(e.currentStep, l)
		e.snap.AppendLight(row)
		update.Lights = append(update.Lights, row)
	}
	return update
}

func (e *Engine) updateGauges(update snapshot.TickUpdate) {
	var sum float64
	for _, row := range update.Cars {
		sum += row.Velocity
	}
	mean := 0.0
	if n := len(update.Cars); n > 0 {
		mean = sum / float64(n)
	}
	e.gaugeMeanVelocity.Store(mean)
	e.gaugeVehicleCount.Store(float64(len(update.Cars)))
	e.gaugePedestrianCount.Store(float64(len(e.world.Pedestrians)))
	e.gaugeStep.Store(float64(e.currentStep))
}
