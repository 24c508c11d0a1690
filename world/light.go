package world

// Phase is a traffic light's current color.
type Phase int

const (
	Green Phase = iota
	Red
)

// Opposite returns the other phase.
func (p Phase) Opposite() Phase {
	if p == Green {
		return Red
	}
	return Green
}

func (p Phase) String() string {
	if p == Green {
		return "green"
	}
	return "red"
}

// Light is a two-phase timed state machine controlling exactly one road's
// entry to its target junction.
type Light struct {
	ID             int
	RoadID         int
	Phase          Phase
	DurationGreen  float64
	DurationRed    float64
	Remaining      float64
}

// NewLight returns a light starting in the given phase with the given durations.
func NewLight(id, roadID int, durationGreen, durationRed float64, phase Phase) *Light {
	l := &Light{
		ID:            id,
		RoadID:        roadID,
		DurationGreen: durationGreen,
		DurationRed:   durationRed,
		Phase:         phase,
	}
	l.Remaining = l.durationOf(phase)
	return l
}

func (l *Light) durationOf(p Phase) float64 {
	if p == Green {
		return l.DurationGreen
	}
	return l.DurationRed
}

// Tick advances the light by dt seconds, flipping phase (and carrying any
// negative slack into the new phase's remaining time) when the current
// phase's time expires.
func (l *Light) Tick(dt float64) {
	l.Remaining -= dt
	if l.Remaining <= 0 {
		slack := l.Remaining
		l.Phase = l.Phase.Opposite()
		l.Remaining = l.durationOf(l.Phase) + slack
	}
}

// RemainingTime returns the time until the next phase flip.
func (l *Light) RemainingTime() float64 {
	return l.Remaining
}

// NewComplementaryLight builds a light that derives its durations and phase
// from another light L1, per §4.2: with negates=true, durations are swapped
// and the initial phase is the logical negation of L1's; with negates=false
// durations and phase are copied.
func NewComplementaryLight(id, roadID int, other *Light, negates bool) *Light {
	durationGreen, durationRed := other.DurationGreen, other.DurationRed
	if negates {
		durationGreen, durationRed = other.DurationRed, other.DurationGreen
	}
	otherIsGreen := other.Phase == Green
	startGreen := otherIsGreen
	if negates {
		startGreen = !otherIsGreen
	}
	phase := Red
	if startGreen {
		phase = Green
	}
	return NewLight(id, roadID, durationGreen, durationRed, phase)
}
