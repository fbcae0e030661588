package control

import "github.com/san-kum/fbgain/internal/dynamo"

// StateFeedback applies u = −F (x − Target) + Prescale·Reference for a
// single-input plant.
type StateFeedback struct {
	Gain      []float64
	Target    dynamo.State
	Prescale  float64
	Reference float64
}

// NewStateFeedback copies gain so later edits to the caller's slice do not
// leak into a running simulation. A nil target regulates to the origin.
func NewStateFeedback(gain []float64, target dynamo.State) *StateFeedback {
	g := make([]float64, len(gain))
	copy(g, gain)
	return &StateFeedback{Gain: g, Target: target.Clone()}
}

// WithReference enables reference tracking with the given prescaler.
func (s *StateFeedback) WithReference(prescale, reference float64) *StateFeedback {
	s.Prescale = prescale
	s.Reference = reference
	return s
}

func (s *StateFeedback) Compute(x dynamo.State, t float64) dynamo.Control {
	u := s.Prescale * s.Reference
	for j := range x {
		if j >= len(s.Gain) {
			break
		}
		target := 0.0
		if j < len(s.Target) {
			target = s.Target[j]
		}
		u -= s.Gain[j] * (x[j] - target)
	}
	return dynamo.Control{u}
}
