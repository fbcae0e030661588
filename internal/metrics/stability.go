package metrics

import "github.com/san-kum/fbgain/internal/dynamo"

// Stability is the fraction of samples whose state norm stayed within
// growth times the initial norm. floor keeps the bound meaningful for runs
// that start at rest. A placed closed loop scores 1; an unstable one falls
// towards 0 as the response diverges.
type Stability struct {
	growth  float64
	floor   float64
	bound   float64
	inside  int
	samples int
}

func NewStability(growth, floor float64) *Stability {
	return &Stability{growth: growth, floor: floor}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(x dynamo.State, u dynamo.Control, t float64) {
	n := x.Norm()
	if s.samples == 0 {
		s.bound = s.growth * max(n, s.floor)
	}
	s.samples++
	if n <= s.bound {
		s.inside++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return float64(s.inside) / float64(s.samples)
}

func (s *Stability) Reset() {
	s.bound = 0
	s.inside = 0
	s.samples = 0
}
