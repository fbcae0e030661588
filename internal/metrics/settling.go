package metrics

import (
	"math"

	"github.com/san-kum/fbgain/internal/dynamo"
)

// SettlingTime reports the first time after which the sensed signal stays
// within band (a fraction, e.g. 0.02) of its final value for the rest of
// the run. The final value is the last observed sample.
type SettlingTime struct {
	band  float64
	sense func(x dynamo.State) float64
	times []float64
	vals  []float64
}

func NewSettlingTime(band float64, sense func(x dynamo.State) float64) *SettlingTime {
	if sense == nil {
		sense = func(x dynamo.State) float64 { return x[0] }
	}
	return &SettlingTime{band: band, sense: sense}
}

func (s *SettlingTime) Name() string { return "settling_time" }

func (s *SettlingTime) Observe(x dynamo.State, u dynamo.Control, t float64) {
	s.times = append(s.times, t)
	s.vals = append(s.vals, s.sense(x))
}

func (s *SettlingTime) Value() float64 {
	n := len(s.vals)
	if n == 0 {
		return 0
	}

	final := s.vals[n-1]
	peak := 0.0
	for _, v := range s.vals {
		peak = math.Max(peak, math.Abs(v-final))
	}
	tol := s.band * math.Max(math.Abs(final), peak)
	if tol == 0 {
		return 0
	}

	for i := n - 1; i >= 0; i-- {
		if math.Abs(s.vals[i]-final) > tol {
			if i == n-1 {
				return s.times[i]
			}
			return s.times[i+1]
		}
	}
	return s.times[0]
}

func (s *SettlingTime) Reset() {
	s.times = s.times[:0]
	s.vals = s.vals[:0]
}

// Overshoot is the peak excursion of the sensed signal beyond target,
// relative to the distance between the first sample and target.
type Overshoot struct {
	target float64
	sense  func(x dynamo.State) float64
	start  float64
	peak   float64
	seen   bool
}

func NewOvershoot(target float64, sense func(x dynamo.State) float64) *Overshoot {
	if sense == nil {
		sense = func(x dynamo.State) float64 { return x[0] }
	}
	return &Overshoot{target: target, sense: sense}
}

func (o *Overshoot) Name() string { return "overshoot" }

func (o *Overshoot) Observe(x dynamo.State, u dynamo.Control, t float64) {
	y := o.sense(x)
	if !o.seen {
		o.start = y
		o.seen = true
	}
	// excursion past target, measured in the direction of travel
	dir := 1.0
	if o.target < o.start {
		dir = -1.0
	}
	o.peak = math.Max(o.peak, dir*(y-o.target))
}

func (o *Overshoot) Value() float64 {
	span := math.Abs(o.target - o.start)
	if span == 0 {
		return 0
	}
	return o.peak / span
}

func (o *Overshoot) Reset() {
	o.peak = 0
	o.seen = false
}
