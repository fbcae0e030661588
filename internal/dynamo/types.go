package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

type Control []float64

// System is a continuous-time plant dX/dt = f(X, u, t).
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Outputter is implemented by systems with a measured output y = g(X, u).
type Outputter interface {
	Output(x State, u Control) []float64
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, u Control, t, dt, tol float64) (State, float64, error)
}

type Controller interface {
	Compute(x State, t float64) Control
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1e-4,
		Duration:      0.5,
		Tolerance:     1e-6,
		MaxDt:         1e-2,
		MinDt:         1e-9,
		Adaptive:      false,
		ValidateState: true,
	}
}

type Result struct {
	States     []State
	Controls   []Control
	Outputs    [][]float64
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Output returns output channel ch of every recorded sample, falling back to
// state component ch when the system has no output map.
func (r *Result) Output(ch int) []float64 {
	data := make([]float64, len(r.States))
	for i := range r.States {
		switch {
		case i < len(r.Outputs) && ch < len(r.Outputs[i]):
			data[i] = r.Outputs[i][ch]
		case ch < len(r.States[i]):
			data[i] = r.States[i][ch]
		}
	}
	return data
}
