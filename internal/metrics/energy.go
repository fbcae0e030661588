package metrics

import "github.com/san-kum/fbgain/internal/dynamo"

// CircuitEnergy tracks the energy stored in a series RLC circuit with state
// [i, q]: ½·L·i² in the inductor plus q²/(2C) in the capacitor. Value is the
// energy at the last observed sample.
type CircuitEnergy struct {
	name        string
	inductance  float64
	capacitance float64
	initial     float64
	last        float64
	samples     int
}

func NewCircuitEnergy(l, c float64) *CircuitEnergy {
	return &CircuitEnergy{
		name:        "stored_energy",
		inductance:  l,
		capacitance: c,
	}
}

func (e *CircuitEnergy) Name() string { return e.name }

func (e *CircuitEnergy) Energy(x dynamo.State) float64 {
	if len(x) < 2 {
		return 0
	}
	i, q := x[0], x[1]
	return 0.5*e.inductance*i*i + q*q/(2*e.capacitance)
}

func (e *CircuitEnergy) Observe(x dynamo.State, u dynamo.Control, t float64) {
	energy := e.Energy(x)
	if e.samples == 0 {
		e.initial = energy
	}
	e.last = energy
	e.samples++
}

func (e *CircuitEnergy) Value() float64 {
	return e.last
}

// Dissipated returns the fraction of the initial energy no longer stored.
func (e *CircuitEnergy) Dissipated() float64 {
	if e.initial == 0 {
		return 0
	}
	return 1 - e.last/e.initial
}

func (e *CircuitEnergy) Reset() {
	e.initial = 0
	e.last = 0
	e.samples = 0
}
