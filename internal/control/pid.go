package control

import "github.com/san-kum/fbgain/internal/dynamo"

// Sensor maps a state to the scalar a PID loop regulates.
type Sensor func(x dynamo.State) float64

// PID regulates a sensed output to Target. It keeps integral and derivative
// memory between calls, so a PID value serves a single run; call Reset
// before reusing it.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	sense    Sensor
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

// NewPID builds a PID on the sensed value; a nil sensor reads x[0].
func NewPID(kp, ki, kd, target float64, sense Sensor) *PID {
	if sense == nil {
		sense = func(x dynamo.State) float64 { return x[0] }
	}
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		sense:  sense,
		first:  true,
	}
}

func (p *PID) Compute(x dynamo.State, t float64) dynamo.Control {
	if len(x) == 0 {
		return dynamo.Control{0}
	}

	err := p.Target - p.sense(x)

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return dynamo.Control{p.Kp * err}
	}

	dt := t - p.prevT
	if dt <= 0 {
		return dynamo.Control{p.Kp*err + p.Ki*p.integral}
	}

	p.integral += err * dt
	derivative := (err - p.prevErr) / dt
	p.prevErr = err
	p.prevT = t

	return dynamo.Control{p.Kp*err + p.Ki*p.integral + p.Kd*derivative}
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}
