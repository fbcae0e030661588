package integrators

import "github.com/san-kum/fbgain/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta method. Scratch buffers are
// reused between steps, so an RK4 value must not be shared across goroutines.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

// stage evaluates the derivative at x + h*k into dst.
func (r *RK4) stage(dst dynamo.State, dyn dynamo.System, x, k dynamo.State, u dynamo.Control, t, h float64) {
	copy(dst, dyn.Derive(advance(r.scratch, x, k, h), u, t))
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, dyn.Derive(x, u, t))
	r.stage(r.k2, dyn, x, r.k1, u, t+dt*0.5, dt*0.5)
	r.stage(r.k3, dyn, x, r.k2, u, t+dt*0.5, dt*0.5)
	r.stage(r.k4, dyn, x, r.k3, u, t+dt, dt)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}
