package integrators

import "github.com/san-kum/fbgain/internal/dynamo"

// Euler is the explicit forward Euler method. It is only first order and is
// kept as the reference stepper for comparing against RK4.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	return advance(make(dynamo.State, len(x)), x, dyn.Derive(x, u, t), dt)
}

// advance writes x + h*k into dst and returns it.
func advance(dst, x, k dynamo.State, h float64) dynamo.State {
	for i := range x {
		dst[i] = x[i] + h*k[i]
	}
	return dst
}
