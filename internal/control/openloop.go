package control

import "github.com/san-kum/fbgain/internal/dynamo"

// OpenLoop holds every input at a fixed level regardless of the state.
type OpenLoop struct {
	level dynamo.Control
}

func NewOpenLoop(dim int, level float64) *OpenLoop {
	u := make(dynamo.Control, dim)
	for i := range u {
		u[i] = level
	}
	return &OpenLoop{level: u}
}

func (o *OpenLoop) Compute(x dynamo.State, t float64) dynamo.Control {
	u := make(dynamo.Control, len(o.level))
	copy(u, o.level)
	return u
}
