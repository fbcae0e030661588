// Package dynamo provides the simulation primitives used to exercise a
// controller against a continuous-time system.
//
// The package defines the interfaces and types for numerical integration of
// ordinary differential equations dX/dt = f(X, u, t):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems
//   - [Integrator]: numerical stepping interface
//   - [Controller]: feedback law evaluated once per step
//   - [Simulator]: orchestrates a simulation run
//
// # Example
//
//	sys, _ := lti.SeriesRLC(10, 0.1, 100e-6)
//	sim := dynamo.New(sys, integrators.NewRK4(), control.NewNone(1))
//	result, _ := sim.Run(ctx, x0, dynamo.DefaultConfig())
//
// Simulator instances are NOT thread-safe; create one per goroutine.
package dynamo
