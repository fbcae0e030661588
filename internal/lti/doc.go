// Package lti models continuous-time linear time-invariant systems
//
//	x'(t) = A x(t) + B u(t)
//	y(t)  = C x(t) + D u(t)
//
// on top of gonum dense matrices. A [System] satisfies [dynamo.System], so
// it can be handed straight to the simulator.
package lti
