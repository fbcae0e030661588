// Package control provides feedback laws for LTI plants.
//
// Controllers implement [dynamo.Controller]:
//
//   - [StateFeedback]: u = −F (x − x*) + N̄ r, with F from pole placement
//   - [PID]: output-error PID, kept for comparison against placed gains
//   - [OpenLoop]: constant input, the uncontrolled reference
//
// # Usage
//
//	f, _ := place.Gain(sys.A, sys.B, poles)
//	ctrl := control.NewStateFeedback(f.RawRowView(0), nil)
//	sim := dynamo.New(sys, integ, ctrl)
package control
