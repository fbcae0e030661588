// Package analysis inspects simulated traces in the frequency domain.
//
// A pair of closed-loop poles σ ± jω rings at ω/2π Hz, so the dominant
// frequency of a simulated response is an independent check on a placed
// gain:
//
//	hz := analysis.DominantFrequency(result.Output(0), 1/dt)
package analysis
