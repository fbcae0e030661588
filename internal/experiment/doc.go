// Package experiment assembles a pole-placement design from a configuration
// and runs it through the simulator: system construction, gain computation,
// controller and integrator selection, and the default metric set.
package experiment
