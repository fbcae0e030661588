package config

import "sort"

var Presets = map[string]map[string]*Config{
	ModelRLC: {
		"example": {
			Model:   ModelRLC,
			Circuit: CircuitConfig{R: 10, L: 100e-3, C: 100e-6},
			Poles:   []string{"-20+10i", "-20-10i"},
			Simulation: SimulationConfig{
				Integrator: "rk4", Controller: "feedback", Dt: 1e-4, Duration: 0.5,
				InitState: []float64{0, 100e-6},
			},
		},
		"overdamped": {
			Model:   ModelRLC,
			Circuit: CircuitConfig{R: 10, L: 100e-3, C: 100e-6},
			Poles:   []string{"-20", "-40"},
			Simulation: SimulationConfig{
				Integrator: "rk4", Controller: "feedback", Dt: 1e-4, Duration: 0.5,
				InitState: []float64{0, 100e-6},
			},
		},
		"fast": {
			Model:   ModelRLC,
			Circuit: CircuitConfig{R: 10, L: 100e-3, C: 100e-6},
			Poles:   []string{"-200+100i", "-200-100i"},
			Simulation: SimulationConfig{
				Integrator: "rk4", Controller: "feedback", Dt: 1e-5, Duration: 0.05,
				InitState: []float64{0, 100e-6},
			},
		},
		"step": {
			Model:   ModelRLC,
			Circuit: CircuitConfig{R: 10, L: 100e-3, C: 100e-6},
			Poles:   []string{"-20+10i", "-20-10i"},
			Simulation: SimulationConfig{
				Integrator: "rk4", Controller: "feedback", Dt: 1e-4, Duration: 0.5,
				InitState: []float64{0, 0}, Reference: 1,
			},
		},
		"open": {
			Model:   ModelRLC,
			Circuit: CircuitConfig{R: 10, L: 100e-3, C: 100e-6},
			Poles:   []string{"-20+10i", "-20-10i"},
			Simulation: SimulationConfig{
				Integrator: "rk45", Controller: "none", Dt: 1e-5, Duration: 0.1,
				InitState: []float64{0, 100e-6},
			},
		},
	},
	ModelTransferFunction: {
		"second_order": {
			Model:            ModelTransferFunction,
			TransferFunction: TransferFunctionConfig{Num: []float64{2}, Den: []float64{1, 3, 2}},
			Poles:            []string{"-5+5i", "-5-5i"},
			Simulation: SimulationConfig{
				Integrator: "rk4", Controller: "feedback", Dt: 1e-3, Duration: 2,
				InitState: []float64{1, 0},
			},
		},
		"third_order": {
			Model:            ModelTransferFunction,
			TransferFunction: TransferFunctionConfig{Num: []float64{1}, Den: []float64{1, 6, 11, 6}},
			Poles:            []string{"-10", "-4+3i", "-4-3i"},
			Simulation: SimulationConfig{
				Integrator: "rk4", Controller: "feedback", Dt: 1e-3, Duration: 3,
				InitState: []float64{1, 0, 0},
			},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
// Fields the preset leaves unset keep their DefaultConfig values.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	p, ok := modelPresets[preset]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Model = p.Model
	cfg.Circuit = p.Circuit
	cfg.TransferFunction = TransferFunctionConfig{
		Num: append([]float64(nil), p.TransferFunction.Num...),
		Den: append([]float64(nil), p.TransferFunction.Den...),
	}
	cfg.Poles = append([]string(nil), p.Poles...)

	sim := p.Simulation
	sim.InitState = append([]float64(nil), p.Simulation.InitState...)
	if sim.Tolerance == 0 {
		sim.Tolerance = cfg.Simulation.Tolerance
	}
	if sim.PID == (PIDConfig{}) {
		sim.PID = cfg.Simulation.PID
	}
	cfg.Simulation = sim
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
