package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/san-kum/fbgain/internal/config"
	"github.com/san-kum/fbgain/internal/control"
	"github.com/san-kum/fbgain/internal/dynamo"
	"github.com/san-kum/fbgain/internal/integrators"
	"github.com/san-kum/fbgain/internal/metrics"
	"gonum.org/v1/gonum/mat"
)

type controllerFactory func(d *Design, sim config.SimulationConfig) dynamo.Controller

var controllers = map[string]controllerFactory{
	"feedback": func(d *Design, sim config.SimulationConfig) dynamo.Controller {
		return control.NewStateFeedback(d.GainRow(), nil).WithReference(d.Prescale, sim.Reference)
	},
	"pid": func(d *Design, sim config.SimulationConfig) dynamo.Controller {
		return control.NewPID(sim.PID.Kp, sim.PID.Ki, sim.PID.Kd, sim.Reference, d.OutputSensor())
	},
	"none": func(d *Design, sim config.SimulationConfig) dynamo.Controller {
		return control.NewOpenLoop(d.System.ControlDim(), 0)
	},
	"step": func(d *Design, sim config.SimulationConfig) dynamo.Controller {
		return control.NewOpenLoop(d.System.ControlDim(), sim.Reference)
	},
}

// ControllerNames lists the controllers Simulate accepts.
func ControllerNames() []string {
	names := make([]string, 0, len(controllers))
	for name := range controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Controller returns a fresh controller of the given kind bound to the design.
func (d *Design) Controller(name string, sim config.SimulationConfig) (dynamo.Controller, error) {
	fn, ok := controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s (available: %v)", name, ControllerNames())
	}
	return fn(d, sim), nil
}

// OutputSensor reads the first output channel, C[0]·x.
func (d *Design) OutputSensor() control.Sensor {
	row := mat.Row(nil, 0, d.System.C)
	return func(x dynamo.State) float64 {
		y := 0.0
		for i, c := range row {
			if i < len(x) {
				y += c * x[i]
			}
		}
		return y
	}
}

// DefaultMetrics returns the metrics recorded on every run. Circuit energy is
// only meaningful for the RLC model.
func DefaultMetrics(cfg *config.Config, d *Design) []dynamo.Metric {
	ms := []dynamo.Metric{
		metrics.NewControlEffort(),
		metrics.NewPeakControl(),
		metrics.NewStability(10, 1e-3),
		metrics.NewSettlingTime(0.02, d.OutputSensor()),
		metrics.NewOvershoot(cfg.Simulation.Reference, d.OutputSensor()),
	}
	if cfg.Model == config.ModelRLC {
		ms = append(ms, metrics.NewCircuitEnergy(cfg.Circuit.L, cfg.Circuit.C))
	}
	return ms
}

// Simulate runs the design from the configured initial state. A missing
// initial state starts from rest.
func Simulate(ctx context.Context, cfg *config.Config, d *Design, logger *slog.Logger, observers ...dynamo.Observer) (*dynamo.Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sim := cfg.Simulation

	integ, err := integrators.ByName(sim.Integrator)
	if err != nil {
		return nil, err
	}
	ctrl, err := d.Controller(sim.Controller, sim)
	if err != nil {
		return nil, err
	}

	x0 := make(dynamo.State, d.System.StateDim())
	if len(sim.InitState) > 0 {
		if len(sim.InitState) != len(x0) {
			return nil, fmt.Errorf("init_state has %d entries, system has %d: %w",
				len(sim.InitState), len(x0), dynamo.ErrDimensionMismatch)
		}
		copy(x0, sim.InitState)
	}

	s := dynamo.New(d.System, integ, ctrl)
	for _, m := range DefaultMetrics(cfg, d) {
		s.AddMetric(m)
	}
	for _, o := range observers {
		s.AddObserver(o)
	}

	simCfg := dynamo.DefaultConfig()
	simCfg.Dt = sim.Dt
	simCfg.Duration = sim.Duration
	simCfg.Adaptive = sim.Adaptive
	if sim.Tolerance > 0 {
		simCfg.Tolerance = sim.Tolerance
	}
	if simCfg.MaxDt < sim.Dt {
		simCfg.MaxDt = sim.Dt
	}

	logger.Debug("simulating",
		"integrator", sim.Integrator,
		"controller", sim.Controller,
		"dt", sim.Dt,
		"duration", sim.Duration,
		"adaptive", sim.Adaptive)

	result, err := s.Run(ctx, x0, simCfg)
	if err != nil {
		return result, err
	}
	for _, e := range result.Errors {
		logger.Warn("simulation step error", "error", e)
	}
	logger.Debug("simulation finished", "steps", result.StepsTaken, "metrics", result.Metrics)
	return result, nil
}
