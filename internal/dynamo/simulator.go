package dynamo

import (
	"context"
	"errors"
	"fmt"
	"math"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	controller Controller
	metrics    []Metric
	observers  []Observer
}

func New(dyn System, integrator Integrator, controller Controller) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("initial state has %d entries, system has %d: %w",
			len(x0), s.dyn.StateDim(), ErrDimensionMismatch)
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		States:   make([]State, 0, steps+1),
		Controls: make([]Control, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	out, hasOutput := s.dyn.(Outputter)

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	for i := 0; t < cfg.Duration-dt*1e-9; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		u := s.controller.Compute(x, t)
		if hasOutput {
			result.Outputs = append(result.Outputs, out.Output(x, u))
		}

		for _, m := range s.metrics {
			m.Observe(x, u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, u, t)
		}

		if t+dt > cfg.Duration {
			dt = cfg.Duration - t
		}

		var newX State
		var stepErr error
		h := dt

		if cfg.Adaptive {
			newX, h, dt, stepErr = s.adaptiveStep(x, u, t, dt, cfg)
		} else {
			newX = s.integrator.Step(s.dyn, x, u, t, dt)
		}

		if stepErr != nil {
			result.Errors = append(result.Errors, stepErr)
		}

		if cfg.ValidateState && !newX.IsValid() {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			break
		}

		x = newX
		t += h
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, t)
	}

	if hasOutput && len(result.Outputs) < len(result.States) {
		result.Outputs = append(result.Outputs, out.Output(x, s.controller.Compute(x, t)))
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, ErrInvalidConfig)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, ErrInvalidConfig)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping: %w", ErrInvalidConfig)
	}
	return nil
}

const maxRejections = 50

// adaptiveStep returns the accepted state, the step actually taken and the
// step size to try next.
func (s *Simulator) adaptiveStep(x State, u Control, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		for attempt := 0; ; attempt++ {
			newX, next, err := adaptive.StepAdaptive(s.dyn, x, u, t, dt, cfg.Tolerance)
			if errors.Is(err, ErrStepRejected) {
				if next < dt && next >= cfg.MinDt && attempt < maxRejections {
					dt = next
					continue
				}
				// at the step floor the estimate is accepted as is
				err = nil
			}
			if cfg.MaxDt > 0 && next > cfg.MaxDt {
				next = cfg.MaxDt
			}
			return newX, dt, next, err
		}
	}

	x1 := s.integrator.Step(s.dyn, x, u, t, dt)
	xHalf := s.integrator.Step(s.dyn, x, u, t, dt/2)
	x2 := s.integrator.Step(s.dyn, xHalf, u, t+dt/2, dt/2)

	err := x1.Sub(x2).Norm()

	if err > cfg.Tolerance && dt/2 >= cfg.MinDt {
		return s.adaptiveStep(x, u, t, dt/2, cfg)
	}

	next := dt
	if err < cfg.Tolerance/10 && dt < cfg.MaxDt {
		next = math.Min(dt*2, cfg.MaxDt)
	}

	return x2, dt, next, nil
}
