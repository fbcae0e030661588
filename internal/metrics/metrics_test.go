package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/fbgain/internal/dynamo"
)

func TestCircuitEnergy(t *testing.T) {
	m := NewCircuitEnergy(0.1, 100e-6)

	m.Observe(dynamo.State{0, 1e-4}, nil, 0)
	// q²/(2C) = 1e-8 / 2e-4
	if math.Abs(m.Value()-5e-5) > 1e-15 {
		t.Errorf("expected 5e-5 J, got %g", m.Value())
	}

	m.Observe(dynamo.State{0, 0.5e-4}, nil, 0.1)
	if math.Abs(m.Dissipated()-0.75) > 1e-12 {
		t.Errorf("expected 75%% dissipated, got %f", m.Dissipated())
	}

	m.Reset()
	if m.Value() != 0 || m.Dissipated() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(nil, dynamo.Control{-2}, 0)
	m.Observe(nil, dynamo.Control{4}, 0)
	if m.Value() != 3 {
		t.Errorf("expected mean |u| = 3, got %f", m.Value())
	}

	p := NewPeakControl()
	p.Observe(nil, dynamo.Control{-5}, 0)
	p.Observe(nil, dynamo.Control{4}, 0)
	if p.Value() != 5 {
		t.Errorf("expected peak 5, got %f", p.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(2.0, 1e-3)
	if m.Value() != 1.0 {
		t.Error("expected full stability with no samples")
	}
	m.Observe(dynamo.State{3, 4}, nil, 0)
	m.Observe(dynamo.State{6, 8}, nil, 0.1)
	m.Observe(dynamo.State{30, 40}, nil, 0.2)
	m.Observe(dynamo.State{60, 80}, nil, 0.3)
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}

	m.Reset()
	m.Observe(dynamo.State{0, 0}, nil, 0)
	m.Observe(dynamo.State{1e-3, 0}, nil, 0.1)
	m.Observe(dynamo.State{1, 0}, nil, 0.2)
	if got := m.Value(); got < 0.66 || got > 0.67 {
		t.Errorf("expected 2/3 from rest, got %f", got)
	}
}

func TestSettlingTime(t *testing.T) {
	m := NewSettlingTime(0.02, nil)

	// first-order decay toward 1 with time constant 0.1 s
	for i := 0; i <= 2000; i++ {
		tm := float64(i) * 1e-3
		m.Observe(dynamo.State{1 - math.Exp(-tm/0.1)}, nil, tm)
	}

	// e^{-t/τ} = 0.02 at t ≈ 3.9τ
	if got := m.Value(); math.Abs(got-0.391) > 0.005 {
		t.Errorf("expected settling near 0.391 s, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestOvershoot(t *testing.T) {
	m := NewOvershoot(1, nil)
	for _, y := range []float64{0, 0.8, 1.2, 0.95, 1} {
		m.Observe(dynamo.State{y}, nil, 0)
	}
	if math.Abs(m.Value()-0.2) > 1e-12 {
		t.Errorf("expected 20%% overshoot, got %f", m.Value())
	}

	down := NewOvershoot(0, nil)
	for _, y := range []float64{1, 0.2, -0.1, 0} {
		down.Observe(dynamo.State{y}, nil, 0)
	}
	if math.Abs(down.Value()-0.1) > 1e-12 {
		t.Errorf("expected 10%% undershoot, got %f", down.Value())
	}
}
