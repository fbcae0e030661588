package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_NormSub(t *testing.T) {
	if got := (State{3, 4}).Norm(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Norm = %v, want 5", got)
	}

	diff := State{4, 5, 6}.Sub(State{1, 2})
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 6 {
		t.Errorf("Sub failed: got %v", diff)
	}
}

func TestResultOutput(t *testing.T) {
	r := &Result{
		States:  []State{{1, 2}, {3, 4}},
		Outputs: [][]float64{{10}},
	}

	got := r.Output(0)
	if got[0] != 10 {
		t.Errorf("expected recorded output 10, got %f", got[0])
	}
	if got[1] != 3 {
		t.Errorf("expected state fallback 3, got %f", got[1])
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Step: 150, Message: "test error"}
	expected := "step 150 (t=1.5000): test error"
	if err.Error() != expected {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimError should unwrap to ErrInvalidState")
	}
}
