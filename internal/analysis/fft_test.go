package analysis

import (
	"math"
	"testing"
)

func TestDominantFrequencySine(t *testing.T) {
	fs := 1000.0
	data := make([]float64, 4096)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 12.5 * float64(i) / fs)
	}

	if got := DominantFrequency(data, fs); math.Abs(got-12.5) > 0.25 {
		t.Errorf("expected ~12.5 Hz, got %f", got)
	}
}

func TestDominantFrequencyDampedResponse(t *testing.T) {
	// impulse response of poles -2 ± 10j sampled for 8 s
	fs := 500.0
	data := make([]float64, 4000)
	for i := range data {
		tm := float64(i) / fs
		data[i] = math.Exp(-2*tm) * math.Sin(10*tm)
	}

	want := DampedFrequency(complex(-2, 10))
	if got := DominantFrequency(data, fs); math.Abs(got-want) > 0.15 {
		t.Errorf("expected ~%f Hz, got %f", want, got)
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	data := []float64{5, 5, 5, 5}
	ps := PowerSpectrum(data)
	if len(ps) != 2 {
		t.Fatalf("expected 2 bins, got %d", len(ps))
	}
	if ps[0] > 1e-12 {
		t.Errorf("expected no DC after centering, got %g", ps[0])
	}

	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for empty input")
	}
}
