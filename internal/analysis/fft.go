package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the single-sided magnitude spectrum of data with
// the mean removed. Bin k corresponds to k·fs/len(data) Hz.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin,
// refined by parabolic interpolation over its neighbours.
func DominantFrequency(data []float64, sampleRate float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0
	}

	peak := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}

	offset := 0.0
	if peak > 0 && peak < len(ps)-1 {
		l, c, r := ps[peak-1], ps[peak], ps[peak+1]
		if den := l - 2*c + r; den != 0 {
			offset = 0.5 * (l - r) / den
		}
	}

	return (float64(peak) + offset) * sampleRate / float64(len(data))
}

// DampedFrequency returns the ringing frequency in Hz of the pole p.
func DampedFrequency(p complex128) float64 {
	return math.Abs(imag(p)) / (2 * math.Pi)
}
