package experiment

import (
	"fmt"
	"log/slog"
	"math"
	"math/cmplx"

	"github.com/san-kum/fbgain/internal/config"
	"github.com/san-kum/fbgain/internal/lti"
	"github.com/san-kum/fbgain/internal/place"
	"gonum.org/v1/gonum/mat"
)

// placementTol is the relative distance allowed between a requested pole
// and the closed-loop eigenvalue matched to it.
const placementTol = 1e-6

// Design is a placed controller for one system: the gain, the reference
// prescaler and the closed-loop poles the gain actually achieves.
type Design struct {
	System   *lti.System
	Poles    []complex128
	Gain     *mat.Dense
	Prescale float64
	Achieved []complex128
}

// BuildSystem constructs the plant the configuration describes.
func BuildSystem(cfg *config.Config) (*lti.System, error) {
	switch cfg.Model {
	case config.ModelRLC:
		return lti.SeriesRLC(cfg.Circuit.R, cfg.Circuit.L, cfg.Circuit.C)
	case config.ModelTransferFunction:
		return lti.FromTransferFunction(cfg.TransferFunction.Num, cfg.TransferFunction.Den)
	default:
		return nil, fmt.Errorf("unknown model: %s", cfg.Model)
	}
}

// NewDesign checks controllability, places poles and verifies the result.
// An uncontrollable system fails before any gain is computed. A closed loop
// without DC gain leaves Prescale at zero.
func NewDesign(sys *lti.System, poles []complex128, logger *slog.Logger) (*Design, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ok, err := place.IsControllable(sys.A, sys.B)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, place.ErrUncontrollable
	}

	gain, err := place.Gain(sys.A, sys.B, poles)
	if err != nil {
		return nil, err
	}
	logger.Debug("gain computed", "gain", mat.Row(nil, 0, gain))

	cl, err := place.ClosedLoop(sys.A, sys.B, gain)
	if err != nil {
		return nil, err
	}
	achieved, err := place.Eigenvalues(cl)
	if err != nil {
		return nil, err
	}
	if !place.MatchPoles(achieved, poles, placementTol*poleScale(poles)) {
		return nil, fmt.Errorf("achieved %v, requested %v: %w", achieved, poles, place.ErrPlacementMismatch)
	}

	prescale, err := place.Prescaler(sys.A, sys.B, sys.C, gain)
	if err != nil {
		logger.Warn("reference tracking unavailable", "error", err)
		prescale = 0
	}

	return &Design{
		System:   sys,
		Poles:    append([]complex128(nil), poles...),
		Gain:     gain,
		Prescale: prescale,
		Achieved: achieved,
	}, nil
}

// FromConfig builds the system and design in one step.
func FromConfig(cfg *config.Config, logger *slog.Logger) (*Design, error) {
	sys, err := BuildSystem(cfg)
	if err != nil {
		return nil, err
	}
	poles, err := cfg.ParsePoles()
	if err != nil {
		return nil, err
	}
	return NewDesign(sys, poles, logger)
}

// GainRow returns the gain as a plain slice.
func (d *Design) GainRow() []float64 {
	return mat.Row(nil, 0, d.Gain)
}

func poleScale(poles []complex128) float64 {
	scale := 1.0
	for _, p := range poles {
		scale = math.Max(scale, cmplx.Abs(p))
	}
	return scale
}
