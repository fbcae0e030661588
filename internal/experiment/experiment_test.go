package experiment

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fbgain/internal/config"
	"github.com/san-kum/fbgain/internal/dynamo"
	"github.com/san-kum/fbgain/internal/place"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFromConfigRLC(t *testing.T) {
	d, err := FromConfig(config.DefaultConfig(), quietLogger())
	require.NoError(t, err)

	gain := d.GainRow()
	require.Len(t, gain, 2)
	assert.InDelta(t, -6, gain[0], 1e-6)
	assert.InDelta(t, -9950, gain[1], 1e-3)
	assert.InDelta(t, 0.005, d.Prescale, 1e-9)
	assert.True(t, place.MatchPoles(d.Achieved, []complex128{-20 + 10i, -20 - 10i}, 1e-6))
}

func TestFromConfigUncontrollable(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Model = config.ModelTransferFunction
	cfg.TransferFunction = config.TransferFunctionConfig{Num: []float64{1, 1}, Den: []float64{1, 3, 2}}

	_, err := FromConfig(cfg, quietLogger())
	assert.ErrorIs(t, err, place.ErrUncontrollable)
}

func TestFromConfigBadPoles(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Poles = []string{"-20+10i", "-20+10i"}

	_, err := FromConfig(cfg, quietLogger())
	assert.ErrorIs(t, err, place.ErrInvalidPoleSet)
}

func TestBuildSystemUnknownModel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Model = "pendulum"
	_, err := BuildSystem(cfg)
	assert.Error(t, err)
}

func TestSimulateRegulates(t *testing.T) {
	cfg := config.DefaultConfig()
	d, err := FromConfig(cfg, quietLogger())
	require.NoError(t, err)

	result, err := Simulate(context.Background(), cfg, d, quietLogger())
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	final := result.States[len(result.States)-1]
	assert.Less(t, math.Abs(final[1]), 1e-6)
	assert.Contains(t, result.Metrics, "control_effort")
	assert.Contains(t, result.Metrics, "settling_time")
}

func TestSimulateTracksReference(t *testing.T) {
	cfg := config.GetPreset(config.ModelRLC, "step")
	require.NotNil(t, cfg)
	d, err := FromConfig(cfg, quietLogger())
	require.NoError(t, err)

	result, err := Simulate(context.Background(), cfg, d, quietLogger())
	require.NoError(t, err)

	y := result.Output(0)
	assert.InDelta(t, 1.0, y[len(y)-1], 1e-2)
}

func TestSimulateLoadedThirdOrderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "third.yaml")
	data := `model: tf
transfer_function: {num: [6], den: [1, 6, 11, 6]}
poles: ["-10", "-4+3i", "-4-3i"]
simulation: {dt: 0.001, duration: 3, reference: 1}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	d, err := FromConfig(cfg, quietLogger())
	require.NoError(t, err)

	result, err := Simulate(context.Background(), cfg, d, quietLogger())
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	assert.Equal(t, dynamo.State{0, 0, 0}, result.States[0])

	y := result.Output(0)
	assert.InDelta(t, 1.0, y[len(y)-1], 1e-2)
}

func TestSimulateOpenLoopDecays(t *testing.T) {
	cfg := config.GetPreset(config.ModelRLC, "open")
	require.NotNil(t, cfg)
	d, err := FromConfig(cfg, quietLogger())
	require.NoError(t, err)

	result, err := Simulate(context.Background(), cfg, d, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Metrics["control_effort"])
	assert.Less(t, math.Abs(result.States[len(result.States)-1][1]), cfg.Simulation.InitState[1])
}

func TestSimulateErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	d, err := FromConfig(cfg, quietLogger())
	require.NoError(t, err)

	bad := *cfg
	bad.Simulation.Controller = "lqr"
	_, err = Simulate(context.Background(), &bad, d, quietLogger())
	assert.Error(t, err)

	bad = *cfg
	bad.Simulation.Integrator = "verlet"
	_, err = Simulate(context.Background(), &bad, d, quietLogger())
	assert.Error(t, err)

	bad = *cfg
	bad.Simulation.InitState = []float64{1, 2, 3}
	_, err = Simulate(context.Background(), &bad, d, quietLogger())
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)
}

func TestSimulateCancelled(t *testing.T) {
	cfg := config.DefaultConfig()
	d, err := FromConfig(cfg, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Simulate(ctx, cfg, d, quietLogger())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestControllerNames(t *testing.T) {
	assert.Equal(t, []string{"feedback", "none", "pid", "step"}, ControllerNames())
}
