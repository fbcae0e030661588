package viz

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/fbgain/internal/config"
	"github.com/san-kum/fbgain/internal/experiment"
	"gonum.org/v1/gonum/mat"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFormatMatrix(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{-100, -100000, 1, 0})
	out := FormatMatrix("A = ", m)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "A = ") {
		t.Errorf("first line %q lacks prefix", lines[0])
	}
	if !strings.HasPrefix(lines[1], "    ") {
		t.Errorf("second line %q not aligned", lines[1])
	}
}

func TestPlane(t *testing.T) {
	p := NewPlane(10, 4, []complex128{-20 + 10i, -20 - 10i})
	empty := p.String()

	p.DrawAxes()
	p.Mark([]complex128{-20 + 10i})
	out := p.String()

	if out == empty {
		t.Error("expected dots after drawing")
	}
	if got := len(strings.Split(out, "\n")); got != 4 {
		t.Errorf("expected 4 rows, got %d", got)
	}

	p.Set(-1, 0)
	p.Set(1000, 1000)
	p.Clear()
	if p.String() != empty {
		t.Error("clear should restore blank canvas")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1, 2, 3}, 4); got != "▁▃▅█" {
		t.Errorf("sparkline = %q", got)
	}
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("empty sparkline = %q", got)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("unknown theme should fall back to the first")
	}
	if NextTheme(Themes[len(Themes)-1].Name).Name != Themes[0].Name {
		t.Error("next theme should wrap")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}

func TestReport(t *testing.T) {
	d, err := experiment.FromConfig(config.DefaultConfig(), quiet())
	if err != nil {
		t.Fatal(err)
	}
	out := Report(DefaultStyles, d)
	for _, want := range []string{"A =", "B =", "F =", "controllable", "-20+10i"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestTunerMovesPoles(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Simulation.Duration = 0.05

	tuner, err := NewTuner(cfg, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if tuner.Err() != nil || tuner.Design() == nil {
		t.Fatalf("initial design failed: %v", tuner.Err())
	}

	tuner.Update(tea.KeyMsg{Type: tea.KeyLeft})
	poles := tuner.Poles()
	if real(poles[0]) != -22 || imag(poles[0]) != 10 {
		t.Errorf("after left: %v", poles)
	}
	if tuner.Design() == nil {
		t.Fatalf("design lost: %v", tuner.Err())
	}

	tuner.Update(tea.KeyMsg{Type: tea.KeyDown})
	if imag(tuner.Poles()[0]) != 9 {
		t.Errorf("after down: %v", tuner.Poles())
	}

	tuner.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if tuner.Poles()[0] != -20+10i {
		t.Errorf("after reset: %v", tuner.Poles())
	}

	if !strings.Contains(tuner.View(), "gain") {
		t.Error("view should show the gain")
	}

	_, cmd := tuner.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestTunerThirdOrderMovesComplexPair(t *testing.T) {
	cfg := config.GetPreset(config.ModelTransferFunction, "third_order")
	if cfg == nil {
		t.Fatal("missing third_order preset")
	}
	cfg.Simulation.Duration = 0.2

	tuner, err := NewTuner(cfg, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if tuner.Err() != nil || tuner.Design() == nil {
		t.Fatalf("initial design failed: %v", tuner.Err())
	}
	poles := tuner.Poles()
	if len(poles) != 3 || poles[0] != -4+3i || poles[1] != -4-3i || poles[2] != -10 {
		t.Fatalf("poles = %v", poles)
	}

	tuner.Update(tea.KeyMsg{Type: tea.KeyLeft})
	poles = tuner.Poles()
	if poles[0] != -5+3i || poles[2] != -10 {
		t.Errorf("after left: %v", poles)
	}
	if tuner.Design() == nil {
		t.Fatalf("design lost: %v", tuner.Err())
	}
}

func TestTunerNeedsPair(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Model = config.ModelTransferFunction
	cfg.TransferFunction = config.TransferFunctionConfig{Num: []float64{1}, Den: []float64{1, 2}}
	cfg.Poles = []string{"-5"}

	if _, err := NewTuner(cfg, quiet()); err == nil {
		t.Error("expected error for a single pole")
	}
}

func TestDownsample(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	got := Downsample(data, 3)
	if len(got) != 3 || got[0] != 0 || got[1] != 4 || got[2] != 8 {
		t.Errorf("Downsample = %v", got)
	}
	if got := Downsample(data, 1); len(got) != 1 || got[0] != 0 {
		t.Errorf("Downsample to one sample = %v", got)
	}
	if len(Downsample(data, 20)) != len(data) {
		t.Error("short data should be returned as is")
	}
}
