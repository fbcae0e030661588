package viz

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fbgain/internal/config"
	"github.com/san-kum/fbgain/internal/dynamo"
	"github.com/san-kum/fbgain/internal/experiment"
	"github.com/san-kum/fbgain/internal/lti"
	"github.com/san-kum/fbgain/internal/place"
)

type tunerKeys struct {
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding
	Reset key.Binding
	Theme key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func (k tunerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Help, k.Quit}
}

func (k tunerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Reset, k.Theme, k.Help, k.Quit},
	}
}

var defaultTunerKeys = tunerKeys{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "faster decay"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "slower decay"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "more oscillation"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "less oscillation"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Tuner moves one pole pair of a design around the left half plane and
// re-places, re-simulates and redraws on every key press. The pair is the
// first conjugate pair, or the first two poles when all are real; remaining
// poles stay where the configuration put them.
type Tuner struct {
	cfg    *config.Config
	sys    *lti.System
	logger *slog.Logger

	re, im   float64
	fixed    []complex128
	initRe   float64
	initIm   float64
	design   *experiment.Design
	result   *dynamo.Result
	err      error
	theme    Theme
	styles   Styles
	keys     tunerKeys
	help     help.Model
	width    int
	graphLen int
}

// NewTuner builds the plant once and places the configured poles. The
// configuration must request at least two poles.
func NewTuner(cfg *config.Config, logger *slog.Logger) (*Tuner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sys, err := experiment.BuildSystem(cfg)
	if err != nil {
		return nil, err
	}
	poles, err := cfg.ParsePoles()
	if err != nil {
		return nil, err
	}
	re, im, rest, err := place.SplitPair(poles)
	if err != nil {
		return nil, fmt.Errorf("tuning: %w", err)
	}

	t := &Tuner{
		cfg:      cfg,
		sys:      sys,
		logger:   logger,
		re:       re,
		im:       im,
		fixed:    rest,
		theme:    Themes[0],
		styles:   NewStyles(Themes[0]),
		keys:     defaultTunerKeys,
		help:     help.New(),
		width:    80,
		graphLen: 60,
	}
	t.initRe, t.initIm = t.re, t.im
	t.recompute()
	return t, nil
}

// Poles returns the pole set currently placed.
func (t *Tuner) Poles() []complex128 {
	pair := []complex128{complex(t.re, t.im), complex(t.re, -t.im)}
	return append(pair, t.fixed...)
}

// Design returns the last successful design, or nil.
func (t *Tuner) Design() *experiment.Design { return t.design }

// Err returns the error from the last recompute, if any.
func (t *Tuner) Err() error { return t.err }

func (t *Tuner) recompute() {
	t.design, t.result = nil, nil
	d, err := experiment.NewDesign(t.sys, t.Poles(), t.logger)
	if err != nil {
		t.err = err
		return
	}
	cfg := *t.cfg
	cfg.Simulation.Controller = "feedback"
	res, err := experiment.Simulate(context.Background(), &cfg, d, t.logger)
	if err != nil {
		t.err = err
		return
	}
	t.design, t.result, t.err = d, res, nil
}

func step(v float64) float64 {
	return math.Max(1, math.Abs(v)*0.1)
}

func (t *Tuner) Init() tea.Cmd { return nil }

func (t *Tuner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.help.Width = msg.Width
		t.graphLen = max(20, min(msg.Width-12, 120))
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, t.keys.Quit):
			return t, tea.Quit
		case key.Matches(msg, t.keys.Help):
			t.help.ShowAll = !t.help.ShowAll
			return t, nil
		case key.Matches(msg, t.keys.Theme):
			t.theme = NextTheme(t.theme.Name)
			t.styles = NewStyles(t.theme)
			return t, nil
		case key.Matches(msg, t.keys.Left):
			t.re -= step(t.re)
		case key.Matches(msg, t.keys.Right):
			t.re += step(t.re)
		case key.Matches(msg, t.keys.Up):
			t.im += step(t.im)
		case key.Matches(msg, t.keys.Down):
			t.im = math.Max(0, t.im-step(t.im))
		case key.Matches(msg, t.keys.Reset):
			t.re, t.im = t.initRe, t.initIm
		default:
			return t, nil
		}
		t.logger.Debug("poles moved", "poles", config.FormatPoles(t.Poles()))
		t.recompute()
	}
	return t, nil
}

func (t *Tuner) View() string {
	s := t.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("fbgain tuner") + "  " + s.Subtle.Render(t.theme.Name) + "\n")
	b.WriteString(s.Separator(min(t.width, 72)) + "\n")
	b.WriteString(s.Label.Render("poles  ") + s.Accent.Render(FormatPoles(t.Poles())) + "\n")

	if t.err != nil {
		b.WriteString(s.Bad.Render(t.err.Error()) + "\n")
		b.WriteString("\n" + t.help.View(t.keys))
		return b.String()
	}

	b.WriteString(s.Label.Render("gain   ") + s.Value.Render(fmt.Sprintf("%.6g", t.design.GainRow())) + "\n")
	b.WriteString(s.Label.Render("N̄      ") + s.Value.Render(fmt.Sprintf("%.6g", t.design.Prescale)) + "\n\n")

	y := Downsample(t.result.Output(0), t.graphLen)
	graph := asciigraph.Plot(y,
		asciigraph.Height(10),
		asciigraph.Width(t.graphLen),
		asciigraph.Caption("output y(t)"),
	)

	open, _ := place.Eigenvalues(t.sys.A)
	plane := NewPlane(24, 8, open, t.design.Achieved)
	plane.DrawAxes()
	plane.Mark(open)
	plane.Ring(t.design.Achieved)
	planeView := lipgloss.JoinVertical(lipgloss.Left,
		s.Subtle.Render("x open  □ placed"),
		s.Accent.Render(plane.String()),
	)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, graph, "   ", planeView))
	b.WriteString("\n\n")
	b.WriteString(MetricsTable(s, t.result.Metrics, []string{"settling_time", "overshoot", "control_effort", "peak_control"}))
	b.WriteString("\n\n" + t.help.View(t.keys))
	return b.String()
}

// RunTuner starts the tuner full screen and returns the poles it ended on.
func RunTuner(t *Tuner) ([]complex128, error) {
	if _, err := tea.NewProgram(t, tea.WithAltScreen()).Run(); err != nil {
		return nil, err
	}
	return t.Poles(), nil
}
