package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles groups the lipgloss styles derived from one theme.
type Styles struct {
	Panel   lipgloss.Style
	Title   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Accent  lipgloss.Style
	Subtle  lipgloss.Style
	Good    lipgloss.Style
	Warn    lipgloss.Style
	Bad     lipgloss.Style
	KeyHint lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		Label:   lipgloss.NewStyle().Foreground(t.Muted),
		Value:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Accent:  lipgloss.NewStyle().Foreground(t.Accent),
		Subtle:  lipgloss.NewStyle().Foreground(t.Muted),
		Good:    lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Warn:    lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Bad:     lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		KeyHint: lipgloss.NewStyle().Italic(true).Foreground(t.Muted),
	}
}

// DefaultStyles is used by the non-interactive renderers.
var DefaultStyles = NewStyles(ThemeScope)

// Sparkline renders values as a one-line bar chart of at most width cells.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / rng * float64(len(chars)-1))
		idx = min(max(idx, 0), len(chars)-1)
		b.WriteRune(chars[idx])
	}
	return b.String()
}

// Separator draws a muted rule of the given width.
func (s Styles) Separator(width int) string {
	if width < 7 {
		return s.Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return s.Subtle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}

// Downsample keeps at most n evenly spaced samples, always including the
// first and last.
func Downsample(data []float64, n int) []float64 {
	if n <= 0 || len(data) <= n {
		return data
	}
	if n == 1 {
		return data[:1]
	}
	out := make([]float64, n)
	stride := float64(len(data)-1) / float64(n-1)
	for i := range out {
		out[i] = data[int(math.Round(float64(i)*stride))]
	}
	return out
}
