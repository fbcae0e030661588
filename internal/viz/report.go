package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/fbgain/internal/config"
	"github.com/san-kum/fbgain/internal/experiment"
	"github.com/san-kum/fbgain/internal/place"
	"gonum.org/v1/gonum/mat"
)

// FormatMatrix prints m with gonum's formatter, continuation lines aligned
// under the first row after prefix.
func FormatMatrix(prefix string, m mat.Matrix) string {
	return fmt.Sprintf("%s%v", prefix, mat.Formatted(m, mat.Prefix(strings.Repeat(" ", len(prefix))), mat.Squeeze()))
}

// RenderMatrix renders a labelled matrix block.
func RenderMatrix(s Styles, name string, m mat.Matrix) string {
	label := s.Label.Render(name + " =")
	body := s.Value.Render(fmt.Sprintf("%v", mat.Formatted(m, mat.Squeeze())))
	return lipgloss.JoinHorizontal(lipgloss.Center, label, " ", body)
}

// FormatPoles joins poles in the same notation config files use.
func FormatPoles(poles []complex128) string {
	return strings.Join(config.FormatPoles(poles), ", ")
}

// Report summarises a design: plant matrices, gain, requested and achieved
// poles, and the reference prescaler.
func Report(s Styles, d *experiment.Design) string {
	open, err := place.Eigenvalues(d.System.A)
	openLine := FormatPoles(open)
	if err != nil {
		openLine = s.Bad.Render(err.Error())
	}

	matrices := lipgloss.JoinVertical(lipgloss.Left,
		RenderMatrix(s, "A", d.System.A),
		"",
		RenderMatrix(s, "B", d.System.B),
		"",
		RenderMatrix(s, "F", d.Gain),
	)

	rows := [][2]string{
		{"open loop", openLine},
		{"requested", FormatPoles(d.Poles)},
		{"achieved", FormatPoles(d.Achieved)},
		{"prescaler", fmt.Sprintf("%.6g", d.Prescale)},
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s\n", s.Label.Render(fmt.Sprintf("%-10s", r[0])), s.Accent.Render(r[1]))
	}

	status := s.Good.Render("controllable")
	body := lipgloss.JoinVertical(lipgloss.Left,
		s.Header.Render("pole placement")+"  "+status,
		"",
		matrices,
		"",
		strings.TrimRight(b.String(), "\n"),
	)
	return s.Panel.Render(body)
}

// MetricsTable renders metric name/value pairs in a fixed order.
func MetricsTable(s Styles, metrics map[string]float64, order []string) string {
	var b strings.Builder
	for _, name := range order {
		v, ok := metrics[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", s.Label.Render(fmt.Sprintf("%-16s", name)), s.Value.Render(fmt.Sprintf("%.6g", v)))
	}
	return strings.TrimRight(b.String(), "\n")
}
