package export

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// Series is one named line of a time-response plot.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

func (s Series) xys() (plotter.XYs, error) {
	if len(s.X) != len(s.Y) {
		return nil, fmt.Errorf("series %q: %d x values, %d y values", s.Name, len(s.X), len(s.Y))
	}
	pts := make(plotter.XYs, len(s.X))
	for i := range pts {
		pts[i].X = s.X[i]
		pts[i].Y = s.Y[i]
	}
	return pts, nil
}

// ResponsePlot draws each series as a line against a shared time axis.
func ResponsePlot(title, ylabel string, series ...Series) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no series to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())

	args := make([]interface{}, 0, 2*len(series))
	for _, s := range series {
		pts, err := s.xys()
		if err != nil {
			return nil, err
		}
		args = append(args, s.Name, pts)
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return nil, err
	}
	return p, nil
}

// PoleMap scatters open-loop poles as crosses and placed poles as circles on
// the complex plane.
func PoleMap(open, placed []complex128) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Pole map"
	p.X.Label.Text = "Re"
	p.Y.Label.Text = "Im"
	p.Add(plotter.NewGrid())

	sets := []struct {
		name  string
		poles []complex128
		shape draw.GlyphDrawer
		color color.Color
	}{
		{"open loop", open, draw.CrossGlyph{}, color.RGBA{R: 200, A: 255}},
		{"placed", placed, draw.RingGlyph{}, color.RGBA{B: 200, A: 255}},
	}

	for _, set := range sets {
		if len(set.poles) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(set.poles))
		for i, pole := range set.poles {
			pts[i].X = real(pole)
			pts[i].Y = imag(pole)
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Shape = set.shape
		sc.GlyphStyle.Color = set.color
		sc.GlyphStyle.Radius = vg.Points(4)
		p.Add(sc)
		p.Legend.Add(set.name, sc)
	}
	return p, nil
}

// Save writes p to path. The format follows the extension: png, svg, pdf
// or eps.
func Save(p *plot.Plot, path string, width, height vg.Length) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".svg", ".pdf", ".eps", ".jpg", ".jpeg", ".tif", ".tiff":
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return p.Save(width, height, path)
}
