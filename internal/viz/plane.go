package viz

import (
	"math"
	"strings"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// starting at U+2800.
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Plane is a Braille canvas mapped onto a window of the complex plane. The
// window always contains the origin so the stability boundary is visible.
type Plane struct {
	Width, Height int
	grid          [][]rune
	reMin, reMax  float64
	imMax         float64
}

// NewPlane sizes the window to fit every pole with a margin.
func NewPlane(w, h int, poles ...[]complex128) *Plane {
	p := &Plane{Width: w, Height: h, grid: make([][]rune, h)}
	for i := range p.grid {
		p.grid[i] = make([]rune, w)
	}
	p.Clear()

	reMin, reMax, imMax := -1.0, 0.0, 1.0
	for _, set := range poles {
		for _, z := range set {
			reMin = math.Min(reMin, real(z))
			reMax = math.Max(reMax, real(z))
			imMax = math.Max(imMax, math.Abs(imag(z)))
		}
	}
	span := reMax - reMin
	p.reMin = reMin - 0.1*span
	p.reMax = reMax + 0.1*span
	p.imMax = imMax * 1.2
	return p
}

func (p *Plane) subWidth() int  { return p.Width * 2 }
func (p *Plane) subHeight() int { return p.Height * 4 }

// project maps z to sub-pixel coordinates.
func (p *Plane) project(z complex128) (int, int) {
	x := (real(z) - p.reMin) / (p.reMax - p.reMin) * float64(p.subWidth()-1)
	y := (p.imMax - imag(z)) / (2 * p.imMax) * float64(p.subHeight()-1)
	return int(math.Round(x)), int(math.Round(y))
}

// Set lights the dot at sub-pixel (x, y); the canvas is Width*2 by Height*4
// dots.
func (p *Plane) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= p.Width || row >= p.Height {
		return
	}
	p.grid[row][col] |= pixelMap[y%4][x%2]
}

func (p *Plane) Clear() {
	for i := range p.grid {
		for j := range p.grid[i] {
			p.grid[i][j] = brailleBlank
		}
	}
}

// DrawAxes draws the real axis and the imaginary axis through the origin.
func (p *Plane) DrawAxes() {
	x0, y0 := p.project(0)
	for x := 0; x < p.subWidth(); x += 2 {
		p.Set(x, y0)
	}
	for y := 0; y < p.subHeight(); y += 2 {
		p.Set(x0, y)
	}
}

// Mark draws a small cross at each pole.
func (p *Plane) Mark(poles []complex128) {
	for _, z := range poles {
		x, y := p.project(z)
		p.Set(x, y)
		p.Set(x-1, y)
		p.Set(x+1, y)
		p.Set(x, y-1)
		p.Set(x, y+1)
	}
}

// Ring draws a hollow square around each pole.
func (p *Plane) Ring(poles []complex128) {
	for _, z := range poles {
		x, y := p.project(z)
		for d := -2; d <= 2; d++ {
			p.Set(x+d, y-2)
			p.Set(x+d, y+2)
			p.Set(x-2, y+d)
			p.Set(x+2, y+d)
		}
	}
}

func (p *Plane) String() string {
	var b strings.Builder
	for i, row := range p.grid {
		b.WriteString(string(row))
		if i < len(p.grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
