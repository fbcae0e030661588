package lti

import (
	"fmt"

	"github.com/san-kum/fbgain/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

type System struct {
	// State dynamics (N by N)
	A *mat.Dense
	// Input matrix (N by M)
	B *mat.Dense
	// Observation matrix (P by N)
	C *mat.Dense
	// Feedthrough matrix (P by M)
	D *mat.Dense
}

// New validates the shapes of the system matrices and copies them. A nil C
// observes the full state and a nil D is zero.
func New(a, b, c, d mat.Matrix) (*System, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("A and B are required: %w", ErrDimensionMismatch)
	}
	n, na := a.Dims()
	if n != na || n < 1 {
		return nil, fmt.Errorf("A is %dx%d, want square with order >= 1: %w", n, na, ErrDimensionMismatch)
	}
	nb, m := b.Dims()
	if nb != n {
		return nil, fmt.Errorf("B has %d rows, A has order %d: %w", nb, n, ErrDimensionMismatch)
	}

	sys := &System{A: mat.DenseCopyOf(a), B: mat.DenseCopyOf(b)}

	if c == nil {
		c = eye(n)
	}
	p, nc := c.Dims()
	if nc != n {
		return nil, fmt.Errorf("C has %d columns, A has order %d: %w", nc, n, ErrDimensionMismatch)
	}
	sys.C = mat.DenseCopyOf(c)

	if d == nil {
		sys.D = mat.NewDense(p, m, nil)
	} else {
		pd, md := d.Dims()
		if pd != p || md != m {
			return nil, fmt.Errorf("D is %dx%d, want %dx%d: %w", pd, md, p, m, ErrDimensionMismatch)
		}
		sys.D = mat.DenseCopyOf(d)
	}

	return sys, nil
}

// SeriesRLC models a series resistor-inductor-capacitor circuit driven by a
// voltage source, with state x = [i, q] (loop current, capacitor charge) and
// output y = q/c (capacitor voltage). r may be zero.
func SeriesRLC(r, l, c float64) (*System, error) {
	if r < 0 || l <= 0 || c <= 0 {
		return nil, fmt.Errorf("r=%g l=%g c=%g: %w", r, l, c, ErrInvalidParameter)
	}
	a := mat.NewDense(2, 2, []float64{
		-r / l, -1 / (l * c),
		1, 0,
	})
	b := mat.NewDense(2, 1, []float64{1 / l, 0})
	cm := mat.NewDense(1, 2, []float64{0, 1 / c})
	return New(a, b, cm, nil)
}

// FromTransferFunction realises the single-input single-output transfer
// function num(s)/den(s) in observable companion form. Coefficients are
// ordered from the highest power of s down.
func FromTransferFunction(num, den []float64) (*System, error) {
	n := len(den) - 1
	if n < 1 {
		return nil, fmt.Errorf("denominator of degree %d: %w", n, ErrImproperTransferFunction)
	}
	if len(num) > len(den) {
		return nil, fmt.Errorf("numerator degree %d exceeds denominator degree %d: %w",
			len(num)-1, n, ErrImproperTransferFunction)
	}
	lead := den[0]
	if lead == 0 {
		return nil, fmt.Errorf("leading denominator coefficient is zero: %w", ErrImproperTransferFunction)
	}

	// a(r) and b(r) are the normalised coefficients of s^r.
	a := func(r int) float64 { return den[n-r] / lead }
	b := func(r int) float64 {
		if r >= len(num) {
			return 0
		}
		return num[len(num)-1-r] / lead
	}

	feed := 0.0
	if len(num) == len(den) {
		feed = b(n)
	}

	am := mat.NewDense(n, n, nil)
	bm := mat.NewDense(n, 1, nil)
	for r := 0; r < n; r++ {
		am.Set(r, n-1, -a(r))
		if r > 0 {
			am.Set(r, r-1, 1)
		}
		bm.Set(r, 0, b(r)-a(r)*feed)
	}

	cm := mat.NewDense(1, n, nil)
	cm.Set(0, n-1, 1)
	dm := mat.NewDense(1, 1, []float64{feed})

	return New(am, bm, cm, dm)
}

func (s *System) StateDim() int {
	n, _ := s.A.Dims()
	return n
}

func (s *System) ControlDim() int {
	_, m := s.B.Dims()
	return m
}

func (s *System) OutputDim() int {
	p, _ := s.C.Dims()
	return p
}

// Derive returns A x + B u. A short u is padded with zeros.
func (s *System) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	var dx mat.VecDense
	dx.MulVec(s.A, mat.NewVecDense(len(x), x))
	if uv := s.input(u); uv != nil {
		var bu mat.VecDense
		bu.MulVec(s.B, uv)
		dx.AddVec(&dx, &bu)
	}
	return dynamo.State(dx.RawVector().Data)
}

// Output returns C x + D u.
func (s *System) Output(x dynamo.State, u dynamo.Control) []float64 {
	var y mat.VecDense
	y.MulVec(s.C, mat.NewVecDense(len(x), x))
	if uv := s.input(u); uv != nil {
		var du mat.VecDense
		du.MulVec(s.D, uv)
		y.AddVec(&y, &du)
	}
	return y.RawVector().Data
}

func (s *System) input(u dynamo.Control) *mat.VecDense {
	m := s.ControlDim()
	if len(u) == 0 || m == 0 {
		return nil
	}
	data := make([]float64, m)
	copy(data, u)
	return mat.NewVecDense(m, data)
}

func (s *System) String() string {
	return fmt.Sprintf("A =\n%v\n\nB =\n%v\n\nC =\n%v\n\nD =\n%v\n",
		mat.Formatted(s.A, mat.Squeeze()),
		mat.Formatted(s.B, mat.Squeeze()),
		mat.Formatted(s.C, mat.Squeeze()),
		mat.Formatted(s.D, mat.Squeeze()),
	)
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
