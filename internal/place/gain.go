package place

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Gain returns the 1×N row vector F such that eig(A − B F) equals poles.
//
// B must be a single column. The checks run in a fixed order: shapes
// (ErrDimensionMismatch), then the pole set (ErrInvalidPoleSet), then
// controllability (ErrUncontrollable). Gain is pure; identical inputs give
// identical outputs.
func Gain(a, b mat.Matrix, poles []complex128) (*mat.Dense, error) {
	n, err := order(a)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("system of order zero: %w", ErrDimensionMismatch)
	}
	nb, m := b.Dims()
	if nb != n || m != 1 {
		return nil, fmt.Errorf("B is %dx%d, want %dx1: %w", nb, m, n, ErrDimensionMismatch)
	}
	if len(poles) != n {
		return nil, fmt.Errorf("%d poles for a system of order %d: %w", len(poles), n, ErrInvalidPoleSet)
	}

	coeffs, err := CharPoly(poles)
	if err != nil {
		return nil, err
	}

	uc, err := ControllabilityMatrix(a, b)
	if err != nil {
		return nil, err
	}
	if r := Rank(uc); r < n {
		return nil, fmt.Errorf("controllability matrix has rank %d, want %d: %w", r, n, ErrUncontrollable)
	}

	var inv mat.Dense
	if err := inv.Inverse(uc); err != nil {
		return nil, fmt.Errorf("inverting controllability matrix: %v: %w", err, ErrUncontrollable)
	}

	pa, err := PolyMatrix(a, coeffs)
	if err != nil {
		return nil, err
	}

	f := mat.NewDense(1, n, nil)
	f.Mul(inv.Slice(n-1, n, 0, n), pa)
	return f, nil
}

// ClosedLoop returns A − B F.
func ClosedLoop(a, b, f mat.Matrix) (*mat.Dense, error) {
	n, err := order(a)
	if err != nil {
		return nil, err
	}
	nb, m := b.Dims()
	mf, nf := f.Dims()
	if nb != n || mf != m || nf != n {
		return nil, fmt.Errorf("B is %dx%d and F is %dx%d for order %d: %w", nb, m, mf, nf, n, ErrDimensionMismatch)
	}

	var bf mat.Dense
	bf.Mul(b, f)
	var cl mat.Dense
	cl.Sub(a, &bf)
	return &cl, nil
}

// Prescaler returns the reference gain N̄ = −1 / (C (A − B F)⁻¹ B) that makes
// the first output track a constant reference r under u = −F x + N̄ r.
func Prescaler(a, b, c, f mat.Matrix) (float64, error) {
	cl, err := ClosedLoop(a, b, f)
	if err != nil {
		return 0, err
	}
	n, _ := cl.Dims()
	if _, nc := c.Dims(); nc != n {
		return 0, fmt.Errorf("C has %d columns, want %d: %w", nc, n, ErrDimensionMismatch)
	}

	var x mat.Dense
	if err := x.Solve(cl, b); err != nil {
		return 0, fmt.Errorf("closed loop is singular: %v: %w", err, ErrZeroDCGain)
	}
	var dc mat.Dense
	dc.Mul(c, &x)

	g := dc.At(0, 0)
	if g == 0 {
		return 0, ErrZeroDCGain
	}
	return -1 / g, nil
}
