package place

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// conjTol is the relative distance under which two poles count as a
// conjugate pair and an imaginary part counts as zero.
const conjTol = 1e-9

// CharPoly returns the coefficients of Π(s − pᵢ), highest power first, so
// the result always has len(poles)+1 entries and a leading 1. Non-real poles
// must come in conjugate pairs for the coefficients to be real.
func CharPoly(poles []complex128) ([]float64, error) {
	if err := checkConjugates(poles); err != nil {
		return nil, err
	}

	coeffs := []complex128{1}
	for _, p := range poles {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * p
		}
		coeffs = next
	}

	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		if math.Abs(imag(c)) > conjTol*math.Max(1, cmplx.Abs(c)) {
			return nil, fmt.Errorf("coefficient of s^%d has imaginary part %g: %w",
				len(coeffs)-1-i, imag(c), ErrInvalidPoleSet)
		}
		out[i] = real(c)
	}
	return out, nil
}

// PolyMatrix evaluates the polynomial with the given coefficients (highest
// power first) at the square matrix a using Horner's scheme.
func PolyMatrix(a mat.Matrix, coeffs []float64) (*mat.Dense, error) {
	n, err := order(a)
	if err != nil {
		return nil, err
	}
	id := identity(n)
	p := mat.NewDense(n, n, nil)
	for _, c := range coeffs {
		var next mat.Dense
		next.Mul(p, a)
		var term mat.Dense
		term.Scale(c, id)
		next.Add(&next, &term)
		p = &next
	}
	return p, nil
}

func checkConjugates(poles []complex128) error {
	used := make([]bool, len(poles))
	for i, p := range poles {
		if used[i] || isReal(p) {
			continue
		}
		used[i] = true
		want := cmplx.Conj(p)
		match := -1
		for j := i + 1; j < len(poles); j++ {
			if used[j] {
				continue
			}
			if cmplx.Abs(poles[j]-want) <= conjTol*math.Max(1, cmplx.Abs(p)) {
				match = j
				break
			}
		}
		if match < 0 {
			return fmt.Errorf("pole %v has no conjugate partner: %w", p, ErrInvalidPoleSet)
		}
		used[match] = true
	}
	return nil
}

func isReal(p complex128) bool {
	return math.Abs(imag(p)) <= conjTol*math.Max(1, cmplx.Abs(p))
}

func identity(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}
	return id
}

// SplitPair picks the pole pair an interactive or search caller moves: the
// first non-real pole with its conjugate, or the first two poles when all
// are real. The pair is returned as re ± im·i with im >= 0; rest holds the
// other poles in their original order.
func SplitPair(poles []complex128) (re, im float64, rest []complex128, err error) {
	if len(poles) < 2 {
		return 0, 0, nil, fmt.Errorf("need a pole pair, got %d poles: %w", len(poles), ErrInvalidPoleSet)
	}
	first, second := 0, 1
	for i, p := range poles {
		if isReal(p) {
			continue
		}
		match := -1
		for j := range poles {
			if j != i && cmplx.Abs(poles[j]-cmplx.Conj(p)) <= conjTol*math.Max(1, cmplx.Abs(p)) {
				match = j
				break
			}
		}
		if match < 0 {
			return 0, 0, nil, fmt.Errorf("pole %v has no conjugate partner: %w", p, ErrInvalidPoleSet)
		}
		first, second = i, match
		break
	}
	for k, p := range poles {
		if k != first && k != second {
			rest = append(rest, p)
		}
	}
	return real(poles[first]), math.Abs(imag(poles[first])), rest, nil
}
