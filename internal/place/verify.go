package place

import (
	"fmt"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Eigenvalues returns the eigenvalues of the square matrix m sorted by real
// part, then imaginary part.
func Eigenvalues(m mat.Matrix) ([]complex128, error) {
	if _, err := order(m); err != nil {
		return nil, err
	}
	var eig mat.Eigen
	if ok := eig.Factorize(m, mat.EigenNone); !ok {
		return nil, ErrEigenFailed
	}
	values := eig.Values(nil)
	sort.Slice(values, func(i, j int) bool {
		if real(values[i]) != real(values[j]) {
			return real(values[i]) < real(values[j])
		}
		return imag(values[i]) < imag(values[j])
	})
	return values, nil
}

// Verify checks that the eigenvalues of A − B F match poles as a multiset,
// each within absolute distance tol.
func Verify(a, b, f mat.Matrix, poles []complex128, tol float64) error {
	cl, err := ClosedLoop(a, b, f)
	if err != nil {
		return err
	}
	got, err := Eigenvalues(cl)
	if err != nil {
		return err
	}
	if !MatchPoles(got, poles, tol) {
		return fmt.Errorf("got %v, want %v: %w", got, poles, ErrPlacementMismatch)
	}
	return nil
}

// MatchPoles reports whether got and want hold the same values with the
// same multiplicity, pairing each wanted pole with its nearest unused one.
func MatchPoles(got, want []complex128, tol float64) bool {
	if len(got) != len(want) {
		return false
	}
	used := make([]bool, len(got))
	for _, w := range want {
		best := -1
		for i, g := range got {
			if used[i] {
				continue
			}
			if best < 0 || cmplx.Abs(g-w) < cmplx.Abs(got[best]-w) {
				best = i
			}
		}
		if best < 0 || cmplx.Abs(got[best]-w) > tol {
			return false
		}
		used[best] = true
	}
	return true
}
