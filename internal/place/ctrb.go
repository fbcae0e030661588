package place

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ControllabilityMatrix returns Uc = [B, AB, A²B, …, A^(N−1)B]. For an N×M
// input matrix the result is N×(N·M).
func ControllabilityMatrix(a, b mat.Matrix) (*mat.Dense, error) {
	n, err := order(a)
	if err != nil {
		return nil, err
	}
	nb, m := b.Dims()
	if nb != n {
		return nil, fmt.Errorf("B has %d rows, A has order %d: %w", nb, n, ErrDimensionMismatch)
	}

	uc := mat.NewDense(n, n*m, nil)
	block := mat.DenseCopyOf(b)
	for k := 0; k < n; k++ {
		uc.Slice(0, n, k*m, (k+1)*m).(*mat.Dense).Copy(block)
		if k < n-1 {
			var next mat.Dense
			next.Mul(a, block)
			block = &next
		}
	}
	return uc, nil
}

// IsControllable reports whether rank(Uc) equals the order of A. A system
// of order zero is trivially controllable.
func IsControllable(a, b mat.Matrix) (bool, error) {
	if r, c := a.Dims(); r == 0 && c == 0 {
		return true, nil
	}
	uc, err := ControllabilityMatrix(a, b)
	if err != nil {
		return false, err
	}
	n, _ := a.Dims()
	return Rank(uc) == n, nil
}

// Rank returns the numerical rank of m: the number of singular values above
// σ_max · max(rows, cols) · ε.
func Rank(m mat.Matrix) int {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return 0
	}

	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDNone) {
		return 0
	}
	values := svd.Values(nil)
	if len(values) == 0 || values[0] == 0 {
		return 0
	}

	tol := values[0] * float64(max(r, c)) * epsilon
	rank := 0
	for _, v := range values {
		if v > tol {
			rank++
		}
	}
	return rank
}

var epsilon = math.Nextafter(1, 2) - 1

func order(a mat.Matrix) (int, error) {
	r, c := a.Dims()
	if r != c {
		return 0, fmt.Errorf("A is %dx%d, want square: %w", r, c, ErrDimensionMismatch)
	}
	return r, nil
}
