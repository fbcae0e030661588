package place

import "errors"

var (
	// ErrUncontrollable is returned when the controllability matrix is rank
	// deficient, so no gain can place every pole.
	ErrUncontrollable = errors.New("place: system is not controllable")

	// ErrInvalidPoleSet is returned when the number of poles differs from the
	// system order or a complex pole lacks its conjugate.
	ErrInvalidPoleSet = errors.New("place: invalid pole set")

	// ErrDimensionMismatch is returned when A is not square or B does not
	// have one column with as many rows as A.
	ErrDimensionMismatch = errors.New("place: dimension mismatch")

	// ErrPlacementMismatch is returned by Verify when the closed-loop
	// eigenvalues differ from the requested poles.
	ErrPlacementMismatch = errors.New("place: closed-loop poles do not match")

	// ErrEigenFailed is returned when the eigenvalue factorization does not
	// converge.
	ErrEigenFailed = errors.New("place: eigen decomposition failed")

	// ErrZeroDCGain is returned by Prescaler when the closed loop has no
	// static gain from input to output, so no reference scaling exists.
	ErrZeroDCGain = errors.New("place: closed loop has zero DC gain")
)
