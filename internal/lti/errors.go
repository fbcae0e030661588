package lti

import (
	"errors"

	"github.com/san-kum/fbgain/internal/place"
)

var (
	// ErrDimensionMismatch indicates A is not square or B, C, D do not
	// conform to it. It is the same sentinel place returns for bad shapes.
	ErrDimensionMismatch = place.ErrDimensionMismatch

	// ErrInvalidParameter indicates a physical parameter outside its domain.
	ErrInvalidParameter = errors.New("lti: invalid parameter")

	// ErrImproperTransferFunction indicates a numerator of higher degree
	// than the denominator, or a denominator of degree zero.
	ErrImproperTransferFunction = errors.New("lti: improper transfer function")
)
