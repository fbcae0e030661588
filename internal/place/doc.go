// Package place computes state-feedback gains for single-input LTI systems.
//
// Given ẋ = A x + B u with B a single column, [Gain] returns the row vector F
// for which the eigenvalues of A − B F are the requested poles. It uses
// Ackermann's formula
//
//	F = [0 … 0 1] · Uc⁻¹ · p(A)
//
// where Uc = [B, AB, …, A^(N−1)B] is the controllability matrix and p is the
// desired characteristic polynomial. The system must be controllable; use
// [IsControllable] first, or rely on [Gain] failing with [ErrUncontrollable].
//
// All linear algebra (products, SVD rank, inverse, eigenvalues) is gonum's.
package place
