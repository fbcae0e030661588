package place_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/fbgain/internal/lti"
	"github.com/san-kum/fbgain/internal/place"
	"gonum.org/v1/gonum/mat"
)

var examplePoles = []complex128{-20 + 10i, -20 - 10i}

func rlc() (*mat.Dense, *mat.Dense) {
	sys, err := lti.SeriesRLC(10.0, 100e-3, 100e-6)
	Expect(err).NotTo(HaveOccurred())
	return sys.A, sys.B
}

var _ = Describe("Controllability", func() {
	It("accepts the double integrator", func() {
		a := mat.NewDense(2, 2, []float64{0, 1, 0, 0})
		b := mat.NewDense(2, 1, []float64{0, 1})

		ok, err := place.IsControllable(a, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		uc, err := place.ControllabilityMatrix(a, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(place.Rank(uc)).To(Equal(2))
	})

	It("rejects a system with a zero input matrix", func() {
		a := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
		b := mat.NewDense(2, 1, nil)

		ok, err := place.IsControllable(a, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())

		uc, err := place.ControllabilityMatrix(a, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(place.Rank(uc)).To(Equal(0))
	})

	It("builds [B, AB] for the RLC circuit", func() {
		a, b := rlc()
		uc, err := place.ControllabilityMatrix(a, b)
		Expect(err).NotTo(HaveOccurred())

		Expect(uc.At(0, 0)).To(BeNumerically("~", 10, 1e-9))
		Expect(uc.At(1, 0)).To(BeNumerically("~", 0, 1e-12))
		Expect(uc.At(0, 1)).To(BeNumerically("~", -1000, 1e-9))
		Expect(uc.At(1, 1)).To(BeNumerically("~", 10, 1e-9))
	})

	It("stacks one block per power of A for multi-column B", func() {
		a := mat.NewDense(3, 3, []float64{0, 1, 0, 0, 0, 1, 0, 0, 0})
		b := mat.NewDense(3, 2, []float64{0, 0, 0, 1, 1, 0})

		uc, err := place.ControllabilityMatrix(a, b)
		Expect(err).NotTo(HaveOccurred())
		r, c := uc.Dims()
		Expect(r).To(Equal(3))
		Expect(c).To(Equal(6))
		Expect(place.Rank(uc)).To(Equal(3))
	})

	It("detects a pole-zero cancellation in a companion realisation", func() {
		// (s+1) / ((s+1)(s+2))
		sys, err := lti.FromTransferFunction([]float64{1, 1}, []float64{1, 3, 2})
		Expect(err).NotTo(HaveOccurred())

		ok, err := place.IsControllable(sys.A, sys.B)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("reports shape errors", func() {
		_, err := place.IsControllable(mat.NewDense(2, 3, nil), mat.NewDense(2, 1, nil))
		Expect(err).To(MatchError(place.ErrDimensionMismatch))

		_, err = place.IsControllable(mat.NewDense(2, 2, nil), mat.NewDense(3, 1, nil))
		Expect(err).To(MatchError(place.ErrDimensionMismatch))
	})
})

var _ = Describe("CharPoly", func() {
	It("expands a conjugate pair into real coefficients", func() {
		coeffs, err := place.CharPoly(examplePoles)
		Expect(err).NotTo(HaveOccurred())
		Expect(coeffs).To(HaveLen(3))
		Expect(coeffs[0]).To(Equal(1.0))
		Expect(coeffs[1]).To(BeNumerically("~", 40, 1e-12))
		Expect(coeffs[2]).To(BeNumerically("~", 500, 1e-12))
	})

	It("handles real poles in any order", func() {
		coeffs, err := place.CharPoly([]complex128{-1, -3 + 1i, -2, -3 - 1i})
		Expect(err).NotTo(HaveOccurred())
		// (s+1)(s+2)(s^2+6s+10)
		want := []float64{1, 9, 30, 42, 20}
		for i := range want {
			Expect(coeffs[i]).To(BeNumerically("~", want[i], 1e-9))
		}
	})

	It("rejects an unpaired complex pole", func() {
		_, err := place.CharPoly([]complex128{-20 + 10i, -20 + 10i})
		Expect(err).To(MatchError(place.ErrInvalidPoleSet))
	})
})

var _ = Describe("PolyMatrix", func() {
	It("evaluates p(A) with Horner's scheme", func() {
		a, _ := rlc()
		pa, err := place.PolyMatrix(a, []float64{1, 40, 500})
		Expect(err).NotTo(HaveOccurred())

		Expect(pa.At(0, 0)).To(BeNumerically("~", -93500, 1e-6))
		Expect(pa.At(0, 1)).To(BeNumerically("~", 6e6, 1e-3))
		Expect(pa.At(1, 0)).To(BeNumerically("~", -60, 1e-9))
		Expect(pa.At(1, 1)).To(BeNumerically("~", -99500, 1e-6))
	})
})

var _ = Describe("Gain", func() {
	It("places the RLC poles at -20 ± 10j", func() {
		a, b := rlc()
		f, err := place.Gain(a, b, examplePoles)
		Expect(err).NotTo(HaveOccurred())

		r, c := f.Dims()
		Expect(r).To(Equal(1))
		Expect(c).To(Equal(2))
		Expect(f.At(0, 0)).To(BeNumerically("~", -6, 1e-6))
		Expect(f.At(0, 1)).To(BeNumerically("~", -9950, 1e-6))

		cl, err := place.ClosedLoop(a, b, f)
		Expect(err).NotTo(HaveOccurred())
		got, err := place.Eigenvalues(cl)
		Expect(err).NotTo(HaveOccurred())
		Expect(place.MatchPoles(got, examplePoles, 1e-6)).To(BeTrue())
		Expect(place.Verify(a, b, f, examplePoles, 1e-6)).To(Succeed())
	})

	It("is a pure function of its inputs", func() {
		a, b := rlc()
		f1, err := place.Gain(a, b, examplePoles)
		Expect(err).NotTo(HaveOccurred())
		f2, err := place.Gain(a, b, examplePoles)
		Expect(err).NotTo(HaveOccurred())

		Expect(mat.Equal(f1, f2)).To(BeTrue())
		Expect(a.At(0, 0)).To(BeNumerically("~", -100, 1e-9))
	})

	It("places poles of a third-order chain", func() {
		a := mat.NewDense(3, 3, []float64{0, 1, 0, 0, 0, 1, -1, -2, -3})
		b := mat.NewDense(3, 1, []float64{0, 0, 1})
		poles := []complex128{-4, -2 + 1i, -2 - 1i}

		f, err := place.Gain(a, b, poles)
		Expect(err).NotTo(HaveOccurred())
		Expect(place.Verify(a, b, f, poles, 1e-6)).To(Succeed())
	})

	It("fails on an uncontrollable system", func() {
		a := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
		b := mat.NewDense(2, 1, nil)

		f, err := place.Gain(a, b, examplePoles)
		Expect(err).To(MatchError(place.ErrUncontrollable))
		Expect(f).To(BeNil())

		_, err = place.Gain(a, b, []complex128{-1, -2})
		Expect(err).To(MatchError(place.ErrUncontrollable))
	})

	It("rejects a pole count that differs from the system order", func() {
		a := mat.NewDense(3, 3, []float64{0, 1, 0, 0, 0, 1, 0, 0, 0})
		b := mat.NewDense(3, 1, []float64{0, 0, 1})

		_, err := place.Gain(a, b, examplePoles)
		Expect(err).To(MatchError(place.ErrInvalidPoleSet))
	})

	It("rejects unpaired complex poles", func() {
		a, b := rlc()
		_, err := place.Gain(a, b, []complex128{-20 + 10i, -5})
		Expect(err).To(MatchError(place.ErrInvalidPoleSet))
	})

	It("rejects inconsistent shapes", func() {
		a, _ := rlc()
		_, err := place.Gain(a, mat.NewDense(3, 1, nil), examplePoles)
		Expect(err).To(MatchError(place.ErrDimensionMismatch))

		_, err = place.Gain(a, mat.NewDense(2, 2, []float64{1, 0, 0, 1}), examplePoles)
		Expect(err).To(MatchError(place.ErrDimensionMismatch))

		_, err = place.Gain(mat.NewDense(2, 3, nil), mat.NewDense(2, 1, nil), examplePoles)
		Expect(err).To(MatchError(place.ErrDimensionMismatch))
	})
})

var _ = Describe("Verify", func() {
	It("reports a mismatch for the open-loop gain", func() {
		a, b := rlc()
		err := place.Verify(a, b, mat.NewDense(1, 2, nil), examplePoles, 1e-6)
		Expect(err).To(MatchError(place.ErrPlacementMismatch))
	})
})

var _ = Describe("MatchPoles", func() {
	It("respects multiplicity", func() {
		Expect(place.MatchPoles([]complex128{-1, -1}, []complex128{-1, -2}, 1e-9)).To(BeFalse())
		Expect(place.MatchPoles([]complex128{-2, -1}, []complex128{-1, -2}, 1e-9)).To(BeTrue())
		Expect(place.MatchPoles([]complex128{-1}, []complex128{-1, -2}, 1e-9)).To(BeFalse())
	})
})

var _ = Describe("SplitPair", func() {
	It("finds the conjugate pair behind a real pole", func() {
		re, im, rest, err := place.SplitPair([]complex128{-10, -4 + 3i, -4 - 3i})
		Expect(err).NotTo(HaveOccurred())
		Expect(re).To(Equal(-4.0))
		Expect(im).To(Equal(3.0))
		Expect(rest).To(Equal([]complex128{-10}))
	})

	It("takes the first two poles when all are real", func() {
		re, im, rest, err := place.SplitPair([]complex128{-20, -40, -5})
		Expect(err).NotTo(HaveOccurred())
		Expect(re).To(Equal(-20.0))
		Expect(im).To(Equal(0.0))
		Expect(rest).To(Equal([]complex128{-5}))
	})

	It("reports the positive imaginary part for a pair listed lower first", func() {
		_, im, rest, err := place.SplitPair([]complex128{-1 - 2i, -1 + 2i})
		Expect(err).NotTo(HaveOccurred())
		Expect(im).To(Equal(2.0))
		Expect(rest).To(BeEmpty())
	})

	It("rejects unpaired and short pole sets", func() {
		_, _, _, err := place.SplitPair([]complex128{-1 + 2i, -3})
		Expect(err).To(MatchError(place.ErrInvalidPoleSet))
		_, _, _, err = place.SplitPair([]complex128{-1})
		Expect(err).To(MatchError(place.ErrInvalidPoleSet))
	})
})

var _ = Describe("Prescaler", func() {
	It("gives unit DC gain to the capacitor voltage", func() {
		sys, err := lti.SeriesRLC(10.0, 100e-3, 100e-6)
		Expect(err).NotTo(HaveOccurred())
		f, err := place.Gain(sys.A, sys.B, examplePoles)
		Expect(err).NotTo(HaveOccurred())

		nbar, err := place.Prescaler(sys.A, sys.B, sys.C, f)
		Expect(err).NotTo(HaveOccurred())
		Expect(nbar).To(BeNumerically("~", 0.005, 1e-12))
	})

	It("fails when the output ignores the state", func() {
		a, b := rlc()
		f, err := place.Gain(a, b, examplePoles)
		Expect(err).NotTo(HaveOccurred())

		_, err = place.Prescaler(a, b, mat.NewDense(1, 2, nil), f)
		Expect(err).To(MatchError(place.ErrZeroDCGain))
	})
})
