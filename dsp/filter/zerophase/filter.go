package zerophase

import (
	"github.com/cwbudde/algo-ssvep/dsp/filter/biquad"
)

// PadLen returns the odd-extension length used for a cascade of n sections.
func PadLen(n int) int {
	return 3 * (2*n + 1)
}

// Filter runs the cascade over x forward then backward and returns the
// result in a new slice of the same length. x is not modified.
func Filter(sections []biquad.Coefficients, x []float64) []float64 {
	out := make([]float64, len(x))
	FilterTo(out, sections, x)
	return out
}

// FilterTo is Filter writing into dst, which must have len(x) elements.
func FilterTo(dst []float64, sections []biquad.Coefficients, x []float64) {
	n := len(x)
	if n < 2 || len(sections) == 0 {
		copy(dst, x)
		return
	}

	pad := min(PadLen(len(sections)), n-1)
	ext := oddExtend(x, pad)

	chain := biquad.NewChain(sections)
	chain.SteadyState(ext[0])
	chain.ProcessBlock(ext)

	reverse(ext)
	chain.Reset()
	chain.SteadyState(ext[0])
	chain.ProcessBlock(ext)
	reverse(ext)

	copy(dst, ext[pad:pad+n])
}

// oddExtend returns x with pad samples of odd reflection on either side:
// 2*x[0]-x[pad..1] before and 2*x[n-1]-x[n-2..n-1-pad] after.
func oddExtend(x []float64, pad int) []float64 {
	n := len(x)
	ext := make([]float64, n+2*pad)

	first, last := x[0], x[n-1]
	for i := range pad {
		ext[i] = 2*first - x[pad-i]
		ext[pad+n+i] = 2*last - x[n-2-i]
	}
	copy(ext[pad:], x)

	return ext
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
