package zerophase

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ssvep/dsp/filter/biquad"
	"github.com/cwbudde/algo-ssvep/dsp/filter/design"
	"github.com/cwbudde/algo-ssvep/internal/testutil"
)

const fs = 250.0

func lowpass(t *testing.T) []biquad.Coefficients {
	t.Helper()
	sections, err := design.ButterworthLowpass(40, 4, fs)
	if err != nil {
		t.Fatalf("ButterworthLowpass() error = %v", err)
	}
	return sections
}

func TestFilter_PreservesLengthAndInput(t *testing.T) {
	x := testutil.DeterministicSine(10, fs, 1, 137)
	orig := append([]float64(nil), x...)

	y := Filter(lowpass(t), x)
	if len(y) != len(x) {
		t.Fatalf("len = %d, want %d", len(y), len(x))
	}
	testutil.RequireSliceNearlyEqual(t, x, orig, 0)
	testutil.RequireFinite(t, y)
}

func TestFilter_NoPhaseShift(t *testing.T) {
	// A 12 Hz tone sits deep in the passband: after forward-backward
	// filtering it must line up with the input sample for sample.
	x := testutil.DeterministicSine(12, fs, 1, 500)
	y := Filter(lowpass(t), x)

	testutil.RequireSliceNearlyEqual(t, testutil.Interior(y, 50), testutil.Interior(x, 50), 5e-3)
}

func TestFilter_SinglePassLags(t *testing.T) {
	x := testutil.DeterministicSine(30, fs, 1, 500)
	single := append([]float64(nil), x...)
	biquad.NewChain(lowpass(t)).ProcessBlock(single)
	double := Filter(lowpass(t), x)

	gain := magSq(lowpass(t), 30)
	lagErr, zeroErr := 0.0, 0.0
	for i := 100; i < 400; i++ {
		lagErr = math.Max(lagErr, math.Abs(single[i]-x[i]))
		zeroErr = math.Max(zeroErr, math.Abs(double[i]-x[i]*gain))
	}
	if zeroErr > 1e-3 {
		t.Fatalf("zero-phase deviation %v, want < 1e-3", zeroErr)
	}
	if lagErr < 0.1 {
		t.Fatalf("single pass deviation %v, expected visible phase lag", lagErr)
	}
}

func TestFilter_ConstantInputSettled(t *testing.T) {
	x := testutil.DC(3.5, 64)
	y := Filter(lowpass(t), x)
	testutil.RequireSliceNearlyEqual(t, y, x, 1e-9)
}

func TestFilter_ShortInputs(t *testing.T) {
	if y := Filter(lowpass(t), nil); len(y) != 0 {
		t.Fatalf("nil input gave %v", y)
	}
	if y := Filter(lowpass(t), []float64{2}); y[0] != 2 {
		t.Fatalf("single sample = %v, want passthrough", y)
	}
	y := Filter(lowpass(t), []float64{1, -1, 1})
	testutil.RequireFinite(t, y)
}

func TestFilter_NoSectionsCopies(t *testing.T) {
	x := []float64{1, 2, 3}
	y := Filter(nil, x)
	testutil.RequireSliceNearlyEqual(t, y, x, 0)
	y[0] = 9
	if x[0] != 1 {
		t.Fatal("Filter aliased its input")
	}
}

func magSq(sections []biquad.Coefficients, f float64) float64 {
	g := 1.0
	for i := range sections {
		g *= sections[i].MagnitudeSquared(f, fs)
	}
	return g
}
