package window

import "fmt"

// A two-second window at 250 Hz, as spectrum.SNR tapers it.
func ExampleGenerate() {
	w := Generate(TypeHann, 500)
	fmt.Printf("edges %.2f %.2f, centre %.4f\n", w[0], w[499], w[249])
	// Output:
	// edges 0.00 0.00, centre 1.0000
}

func ExampleApply() {
	buf := make([]float64, 500)
	for i := range buf {
		buf[i] = 2
	}
	Apply(TypeHann, buf)
	fmt.Printf("mean %.3f\n", CoherentGain(buf))
	// Output:
	// mean 0.998
}

func ExampleEquivalentNoiseBandwidth() {
	symmetric, _ := EquivalentNoiseBandwidth(Generate(TypeHann, 500))
	periodic, _ := EquivalentNoiseBandwidth(Generate(TypeHann, 500, WithPeriodic()))
	fmt.Printf("symmetric %.3f bins, periodic %.3f bins, nominal %.1f\n",
		symmetric, periodic, Info(TypeHann).ENBW)
	// Output:
	// symmetric 1.503 bins, periodic 1.500 bins, nominal 1.5
}

func ExampleParseType() {
	t, err := ParseType(" HANN ")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(Info(t).Name)
	// Output:
	// Hann
}
