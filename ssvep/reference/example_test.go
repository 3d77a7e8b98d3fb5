package reference_test

import (
	"fmt"

	"github.com/cwbudde/algo-ssvep/ssvep/reference"
)

func ExampleNewSet() {
	set, err := reference.NewSet(reference.Params{
		SampleRate:  250,
		Samples:     500,
		Frequencies: []float64{9.25, 11.25, 13.25, 15.25},
		Harmonics:   3,
	})
	if err != nil {
		panic(err)
	}
	snap := set.Snapshot()
	rows, cols := snap.Matrices[1].Dims()
	fmt.Printf("%d references of %d×%d\n", len(snap.Matrices), rows, cols)
	// Output:
	// 4 references of 500×6
}
