package bank_test

import (
	"fmt"

	"github.com/cwbudde/algo-ssvep/dsp/filter/bank"
	"github.com/cwbudde/algo-ssvep/dsp/filter/design"
)

func ExampleNew() {
	b, err := bank.New(250, bank.Bandpass(6, 90, 4), bank.Notch(50, design.MainsQ(50)))
	if err != nil {
		panic(err)
	}
	for _, f := range b.Filters() {
		fmt.Println(f.Spec())
	}
	// Output:
	// bandpass[6-90 Hz, order 4]
	// notch[50 Hz, Q 25]
}

func ExampleSubBands() {
	filters, err := bank.SubBands(250, bank.DefaultSubBands(250))
	if err != nil {
		panic(err)
	}
	for _, f := range filters {
		fmt.Println(f.Spec())
	}
	// Output:
	// bandpass[8-88 Hz, order 4]
	// bandpass[16-88 Hz, order 4]
	// bandpass[24-88 Hz, order 4]
	// bandpass[32-88 Hz, order 4]
	// bandpass[40-88 Hz, order 4]
}
