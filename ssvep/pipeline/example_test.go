package pipeline_test

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-ssvep/dsp/filter/bank"
	"github.com/cwbudde/algo-ssvep/dsp/signal"
	"github.com/cwbudde/algo-ssvep/ssvep/cca"
	"github.com/cwbudde/algo-ssvep/ssvep/pipeline"
	"github.com/cwbudde/algo-ssvep/ssvep/reference"
	"github.com/cwbudde/algo-ssvep/ssvep/segment"
	"github.com/cwbudde/algo-ssvep/ssvep/stream"
)

func ExamplePipeline_Run() {
	const fs = 250.0

	gen, _ := signal.NewGenerator(fs, signal.WithSeed(42))
	data, _ := gen.SSVEP(signal.Response{
		Frequency:  11.25,
		Harmonics:  []float64{1, 0.4},
		Channels:   4,
		NoiseSigma: 0.3,
	}, 1000)

	src, _ := stream.NewMemory("demo", fs, 4)
	_ = src.Append(data)
	_ = src.Close()

	seg, _ := segment.NewContinuous(src, 500)
	filters, _ := bank.New(fs, bank.Bandpass(6, 90, 4), bank.MainsNotch(50))
	refs, _ := reference.NewSet(reference.Params{
		SampleRate:  fs,
		Samples:     500,
		Frequencies: []float64{9.25, 11.25, 13.25, 15.25},
		Harmonics:   3,
	})
	clf, _ := cca.New(refs)

	sink := pipeline.SinkFunc(func(_ context.Context, d pipeline.Decision) error {
		fmt.Println(d.Start, d.Frequency)
		return nil
	})
	p, err := pipeline.New(seg, filters, clf, sink)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := p.Run(context.Background()); err != nil {
		fmt.Println(err)
	}
	// Output:
	// 0 11.25
	// 500 11.25
}
