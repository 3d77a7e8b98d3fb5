package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-ssvep/dsp/signal"
)

type simulateOptions struct {
	freqs     []float64
	harmonics []float64
	seconds   float64
	channels  int
	noise     float64
	seed      int64
	out       string
}

func newSimulateCmd(a *app) *cobra.Command {
	opts := simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Write a synthetic SSVEP recording as CSV",
		Long: `simulate writes a recording in the format run reads. Each frequency in
--freq is attended for --seconds in turn; every channel sees the response
with its own gain and phase lag plus Gaussian noise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if opts.out != "" && opts.out != "-" {
				f, err := os.Create(opts.out)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return simulate(out, a.cfg.Stream.SampleRate, opts)
		},
	}

	flags := cmd.Flags()
	flags.Float64SliceVar(&opts.freqs, "freq", []float64{11.25}, "attended frequencies, one segment each")
	flags.Float64SliceVar(&opts.harmonics, "harmonics", []float64{1, 0.5, 0.25}, "harmonic amplitudes, fundamental first")
	flags.Float64Var(&opts.seconds, "seconds", 4, "duration of each segment")
	flags.IntVar(&opts.channels, "channels", 8, "number of channels")
	flags.Float64Var(&opts.noise, "noise", 1, "noise standard deviation")
	flags.Int64Var(&opts.seed, "seed", 1, "random seed")
	flags.StringVarP(&opts.out, "output", "o", "-", "output file, - for stdout")
	flags.Float64("sample-rate", 0, "sample rate in Hz")
	bindFlag(flags, "sample-rate", "stream.sample_rate")
	return cmd
}

func simulate(out io.Writer, sampleRate float64, opts simulateOptions) error {
	if len(opts.freqs) == 0 || opts.channels <= 0 {
		return fmt.Errorf("simulate: need at least one frequency and one channel")
	}
	samples := int(opts.seconds * sampleRate)
	if samples <= 0 {
		return fmt.Errorf("simulate: %g s at %g Hz gives no samples", opts.seconds, sampleRate)
	}

	channels := make([][]float64, opts.channels)
	for i, f := range opts.freqs {
		gen, err := signal.NewGenerator(sampleRate, signal.WithSeed(opts.seed+int64(i)))
		if err != nil {
			return err
		}
		block, err := gen.SSVEP(signal.Response{
			Frequency:  f,
			Harmonics:  opts.harmonics,
			Channels:   opts.channels,
			NoiseSigma: opts.noise,
		}, samples)
		if err != nil {
			return err
		}
		for ch := range channels {
			channels[ch] = append(channels[ch], block[ch]...)
		}
	}

	w := csv.NewWriter(out)
	header := make([]string, opts.channels)
	for ch := range header {
		header[ch] = "ch" + strconv.Itoa(ch+1)
	}
	if err := w.Write(header); err != nil {
		return err
	}
	row := make([]string, opts.channels)
	for k := range channels[0] {
		for ch := range row {
			row[ch] = strconv.FormatFloat(channels[ch][k], 'g', 8, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
