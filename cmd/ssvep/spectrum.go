package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-ssvep/dsp/spectrum"
	"github.com/cwbudde/algo-ssvep/dsp/window"
	"github.com/cwbudde/algo-ssvep/ssvep/stream"
	frequencystats "github.com/cwbudde/algo-ssvep/stats/frequency"
)

func newSpectrumCmd(a *app) *cobra.Command {
	var (
		winName   string
		neighbors int
	)
	cmd := &cobra.Command{
		Use:   "spectrum <recording.csv>",
		Short: "Print per-channel power and SNR at every stimulation harmonic",
		Long: `spectrum computes the windowed power spectrum of each channel of a
recording and reports, for every configured frequency and harmonic, the
power at the nearest bin and the narrow-band SNR against the neighbouring
bins. A second table summarises each channel over the stimulation band:
the strongest frequency, the spectral centroid and flatness, and the
share of the total power that falls inside the band. It is a quick check
that a recording carries the expected responses.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			win, err := window.ParseType(winName)
			if err != nil {
				return err
			}
			src, err := stream.Open(args[0], a.cfg.Stream.SampleRate)
			if err != nil {
				return err
			}
			defer src.Close()
			if err := src.Release(); err != nil {
				return err
			}
			data, _, err := src.Since(0)
			if err != nil {
				return err
			}
			return printSpectrum(cmd.OutOrStdout(), data, src.Labels(), src.SampleRate(),
				a.cfg.Classifier.Frequencies, a.cfg.Classifier.Harmonics, win, neighbors)
		},
	}
	cmd.Flags().StringVar(&winName, "window", "hann", "spectral window: rectangular, hann, hamming, blackman, tukey")
	cmd.Flags().IntVar(&neighbors, "neighbors", 4, "noise bins on each side of the target bin")
	cmd.Flags().Float64("sample-rate", 0, "recording sample rate in Hz")
	bindFlag(cmd.Flags(), "sample-rate", "stream.sample_rate")
	return cmd
}

func printSpectrum(out io.Writer, data [][]float64, labels []string, sampleRate float64,
	freqs []float64, harmonics int, win window.Type, neighbors int,
) error {
	info := window.Info(win)
	fmt.Fprintf(out, "%d channels × %d samples at %g Hz, %s window (ENBW %.4g bins)\n\n",
		len(data), len(data[0]), sampleRate, info.Name, info.ENBW)

	spectra := make([]spectrum.Spectrum, len(data))
	for ch, x := range data {
		s, err := spectrum.PowerSpectrum(x, sampleRate, win)
		if err != nil {
			return fmt.Errorf("channel %s: %w", labels[ch], err)
		}
		spectra[ch] = s
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "FREQ\tHARMONIC\t")
	for _, l := range labels {
		fmt.Fprintf(tw, "%s dB\t", l)
	}
	fmt.Fprintln(tw, "SNR dB\t")

	for _, f := range freqs {
		for h := 1; h <= harmonics; h++ {
			target := float64(h) * f
			if target >= sampleRate/2 {
				continue
			}
			fmt.Fprintf(tw, "%g Hz\t%d\t", f, h)
			for _, s := range spectra {
				fmt.Fprintf(tw, "%.1f\t", 10*math.Log10(s.Power[s.Bin(target)]+1e-300))
			}
			snr, err := spectrum.SNR(data, sampleRate, target, neighbors)
			if err != nil {
				fmt.Fprintln(tw, "-\t")
				continue
			}
			fmt.Fprintf(tw, "%.1f\t\n", snr)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	low, high := stimulationBand(freqs, harmonics, sampleRate)
	fmt.Fprintf(out, "\nband %.4g-%.4g Hz\n", low, high)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CHANNEL\tPEAK Hz\tPEAK dB\tCENTROID Hz\tFLATNESS\tSHARE dB\t")
	for ch, s := range spectra {
		st, err := frequencystats.Band(s, low, high)
		if err != nil {
			return fmt.Errorf("channel %s: %w", labels[ch], err)
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%.1f\t%.2f\t%.3f\t%.1f\t\n",
			labels[ch], st.PeakFreq, st.PeakDB(), st.Centroid, st.Flatness, st.FractionDB())
	}
	return tw.Flush()
}

// stimulationBand spans the stimulation frequencies and their harmonics
// with a 1 Hz margin, clipped to Nyquist.
func stimulationBand(freqs []float64, harmonics int, sampleRate float64) (float64, float64) {
	low, high := math.Inf(1), 0.0
	for _, f := range freqs {
		low = min(low, f)
		high = max(high, float64(harmonics)*f)
	}
	return max(0, low-1), min(high+1, sampleRate/2)
}
