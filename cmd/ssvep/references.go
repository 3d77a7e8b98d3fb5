package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-ssvep/ssvep/reference"
	timestats "github.com/cwbudde/algo-ssvep/stats/time"
)

func newReferencesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "references",
		Short: "Print the reference set for the configured frequencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := a.cfg.WindowSamples()
			if err != nil {
				return err
			}
			p, err := a.cfg.ReferenceParams(n)
			if err != nil {
				return err
			}
			refs, err := reference.NewSet(p)
			if err != nil {
				return err
			}
			return printReferences(cmd.OutOrStdout(), refs.Snapshot())
		},
	}
	cmd.Flags().Duration("duration", 0, "analysis window duration")
	cmd.Flags().Int("harmonics", 0, "harmonics per frequency")
	bindFlag(cmd.Flags(), "duration", "segment.duration")
	bindFlag(cmd.Flags(), "harmonics", "classifier.harmonics")
	return cmd
}

func printReferences(out io.Writer, snap reference.Snapshot) error {
	p := snap.Params
	fmt.Fprintf(out, "sample rate %g Hz, %d samples, %d harmonics\n\n", p.SampleRate, p.Samples, p.Harmonics)

	aliased := make(map[float64]bool)
	for _, f := range p.Aliased() {
		aliased[f] = true
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FREQ\tSHAPE\tTOP HARMONIC\tFLAT COLUMNS\tNOTE")
	for i, r := range snap.Matrices {
		f := p.Frequencies[i]
		rows, cols := r.Dims()
		columns := make([][]float64, cols)
		for j := range columns {
			columns[j] = mat.Col(nil, j, r)
		}
		note := ""
		if aliased[f] {
			note = "aliased"
		}
		fmt.Fprintf(tw, "%g Hz\t%d×%d\t%g Hz\t%d\t%s\n",
			f, rows, cols, float64(p.Harmonics)*f, len(timestats.FlatChannels(columns)), note)
	}
	return tw.Flush()
}
