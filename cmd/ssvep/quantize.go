package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-ssvep/ssvep/stimulus"
)

func newQuantizeCmd(a *app) *cobra.Command {
	var refresh float64
	cmd := &cobra.Command{
		Use:   "quantize [freq ...]",
		Short: "Map stimulation frequencies onto a display refresh rate",
		Long: `quantize prints the frequency a display can actually flicker at for each
target: refresh / k for the nearest whole number of frames k per cycle.
Without arguments the configured classifier frequencies are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			freqs := a.cfg.Classifier.Frequencies
			if len(args) > 0 {
				freqs = make([]float64, len(args))
				for i, s := range args {
					f, err := strconv.ParseFloat(s, 64)
					if err != nil {
						return fmt.Errorf("frequency %q: %w", s, err)
					}
					freqs[i] = f
				}
			}
			if refresh == 0 {
				refresh = a.cfg.Stimulus.RefreshRate
			}
			if refresh == 0 {
				refresh = 60
			}

			targets, err := stimulus.Quantize(freqs, refresh)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "DESIRED\tACTUAL\tFRAMES\tOFFSET\n")
			for _, t := range targets {
				fmt.Fprintf(tw, "%g Hz\t%.4f Hz\t%d\t%+.4f Hz\n", t.Desired, t.Actual, t.Frames, t.Offset())
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&refresh, "refresh", 0, "display refresh rate in Hz (default from config, else 60)")
	return cmd
}
