package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-ssvep/internal/config"
	"github.com/cwbudde/algo-ssvep/ssvep/pipeline"
	"github.com/cwbudde/algo-ssvep/ssvep/segment"
	"github.com/cwbudde/algo-ssvep/ssvep/stream"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <recording.csv>",
		Short: "Classify a recorded session",
		Long: `run replays a CSV recording (one row per sample, one column per channel)
through the configured filters and classifier and prints one decision per
window. With --realtime, or with the wallclock policy, the recording is
released at its sample rate as a live board would deliver it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.run(ctx, args[0], cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.Float64("sample-rate", 0, "recording sample rate in Hz")
	flags.String("policy", "", "segmentation policy: continuous or wallclock")
	flags.Duration("duration", 0, "analysis window duration")
	flags.String("strategy", "", "classifier strategy: cca, fbcca or optimized")
	flags.Bool("realtime", false, "release the recording at its sample rate")
	bindFlag(flags, "sample-rate", "stream.sample_rate")
	bindFlag(flags, "policy", "segment.policy")
	bindFlag(flags, "duration", "segment.duration")
	bindFlag(flags, "strategy", "classifier.strategy")
	bindFlag(flags, "realtime", "stream.realtime")
	return cmd
}

func (a *app) run(ctx context.Context, path string, out io.Writer) error {
	cfg := a.cfg
	realtime := cfg.Stream.Realtime || cfg.Segment.Policy == config.PolicyWallClock

	// Released all at once, the whole recording must stay readable.
	retain := 0
	if realtime {
		retain = cfg.Stream.Retention
	}
	src, err := stream.Open(path, cfg.Stream.SampleRate,
		stream.WithID(path),
		stream.WithPlaybackRetention(retain))
	if err != nil {
		return err
	}
	defer src.Close()
	if src.Channels() != cfg.Stream.Channels {
		a.log.Warn("recording channel count differs from config",
			zap.Int("recording", src.Channels()),
			zap.Int("config", cfg.Stream.Channels))
	}

	n, err := cfg.WindowSamples()
	if err != nil {
		return err
	}
	refs, clf, err := cfg.NewClassifier(n)
	if err != nil {
		return err
	}
	if aliased := refs.Params().Aliased(); len(aliased) > 0 {
		a.log.Warn("upper harmonics reach Nyquist", zap.Float64s("frequencies", aliased))
	}
	filters, err := cfg.FilterBank()
	if err != nil {
		return err
	}
	seg, err := newSegmenter(cfg, src, n)
	if err != nil {
		return err
	}

	sink := pipeline.SinkFunc(func(_ context.Context, d pipeline.Decision) error {
		_, err := fmt.Fprintln(out, d)
		return err
	})
	p, err := pipeline.New(seg, filters, clf, sink,
		pipeline.WithLogger(a.log),
		pipeline.WithRetryInterval(cfg.Segment.RetryInterval),
		pipeline.WithSNRNeighbors(cfg.Classifier.SNRNeighbors),
	)
	if err != nil {
		return err
	}
	a.log.Info("classifying recording",
		zap.String("file", path),
		zap.Int("samples", src.Len()),
		zap.Int("channels", src.Channels()),
		zap.String("strategy", cfg.Classifier.Strategy),
		zap.String("policy", cfg.Segment.Policy),
		zap.Int("window", n))

	if !realtime {
		if err := src.Release(); err != nil {
			return err
		}
		return p.Run(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return src.Pump(gctx, cfg.Stream.BlockSize) })
	g.Go(func() error { return p.Run(gctx) })
	err = g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		a.log.Info("interrupted", zap.Int("windows", p.Stats().Windows))
		return nil
	}
	return err
}

func newSegmenter(cfg *config.Config, src stream.Source, n int) (segment.Segmenter, error) {
	if cfg.Segment.Policy == config.PolicyWallClock {
		return segment.NewWallClock(src, cfg.Segment.Duration,
			segment.WithPollInterval(cfg.Segment.PollInterval))
	}
	return segment.NewContinuous(src, n)
}
