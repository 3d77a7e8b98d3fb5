package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-ssvep/dsp/filter/bank"
	"github.com/cwbudde/algo-ssvep/dsp/spectrum"
	"github.com/cwbudde/algo-ssvep/internal/timeutil"
	"github.com/cwbudde/algo-ssvep/ssvep/cca"
	"github.com/cwbudde/algo-ssvep/ssvep/segment"
	"github.com/cwbudde/algo-ssvep/ssvep/stream"
	timestats "github.com/cwbudde/algo-ssvep/stats/time"
)

// DefaultRetryInterval is the pause after a segmenter reports that not
// enough data has arrived yet.
const DefaultRetryInterval = 20 * time.Millisecond

// DefaultSNRNeighbors is the number of bins on each side used as the noise
// floor for decision SNR.
const DefaultSNRNeighbors = 4

// Classifier scores a window. *cca.Classifier implements it.
type Classifier interface {
	Classify(w *segment.Window) (cca.Result, error)
}

// Stats counts what a pipeline has done so far.
type Stats struct {
	Windows    int
	Detections int
	Retries    int
	Skipped    int64 // samples the segmenter lost to source eviction
}

// gapReporter is implemented by segmenters that can lose samples the source
// evicted before they were read, such as *segment.Continuous.
type gapReporter interface {
	Skipped() int64
}

type config struct {
	retry     time.Duration
	logger    *zap.Logger
	clock     timeutil.Clock
	session   string
	neighbors int
}

// Option configures a Pipeline.
type Option func(*config)

// WithRetryInterval sets the pause after an empty segmenter read. Default
// DefaultRetryInterval.
func WithRetryInterval(d time.Duration) Option {
	return func(c *config) { c.retry = d }
}

// WithLogger sets the logger. Default zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithClock sets the clock used for retry pauses and decision timestamps.
func WithClock(clk timeutil.Clock) Option {
	return func(c *config) { c.clock = clk }
}

// WithSession sets the session identifier stamped on decisions. Default a
// random UUID.
func WithSession(id string) Option {
	return func(c *config) { c.session = id }
}

// WithSNRNeighbors sets the noise bins per side for decision SNR; 0
// disables SNR annotation.
func WithSNRNeighbors(n int) Option {
	return func(c *config) { c.neighbors = n }
}

// Pipeline wires a segmenter, a filter bank, a classifier and a sink.
type Pipeline struct {
	seg     segment.Segmenter
	filters *bank.Bank
	clf     Classifier
	sink    Sink
	cfg     config
	log     *zap.Logger

	mu    sync.Mutex
	stats Stats
}

// New returns a pipeline. filters may be nil to classify raw windows.
func New(seg segment.Segmenter, filters *bank.Bank, clf Classifier, sink Sink, opts ...Option) (*Pipeline, error) {
	switch {
	case seg == nil:
		return nil, errors.New("pipeline: nil segmenter")
	case clf == nil:
		return nil, errors.New("pipeline: nil classifier")
	case sink == nil:
		return nil, errors.New("pipeline: nil sink")
	}

	cfg := config{
		retry:     DefaultRetryInterval,
		logger:    zap.NewNop(),
		clock:     timeutil.RealClock{},
		session:   uuid.NewString(),
		neighbors: DefaultSNRNeighbors,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.retry <= 0 {
		return nil, fmt.Errorf("pipeline: retry interval %v must be positive", cfg.retry)
	}
	if cfg.neighbors < 0 {
		return nil, fmt.Errorf("pipeline: SNR neighbors %d must not be negative", cfg.neighbors)
	}

	return &Pipeline{
		seg:     seg,
		filters: filters,
		clf:     clf,
		sink:    sink,
		cfg:     cfg,
		log:     cfg.logger.With(zap.String("session", cfg.session)),
	}, nil
}

// Session returns the session identifier.
func (p *Pipeline) Session() string { return p.cfg.session }

// Stats returns a snapshot of the counters.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Run processes windows until the source closes, ctx is done, or a
// configuration error surfaces. A closed source ends the run with a nil
// error; a done context returns ctx.Err().
func (p *Pipeline) Run(ctx context.Context) error {
	p.log.Info("pipeline started", zap.Int("window_samples", p.seg.WindowSize()))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		w, err := p.seg.Next(ctx)
		p.noteSkipped()
		switch {
		case errors.Is(err, stream.ErrClosed):
			st := p.Stats()
			p.log.Info("source closed",
				zap.Int("windows", st.Windows),
				zap.Int("detections", st.Detections))
			return nil
		case err != nil:
			return err
		case w == nil:
			p.count(func(s *Stats) { s.Retries++ })
			if err := p.cfg.clock.Sleep(ctx, p.cfg.retry); err != nil {
				return err
			}
			continue
		}

		if err := p.process(ctx, w); err != nil {
			return err
		}
	}
}

func (p *Pipeline) process(ctx context.Context, w *segment.Window) error {
	if flat := timestats.FlatChannels(w.Data()); len(flat) > 0 {
		p.log.Warn("flat channels in window",
			zap.Int64("start", w.Start()),
			zap.Ints("channels", flat))
	}

	if p.filters != nil {
		filtered, err := w.WithData(p.filters.Apply(w.Data()))
		if err != nil {
			return fmt.Errorf("pipeline: filter window at %d: %w", w.Start(), err)
		}
		w = filtered
	}

	res, err := p.clf.Classify(w)
	if err != nil {
		return fmt.Errorf("pipeline: classify window at %d: %w", w.Start(), err)
	}

	d := Decision{
		Result:  res,
		Session: p.cfg.session,
		Start:   w.Start(),
		Samples: w.Samples(),
		SNR:     math.NaN(),
		Time:    p.cfg.clock.Now(),
	}
	if res.Detected && p.cfg.neighbors > 0 {
		snr, err := spectrum.SNR(w.Data(), w.SampleRate(), res.Frequency, p.cfg.neighbors)
		if err != nil {
			p.log.Debug("snr unavailable", zap.Error(err))
		} else {
			d.SNR = snr
		}
	}

	p.count(func(s *Stats) {
		s.Windows++
		if res.Detected {
			s.Detections++
		}
	})

	if res.Detected {
		p.log.Info("decision",
			zap.Int64("start", d.Start),
			zap.Float64("frequency", res.Frequency),
			zap.Float64("confidence", res.Confidence),
			zap.Float64("snr_db", d.SNR))
	} else {
		p.log.Info("no decision", zap.Int64("start", d.Start))
	}

	if err := p.sink.Emit(ctx, d); err != nil {
		return fmt.Errorf("pipeline: emit: %w", err)
	}
	return nil
}

func (p *Pipeline) noteSkipped() {
	g, ok := p.seg.(gapReporter)
	if !ok {
		return
	}

	total := g.Skipped()
	p.mu.Lock()
	gap := total - p.stats.Skipped
	p.stats.Skipped = total
	p.mu.Unlock()

	if gap > 0 {
		p.log.Warn("samples evicted before segmentation",
			zap.Int64("skipped", gap),
			zap.Int64("skipped_total", total))
	}
}

func (p *Pipeline) count(fn func(*Stats)) {
	p.mu.Lock()
	fn(&p.stats)
	p.mu.Unlock()
}
