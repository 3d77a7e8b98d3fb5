// Package config loads the ssvep runtime configuration from YAML, SSVEP_
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Segmentation policies.
const (
	PolicyWallClock  = "wallclock"
	PolicyContinuous = "continuous"
)

// EnvPrefix prefixes environment overrides, e.g. SSVEP_STREAM_SAMPLE_RATE.
const EnvPrefix = "SSVEP"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the complete runtime configuration.
type Config struct {
	Stream     StreamConfig     `mapstructure:"stream" yaml:"stream"`
	Segment    SegmentConfig    `mapstructure:"segment" yaml:"segment"`
	Filters    []FilterConfig   `mapstructure:"filters" yaml:"filters"`
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`
	Stimulus   StimulusConfig   `mapstructure:"stimulus" yaml:"stimulus"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

// StreamConfig describes the acquisition stream.
type StreamConfig struct {
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
	Channels   int     `mapstructure:"channels" yaml:"channels"`
	// Retention is the number of samples per channel kept in memory.
	Retention int `mapstructure:"retention" yaml:"retention"`
	// BlockSize is the playback block released per pump step.
	BlockSize int `mapstructure:"block_size" yaml:"block_size"`
	// Realtime paces playback at the sample rate instead of releasing the
	// whole recording at once.
	Realtime bool `mapstructure:"realtime" yaml:"realtime"`
}

// SegmentConfig selects the windowing policy.
type SegmentConfig struct {
	Policy        string        `mapstructure:"policy" yaml:"policy"`
	Duration      time.Duration `mapstructure:"duration" yaml:"duration"`
	PollInterval  time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	RetryInterval time.Duration `mapstructure:"retry_interval" yaml:"retry_interval"`
}

// FilterConfig is one pre-processing filter.
type FilterConfig struct {
	Kind  string  `mapstructure:"kind" yaml:"kind"`
	Low   float64 `mapstructure:"low" yaml:"low,omitempty"`
	High  float64 `mapstructure:"high" yaml:"high,omitempty"`
	Order int     `mapstructure:"order" yaml:"order,omitempty"`
	Freq  float64 `mapstructure:"freq" yaml:"freq,omitempty"`
	Q     float64 `mapstructure:"q" yaml:"q,omitempty"`
}

// ClassifierConfig configures the reference set and the scoring strategy.
type ClassifierConfig struct {
	Strategy         string         `mapstructure:"strategy" yaml:"strategy"`
	Frequencies      []float64      `mapstructure:"frequencies" yaml:"frequencies"`
	Harmonics        int            `mapstructure:"harmonics" yaml:"harmonics"`
	SubBands         SubBandsConfig `mapstructure:"sub_bands" yaml:"sub_bands"`
	OptimizerBudget  int            `mapstructure:"optimizer_budget" yaml:"optimizer_budget"`
	DropFlatChannels bool           `mapstructure:"drop_flat_channels" yaml:"drop_flat_channels"`
	SNRNeighbors     int            `mapstructure:"snr_neighbors" yaml:"snr_neighbors"`
}

// SubBandsConfig is the filter-bank decomposition for the fbcca strategy.
type SubBandsConfig struct {
	Count   int     `mapstructure:"count" yaml:"count"`
	Base    float64 `mapstructure:"base" yaml:"base"`
	Step    float64 `mapstructure:"step" yaml:"step"`
	High    float64 `mapstructure:"high" yaml:"high"`
	Order   int     `mapstructure:"order" yaml:"order"`
	WeightA float64 `mapstructure:"weight_a" yaml:"weight_a"`
	WeightB float64 `mapstructure:"weight_b" yaml:"weight_b"`
}

// StimulusConfig describes the stimulus display. A zero refresh rate uses
// the classifier frequencies unchanged.
type StimulusConfig struct {
	RefreshRate float64 `mapstructure:"refresh_rate" yaml:"refresh_rate"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("stream.sample_rate", 250.0)
	v.SetDefault("stream.channels", 8)
	v.SetDefault("stream.retention", 30*250)
	v.SetDefault("stream.block_size", 25)
	v.SetDefault("stream.realtime", false)

	v.SetDefault("segment.policy", PolicyContinuous)
	v.SetDefault("segment.duration", 2*time.Second)
	v.SetDefault("segment.poll_interval", 20*time.Millisecond)
	v.SetDefault("segment.retry_interval", 20*time.Millisecond)

	v.SetDefault("filters", []map[string]any{
		{"kind": "bandpass", "low": 6.0, "high": 90.0, "order": 4},
		{"kind": "notch", "freq": 50.0, "q": 25.0},
	})

	v.SetDefault("classifier.strategy", "cca")
	v.SetDefault("classifier.frequencies", []float64{9.25, 11.25, 13.25, 15.25})
	v.SetDefault("classifier.harmonics", 3)
	v.SetDefault("classifier.sub_bands.count", 5)
	v.SetDefault("classifier.sub_bands.base", 8.0)
	v.SetDefault("classifier.sub_bands.step", 8.0)
	v.SetDefault("classifier.sub_bands.high", 88.0)
	v.SetDefault("classifier.sub_bands.order", 4)
	v.SetDefault("classifier.sub_bands.weight_a", 1.25)
	v.SetDefault("classifier.sub_bands.weight_b", 0.25)
	v.SetDefault("classifier.optimizer_budget", 300)
	v.SetDefault("classifier.drop_flat_channels", false)
	v.SetDefault("classifier.snr_neighbors", 4)

	v.SetDefault("stimulus.refresh_rate", 0.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// New returns a viper instance with defaults and environment overrides set
// up. If path is empty, ssvep.yaml is searched in the working directory
// and $HOME/.config/ssvep.
func New(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ssvep")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/ssvep")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Read loads the config file of v, if any. A missing file is only an error
// when it was named explicitly.
func Read(v *viper.Viper) error {
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads path (or the default search locations), applies environment
// overrides and returns the validated configuration.
func Load(path string) (*Config, error) {
	v := New(path)
	if err := Read(v); err != nil {
		return nil, err
	}
	return Decode(v)
}

// Default returns the default configuration.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Decode(v)
	if err != nil {
		panic(err)
	}
	return cfg
}
