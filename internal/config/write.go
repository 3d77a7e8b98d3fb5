package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// MarshalYAML writes durations as strings such as "2s" so the output reads
// back through viper unchanged.
func (s SegmentConfig) MarshalYAML() (any, error) {
	return struct {
		Policy        string `yaml:"policy"`
		Duration      string `yaml:"duration"`
		PollInterval  string `yaml:"poll_interval"`
		RetryInterval string `yaml:"retry_interval"`
	}{
		Policy:        s.Policy,
		Duration:      s.Duration.String(),
		PollInterval:  s.PollInterval.String(),
		RetryInterval: s.RetryInterval.String(),
	}, nil
}

// Write encodes cfg as YAML.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return enc.Close()
}
