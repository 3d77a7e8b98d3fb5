package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// isolatedConfig writes the default configuration to a temporary file so
// tests never pick up a developer's ssvep.yaml.
func isolatedConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ssvep.yaml")
	_, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	return path
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	path := isolatedConfig(t)

	_, err := execute(t, "config", "init", path)
	assert.Error(t, err)

	_, err = execute(t, "config", "init", "--force", path)
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sample_rate: 250")
	assert.Contains(t, string(data), "duration: 2s")
}

func TestConfigShow_AppliesFlags(t *testing.T) {
	cfg := isolatedConfig(t)
	out, err := execute(t, "--config", cfg, "--log-level", "debug", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "level: debug")
}

func TestSimulateThenRun(t *testing.T) {
	cfg := isolatedConfig(t)
	recording := filepath.Join(t.TempDir(), "session.csv")

	_, err := execute(t, "--config", cfg, "simulate",
		"--freq", "11.25,13.25", "--seconds", "4", "--noise", "0.5", "-o", recording)
	require.NoError(t, err)

	data, err := os.ReadFile(recording)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1+2*4*250)
	assert.Equal(t, "ch1,ch2,ch3,ch4,ch5,ch6,ch7,ch8", lines[0])

	out, err := execute(t, "--config", cfg, "--log-level", "error", "run", recording)
	require.NoError(t, err)
	for _, want := range []string{"@0: 11.25 Hz", "@500: 11.25 Hz", "@1000: 13.25 Hz", "@1500: 13.25 Hz"} {
		assert.Contains(t, out, want)
	}

	out, err = execute(t, "--config", cfg, "spectrum", recording)
	require.NoError(t, err)
	assert.Contains(t, out, "Hann window")
	assert.Contains(t, out, "11.25 Hz")
	assert.Contains(t, out, "band 8.25-46.75 Hz")
	assert.Contains(t, out, "CENTROID Hz")
}

func TestRun_MissingRecording(t *testing.T) {
	cfg := isolatedConfig(t)
	_, err := execute(t, "--config", cfg, "run", filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestReferences(t *testing.T) {
	cfg := isolatedConfig(t)
	out, err := execute(t, "--config", cfg, "references", "--duration", "1s")
	require.NoError(t, err)
	assert.Contains(t, out, "250 samples, 3 harmonics")
	assert.Contains(t, out, "11.25 Hz")
	assert.Contains(t, out, "250×6")
}

func TestQuantize(t *testing.T) {
	cfg := isolatedConfig(t)
	out, err := execute(t, "--config", cfg, "quantize", "--refresh", "60", "12", "8.5")
	require.NoError(t, err)
	assert.Contains(t, out, "12.0000 Hz")
	assert.Contains(t, out, "8.5714 Hz")

	_, err = execute(t, "--config", cfg, "quantize", "--refresh", "60", "12", "13")
	assert.Error(t, err)
}
