// Package time computes per-channel time-domain statistics used to spot
// unusable channels (flat lines, rail clipping) in analysis windows.
package time

import "math"

// FlatTolerance is the standard deviation, relative to max(1, |mean|),
// below which a channel counts as flat.
const FlatTolerance = 1e-12

// Stats holds time-domain statistics for one channel.
type Stats struct {
	Length     int
	Mean       float64
	Variance   float64 // population variance
	StdDev     float64
	RMS        float64
	Peak       float64 // max(|max|, |min|)
	PeakToPeak float64
	Flat       bool
}

// Calculate computes all statistics in a single pass using Welford's online
// algorithm for the variance.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{Flat: true}
	}

	var mean, m2, sumSq float64
	lo, hi := signal[0], signal[0]
	for i, x := range signal {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
		sumSq += x * x
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}

	variance := m2 / float64(n)
	std := math.Sqrt(variance)

	return Stats{
		Length:     n,
		Mean:       mean,
		Variance:   variance,
		StdDev:     std,
		RMS:        math.Sqrt(sumSq / float64(n)),
		Peak:       math.Max(math.Abs(lo), math.Abs(hi)),
		PeakToPeak: hi - lo,
		Flat:       isFlat(mean, std),
	}
}

// Channels computes Stats for every channel of a channel-major block.
func Channels(channels [][]float64) []Stats {
	out := make([]Stats, len(channels))
	for i, ch := range channels {
		out[i] = Calculate(ch)
	}
	return out
}

// FlatChannels returns the indices of channels with (numerically) zero
// variance.
func FlatChannels(channels [][]float64) []int {
	var flat []int
	for i, ch := range channels {
		if IsFlat(ch) {
			flat = append(flat, i)
		}
	}
	return flat
}

// IsFlat reports whether signal has (numerically) zero variance. Empty
// signals and signals containing NaN or Inf are flat.
func IsFlat(signal []float64) bool {
	s := Calculate(signal)
	return s.Flat
}

// MeanStdDev returns the mean and population standard deviation.
func MeanStdDev(signal []float64) (mean, std float64) {
	s := Calculate(signal)
	return s.Mean, s.StdDev
}

func isFlat(mean, std float64) bool {
	if math.IsNaN(std) || math.IsInf(std, 0) || math.IsNaN(mean) || math.IsInf(mean, 0) {
		return true
	}
	return std <= FlatTolerance*math.Max(1, math.Abs(mean))
}
