package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ssvep/dsp/window"
)

// SNR returns the narrow-band signal-to-noise ratio of freq in dB: the
// Hann-windowed Goertzel power exactly at freq, which need not fall on an
// FFT bin, divided by the mean power of `neighbors` FFT bins on each side of
// the nearest bin, skipping the bins covered by the window main lobe.
// Ratios are averaged linearly across channels before conversion to dB.
func SNR(channels [][]float64, sampleRate, freq float64, neighbors int) (float64, error) {
	if len(channels) == 0 {
		return 0, ErrEmptyInput
	}
	if neighbors <= 0 {
		return 0, fmt.Errorf("spectrum: neighbors must be > 0: %d", neighbors)
	}

	var sum float64
	for ch, x := range channels {
		r, err := channelSNR(x, sampleRate, freq, neighbors)
		if err != nil {
			return 0, fmt.Errorf("spectrum: channel %d: %w", ch, err)
		}
		sum += r
	}

	return 10 * math.Log10(sum/float64(len(channels))), nil
}

func channelSNR(x []float64, sampleRate, freq float64, neighbors int) (float64, error) {
	s, err := PowerSpectrum(x, sampleRate, window.TypeHann)
	if err != nil {
		return 0, err
	}

	windowed := append([]float64(nil), x...)
	window.Apply(window.TypeHann, windowed)
	target, err := PowerAt(windowed, freq, sampleRate)
	if err != nil {
		return 0, err
	}

	// Hann main lobe is ±2 bins of the unpadded length.
	guard := int(math.Ceil(2 * float64(s.FFTSize) / float64(len(x))))
	center := s.Bin(freq)

	var noise float64
	var count int
	for d := guard + 1; d <= guard+neighbors; d++ {
		for _, k := range [2]int{center - d, center + d} {
			if k > 0 && k < len(s.Power)-1 {
				noise += s.Power[k]
				count++
			}
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("no neighbor bins around %g Hz", freq)
	}

	noise /= float64(count)
	if noise == 0 {
		return math.Inf(1), nil
	}
	return target / noise, nil
}
