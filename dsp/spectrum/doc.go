// Package spectrum estimates power at stimulation frequencies.
//
// [PowerSpectrum] computes a windowed one-sided power spectrum through the
// algo-fft backend, [Goertzel] evaluates the power of a single frequency
// without bin alignment, and [SNR] combines both into the narrow-band
// signal-to-noise ratio commonly used to annotate SSVEP decisions.
package spectrum
