// Package cca classifies analysis windows by canonical correlation against
// harmonic reference signals.
//
// For every stimulation frequency the classifier computes a score in
// [-1, 1] and picks the best one. Three scoring strategies are available:
//
//   - StrategyCCA: the top canonical correlation between the standardized
//     window (samples × channels) and the frequency's reference matrix.
//   - StrategyFilterBankCCA: the window is split into sub-bands; per-band
//     correlations are combined as sqrt(Σ w_m·ρ_m² / Σ w_m) with weights
//     w_m = m^(-a) + b, so harmonics above the fundamental count too.
//   - StrategyOptimizedCCA: the reference is reduced to a single waveform
//     Σ a_h·sin(2π·h·f·t + φ_h) whose phases and relative amplitudes are
//     fitted by Nelder-Mead to maximize the correlation with the window.
//
// Windows the math cannot handle (a flat channel, more components than
// samples, a non-finite correlation) score [DegenerateScore] for the
// affected frequencies instead of failing the call. A window whose length
// differs from the reference length is a configuration bug and returns
// [ErrMismatchedSampleCount].
//
// Classification is a pure function of the window and the reference set:
// equal inputs give bit-identical results. A Classifier is safe for
// concurrent use.
package cca
