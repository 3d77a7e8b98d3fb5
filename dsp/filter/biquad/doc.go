// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Multiple sections can be
// cascaded via [Chain] for higher-order Butterworth designs.
//
// Sections and chains carry delay-line state and are not safe for concurrent
// use. [Chain.SteadyState] primes the state for a constant input, which the
// zero-phase runner in dsp/filter/zerophase uses to suppress edge transients.
// Coefficient design lives in dsp/filter/design.
package biquad
