// Package design provides digital IIR filter coefficient designers.
//
// The functions in this package produce biquad coefficients consumable by
// dsp/filter/biquad for runtime processing: RBJ-style second-order sections
// (Lowpass, Highpass), Butterworth cascades (lowpass, highpass, band-pass and
// band-stop through analog prototype transforms and the bilinear transform)
// and a quality-factor notch for mains interference.
//
// Every designer validates its inputs against the sample rate and returns
// [ErrInvalidFilterParameter] rather than clamping.
package design
