// Package zerophase applies IIR biquad cascades forward and backward so the
// net phase response is zero and the magnitude response is squared.
//
// Edges are handled like the classic filtfilt: the input is extended on both
// sides by an odd reflection and each pass starts from the steady state of
// its first sample, which keeps start-up transients out of the result.
package zerophase
