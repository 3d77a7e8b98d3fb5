// Package reference builds the harmonic sine/cosine reference matrices that
// windows are correlated against.
//
// For a stimulation frequency f, H harmonics, sample rate fs and window
// length n, the reference is the n×2H matrix
//
//	R[k][h-1]   = sin(2π·h·f·t[k])
//	R[k][H+h-1] = cos(2π·h·f·t[k])
//
// with t[k] = k/fs for k = 0..n-1 (t[0] = 0, end exclusive). The matrices
// depend only on configuration, so a [Set] builds them once and rebuilds
// only when the parameters change.
package reference
