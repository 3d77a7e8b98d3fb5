// Package bank builds validated zero-phase filter sets for multichannel
// analysis windows.
//
// A [Spec] describes one filter (band-pass, high-pass, low-pass, notch or
// band-stop) independently of the sample rate. [New] validates a list of
// specs against a sample rate and returns a [Bank] that applies every filter
// in order to each channel separately; channels are never mixed. All
// filters run forward and backward (dsp/filter/zerophase), so the bank adds
// no phase shift.
//
// [SubBands] builds the band-pass family used by filter-bank canonical
// correlation: band m (1-based) passes [base + (m-1)*step, high].
//
// Basic usage:
//
//	b, err := bank.New(250, bank.Bandpass(6, 90, 4), bank.Notch(50, design.MainsQ(50)))
//	if err != nil {
//	    return err
//	}
//	filtered := b.Apply(channels)
package bank
