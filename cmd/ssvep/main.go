// Command ssvep detects steady-state visually evoked potentials in recorded
// EEG sessions.
//
// Usage:
//
//	ssvep [command] [flags]
//
// Examples:
//
//	ssvep simulate --freq 11.25,13.25 --seconds 4 > session.csv
//	ssvep run session.csv
//	ssvep run --strategy fbcca --policy wallclock --duration 2s session.csv
//	ssvep spectrum --window hann session.csv
//	ssvep references
//	ssvep quantize --refresh 60
//	ssvep config init ssvep.yaml
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
