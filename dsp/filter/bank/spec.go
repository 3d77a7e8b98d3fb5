package bank

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-ssvep/dsp/filter/design"
)

// ErrInvalidFilterParameter is returned for any spec that cannot be realized
// at the requested sample rate.
var ErrInvalidFilterParameter = design.ErrInvalidFilterParameter

// Kind identifies the response shape of a filter.
type Kind int

const (
	KindBandpass Kind = iota
	KindHighpass
	KindLowpass
	KindNotch
	KindBandstop
)

var kindNames = map[Kind]string{
	KindBandpass: "bandpass",
	KindHighpass: "highpass",
	KindLowpass:  "lowpass",
	KindNotch:    "notch",
	KindBandstop: "bandstop",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a case-insensitive name to a Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, s := range kindNames {
		if s == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown filter kind %q", ErrInvalidFilterParameter, name)
}

// Spec describes one filter. Only the fields relevant to Kind are read:
// Low/High/Order for the Butterworth kinds, NotchFreq/Q for KindNotch.
type Spec struct {
	Kind      Kind
	Low       float64
	High      float64
	Order     int
	NotchFreq float64
	Q         float64
}

// Bandpass returns a Butterworth band-pass spec.
func Bandpass(low, high float64, order int) Spec {
	return Spec{Kind: KindBandpass, Low: low, High: high, Order: order}
}

// Highpass returns a Butterworth high-pass spec with cutoff low.
func Highpass(low float64, order int) Spec {
	return Spec{Kind: KindHighpass, Low: low, Order: order}
}

// Lowpass returns a Butterworth low-pass spec with cutoff high.
func Lowpass(high float64, order int) Spec {
	return Spec{Kind: KindLowpass, High: high, Order: order}
}

// Notch returns a quality-factor notch spec.
func Notch(center, q float64) Spec {
	return Spec{Kind: KindNotch, NotchFreq: center, Q: q}
}

// Bandstop returns a Butterworth band-stop spec.
func Bandstop(low, high float64, order int) Spec {
	return Spec{Kind: KindBandstop, Low: low, High: high, Order: order}
}

func (s Spec) String() string {
	switch s.Kind {
	case KindBandpass, KindBandstop:
		return fmt.Sprintf("%s[%g-%g Hz, order %d]", s.Kind, s.Low, s.High, s.Order)
	case KindHighpass:
		return fmt.Sprintf("%s[%g Hz, order %d]", s.Kind, s.Low, s.Order)
	case KindLowpass:
		return fmt.Sprintf("%s[%g Hz, order %d]", s.Kind, s.High, s.Order)
	case KindNotch:
		return fmt.Sprintf("%s[%g Hz, Q %g]", s.Kind, s.NotchFreq, s.Q)
	default:
		return s.Kind.String()
	}
}

// MainsNotch returns a notch at the mains frequency (50 or 60 Hz) whose
// rejection band is ±1 Hz.
func MainsNotch(mainsHz float64) Spec {
	return Notch(mainsHz, design.MainsQ(mainsHz))
}
