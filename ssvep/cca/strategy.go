package cca

import (
	"fmt"
	"strings"
)

// Strategy selects how a frequency is scored.
type Strategy int

const (
	StrategyCCA Strategy = iota
	StrategyFilterBankCCA
	StrategyOptimizedCCA
)

var strategyNames = map[Strategy]string{
	StrategyCCA:           "cca",
	StrategyFilterBankCCA: "fbcca",
	StrategyOptimizedCCA:  "optimized",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps "cca", "fbcca" or "optimized" (case-insensitive) to a
// Strategy.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("cca: unknown strategy %q", name)
}
