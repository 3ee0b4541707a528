package simulator

import (
	"github.com/predelinq/riskgen/internal/config"
	"github.com/predelinq/riskgen/internal/utils"
)

// MacroShock is the population-wide stress regime: inside a fixed window
// in the middle of the horizon, each customer-day independently has a
// chance of elevated spending pressure.
type MacroShock struct {
	StartDay int
	EndDay   int
	Prob     float64
	Factor   float64
}

// DefaultMacroShock returns the shock regime with compile-time defaults.
func DefaultMacroShock() MacroShock {
	return MacroShock{
		StartDay: config.MacroShockStartDay,
		EndDay:   config.MacroShockEndDay,
		Prob:     config.MacroShockProb,
		Factor:   config.MacroShockFactor,
	}
}

// DayFactor returns the spend-mean multiplier for the given day. Outside
// the window it is always 1.0; inside, the shock bites probabilistically.
// The trial consumes one draw per in-window day, so the stream advances
// identically whether or not the shock bites.
func (m MacroShock) DayFactor(rng *utils.Random, dayIdx int) float64 {
	if dayIdx < m.StartDay || dayIdx > m.EndDay {
		return 1.0
	}
	if rng.Probability(m.Prob) {
		return m.Factor
	}
	return 1.0
}
