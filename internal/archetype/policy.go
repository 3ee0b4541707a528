// Package archetype holds the behavior-policy table for the five customer
// archetypes. Each archetype gets one strategy record exposing the same
// parameterized surface; the simulation engine selects a record once per
// customer and consults it every day-step. Adding an archetype means adding
// a table row, not touching the engine.
//
// All phase gating is window-relative: windows are measured back from the
// end of the horizon, so policies behave the same for any horizon length.
package archetype

import (
	"github.com/predelinq/riskgen/internal/models"
	"github.com/predelinq/riskgen/internal/utils"
)

// Window gates a behavior to part of the horizon. The zero value is never
// active. TailDays counts from the end of the horizon: a behavior with
// TailDays=60 wakes up for (roughly) the final two months regardless of
// how long the run is.
type Window struct {
	Always   bool
	TailDays int
}

// Active reports whether the window covers the given 0-indexed day.
func (w Window) Active(dayIdx, horizonDays int) bool {
	if w.Always {
		return true
	}
	if w.TailDays <= 0 {
		return false
	}
	return dayIdx > horizonDays-w.TailDays
}

// SalaryRule controls salary arrival: a miss probability and a
// multiplicative noise range applied to the nominal amount.
type SalaryRule struct {
	Window    Window
	MissProb  float64
	NoiseLow  float64 // multiplicative, 0 = no noise
	NoiseHigh float64
}

// DriftRule compounds the daily discretionary-spend mean.
type DriftRule struct {
	Window     Window
	Multiplier float64
}

// WithdrawalRule triggers archetype-gated cash withdrawals.
type WithdrawalRule struct {
	Window  Window
	Prob    float64
	Amounts []utils.Money
}

// LuxuryRule substitutes a luxury category on discretionary spend,
// the detectable drift signal for overspenders.
type LuxuryRule struct {
	Window Window
	Prob   float64
}

// BounceRule bumps the base EMI bounce probability inside its window.
type BounceRule struct {
	Window Window
	Bump   float64
}

// Profile holds the archetype-conditioned distributions the profile
// generator draws static customer parameters from.
type Profile struct {
	IncomeMean      float64
	IncomeStdDev    float64
	SavingsRatioLow float64
	SavingsRatioHi  float64
	EMIRatioBump    float64
}

// Policy is one row of the behavior table.
type Policy struct {
	Archetype  models.Archetype
	Salary     SalaryRule
	Drift      DriftRule
	Withdrawal WithdrawalRule
	Luxury     LuxuryRule
	Bounce     BounceRule
	Profile    Profile
}

var table = map[models.Archetype]Policy{
	models.ArchetypeStablePrime: {
		// Inert everywhere: never misses salary, never bounces,
		// can never default.
		Profile: Profile{
			IncomeMean: 85000, IncomeStdDev: 15000,
			SavingsRatioLow: 0.2, SavingsRatioHi: 0.4,
		},
	},
	models.ArchetypeLiquidityShock: {
		Salary: SalaryRule{
			Window:   Window{TailDays: 45},
			MissProb: 0.8,
		},
		Bounce: BounceRule{
			Window: Window{TailDays: 45},
			Bump:   0.15,
		},
		Profile: Profile{
			IncomeMean: 60000, IncomeStdDev: 12000,
			SavingsRatioLow: 0.1, SavingsRatioHi: 0.2,
		},
	},
	models.ArchetypeOverspending: {
		Drift: DriftRule{
			Window:     Window{TailDays: 90},
			Multiplier: 1.002,
		},
		Luxury: LuxuryRule{
			Window: Window{Always: true},
			Prob:   0.3,
		},
		Bounce: BounceRule{
			Window: Window{TailDays: 90},
			Bump:   0.05,
		},
		Profile: Profile{
			IncomeMean: 60000, IncomeStdDev: 12000,
			SavingsRatioLow: 0.1, SavingsRatioHi: 0.2,
			EMIRatioBump: 0.1, // takes on more debt
		},
	},
	models.ArchetypeSavingsDepletion: {
		Withdrawal: WithdrawalRule{
			Window: Window{TailDays: 60},
			Prob:   0.2,
			Amounts: []utils.Money{
				utils.Units(1000), utils.Units(2000),
				utils.Units(5000), utils.Units(10000),
			},
		},
		Profile: Profile{
			IncomeMean: 60000, IncomeStdDev: 12000,
			SavingsRatioLow: 0.1, SavingsRatioHi: 0.2,
		},
	},
	models.ArchetypeIncomeInstability: {
		Salary: SalaryRule{
			Window:    Window{Always: true},
			MissProb:  0.2,
			NoiseLow:  0.8,
			NoiseHigh: 1.2,
		},
		Profile: Profile{
			IncomeMean: 45000, IncomeStdDev: 20000,
			SavingsRatioLow: 0.05, SavingsRatioHi: 0.15,
		},
	},
}

// For returns the policy record for the archetype.
func For(a models.Archetype) Policy {
	p := table[a]
	p.Archetype = a
	return p
}

// CanDefault reports whether the archetype is allowed to enter the
// absorbing default state. Only STABLE_PRIME is exempt, by construction.
func (p Policy) CanDefault() bool {
	return p.Archetype != models.ArchetypeStablePrime
}

// SalaryAmount realizes today's salary from the nominal amount: noise is
// applied first, then the miss trial. Returns 0 when the salary is missed.
func (p Policy) SalaryAmount(rng *utils.Random, nominal utils.Money, dayIdx, horizonDays int) utils.Money {
	if !p.Salary.Window.Active(dayIdx, horizonDays) {
		return nominal
	}

	amount := nominal
	if p.Salary.NoiseHigh > p.Salary.NoiseLow {
		amount = amount.MulFloat(rng.Float64Range(p.Salary.NoiseLow, p.Salary.NoiseHigh))
	}
	if rng.Probability(p.Salary.MissProb) {
		return 0
	}
	return amount
}

// DriftMultiplier returns the factor applied once per day to the current
// daily-spend mean. 1.0 outside the drift window.
func (p Policy) DriftMultiplier(dayIdx, horizonDays int) float64 {
	if p.Drift.Window.Active(dayIdx, horizonDays) && p.Drift.Multiplier > 0 {
		return p.Drift.Multiplier
	}
	return 1.0
}

// WithdrawalAmount draws today's extra withdrawal. The second return is
// false when no withdrawal fires.
func (p Policy) WithdrawalAmount(rng *utils.Random, dayIdx, horizonDays int) (utils.Money, bool) {
	if !p.Withdrawal.Window.Active(dayIdx, horizonDays) || len(p.Withdrawal.Amounts) == 0 {
		return 0, false
	}
	if !rng.Probability(p.Withdrawal.Prob) {
		return 0, false
	}
	return p.Withdrawal.Amounts[rng.IntN(len(p.Withdrawal.Amounts))], true
}

// LuxurySubstitution reports whether this spend draw should be relabeled
// as luxury spend.
func (p Policy) LuxurySubstitution(rng *utils.Random, dayIdx, horizonDays int) bool {
	if !p.Luxury.Window.Active(dayIdx, horizonDays) {
		return false
	}
	return rng.Probability(p.Luxury.Prob)
}

// BounceBump returns the additive adjustment to the base bounce
// probability for the given day.
func (p Policy) BounceBump(dayIdx, horizonDays int) float64 {
	if p.Bounce.Window.Active(dayIdx, horizonDays) {
		return p.Bounce.Bump
	}
	return 0
}
