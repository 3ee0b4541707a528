// Package simulator runs the per-customer daily behavior loop. One engine
// simulates one customer over the full horizon; customers never interact,
// which is what makes the generation phase embarrassingly parallel.
package simulator

import (
	"github.com/predelinq/riskgen/internal/models"
	"github.com/predelinq/riskgen/internal/utils"
)

// Status is the customer lifecycle state during simulation.
type Status int

const (
	// StatusActive customers keep producing snapshots.
	StatusActive Status = iota

	// StatusDefaulted is absorbing: once an EMI bounces the customer
	// stops being simulated after the bounce day completes.
	StatusDefaulted
)

// State is the mutable per-customer account state threaded through the
// day loop.
type State struct {
	Balance utils.Money

	// SpendMean is today's per-transaction discretionary mean. Kept as a
	// float so compounding drift does not lose sub-cent precision.
	SpendMean float64

	Status Status
}

// NewState initializes account state from the static customer profile.
func NewState(c *models.Customer) *State {
	return &State{
		Balance:   c.BaselineSavingsBalance,
		SpendMean: c.BaselineSpend.ToFloat() / 30.0,
		Status:    StatusActive,
	}
}

// Defaulted reports whether the absorbing default state has been entered.
func (s *State) Defaulted() bool {
	return s.Status == StatusDefaulted
}
