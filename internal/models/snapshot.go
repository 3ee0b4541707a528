package models

import (
	"time"

	"github.com/predelinq/riskgen/internal/utils"
)

// RiskState is the per-day liquidity classification on a snapshot.
type RiskState string

const (
	RiskStateLow  RiskState = "LOW"
	RiskStateMed  RiskState = "MED"
	RiskStateHigh RiskState = "HIGH"
)

// DailySnapshot is the end-of-day account state for one customer.
// One snapshot per active day; none are produced on days after the
// customer has defaulted, so a defaulted customer's series is truncated.
type DailySnapshot struct {
	CustomerID     int64
	Date           time.Time
	ClosingBalance utils.Money
	// DailySpend includes discretionary spend and extra withdrawals,
	// but not the EMI deduction.
	DailySpend  utils.Money
	DailyIncome utils.Money
	SalaryFlag  bool
	EMIFlag     bool
	RiskState   RiskState

	// Rolling30DBalance is the trailing 30-day mean of closing balance,
	// filled by a post-pass. Nil for the first 29 days of a customer's
	// series; not back-filled.
	Rolling30DBalance *utils.Money
}

// DateString returns the calendar date in the ISO-8601 wire format.
func (s *DailySnapshot) DateString() string {
	return s.Date.Format("2006-01-02")
}
