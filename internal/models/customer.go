package models

import (
	"fmt"

	"github.com/predelinq/riskgen/internal/utils"
)

// Archetype is the behavioral cohort governing how a customer's income,
// spend, and default risk evolve over the simulation horizon.
type Archetype string

const (
	ArchetypeStablePrime       Archetype = "STABLE_PRIME"
	ArchetypeLiquidityShock    Archetype = "LIQUIDITY_SHOCK"
	ArchetypeOverspending      Archetype = "OVERSPENDING"
	ArchetypeSavingsDepletion  Archetype = "SAVINGS_DEPLETION"
	ArchetypeIncomeInstability Archetype = "INCOME_INSTABILITY"
)

// Archetypes lists all variants in their canonical order. The order is
// load-bearing: weighted draws and exports index into it.
var Archetypes = []Archetype{
	ArchetypeStablePrime,
	ArchetypeLiquidityShock,
	ArchetypeOverspending,
	ArchetypeSavingsDepletion,
	ArchetypeIncomeInstability,
}

// RiskLevel buckets the static archetype risk score.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// riskProfile is the static score/level lookup keyed by archetype. It is
// part of the output contract and is not derived from the simulated
// trajectory.
type riskProfile struct {
	Score int
	Level RiskLevel
}

var riskProfiles = map[Archetype]riskProfile{
	ArchetypeStablePrime:       {Score: 30, Level: RiskLevelLow},
	ArchetypeLiquidityShock:    {Score: 85, Level: RiskLevelHigh},
	ArchetypeOverspending:      {Score: 75, Level: RiskLevelHigh},
	ArchetypeSavingsDepletion:  {Score: 65, Level: RiskLevelMedium},
	ArchetypeIncomeInstability: {Score: 55, Level: RiskLevelMedium},
}

// RiskScore returns the static risk score for the archetype.
func (a Archetype) RiskScore() int {
	return riskProfiles[a].Score
}

// RiskLevel returns the static risk level for the archetype.
func (a Archetype) RiskLevel() RiskLevel {
	return riskProfiles[a].Level
}

// Valid reports whether a is one of the five known variants.
func (a Archetype) Valid() bool {
	_, ok := riskProfiles[a]
	return ok
}

// Customer is a static per-customer parameter vector drawn once before
// simulation and immutable thereafter.
type Customer struct {
	ID        int64     `json:"id"`
	Archetype Archetype `json:"archetype"`

	// Income and debt service
	MonthlySalary utils.Money `json:"estimatedIncome"`
	EMIAmount     utils.Money `json:"emiAmount"`
	EMIDueDay     int         `json:"emiDueDay"` // day of month, 1-9
	CreditLimit   utils.Money `json:"creditLimit"`

	// Spending baseline (non-EMI monthly discretionary spend)
	BaselineSpend utils.Money `json:"totalSpend"`

	// Opening balance: months of runway at current income
	BaselineSavingsBalance utils.Money `json:"baselineSavingsBalance"`

	SalaryDay int `json:"salaryDay"` // nominal day of month, 28-30
}

// Validate checks the profile invariants the simulation engine relies on.
// A profile that fails here is skipped and counted, not fatal to the batch.
func (c *Customer) Validate(incomeFloor utils.Money) error {
	if c.ID <= 0 {
		return fmt.Errorf("customer id must be positive, got %d", c.ID)
	}
	if !c.Archetype.Valid() {
		return fmt.Errorf("customer %d: unknown archetype %q", c.ID, c.Archetype)
	}
	if c.MonthlySalary < incomeFloor {
		return fmt.Errorf("customer %d: salary %s below floor %s", c.ID, c.MonthlySalary, incomeFloor)
	}
	if c.EMIAmount >= c.MonthlySalary {
		return fmt.Errorf("customer %d: EMI %s not below salary %s", c.ID, c.EMIAmount, c.MonthlySalary)
	}
	if c.BaselineSpend < 0 {
		return fmt.Errorf("customer %d: negative baseline spend %s", c.ID, c.BaselineSpend)
	}
	if c.EMIDueDay < 1 || c.EMIDueDay > 28 {
		return fmt.Errorf("customer %d: EMI due day %d out of range", c.ID, c.EMIDueDay)
	}
	if c.SalaryDay < 1 || c.SalaryDay > 31 {
		return fmt.Errorf("customer %d: salary day %d out of range", c.ID, c.SalaryDay)
	}
	return nil
}
