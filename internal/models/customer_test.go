package models

import (
	"testing"

	"github.com/predelinq/riskgen/internal/utils"
)

func validCustomer() *Customer {
	return &Customer{
		ID:                     1000,
		Archetype:              ArchetypeStablePrime,
		MonthlySalary:          utils.Units(85000),
		EMIAmount:              utils.Units(25000),
		EMIDueDay:              5,
		CreditLimit:            utils.Units(255000),
		BaselineSpend:          utils.Units(42000),
		BaselineSavingsBalance: utils.Units(170000),
		SalaryDay:              28,
	}
}

func TestCustomerValidate(t *testing.T) {
	floor := utils.Units(30000)

	if err := validCustomer().Validate(floor); err != nil {
		t.Fatalf("Expected valid customer, got: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Customer)
	}{
		{"zero id", func(c *Customer) { c.ID = 0 }},
		{"unknown archetype", func(c *Customer) { c.Archetype = "GAMBLER" }},
		{"salary below floor", func(c *Customer) { c.MonthlySalary = utils.Units(29999) }},
		{"emi exceeds salary", func(c *Customer) { c.EMIAmount = c.MonthlySalary }},
		{"negative baseline spend", func(c *Customer) { c.BaselineSpend = utils.Units(-1) }},
		{"emi due day too high", func(c *Customer) { c.EMIDueDay = 29 }},
		{"salary day zero", func(c *Customer) { c.SalaryDay = 0 }},
		{"salary day too high", func(c *Customer) { c.SalaryDay = 32 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCustomer()
			tt.mutate(c)
			if err := c.Validate(floor); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestArchetypeRiskProfiles(t *testing.T) {
	tests := []struct {
		archetype Archetype
		score     int
		level     RiskLevel
	}{
		{ArchetypeStablePrime, 30, RiskLevelLow},
		{ArchetypeLiquidityShock, 85, RiskLevelHigh},
		{ArchetypeOverspending, 75, RiskLevelHigh},
		{ArchetypeSavingsDepletion, 65, RiskLevelMedium},
		{ArchetypeIncomeInstability, 55, RiskLevelMedium},
	}

	for _, tt := range tests {
		t.Run(string(tt.archetype), func(t *testing.T) {
			if got := tt.archetype.RiskScore(); got != tt.score {
				t.Errorf("Expected score %d, got %d", tt.score, got)
			}
			if got := tt.archetype.RiskLevel(); got != tt.level {
				t.Errorf("Expected level %s, got %s", tt.level, got)
			}
		})
	}
}

func TestArchetypeValid(t *testing.T) {
	for _, a := range Archetypes {
		if !a.Valid() {
			t.Errorf("Expected %s to be valid", a)
		}
	}
	if Archetype("UNKNOWN").Valid() {
		t.Error("Expected UNKNOWN to be invalid")
	}
}
