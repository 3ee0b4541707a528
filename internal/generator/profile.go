// Package generator produces the synthetic dataset: static customer
// profiles, worker-parallel daily simulation, derived metrics, and the
// CSV/JSON exports.
package generator

import (
	"fmt"

	"github.com/predelinq/riskgen/internal/archetype"
	"github.com/predelinq/riskgen/internal/config"
	"github.com/predelinq/riskgen/internal/models"
	"github.com/predelinq/riskgen/internal/utils"
)

// GenerateProfiles draws the static customer population. Profiles are
// drawn sequentially from a single stream so the population is identical
// for a given seed regardless of worker count; only the daily simulation
// is parallelized.
func GenerateProfiles(cfg *config.GenerateConfig, rng *utils.Random) ([]*models.Customer, error) {
	ratios := cfg.ArchetypeRatios()
	customers := make([]*models.Customer, 0, cfg.NumCustomers)

	for i := 0; i < cfg.NumCustomers; i++ {
		c := drawProfile(int64(config.FirstCustomerID+i), ratios, rng)
		if err := c.Validate(utils.Units(config.IncomeFloor)); err != nil {
			return nil, fmt.Errorf("generated invalid profile for customer %d: %w", c.ID, err)
		}
		customers = append(customers, c)
	}

	return customers, nil
}

// drawProfile generates one customer's static parameters from the
// archetype-conditioned distributions.
func drawProfile(id int64, ratios []float64, rng *utils.Random) *models.Customer {
	arch := models.Archetypes[rng.WeightedPickFloat(ratios)]
	prof := archetype.For(arch).Profile

	income := rng.Normal(prof.IncomeMean, prof.IncomeStdDev)
	if income < config.IncomeFloor {
		income = config.IncomeFloor
	}
	savingsRatio := rng.Float64Range(prof.SavingsRatioLow, prof.SavingsRatioHi)

	emiRatio := rng.Float64Range(config.EMIRatioLow, config.EMIRatioHigh) + prof.EMIRatioBump
	emi := income * emiRatio

	// Baseline monthly discretionary spend is what's left after the EMI
	// and the savings habit.
	disposable := income - emi
	baselineSpend := disposable * (1 - savingsRatio)

	creditMultiple := config.CreditLimitMultiples[rng.IntN(len(config.CreditLimitMultiples))]
	creditLimit := utils.FromFloat(income * creditMultiple).
		RoundToNearest(utils.Units(config.CreditLimitRounding))

	return &models.Customer{
		ID:                     id,
		Archetype:              arch,
		MonthlySalary:          utils.FromFloat(income),
		EMIAmount:              utils.FromFloat(emi),
		EMIDueDay:              rng.IntRange(1, config.EMIDueDayMax),
		CreditLimit:            creditLimit,
		BaselineSpend:          utils.FromFloat(baselineSpend),
		BaselineSavingsBalance: utils.FromFloat(income * rng.Float64Range(config.SavingsMultipleLow, config.SavingsMultipleHigh)),
		SalaryDay:              rng.IntRange(config.SalaryDayMin, config.SalaryDayMax),
	}
}
