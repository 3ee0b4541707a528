// Package config contains compile-time defaults for the dataset generator.
// Edit these values and recompile to tune behavior.
package config

import "time"

// =============================================================================
// POPULATION DEFAULTS
// =============================================================================

const (
	// NumCustomers is the default population size
	NumCustomers = 1000

	// HorizonDays is the default simulated history length
	HorizonDays = 180

	// StartDate is the first simulated day (the horizon runs forward from here)
	StartDate = "2025-09-01"

	// FirstCustomerID is the id assigned to the first generated customer
	FirstCustomerID = 1000
)

// Archetype mix (must sum to 1.0)
const (
	// StablePrimeRatio is the fraction of low-risk customers
	StablePrimeRatio = 0.60

	// LiquidityShockRatio is the fraction hit by a late salary interruption
	LiquidityShockRatio = 0.10

	// OverspendingRatio is the fraction with compounding spend drift
	OverspendingRatio = 0.10

	// SavingsDepletionRatio is the fraction draining savings via withdrawals
	SavingsDepletionRatio = 0.10

	// IncomeInstabilityRatio is the fraction with noisy, unreliable income
	IncomeInstabilityRatio = 0.10
)

// =============================================================================
// PROFILE DEFAULTS
// =============================================================================

const (
	// IncomeFloor is the minimum monthly salary after the normal draw
	IncomeFloor = 30000

	// EMIRatioLow and EMIRatioHigh bound the EMI-to-income draw
	EMIRatioLow  = 0.2
	EMIRatioHigh = 0.45

	// SavingsMultipleLow and SavingsMultipleHigh bound the opening balance
	// as a multiple of monthly income
	SavingsMultipleLow  = 1.0
	SavingsMultipleHigh = 6.0

	// EMIDueDayMax caps the EMI due day (drawn from 1..EMIDueDayMax)
	EMIDueDayMax = 9

	// SalaryDayMin and SalaryDayMax bound the salary credit day
	SalaryDayMin = 28
	SalaryDayMax = 30

	// CreditLimitRounding rounds credit limits to the nearest multiple
	CreditLimitRounding = 1000
)

// CreditLimitMultiples are the income multiples a credit limit is drawn from
var CreditLimitMultiples = []float64{3, 5, 10}

// =============================================================================
// SIMULATION DEFAULTS
// =============================================================================

const (
	// DailyTxnMean is the Poisson mean for discretionary transactions per day
	DailyTxnMean = 1.5

	// MaxDailySpendTxns caps the Poisson draw so a single day's ledger has a
	// hard upper bound. At mean 1.5 the cap is effectively never reached.
	MaxDailySpendTxns = 12

	// TxnFloor is the minimum discretionary transaction amount
	TxnFloor = 10

	// SpendMeanDivisor scales baseline monthly spend to a per-transaction mean
	SpendMeanDivisor = 1.5

	// SpendStdDevDivisor scales baseline monthly spend to a per-transaction spread
	SpendStdDevDivisor = 3.0

	// BaseBounceProb is the probability an unpayable EMI bounces rather than
	// clearing into overdraft, before archetype bumps
	BaseBounceProb = 0.7
)

// Macro shock: a population-wide stress window in the middle of the horizon
const (
	// MacroShockStartDay and MacroShockEndDay bound the window (0-indexed,
	// inclusive)
	MacroShockStartDay = 120
	MacroShockEndDay   = 150

	// MacroShockProb is the per-day chance the shock bites inside the window
	MacroShockProb = 0.20

	// MacroShockFactor multiplies the per-transaction spend mean on days the
	// shock bites
	MacroShockFactor = 1.2
)

// =============================================================================
// DATABASE DEFAULTS
// =============================================================================

const (
	// DBDriver is the database driver to use
	DBDriver = "mysql"

	// DBMaxOpenConns is maximum open connections in the pool
	DBMaxOpenConns = 100

	// DBMaxIdleConns is maximum idle connections in the pool
	DBMaxIdleConns = 10

	// DBConnMaxLifetime is how long a connection can be reused
	DBConnMaxLifetime = 5 * time.Minute

	// DBConnMaxIdleTime is how long an idle connection is kept
	DBConnMaxIdleTime = 1 * time.Minute
)

// =============================================================================
// OUTPUT DEFAULTS
// =============================================================================

const (
	// FirstTransactionID is the id assigned to the first transaction of the
	// first customer; each customer gets a fixed block after it
	FirstTransactionID = 1000000

	// TransactionIDBlock is the minimum id range reserved per customer so ids
	// stay stable regardless of worker count; long horizons widen the block
	TransactionIDBlock = 10000

	// MaxDailyRecords bounds the ledger rows one simulated day can emit:
	// the capped spend draws plus salary, EMI or bounce, and withdrawal
	MaxDailyRecords = MaxDailySpendTxns + 3

	// RollingWindowDays is the trailing window for the balance mean
	RollingWindowDays = 30
)
