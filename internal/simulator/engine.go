package simulator

import (
	"time"

	"github.com/predelinq/riskgen/internal/archetype"
	"github.com/predelinq/riskgen/internal/config"
	"github.com/predelinq/riskgen/internal/models"
	"github.com/predelinq/riskgen/internal/utils"
)

// Result is everything one customer's simulation produced.
type Result struct {
	Customer     *models.Customer
	Days         []models.DailySnapshot
	Transactions []models.Transaction
	Defaulted    bool
}

// Engine simulates a single customer day by day. Each engine owns a
// dedicated RNG stream and a pre-allocated transaction-id block, so
// results are identical no matter how customers are partitioned across
// workers.
type Engine struct {
	customer    *models.Customer
	policy      archetype.Policy
	rng         *utils.Random
	startDate   time.Time
	horizonDays int
	shock       MacroShock

	nextTxnID int64
}

// NewEngine builds an engine for one customer. firstTxnID is the start of
// the customer's reserved id block.
func NewEngine(c *models.Customer, rng *utils.Random, startDate time.Time, horizonDays int, shock MacroShock, firstTxnID int64) *Engine {
	return &Engine{
		customer:    c,
		policy:      archetype.For(c.Archetype),
		rng:         rng,
		startDate:   startDate,
		horizonDays: horizonDays,
		shock:       shock,
		nextTxnID:   firstTxnID,
	}
}

// Run executes the full horizon and returns the customer's history.
// A default truncates the series: the bounce day completes all its steps
// and records its snapshot, then the loop stops.
func (e *Engine) Run() *Result {
	state := NewState(e.customer)
	res := &Result{
		Customer:     e.customer,
		Days:         make([]models.DailySnapshot, 0, e.horizonDays),
		Transactions: make([]models.Transaction, 0, e.horizonDays*2),
	}

	for dayIdx := 0; dayIdx < e.horizonDays; dayIdx++ {
		date := e.startDate.AddDate(0, 0, dayIdx)
		snap, txns := e.step(state, dayIdx, date)
		res.Transactions = append(res.Transactions, txns...)
		res.Days = append(res.Days, snap)
		if state.Defaulted() {
			break
		}
	}

	res.Defaulted = state.Defaulted()
	return res
}

// step advances one simulated day. The returned transactions and snapshot
// are appended atomically by the caller: a day is never half-recorded.
func (e *Engine) step(state *State, dayIdx int, date time.Time) (models.DailySnapshot, []models.Transaction) {
	var txns []models.Transaction
	var income, spend, withdrawals utils.Money
	var salaryFlag, emiFlag bool

	macroFactor := e.shock.DayFactor(e.rng, dayIdx)

	// Salary credit. Months shorter than the nominal salary day pay on
	// their last day instead of skipping the month.
	if date.Day() == payDay(e.customer.SalaryDay, date) {
		amount := e.policy.SalaryAmount(e.rng, e.customer.MonthlySalary, dayIdx, e.horizonDays)
		if amount.IsPositive() {
			state.Balance = state.Balance.Add(amount)
			income = income.Add(amount)
			salaryFlag = true
			txns = append(txns, e.record(date, models.CategorySalary, amount, state.Balance, models.TxTypeCredit))
		}
	}

	// EMI deduction. An unpayable EMI either bounces (absorbing default)
	// or clears into overdraft. Customers whose archetype cannot default
	// skip the deduction silently instead: no debit, no bounce record.
	if date.Day() == e.customer.EMIDueDay {
		emi := e.customer.EMIAmount
		deduct := true
		if state.Balance.Sub(emi).IsNegative() {
			if !e.policy.CanDefault() {
				deduct = false
			} else {
				pBounce := config.BaseBounceProb + e.policy.BounceBump(dayIdx, e.horizonDays)
				if e.rng.Probability(pBounce) {
					deduct = false
					state.Status = StatusDefaulted
					txns = append(txns, e.record(date, models.CategoryEMIBounce, 0, state.Balance, models.TxTypeFail))
				}
			}
		}
		if deduct {
			state.Balance = state.Balance.Sub(emi)
			emiFlag = true
			txns = append(txns, e.record(date, models.CategoryEMI, emi.Neg(), state.Balance, models.TxTypeDebit))
		}
	}

	// Spend drift compounds before today's draws.
	state.SpendMean *= e.policy.DriftMultiplier(dayIdx, e.horizonDays)

	// Archetype-gated cash withdrawal.
	if amount, ok := e.policy.WithdrawalAmount(e.rng, dayIdx, e.horizonDays); ok {
		state.Balance = state.Balance.Sub(amount)
		withdrawals = withdrawals.Add(amount)
		txns = append(txns, e.record(date, models.CategoryATM, amount.Neg(), state.Balance, models.TxTypeDebit))
	}

	// Discretionary spend: a Poisson number of transactions, amounts from
	// a floored half-normal around the drifting mean.
	mean := state.SpendMean * macroFactor
	numTxns := e.rng.Poisson(config.DailyTxnMean)
	if numTxns > config.MaxDailySpendTxns {
		numTxns = config.MaxDailySpendTxns
	}
	for i := 0; i < numTxns; i++ {
		amount := utils.FromFloat(e.rng.HalfNormal(mean/config.SpendMeanDivisor, mean/config.SpendStdDevDivisor))
		amount = amount.Max(utils.Units(config.TxnFloor))

		cat := models.DiscretionaryCategories[e.rng.IntN(len(models.DiscretionaryCategories))]
		if e.policy.LuxurySubstitution(e.rng, dayIdx, e.horizonDays) {
			cat = models.CategoryLuxury
		}

		state.Balance = state.Balance.Sub(amount)
		spend = spend.Add(amount)
		txns = append(txns, e.record(date, cat, amount.Neg(), state.Balance, models.TxTypeDebit))
	}

	snap := models.DailySnapshot{
		CustomerID:     e.customer.ID,
		Date:           date,
		ClosingBalance: state.Balance,
		DailySpend:     spend.Add(withdrawals),
		DailyIncome:    income,
		SalaryFlag:     salaryFlag,
		EMIFlag:        emiFlag,
		RiskState:      e.riskState(state),
	}
	return snap, txns
}

// record builds a transaction with the next id from this customer's block.
func (e *Engine) record(date time.Time, cat models.Category, amount, balanceAfter utils.Money, typ models.TransactionType) models.Transaction {
	txn := models.Transaction{
		ID:           e.nextTxnID,
		CustomerID:   e.customer.ID,
		Date:         date,
		Category:     cat,
		Amount:       amount,
		Merchant:     models.DefaultMerchant,
		BalanceAfter: balanceAfter,
		Type:         typ,
	}
	e.nextTxnID++
	return txn
}

// riskState classifies end-of-day liquidity.
func (e *Engine) riskState(state *State) models.RiskState {
	switch {
	case state.Defaulted() || state.Balance.IsNegative():
		return models.RiskStateHigh
	case state.Balance.Sub(e.customer.EMIAmount).IsNegative():
		return models.RiskStateMed
	default:
		return models.RiskStateLow
	}
}

// payDay resolves the effective salary day for the month: nominal days
// past the month's end land on the last day of the month.
func payDay(nominal int, date time.Time) int {
	dim := daysInMonth(date)
	if nominal > dim {
		return dim
	}
	return nominal
}

func daysInMonth(date time.Time) int {
	firstOfNext := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
