package simulator

import (
	"testing"
	"time"

	"github.com/predelinq/riskgen/internal/models"
	"github.com/predelinq/riskgen/internal/utils"
)

func testCustomer(id int64, a models.Archetype) *models.Customer {
	return &models.Customer{
		ID:                     id,
		Archetype:              a,
		MonthlySalary:          utils.Units(85000),
		EMIAmount:              utils.Units(25000),
		EMIDueDay:              5,
		CreditLimit:            utils.Units(255000),
		BaselineSpend:          utils.Units(42000),
		BaselineSavingsBalance: utils.Units(170000),
		SalaryDay:              28,
	}
}

func testStart() time.Time {
	return time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
}

func runCustomer(t *testing.T, c *models.Customer, seed int64, days int) *Result {
	t.Helper()
	rng := utils.NewStream(seed, uint64(c.ID))
	eng := NewEngine(c, rng, testStart(), days, DefaultMacroShock(), 1000000)
	return eng.Run()
}

func TestEngineDeterminism(t *testing.T) {
	c1 := testCustomer(1007, models.ArchetypeOverspending)
	c2 := testCustomer(1007, models.ArchetypeOverspending)

	r1 := runCustomer(t, c1, 42, 180)
	r2 := runCustomer(t, c2, 42, 180)

	if len(r1.Transactions) != len(r2.Transactions) {
		t.Fatalf("Expected identical transaction counts, got %d and %d",
			len(r1.Transactions), len(r2.Transactions))
	}
	for i := range r1.Transactions {
		a, b := r1.Transactions[i], r2.Transactions[i]
		if a.ID != b.ID || a.Amount != b.Amount || a.Category != b.Category || a.BalanceAfter != b.BalanceAfter {
			t.Fatalf("Transaction %d differs between runs: %+v vs %+v", i, a, b)
		}
	}

	if len(r1.Days) != len(r2.Days) {
		t.Fatalf("Expected identical day counts, got %d and %d", len(r1.Days), len(r2.Days))
	}
	for i := range r1.Days {
		if r1.Days[i].ClosingBalance != r2.Days[i].ClosingBalance {
			t.Fatalf("Day %d closing balance differs: %s vs %s",
				i, r1.Days[i].ClosingBalance, r2.Days[i].ClosingBalance)
		}
	}
}

func TestStablePrimeNeverDefaults(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		c := testCustomer(1000, models.ArchetypeStablePrime)
		res := runCustomer(t, c, seed, 180)
		if res.Defaulted {
			t.Fatalf("STABLE_PRIME defaulted with seed %d", seed)
		}
		if len(res.Days) != 180 {
			t.Fatalf("Expected 180 snapshots, got %d", len(res.Days))
		}
	}
}

func TestStablePrimeScenario(t *testing.T) {
	// Salary 85000, EMI 25000, opening balance 100000, 30 days: the EMI is
	// always payable, the salary always arrives, and no bounce can occur.
	c := testCustomer(1000, models.ArchetypeStablePrime)
	c.BaselineSavingsBalance = utils.Units(100000)

	for seed := int64(1); seed <= 10; seed++ {
		res := runCustomer(t, c, seed, 30)
		if res.Defaulted {
			t.Fatalf("Scenario customer defaulted with seed %d", seed)
		}
		for _, txn := range res.Transactions {
			if txn.Category == models.CategoryEMIBounce {
				t.Fatalf("Scenario customer produced a bounce record with seed %d", seed)
			}
		}
		if !res.Days[4].EMIFlag {
			t.Errorf("Expected EMI debited on the due day with seed %d", seed)
		}
	}
}

func TestBalanceReconciliation(t *testing.T) {
	for _, a := range models.Archetypes {
		t.Run(string(a), func(t *testing.T) {
			c := testCustomer(1003, a)
			res := runCustomer(t, c, 42, 180)

			balance := c.BaselineSavingsBalance
			txnIdx := 0
			prevID := int64(0)

			for dayIdx, snap := range res.Days {
				for txnIdx < len(res.Transactions) && res.Transactions[txnIdx].Date.Equal(snap.Date) {
					txn := res.Transactions[txnIdx]
					if txn.ID <= prevID {
						t.Fatalf("Transaction ids not strictly increasing: %d after %d", txn.ID, prevID)
					}
					prevID = txn.ID

					if txn.Type != models.TxTypeFail {
						balance = balance.Add(txn.Amount)
					} else if txn.Amount != 0 {
						t.Fatalf("Fail transaction %d moved money: %s", txn.ID, txn.Amount)
					}
					if txn.BalanceAfter != balance {
						t.Fatalf("Transaction %d balance_after %s, expected %s",
							txn.ID, txn.BalanceAfter, balance)
					}
					txnIdx++
				}

				if snap.ClosingBalance != balance {
					t.Fatalf("Day %d closing balance %s, expected %s",
						dayIdx, snap.ClosingBalance, balance)
				}
			}

			if txnIdx != len(res.Transactions) {
				t.Errorf("Expected all transactions within snapshot days, %d left over",
					len(res.Transactions)-txnIdx)
			}
		})
	}
}

func TestSalaryAndEMIFlags(t *testing.T) {
	c := testCustomer(1000, models.ArchetypeStablePrime)
	res := runCustomer(t, c, 42, 30)

	// Start date is Sep 1, so day index 4 is the EMI due day (Sep 5)
	// and day index 27 is the salary day (Sep 28).
	emiDay := res.Days[4]
	if !emiDay.EMIFlag {
		t.Error("Expected EMI flag on the due day")
	}

	salaryDay := res.Days[27]
	if !salaryDay.SalaryFlag {
		t.Error("Expected salary flag on the salary day")
	}
	if salaryDay.DailyIncome != c.MonthlySalary {
		t.Errorf("Expected income %s on salary day, got %s", c.MonthlySalary, salaryDay.DailyIncome)
	}

	for i, snap := range res.Days {
		if i != 27 && snap.SalaryFlag {
			t.Errorf("Unexpected salary flag on day %d", i)
		}
		if i != 4 && snap.EMIFlag {
			t.Errorf("Unexpected EMI flag on day %d", i)
		}
	}

	foundEMI := false
	for _, txn := range res.Transactions {
		if txn.Category == models.CategoryEMI {
			foundEMI = true
			if txn.Amount != c.EMIAmount.Neg() {
				t.Errorf("Expected EMI debit %s, got %s", c.EMIAmount.Neg(), txn.Amount)
			}
			if txn.Type != models.TxTypeDebit {
				t.Errorf("Expected EMI transaction type debit, got %s", txn.Type)
			}
		}
	}
	if !foundEMI {
		t.Error("Expected an EMI transaction in the ledger")
	}
}

func TestSalaryShortMonthFallback(t *testing.T) {
	c := testCustomer(1000, models.ArchetypeStablePrime)
	c.SalaryDay = 30

	rng := utils.NewStream(42, uint64(c.ID))
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	eng := NewEngine(c, rng, start, 28, DefaultMacroShock(), 1000000)
	res := eng.Run()

	// February 2026 has 28 days, so the nominal day 30 salary lands on the 28th.
	last := res.Days[27]
	if !last.SalaryFlag {
		t.Error("Expected salary paid on the last day of a short month")
	}
	for i := 0; i < 27; i++ {
		if res.Days[i].SalaryFlag {
			t.Errorf("Unexpected salary flag on day %d", i)
		}
	}
}

func TestDefaultTruncatesSeries(t *testing.T) {
	defaults, survived := 0, 0

	for seed := int64(1); seed <= 50; seed++ {
		c := testCustomer(1001, models.ArchetypeLiquidityShock)
		c.BaselineSavingsBalance = utils.Units(1000)
		c.EMIDueDay = 1

		res := runCustomer(t, c, seed, 30)
		if !res.Defaulted {
			survived++
			continue
		}
		defaults++

		if len(res.Days) >= 30 {
			t.Fatalf("Expected truncated series after default, got %d days", len(res.Days))
		}

		last := res.Days[len(res.Days)-1]
		if last.RiskState != models.RiskStateHigh {
			t.Errorf("Expected HIGH risk state on default day, got %s", last.RiskState)
		}
		if last.EMIFlag {
			t.Error("Expected no EMI flag on the bounce day")
		}

		foundBounce := false
		for _, txn := range res.Transactions {
			if txn.Category == models.CategoryEMIBounce {
				foundBounce = true
				if txn.Type != models.TxTypeFail {
					t.Errorf("Expected bounce type fail, got %s", txn.Type)
				}
				if txn.Amount != 0 {
					t.Errorf("Expected bounce amount 0, got %s", txn.Amount)
				}
			}
		}
		if !foundBounce {
			t.Error("Expected an EMI_Bounce transaction for a defaulted customer")
		}
	}

	// The unpayable EMI bounces with probability 0.7 on day one, so both
	// outcomes must show up across 50 seeds.
	if defaults < 10 {
		t.Errorf("Expected unpayable EMI to default frequently, got %d/50", defaults)
	}
	if survived < 3 {
		t.Errorf("Expected some customers to clear into overdraft, got %d/50", survived)
	}
}

func TestUnpayableEMISkippedWhenCannotDefault(t *testing.T) {
	c := testCustomer(1000, models.ArchetypeStablePrime)
	c.BaselineSavingsBalance = utils.Units(1000)
	c.EMIDueDay = 1

	res := runCustomer(t, c, 42, 10)
	if res.Defaulted {
		t.Fatal("STABLE_PRIME must never default")
	}
	if res.Days[0].EMIFlag {
		t.Error("Expected the unpayable EMI to be skipped, not deducted")
	}
	for _, txn := range res.Transactions {
		if txn.Category == models.CategoryEMI || txn.Category == models.CategoryEMIBounce {
			t.Fatalf("Expected no EMI record on a skipped deduction, got %s", txn.Category)
		}
	}
}

func TestOverdraftClearsOnFailedBounceTrial(t *testing.T) {
	// With an unpayable EMI the bounce trial fires at 0.7 (plus any tail
	// bump), so across 50 seeds some customers must clear into overdraft.
	sawOverdraft := false
	for seed := int64(1); seed <= 50 && !sawOverdraft; seed++ {
		c := testCustomer(1004, models.ArchetypeSavingsDepletion)
		c.BaselineSavingsBalance = utils.Units(1000)
		c.EMIDueDay = 1

		res := runCustomer(t, c, seed, 5)
		if res.Defaulted {
			continue
		}
		day := res.Days[0]
		if !day.EMIFlag {
			t.Fatal("Expected EMI deducted on a failed bounce trial")
		}
		if !day.ClosingBalance.IsNegative() {
			t.Fatalf("Expected negative closing balance, got %s", day.ClosingBalance)
		}
		if day.RiskState != models.RiskStateHigh {
			t.Fatalf("Expected HIGH risk state in overdraft, got %s", day.RiskState)
		}
		sawOverdraft = true
	}
	if !sawOverdraft {
		t.Error("Expected at least one overdraft across 50 seeds")
	}
}

func TestRiskStateClassification(t *testing.T) {
	c := testCustomer(1000, models.ArchetypeStablePrime)
	eng := NewEngine(c, utils.NewStream(42, 1000), testStart(), 30, DefaultMacroShock(), 1000000)

	tests := []struct {
		name    string
		balance utils.Money
		status  Status
		want    models.RiskState
	}{
		{"comfortable", utils.Units(100000), StatusActive, models.RiskStateLow},
		{"below one EMI", utils.Units(20000), StatusActive, models.RiskStateMed},
		{"exactly one EMI", utils.Units(25000), StatusActive, models.RiskStateLow},
		{"negative", utils.Units(-1), StatusActive, models.RiskStateHigh},
		{"defaulted", utils.Units(100000), StatusDefaulted, models.RiskStateHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &State{Balance: tt.balance, Status: tt.status}
			if got := eng.riskState(state); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestOverspendingDriftMonotonic(t *testing.T) {
	c := testCustomer(1002, models.ArchetypeOverspending)
	c.BaselineSavingsBalance = utils.Units(10000000) // no default in the way

	horizon := 180
	eng := NewEngine(c, utils.NewStream(42, uint64(c.ID)), testStart(), horizon, DefaultMacroShock(), 1000000)
	state := NewState(c)

	prev := state.SpendMean
	for dayIdx := 0; dayIdx < horizon; dayIdx++ {
		date := testStart().AddDate(0, 0, dayIdx)
		eng.step(state, dayIdx, date)

		// Drift wakes up for the final 90 days of the horizon.
		if dayIdx > horizon-90 {
			if state.SpendMean <= prev {
				t.Fatalf("Expected spend mean to increase on day %d, got %v after %v",
					dayIdx, state.SpendMean, prev)
			}
		} else if state.SpendMean != prev {
			t.Fatalf("Expected spend mean unchanged on day %d, got %v after %v",
				dayIdx, state.SpendMean, prev)
		}
		prev = state.SpendMean
	}
}

func TestSpendFloor(t *testing.T) {
	c := testCustomer(1002, models.ArchetypeStablePrime)
	c.BaselineSpend = utils.Units(30) // mean of 1/day, floor dominates

	res := runCustomer(t, c, 42, 180)
	for _, txn := range res.Transactions {
		if txn.Type != models.TxTypeDebit || txn.Category == models.CategoryEMI {
			continue
		}
		if txn.Amount.Neg() < utils.Units(10) {
			t.Fatalf("Expected discretionary debit of at least 10.00, got %s", txn.Amount.Neg())
		}
	}
}

func TestPayDay(t *testing.T) {
	tests := []struct {
		name    string
		nominal int
		date    time.Time
		want    int
	}{
		{"normal month", 28, time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), 28},
		{"day 30 in february", 30, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), 28},
		{"day 30 in leap february", 30, time.Date(2028, 2, 10, 0, 0, 0, 0, time.UTC), 29},
		{"day 31 in april", 31, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), 30},
		{"day 30 in december", 30, time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := payDay(tt.nominal, tt.date); got != tt.want {
				t.Errorf("Expected pay day %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMacroShockDayFactor(t *testing.T) {
	rng := utils.NewRandom(42)
	shock := DefaultMacroShock()

	t.Run("outside window", func(t *testing.T) {
		for _, day := range []int{0, 119, 151, 179} {
			if got := shock.DayFactor(rng, day); got != 1.0 {
				t.Errorf("Expected factor 1.0 on day %d, got %v", day, got)
			}
		}
	})

	t.Run("inside window", func(t *testing.T) {
		elevated := 0
		for i := 0; i < 1000; i++ {
			got := shock.DayFactor(rng, 130)
			switch got {
			case 1.0:
			case shock.Factor:
				elevated++
			default:
				t.Fatalf("Unexpected factor %v", got)
			}
		}
		if elevated < 140 || elevated > 260 {
			t.Errorf("Expected elevation rate near 0.2, got %d/1000", elevated)
		}
	})
}
