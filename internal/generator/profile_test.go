package generator

import (
	"testing"
	"time"

	"github.com/predelinq/riskgen/internal/config"
	"github.com/predelinq/riskgen/internal/models"
	"github.com/predelinq/riskgen/internal/simulator"
	"github.com/predelinq/riskgen/internal/utils"
)

func testGenerateConfig(n int) *config.GenerateConfig {
	cfg := config.DefaultConfig().Generate
	cfg.NumCustomers = n
	return &cfg
}

func TestGenerateProfiles(t *testing.T) {
	cfg := testGenerateConfig(500)
	customers, err := GenerateProfiles(cfg, utils.NewRandom(42))
	if err != nil {
		t.Fatalf("GenerateProfiles failed: %v", err)
	}
	if len(customers) != 500 {
		t.Fatalf("Expected 500 customers, got %d", len(customers))
	}

	t.Run("ids are sequential", func(t *testing.T) {
		for i, c := range customers {
			want := int64(config.FirstCustomerID + i)
			if c.ID != want {
				t.Fatalf("Expected id %d at index %d, got %d", want, i, c.ID)
			}
		}
	})

	t.Run("profiles satisfy invariants", func(t *testing.T) {
		for _, c := range customers {
			if err := c.Validate(utils.Units(config.IncomeFloor)); err != nil {
				t.Fatalf("Customer %d failed validation: %v", c.ID, err)
			}
			if c.EMIDueDay < 1 || c.EMIDueDay > config.EMIDueDayMax {
				t.Fatalf("Customer %d EMI due day %d out of range", c.ID, c.EMIDueDay)
			}
			if c.SalaryDay < config.SalaryDayMin || c.SalaryDay > config.SalaryDayMax {
				t.Fatalf("Customer %d salary day %d out of range", c.ID, c.SalaryDay)
			}
			if !c.BaselineSavingsBalance.IsPositive() {
				t.Fatalf("Customer %d has non-positive opening balance %s", c.ID, c.BaselineSavingsBalance)
			}
		}
	})

	t.Run("credit limits land on round thousands", func(t *testing.T) {
		step := utils.Units(config.CreditLimitRounding)
		for _, c := range customers {
			if c.CreditLimit%step != 0 {
				t.Fatalf("Customer %d credit limit %s not a multiple of %s", c.ID, c.CreditLimit, step)
			}
		}
	})

	t.Run("archetype mix tracks the ratios", func(t *testing.T) {
		counts := make(map[models.Archetype]int)
		for _, c := range customers {
			counts[c.Archetype]++
		}
		if counts[models.ArchetypeStablePrime] < 250 || counts[models.ArchetypeStablePrime] > 350 {
			t.Errorf("Expected STABLE_PRIME near 300/500, got %d", counts[models.ArchetypeStablePrime])
		}
		for _, a := range models.Archetypes[1:] {
			if counts[a] < 20 || counts[a] > 90 {
				t.Errorf("Expected %s near 50/500, got %d", a, counts[a])
			}
		}
	})
}

func TestGenerateProfilesDeterminism(t *testing.T) {
	cfg := testGenerateConfig(100)

	c1, err := GenerateProfiles(cfg, utils.NewRandom(42))
	if err != nil {
		t.Fatalf("GenerateProfiles failed: %v", err)
	}
	c2, err := GenerateProfiles(cfg, utils.NewRandom(42))
	if err != nil {
		t.Fatalf("GenerateProfiles failed: %v", err)
	}

	for i := range c1 {
		if *c1[i] != *c2[i] {
			t.Fatalf("Customer %d differs between runs: %+v vs %+v", c1[i].ID, c1[i], c2[i])
		}
	}
}

func TestGetWorkerCount(t *testing.T) {
	if got := GetWorkerCount(4); got != 4 {
		t.Errorf("Expected 4, got %d", got)
	}
	if got := GetWorkerCount(0); got < 1 {
		t.Errorf("Expected at least 1 auto-detected worker, got %d", got)
	}
}

func TestPartitionCustomers(t *testing.T) {
	cfg := testGenerateConfig(10)
	customers, err := GenerateProfiles(cfg, utils.NewRandom(42))
	if err != nil {
		t.Fatalf("GenerateProfiles failed: %v", err)
	}

	t.Run("covers all customers in order", func(t *testing.T) {
		partitions := PartitionCustomers(customers, 3)

		var merged []*models.Customer
		for _, p := range partitions {
			merged = append(merged, p...)
		}
		if len(merged) != len(customers) {
			t.Fatalf("Expected %d customers after merge, got %d", len(customers), len(merged))
		}
		for i := range merged {
			if merged[i].ID != customers[i].ID {
				t.Fatalf("Merge out of order at index %d: %d vs %d", i, merged[i].ID, customers[i].ID)
			}
		}
	})

	t.Run("more workers than customers", func(t *testing.T) {
		partitions := PartitionCustomers(customers, 64)
		total := 0
		for _, p := range partitions {
			total += len(p)
		}
		if total != len(customers) {
			t.Errorf("Expected %d customers across partitions, got %d", len(customers), total)
		}
	})

	t.Run("empty population", func(t *testing.T) {
		partitions := PartitionCustomers(nil, 4)
		if len(partitions) != 4 {
			t.Errorf("Expected 4 empty partitions, got %d", len(partitions))
		}
		for _, p := range partitions {
			if len(p) != 0 {
				t.Error("Expected empty partition")
			}
		}
	})
}

func TestTxnIDStride(t *testing.T) {
	t.Run("short horizons keep the minimum block", func(t *testing.T) {
		if got := TxnIDStride(config.HorizonDays); got != config.TransactionIDBlock {
			t.Errorf("Expected stride %d, got %d", int64(config.TransactionIDBlock), got)
		}
	})

	t.Run("long horizons widen the block", func(t *testing.T) {
		horizon := 5000
		got := TxnIDStride(horizon)
		want := int64(horizon) * config.MaxDailyRecords
		if got != want {
			t.Errorf("Expected stride %d for horizon %d, got %d", want, horizon, got)
		}
		if got <= config.TransactionIDBlock {
			t.Errorf("Expected stride above the minimum block, got %d", got)
		}
	})
}

func TestTxnIDBlockStart(t *testing.T) {
	horizon := config.HorizonDays

	if got := TxnIDBlockStart(config.FirstCustomerID, horizon); got != config.FirstTransactionID {
		t.Errorf("Expected first block at %d, got %d", int64(config.FirstTransactionID), got)
	}

	want := int64(config.FirstTransactionID + 5*config.TransactionIDBlock)
	if got := TxnIDBlockStart(config.FirstCustomerID+5, horizon); got != want {
		t.Errorf("Expected block start %d, got %d", want, got)
	}

	// Adjacent blocks must not overlap.
	a := TxnIDBlockStart(config.FirstCustomerID+1, horizon)
	b := TxnIDBlockStart(config.FirstCustomerID+2, horizon)
	if b-a != TxnIDStride(horizon) {
		t.Errorf("Expected block stride %d, got %d", TxnIDStride(horizon), b-a)
	}
}

func TestTxnIDBlockLongHorizon(t *testing.T) {
	// A horizon long enough that the minimum block would overflow at the
	// simulation's usual transaction rate.
	horizon := 8000
	c := &models.Customer{
		ID:                     config.FirstCustomerID,
		Archetype:              models.ArchetypeStablePrime,
		MonthlySalary:          utils.Units(85000),
		EMIAmount:              utils.Units(25000),
		EMIDueDay:              5,
		CreditLimit:            utils.Units(255000),
		BaselineSpend:          utils.Units(42000),
		BaselineSavingsBalance: utils.Units(170000),
		SalaryDay:              28,
	}

	stream := utils.NewStream(42, uint64(c.ID))
	eng := simulator.NewEngine(c, stream, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		horizon, simulator.DefaultMacroShock(), TxnIDBlockStart(c.ID, horizon))
	res := eng.Run()

	if len(res.Transactions) <= config.TransactionIDBlock {
		t.Fatalf("Expected the horizon to outgrow the minimum block, got %d transactions",
			len(res.Transactions))
	}

	nextBlock := TxnIDBlockStart(c.ID+1, horizon)
	for _, txn := range res.Transactions {
		if txn.ID >= nextBlock {
			t.Fatalf("Transaction id %d crossed into the next customer's block at %d",
				txn.ID, nextBlock)
		}
	}
}
