package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/predelinq/riskgen/internal/models"
	"github.com/predelinq/riskgen/internal/simulator"
)

// CSV column orders are part of the output contract; downstream loaders
// and the import command both depend on them.
var (
	customerHeaders = []string{
		"customer_id", "archetype", "monthly_salary", "emi_amount",
		"emi_due_day", "credit_limit", "baseline_spend",
		"baseline_savings_bal", "salary_day",
	}
	dailyHeaders = []string{
		"customer_id", "date", "closing_balance", "daily_spend",
		"daily_income", "salary_flag", "emi_flag", "risk_state",
		"rolling_30d_balance",
	}
	transactionHeaders = []string{
		"transaction_id", "customer_id", "date", "category",
		"amount", "balance_after", "type",
	}
)

// Exporter writes the dataset files for one generation run.
type Exporter struct {
	OutputDir string
	Compress  bool
}

// WriteCustomersCSV writes the static profile table.
func (e *Exporter) WriteCustomersCSV(customers []*models.Customer) (int64, error) {
	w, err := NewCSVWriter(CSVWriterConfig{
		OutputDir: e.OutputDir,
		Filename:  "customers",
		Headers:   customerHeaders,
		Compress:  e.Compress,
	})
	if err != nil {
		return 0, err
	}
	defer w.Close()

	for _, c := range customers {
		row := []string{
			FormatInt64(c.ID),
			string(c.Archetype),
			c.MonthlySalary.String(),
			c.EMIAmount.String(),
			FormatInt(c.EMIDueDay),
			c.CreditLimit.String(),
			c.BaselineSpend.String(),
			c.BaselineSavingsBalance.String(),
			FormatInt(c.SalaryDay),
		}
		if err := w.WriteRow(row); err != nil {
			return w.RowCount(), err
		}
	}

	if err := w.Close(); err != nil {
		return w.RowCount(), err
	}
	return w.RowCount(), nil
}

// WriteDailyAccountsCSV writes every customer's snapshot series in
// customer-id order. The rolling-mean column is empty until the window
// fills, mirroring the in-memory nil.
func (e *Exporter) WriteDailyAccountsCSV(results []*simulator.Result) (int64, error) {
	w, err := NewCSVWriter(CSVWriterConfig{
		OutputDir: e.OutputDir,
		Filename:  "daily_accounts",
		Headers:   dailyHeaders,
		Compress:  e.Compress,
	})
	if err != nil {
		return 0, err
	}
	defer w.Close()

	for _, res := range results {
		for i := range res.Days {
			d := &res.Days[i]
			rolling := ""
			if d.Rolling30DBalance != nil {
				rolling = d.Rolling30DBalance.String()
			}
			row := []string{
				FormatInt64(d.CustomerID),
				FormatDate(d.Date),
				d.ClosingBalance.String(),
				d.DailySpend.String(),
				d.DailyIncome.String(),
				FormatBool(d.SalaryFlag),
				FormatBool(d.EMIFlag),
				string(d.RiskState),
				rolling,
			}
			if err := w.WriteRow(row); err != nil {
				return w.RowCount(), err
			}
		}
	}

	if err := w.Close(); err != nil {
		return w.RowCount(), err
	}
	return w.RowCount(), nil
}

// WriteTransactionsCSV writes the full ledger in customer-id order;
// within a customer, rows are already in id (and therefore time) order.
func (e *Exporter) WriteTransactionsCSV(results []*simulator.Result) (int64, error) {
	w, err := NewCSVWriter(CSVWriterConfig{
		OutputDir: e.OutputDir,
		Filename:  "transactions",
		Headers:   transactionHeaders,
		Compress:  e.Compress,
	})
	if err != nil {
		return 0, err
	}
	defer w.Close()

	for _, res := range results {
		for i := range res.Transactions {
			t := &res.Transactions[i]
			row := []string{
				FormatInt64(t.ID),
				FormatInt64(t.CustomerID),
				FormatDate(t.Date),
				string(t.Category),
				t.Amount.String(),
				t.BalanceAfter.String(),
				string(t.Type),
			}
			if err := w.WriteRow(row); err != nil {
				return w.RowCount(), err
			}
		}
	}

	if err := w.Close(); err != nil {
		return w.RowCount(), err
	}
	return w.RowCount(), nil
}

// uiCustomer decorates the profile with the static archetype risk fields
// the dashboard JSON carries.
type uiCustomer struct {
	*models.Customer
	RiskScore int              `json:"riskScore"`
	RiskLevel models.RiskLevel `json:"riskLevel"`
}

// WriteCustomersJSON writes customers_real.json for UI consumption.
func (e *Exporter) WriteCustomersJSON(customers []*models.Customer) error {
	ui := make([]uiCustomer, 0, len(customers))
	for _, c := range customers {
		ui = append(ui, uiCustomer{
			Customer:  c,
			RiskScore: c.Archetype.RiskScore(),
			RiskLevel: c.Archetype.RiskLevel(),
		})
	}
	return e.writeJSON("customers_real.json", ui)
}

// WriteTransactionsJSON writes transactions_real.json for UI consumption.
func (e *Exporter) WriteTransactionsJSON(results []*simulator.Result) error {
	var all []models.Transaction
	for _, res := range results {
		all = append(all, res.Transactions...)
	}
	return e.writeJSON("transactions_real.json", all)
}

// Manifest describes one generation run so downstream consumers can
// verify what they are loading and reproduce it exactly.
type Manifest struct {
	RunID        string    `json:"runId"`
	GeneratedAt  time.Time `json:"generatedAt"`
	Seed         int64     `json:"seed"`
	StartDate    string    `json:"startDate"`
	HorizonDays  int       `json:"horizonDays"`
	Customers    int       `json:"customers"`
	Defaults     int       `json:"defaults"`
	Failed       int64     `json:"failed"`
	Transactions int64     `json:"transactions"`
	SnapshotRows int64     `json:"snapshotRows"`
	Files        []string  `json:"files"`
}

// NewManifest stamps a fresh run id.
func NewManifest() Manifest {
	return Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}
}

// WriteManifest writes manifest.json alongside the dataset files.
func (e *Exporter) WriteManifest(m Manifest) error {
	return e.writeJSON("manifest.json", m)
}

func (e *Exporter) writeJSON(filename string, v interface{}) error {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(e.OutputDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return f.Close()
}
