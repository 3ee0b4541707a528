// Package remap converts the anonymized card-fraud research CSV into the
// customers_real.json / transactions_real.json shape the dashboard reads.
// The source rows carry PCA components instead of semantics; the remapper
// projects those vectors onto spend categories so that mathematically
// similar rows land in the same category, then layers synthetic customers
// on top.
package remap

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/predelinq/riskgen/internal/utils"
)

// Merchant pools per category. Categories without a pool fall back to
// "Unknown Merchant".
var merchants = map[string][]string{
	"GROCERY":       {"Whole Foods", "Trader Joe's", "Walmart", "Kroger"},
	"DINING":        {"Uber Eats", "Starbucks", "Chipotle", "Local Bistro"},
	"UTILITIES":     {"Electric Co", "Water Dept", "Comcast", "Verizon"},
	"ENTERTAINMENT": {"Netflix", "Spotify", "Cinema City", "Steam Games"},
	"TRAVEL":        {"Uber", "Delta Air", "Airbnb", "Shell Station"},
	"LUXURY":        {"Gucci", "Apple Store", "Nordstrom", "Rolex"},
	"HEALTH":        {"CVS Pharmacy", "City Hospital", "GNC", "Planet Fitness"},
}

// Options configures one remap run.
type Options struct {
	// InputCSV is the path to the source dataset (creditcard.csv layout:
	// Time, V1..V28, Amount, Class).
	InputCSV string

	// OutputDir receives customers_real.json and transactions_real.json.
	OutputDir string

	// Seed for reproducible sampling (0 = random).
	Seed int64

	// LegitSample is how many non-fraud rows to keep alongside every
	// fraud row (default 5000).
	LegitSample int

	// NumCustomers is the synthetic customer pool size (default 100).
	NumCustomers int

	// BaseDate anchors the stretched timeline (default 2026-01-15).
	BaseDate time.Time

	// TimeStretch multiplies the source's seconds-offset so a two-day
	// capture reads like a month of history (default 15).
	TimeStretch float64
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.LegitSample <= 0 {
		out.LegitSample = 5000
	}
	if out.NumCustomers <= 0 {
		out.NumCustomers = 100
	}
	if out.BaseDate.IsZero() {
		out.BaseDate = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	}
	if out.TimeStretch <= 0 {
		out.TimeStretch = 15
	}
	return out
}

// sourceRow is the slice of a source record the remapper actually uses.
type sourceRow struct {
	Seconds float64
	V1      float64
	V2      float64
	V3      float64
	Amount  float64
	Fraud   bool
}

// Transaction is the enriched output record.
type Transaction struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customerId"`
	Date       string      `json:"date"`
	Amount     utils.Money `json:"amount"`
	Merchant   string      `json:"merchant"`
	Category   string      `json:"category"`
	IsFraud    bool        `json:"isFraud"`
	// Vector keeps the first three components for visualization.
	Vector [3]float64 `json:"vector"`
}

// Customer is the synthetic profile aggregated from assigned transactions.
type Customer struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	RiskScore        int         `json:"riskScore"`
	RiskLevel        string      `json:"riskLevel"`
	TotalSpend       utils.Money `json:"totalSpend"`
	TransactionCount int         `json:"transactionCount"`
	SalaryDay        int         `json:"salaryDay"`
	EstimatedIncome  utils.Money `json:"estimatedIncome"`
	LastActive       string      `json:"lastActive"`
}

// Summary reports what a run produced.
type Summary struct {
	SourceRows   int
	FraudRows    int
	Sampled      int
	Customers    int
	Transactions int
}

// Remapper executes the conversion.
type Remapper struct {
	opts Options
	rng  *utils.Random
}

// New builds a remapper with defaults applied.
func New(opts Options) *Remapper {
	o := opts.withDefaults()
	return &Remapper{
		opts: o,
		rng:  utils.NewRandom(o.Seed),
	}
}

// Run reads the source CSV, samples it, enriches it, and writes both
// output files.
func (r *Remapper) Run() (*Summary, error) {
	rows, err := r.readSource()
	if err != nil {
		return nil, err
	}

	var fraud, legit []sourceRow
	for _, row := range rows {
		if row.Fraud {
			fraud = append(fraud, row)
		} else {
			legit = append(legit, row)
		}
	}

	// Keep every fraud row plus a fixed-size sample of legit rows, then
	// shuffle so the classes interleave.
	r.shuffle(legit)
	if len(legit) > r.opts.LegitSample {
		legit = legit[:r.opts.LegitSample]
	}
	sampled := append(append([]sourceRow{}, fraud...), legit...)
	r.shuffle(sampled)

	customerIDs := r.customerIDs()
	txns := r.enrich(sampled, customerIDs)
	custs := r.aggregate(customerIDs, txns)

	if err := r.writeJSON("transactions_real.json", txns); err != nil {
		return nil, err
	}
	if err := r.writeJSON("customers_real.json", custs); err != nil {
		return nil, err
	}

	return &Summary{
		SourceRows:   len(rows),
		FraudRows:    len(fraud),
		Sampled:      len(sampled),
		Customers:    len(custs),
		Transactions: len(txns),
	}, nil
}

// readSource streams the CSV, pulling only the columns the mapping needs.
func (r *Remapper) readSource() ([]sourceRow, error) {
	f, err := os.Open(r.opts.InputCSV)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{"Time", "V1", "V2", "V3", "Amount", "Class"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("input missing column %q", name)
		}
	}

	var rows []sourceRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}

		row, err := parseRow(record, col)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(record []string, col map[string]int) (sourceRow, error) {
	get := func(name string) (float64, error) {
		return strconv.ParseFloat(record[col[name]], 64)
	}

	var row sourceRow
	var err error
	if row.Seconds, err = get("Time"); err != nil {
		return row, fmt.Errorf("bad Time: %w", err)
	}
	if row.V1, err = get("V1"); err != nil {
		return row, fmt.Errorf("bad V1: %w", err)
	}
	if row.V2, err = get("V2"); err != nil {
		return row, fmt.Errorf("bad V2: %w", err)
	}
	if row.V3, err = get("V3"); err != nil {
		return row, fmt.Errorf("bad V3: %w", err)
	}
	if row.Amount, err = get("Amount"); err != nil {
		return row, fmt.Errorf("bad Amount: %w", err)
	}
	cls := record[col["Class"]]
	row.Fraud = cls == "1" || cls == `"1"`
	return row, nil
}

func (r *Remapper) shuffle(rows []sourceRow) {
	for i := len(rows) - 1; i > 0; i-- {
		j := r.rng.IntN(i + 1)
		rows[i], rows[j] = rows[j], rows[i]
	}
}

func (r *Remapper) customerIDs() []string {
	ids := make([]string, r.opts.NumCustomers)
	for i := range ids {
		ids[i] = fmt.Sprintf("CUST-2024-%05d", r.rng.IntRange(10000, 99999))
	}
	return ids
}

// enrich maps each sampled row to a dated, categorized transaction
// assigned to a random synthetic customer.
func (r *Remapper) enrich(rows []sourceRow, customerIDs []string) []Transaction {
	txns := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		category := mapCategory(row)

		// Stretch the capture's seconds-offset onto a month-long window.
		offset := time.Duration(row.Seconds * r.opts.TimeStretch * float64(time.Second))
		date := r.opts.BaseDate.Add(offset)

		txns = append(txns, Transaction{
			ID:         fmt.Sprintf("TXN-%06d", r.rng.IntRange(100000, 999999)),
			CustomerID: customerIDs[r.rng.IntN(len(customerIDs))],
			Date:       date.Format("2006-01-02"),
			Amount:     utils.FromFloat(row.Amount),
			Merchant:   r.merchantFor(category),
			Category:   category,
			IsFraud:    row.Fraud,
			Vector:     [3]float64{row.V1, row.V2, row.V3},
		})
	}
	return txns
}

// mapCategory projects the first three PCA components (and the raw
// amount) onto a spend category. Thresholds are part of the output
// contract; don't retune them casually.
func mapCategory(row sourceRow) string {
	val := row.V1 + row.V2 + row.V3

	if row.Fraud {
		if val > 0 {
			return "GAMBLING"
		}
		return "UNKNOWN_TRANSFER"
	}

	if row.Amount < 20 {
		return "DINING"
	}
	if row.Amount > 500 {
		return "LUXURY"
	}

	switch {
	case val > 3:
		return "TRAVEL"
	case val > 1:
		return "ENTERTAINMENT"
	case val > -1:
		return "GROCERY"
	case val > -3:
		return "HEALTH"
	default:
		return "UTILITIES"
	}
}

func (r *Remapper) merchantFor(category string) string {
	pool, ok := merchants[category]
	if !ok {
		return "Unknown Merchant"
	}
	return pool[r.rng.IntN(len(pool))]
}

// aggregate builds one synthetic profile per customer id from the
// transactions assigned to it. Risk scoring leans on the real fraud
// labels: any fraud transaction pushes the customer into the high band.
func (r *Remapper) aggregate(customerIDs []string, txns []Transaction) []Customer {
	byCustomer := make(map[string][]*Transaction)
	for i := range txns {
		t := &txns[i]
		byCustomer[t.CustomerID] = append(byCustomer[t.CustomerID], t)
	}

	custs := make([]Customer, 0, len(customerIDs))
	for _, cid := range customerIDs {
		assigned := byCustomer[cid]

		var total utils.Money
		hasFraud := false
		lastActive := ""
		for _, t := range assigned {
			total = total.Add(t.Amount)
			if t.IsFraud {
				hasFraud = true
			}
			if t.Date > lastActive {
				lastActive = t.Date
			}
		}
		if lastActive == "" {
			lastActive = "2026-01-01"
		}

		score := r.rng.IntRange(10, 40)
		if hasFraud {
			score = r.rng.IntRange(85, 99)
		} else if total > utils.Units(5000) {
			score += 20
		}

		level := "LOW"
		if score > 80 {
			level = "HIGH"
		} else if score > 50 {
			level = "MEDIUM"
		}

		income := utils.FromFloat(r.rng.Float64Range(3000, 9000)).
			RoundToNearest(utils.Units(100))

		custs = append(custs, Customer{
			ID:               cid,
			Name:             fmt.Sprintf("Customer %s", cid[len(cid)-4:]),
			RiskScore:        score,
			RiskLevel:        level,
			TotalSpend:       total,
			TransactionCount: len(assigned),
			SalaryDay:        r.rng.IntRange(1, 28),
			EstimatedIncome:  income,
			LastActive:       lastActive,
		})
	}
	return custs
}

func (r *Remapper) writeJSON(filename string, v interface{}) error {
	if err := os.MkdirAll(r.opts.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(r.opts.OutputDir, filename)
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
