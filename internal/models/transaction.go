package models

import (
	"encoding/json"
	"time"

	"github.com/predelinq/riskgen/internal/utils"
)

// TransactionType classifies the direction of a transaction.
type TransactionType string

const (
	TxTypeCredit TransactionType = "credit"
	TxTypeDebit  TransactionType = "debit"
	// TxTypeFail records an event that moved no money (a bounced EMI).
	TxTypeFail TransactionType = "fail"
)

// Category is the spend/income category attached to every transaction.
type Category string

const (
	CategorySalary    Category = "Salary"
	CategoryEMI       Category = "EMI"
	CategoryEMIBounce Category = "EMI_Bounce"
	CategoryATM       Category = "ATM"

	CategoryGroceries Category = "Groceries"
	CategoryDining    Category = "Dining"
	CategoryShopping  Category = "Shopping"
	CategoryUtilities Category = "Utilities"
	CategoryDigital   Category = "Digital Services"
	CategoryLuxury    Category = "Sailing/Luxury"
)

// DiscretionaryCategories are the everyday-spend categories the engine
// draws from with equal weight.
var DiscretionaryCategories = []Category{
	CategoryGroceries,
	CategoryDining,
	CategoryShopping,
	CategoryUtilities,
	CategoryDigital,
}

// DefaultMerchant is the placeholder used when no real merchant data exists.
const DefaultMerchant = "Simulated Merchant"

// Transaction is one ledger entry emitted by the simulation engine.
// Immutable once emitted; the per-customer log is append-only.
type Transaction struct {
	ID         int64           `json:"id"`
	CustomerID int64           `json:"customerId"`
	Date       time.Time       `json:"-"`
	Category   Category        `json:"category"`
	// Amount is signed: positive for credits, negative for debits,
	// zero for fail-type records.
	Amount       utils.Money     `json:"amount"`
	Merchant     string          `json:"merchant"`
	BalanceAfter utils.Money     `json:"balanceAfter"`
	Type         TransactionType `json:"type"`
}

// IsCredit returns true if this transaction adds money to the balance.
func (t *Transaction) IsCredit() bool {
	return t.Type == TxTypeCredit
}

// MovesMoney returns true unless this is a fail-type record, which by
// contract has amount 0 and leaves the balance unchanged.
func (t *Transaction) MovesMoney() bool {
	return t.Type != TxTypeFail
}

// DateString returns the calendar date in the ISO-8601 wire format.
func (t *Transaction) DateString() string {
	return t.Date.Format("2006-01-02")
}

// MarshalJSON emits the schema shape consumers expect: the date as a bare
// ISO-8601 calendar string rather than an RFC 3339 timestamp.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{
		alias: alias(t),
		Date:  t.DateString(),
	})
}
