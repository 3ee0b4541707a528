package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/predelinq/riskgen/internal/utils"
)

func TestTransactionJSON(t *testing.T) {
	txn := Transaction{
		ID:           1000000,
		CustomerID:   1000,
		Date:         time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC),
		Category:     CategorySalary,
		Amount:       utils.Units(85000),
		Merchant:     DefaultMerchant,
		BalanceAfter: utils.Units(255000),
		Type:         TxTypeCredit,
	}

	data, err := json.Marshal(txn)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)

	if !strings.Contains(s, `"date":"2025-09-28"`) {
		t.Errorf("Expected bare ISO date, got: %s", s)
	}
	if !strings.Contains(s, `"amount":85000.00`) {
		t.Errorf("Expected bare two-decimal amount, got: %s", s)
	}
	if !strings.Contains(s, `"type":"credit"`) {
		t.Errorf("Expected credit type, got: %s", s)
	}
}

func TestTransactionMovesMoney(t *testing.T) {
	credit := Transaction{Type: TxTypeCredit}
	debit := Transaction{Type: TxTypeDebit}
	fail := Transaction{Type: TxTypeFail}

	if !credit.MovesMoney() || !debit.MovesMoney() {
		t.Error("Expected credits and debits to move money")
	}
	if fail.MovesMoney() {
		t.Error("Expected fail records to move no money")
	}
	if !credit.IsCredit() || debit.IsCredit() {
		t.Error("Unexpected IsCredit classification")
	}
}
