package model

import "time"

type TransactionType string

var (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Transaction is one fund ledger line. Amount is in minor currency units.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

type TransactionCSV struct {
	Date        string `csv:"date"`
	Type        string `csv:"type"`
	Amount      int64  `csv:"amount"`
	Description string `csv:"description"`
}

type LedgerSummary struct {
	Balance int64 `json:"balance"`
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
}

type Ledger struct {
	Summary      LedgerSummary `json:"summary"`
	Transactions []Transaction `json:"transactions"`
}
