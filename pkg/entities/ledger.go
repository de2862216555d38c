package entities

import "time"

// Direction tells whether a ledger row moved money in or out of an account
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// Transaction represents a single ledger row. Amounts are integer cents and
// always positive; Direction carries the sign.
type Transaction struct {
	ID           string    // Unique identifier
	AccountID    string    // Account the row belongs to
	Amount       int64     // Cents
	Direction    Direction // Credit or debit
	Counterparty string    // Account on the other side, if any
	Success      bool      // False for rejected debits
	Description  string    // Human-readable description
	Timestamp    time.Time // When the row was written
	BalanceAfter int64     // Balance after this row
}

// Signed returns the amount as a balance delta, zero for failed rows
func (t *Transaction) Signed() int64 {
	if !t.Success {
		return 0
	}
	if t.Direction == DirectionDebit {
		return -t.Amount
	}
	return t.Amount
}

// AccountSnapshot is the persisted state of a ledger account
type AccountSnapshot struct {
	ID         string
	Name       string
	Role       string
	Owner      string
	Balance    int64
	ProfitLoss int64
	UpdatedAt  time.Time
}
