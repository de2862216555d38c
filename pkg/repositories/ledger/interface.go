package ledger

import (
	"context"

	"github.com/fadedpez/tucotable/internal/types"
	"github.com/fadedpez/tucotable/pkg/entities"
	"github.com/fadedpez/tucotable/pkg/ledger"
)

var ErrAccountNotFound = types.NewGameError(types.ErrAccountNotFound, "account not found")

// Repository defines the interface for ledger persistence
type Repository interface {
	// GetAccount retrieves the latest snapshot of an account
	GetAccount(ctx context.Context, accountID string) (*entities.AccountSnapshot, error)

	// SaveAccount creates or updates an account snapshot
	SaveAccount(ctx context.Context, account *entities.AccountSnapshot) error

	// AddTransactions records ledger rows. Rows already stored are skipped.
	AddTransactions(ctx context.Context, transactions []*entities.Transaction) error

	// GetTransactions retrieves the most recent rows for an account, newest first
	GetTransactions(ctx context.Context, accountID string, limit int) ([]*entities.Transaction, error)

	Close() error
}

// Persist saves the snapshot and every row of each account
func Persist(ctx context.Context, repo Repository, accounts ...*ledger.Account) error {
	for _, account := range accounts {
		if err := repo.SaveAccount(ctx, account.Snapshot()); err != nil {
			return err
		}

		entries := account.Entries()
		rows := make([]*entities.Transaction, 0, len(entries))
		for i := range entries {
			rows = append(rows, &entries[i])
		}
		if err := repo.AddTransactions(ctx, rows); err != nil {
			return err
		}
	}
	return nil
}
