package ledger

import (
	"context"
	"sync"

	"github.com/fadedpez/tucotable/pkg/entities"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	accounts     map[string]*entities.AccountSnapshot
	transactions map[string][]*entities.Transaction
	seen         map[string]bool
	mu           sync.RWMutex
}

// NewMemoryRepository creates a new in-memory ledger repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts:     make(map[string]*entities.AccountSnapshot),
		transactions: make(map[string][]*entities.Transaction),
		seen:         make(map[string]bool),
	}
}

// GetAccount retrieves an account snapshot
func (r *MemoryRepository) GetAccount(ctx context.Context, accountID string) (*entities.AccountSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[accountID]
	if !exists {
		return nil, ErrAccountNotFound
	}

	// Return a copy to prevent concurrent modification
	accountCopy := *account
	return &accountCopy, nil
}

// SaveAccount creates or updates an account snapshot
func (r *MemoryRepository) SaveAccount(ctx context.Context, account *entities.AccountSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accountCopy := *account
	r.accounts[account.ID] = &accountCopy
	return nil
}

// AddTransactions records ledger rows
func (r *MemoryRepository) AddTransactions(ctx context.Context, transactions []*entities.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tx := range transactions {
		if r.seen[tx.ID] {
			continue
		}
		r.seen[tx.ID] = true
		txCopy := *tx
		r.transactions[tx.AccountID] = append(r.transactions[tx.AccountID], &txCopy)
	}
	return nil
}

// GetTransactions retrieves the most recent rows for an account
func (r *MemoryRepository) GetTransactions(ctx context.Context, accountID string, limit int) ([]*entities.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.transactions[accountID]
	if limit <= 0 || limit > len(stored) {
		limit = len(stored)
	}

	result := make([]*entities.Transaction, 0, limit)
	for i := len(stored) - 1; i >= 0 && len(result) < limit; i-- {
		txCopy := *stored[i]
		result = append(result, &txCopy)
	}
	return result, nil
}

// Close implements Repository
func (r *MemoryRepository) Close() error {
	return nil
}
