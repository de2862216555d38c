package ledger

import (
	"fmt"

	"github.com/coder/quartz"
	"github.com/fadedpez/tucotable/internal/types"
	"github.com/fadedpez/tucotable/pkg/entities"
	"github.com/google/uuid"
)

var (
	ErrInsufficientFunds = types.NewGameError(types.ErrInsufficientFunds, "insufficient funds")
	ErrNegativeAmount    = types.NewGameError(types.ErrInvalidAmount, "amount cannot be negative")
)

// Role tags what an account is used for
type Role string

const (
	RolePlain  Role = "PLAIN"
	RoleEscrow Role = "ESCROW"
	RoleHouse  Role = "HOUSE"
)

// Owner is the final owner recorded on an escrow when it is drained
type Owner string

const (
	OwnerHand  Owner = "HAND"
	OwnerUser  Owner = "USER"
	OwnerHouse Owner = "HOUSE"
)

// Account is a named balance in integer cents with an append-only log of
// every credit and debit attempt.
type Account struct {
	id         string
	name       string
	role       Role
	balance    int64
	owner      Owner
	profitLoss int64
	entries    []*entities.Transaction
	clock      quartz.Clock
}

// Option customises an account
type Option func(*Account)

// WithClock sets the clock used to timestamp ledger rows
func WithClock(clock quartz.Clock) Option {
	return func(a *Account) {
		a.clock = clock
	}
}

// WithID overrides the generated account ID
func WithID(id string) Option {
	return func(a *Account) {
		a.id = id
	}
}

func newAccount(name string, role Role, balance int64, opts ...Option) *Account {
	a := &Account{
		id:      uuid.New().String(),
		name:    name,
		role:    role,
		balance: balance,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.clock == nil {
		a.clock = quartz.NewReal()
	}
	return a
}

// NewAccount creates a plain account such as a player's bank
func NewAccount(name string, balance int64, opts ...Option) *Account {
	return newAccount(name, RolePlain, balance, opts...)
}

// NewHouse creates the house account that banks the table
func NewHouse(name string, balance int64, opts ...Option) *Account {
	return newAccount(name, RoleHouse, balance, opts...)
}

// NewEscrow creates an empty account holding money in play for one bet
func NewEscrow(name string, opts ...Option) *Account {
	a := newAccount(name, RoleEscrow, 0, opts...)
	a.owner = OwnerHand
	return a
}

func (a *Account) ID() string        { return a.id }
func (a *Account) Name() string      { return a.name }
func (a *Account) Role() Role        { return a.role }
func (a *Account) Balance() int64    { return a.balance }
func (a *Account) Owner() Owner      { return a.owner }
func (a *Account) ProfitLoss() int64 { return a.profitLoss }

// Snapshot captures the account for persistence
func (a *Account) Snapshot() *entities.AccountSnapshot {
	return &entities.AccountSnapshot{
		ID:         a.id,
		Name:       a.name,
		Role:       string(a.role),
		Owner:      string(a.owner),
		Balance:    a.balance,
		ProfitLoss: a.profitLoss,
		UpdatedAt:  a.clock.Now("ledger", "snapshot"),
	}
}

// Restore rebuilds a plain or house account from a snapshot. The row history
// is not restored.
func Restore(snap *entities.AccountSnapshot, opts ...Option) *Account {
	role := Role(snap.Role)
	if role == "" {
		role = RolePlain
	}
	a := newAccount(snap.Name, role, snap.Balance, append([]Option{WithID(snap.ID)}, opts...)...)
	a.owner = Owner(snap.Owner)
	a.profitLoss = snap.ProfitLoss
	return a
}

// Entries returns a copy of the ledger rows in the order they were written
func (a *Account) Entries() []entities.Transaction {
	out := make([]entities.Transaction, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, *e)
	}
	return out
}

// CanCover reports whether a debit of amount would succeed
func (a *Account) CanCover(amount int64) bool {
	return amount >= 0 && amount <= a.balance
}

// Debit removes amount from the balance. A rejected debit still writes a
// failed row and leaves the balance unchanged.
func (a *Account) Debit(amount int64, counterparty string) error {
	if amount < 0 {
		a.record(amount, entities.DirectionDebit, counterparty, false)
		return ErrNegativeAmount
	}
	if amount > a.balance {
		a.record(amount, entities.DirectionDebit, counterparty, false)
		return types.NewGameError(types.ErrInsufficientFunds,
			fmt.Sprintf("%s holds %d, cannot cover %d", a.name, a.balance, amount))
	}
	a.balance -= amount
	a.record(amount, entities.DirectionDebit, counterparty, true)
	return nil
}

// Credit adds amount to the balance
func (a *Account) Credit(amount int64, counterparty string) error {
	if amount < 0 {
		a.record(amount, entities.DirectionCredit, counterparty, false)
		return ErrNegativeAmount
	}
	a.balance += amount
	a.record(amount, entities.DirectionCredit, counterparty, true)
	return nil
}

// ReleaseToOwner drains the whole balance, records the final owner and
// returns the amount released. An empty account releases zero.
func (a *Account) ReleaseToOwner(owner Owner) int64 {
	a.owner = owner
	amount := a.balance
	if amount == 0 {
		return 0
	}
	// Debit of the full balance cannot fail.
	_ = a.Debit(amount, string(owner))
	return amount
}

// RecordProfitLoss adjusts the running house result by delta
func (a *Account) RecordProfitLoss(delta int64) {
	a.profitLoss += delta
}

func (a *Account) record(amount int64, dir entities.Direction, counterparty string, success bool) {
	a.entries = append(a.entries, &entities.Transaction{
		ID:           uuid.New().String(),
		AccountID:    a.id,
		Amount:       amount,
		Direction:    dir,
		Counterparty: counterparty,
		Success:      success,
		Timestamp:    a.clock.Now("ledger", "record"),
		BalanceAfter: a.balance,
	})
}

// Transfer moves amount from one account to another. The debit runs first so
// a rejected transfer never credits the destination.
func Transfer(from, to *Account, amount int64) error {
	if err := from.Debit(amount, to.id); err != nil {
		return err
	}
	return to.Credit(amount, from.id)
}

// Release drains escrow into dst and tags the escrow with owner
func Release(escrow, dst *Account, owner Owner) int64 {
	amount := escrow.ReleaseToOwner(owner)
	if amount > 0 {
		_ = dst.Credit(amount, escrow.id)
	}
	return amount
}
