package blackjack

import (
	"github.com/fadedpez/tucotable/internal/types"
	"github.com/fadedpez/tucotable/pkg/ledger"
	"github.com/fadedpez/tucotable/pkg/shoe"
)

var (
	ErrInvalidState      = types.NewGameError(types.ErrInvalidState, "operation not legal in the current round state")
	ErrHandNotActive     = types.NewGameError(types.ErrHandNotActive, "hand is no longer active")
	ErrActionNotAllowed  = types.NewGameError(types.ErrInvalidAction, "action not allowed on this hand")
	ErrHandNotFound      = types.NewGameError(types.ErrHandNotFound, "hand not found")
	ErrAlreadyTaken      = types.NewGameError(types.ErrAlreadyTaken, "insurance already decided for this hand")
	ErrNoSeats           = types.NewGameError(types.ErrNoSeats, "a round needs at least one seat")
	ErrMissingDependency = types.NewGameError(types.ErrMissingDependency, "round needs rules and a shoe")

	ErrInsufficientFunds = ledger.ErrInsufficientFunds
	ErrShoeExhausted     = shoe.ErrShoeExhausted
)
