package types

import "fmt"

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Round and hand state errors
	ErrInvalidState      ErrorCode = "INVALID_STATE"
	ErrInvalidAction     ErrorCode = "INVALID_ACTION"
	ErrAlreadyTaken      ErrorCode = "ALREADY_TAKEN"
	ErrHandNotActive     ErrorCode = "HAND_NOT_ACTIVE"
	ErrNoSeats           ErrorCode = "NO_SEATS"
	ErrNoPlayers         ErrorCode = "NO_PLAYERS"
	ErrMissingDependency ErrorCode = "MISSING_DEPENDENCY"

	// Money errors
	ErrInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	ErrInvalidAmount     ErrorCode = "INVALID_AMOUNT"
	ErrInvalidBet        ErrorCode = "INVALID_BET"

	// Reference errors
	ErrPlayerNotFound  ErrorCode = "PLAYER_NOT_FOUND"
	ErrHandNotFound    ErrorCode = "HAND_NOT_FOUND"
	ErrAccountNotFound ErrorCode = "ACCOUNT_NOT_FOUND"

	// Shoe errors
	ErrShoeExhausted      ErrorCode = "SHOE_EXHAUSTED"
	ErrRoundVoided        ErrorCode = "ROUND_VOIDED"
	ErrInvalidDecks       ErrorCode = "INVALID_DECKS"
	ErrInvalidPenetration ErrorCode = "INVALID_PENETRATION"

	// Configuration errors
	ErrInvalidRule     ErrorCode = "INVALID_RULE"
	ErrInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// System errors
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
	ErrNetworkError  ErrorCode = "NETWORK_ERROR"
	ErrDatabaseError ErrorCode = "DATABASE_ERROR"
)

// GameError represents a game-related error
type GameError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *GameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GameError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a GameError carrying the same code, so
// package sentinels match errors that were wrapped with extra context.
// Each sentinel therefore needs a code of its own.
func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewGameError creates a new GameError
func NewGameError(code ErrorCode, message string) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in a GameError
func WrapError(code ErrorCode, message string, err error) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsGameError checks if an error is a GameError and has a specific code
func IsGameError(err error, code ErrorCode) bool {
	var gameErr *GameError
	if err == nil {
		return false
	}
	if ok := As(err, &gameErr); !ok {
		return false
	}
	return gameErr.Code == code
}

// As is a helper function to safely type assert an error to a GameError.
// Wrapped chains are walked so fmt.Errorf("%w") context does not hide the code.
func As(err error, target **GameError) bool {
	if target == nil {
		return false
	}
	for err != nil {
		if gameErr, ok := err.(*GameError); ok {
			*target = gameErr
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
