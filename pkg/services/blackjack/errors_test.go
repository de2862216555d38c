package blackjack

import (
	"errors"
	"testing"

	"github.com/fadedpez/tucotable/pkg/rules"
	"github.com/stretchr/testify/assert"
)

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := map[string]error{
		"ErrInvalidState":      ErrInvalidState,
		"ErrHandNotActive":     ErrHandNotActive,
		"ErrActionNotAllowed":  ErrActionNotAllowed,
		"ErrHandNotFound":      ErrHandNotFound,
		"ErrAlreadyTaken":      ErrAlreadyTaken,
		"ErrNoSeats":           ErrNoSeats,
		"ErrMissingDependency": ErrMissingDependency,
		"ErrInsufficientFunds": ErrInsufficientFunds,
		"ErrShoeExhausted":     ErrShoeExhausted,
		"ErrInvalidBet":        rules.ErrInvalidBet,
	}

	for name, err := range sentinels {
		for otherName, other := range sentinels {
			if name == otherName {
				continue
			}
			assert.False(t, errors.Is(err, other), "%s must not match %s", name, otherName)
		}
	}
}
