package rules

import (
	"fmt"

	"github.com/fadedpez/tucotable/internal/types"
)

var ErrInvalidBet = types.NewGameError(types.ErrInvalidBet, "invalid bet")

// ValidateBet checks amount (cents) against the table limits. The returned
// error message is suitable for showing to the player.
func ValidateBet(amount int64, r *CompleteRuleSet) error {
	switch {
	case amount <= 0:
		return types.NewGameError(types.ErrInvalidBet, "bet must be a positive amount")
	case amount < r.TableMin:
		return types.NewGameError(types.ErrInvalidBet,
			fmt.Sprintf("bet of %s is below the table minimum of %s", FormatCents(amount), FormatCents(r.TableMin)))
	case amount > r.TableMax:
		return types.NewGameError(types.ErrInvalidBet,
			fmt.Sprintf("bet of %s is above the table maximum of %s", FormatCents(amount), FormatCents(r.TableMax)))
	case r.TableUnit > 0 && amount%r.TableUnit != 0:
		return types.NewGameError(types.ErrInvalidBet,
			fmt.Sprintf("bet of %s must be a multiple of %s", FormatCents(amount), FormatCents(r.TableUnit)))
	}
	return nil
}
