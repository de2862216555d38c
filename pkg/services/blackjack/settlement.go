package blackjack

import (
	"fmt"

	"github.com/fadedpez/tucotable/internal/types"
	"github.com/fadedpez/tucotable/pkg/entities"
	"github.com/fadedpez/tucotable/pkg/ledger"
	"github.com/fadedpez/tucotable/pkg/rules"
)

// SettlementResult is the settled outcome of one player hand
type SettlementResult struct {
	HandID          string           `json:"hand_id"`
	PlayerID        string           `json:"player_id"`
	Outcome         entities.Outcome `json:"outcome"`
	Bet             int64            `json:"bet"`
	Payout          int64            `json:"payout"`
	Profit          int64            `json:"profit"`
	InsurancePayout int64            `json:"insurance_payout"`
	PlayerHandValue int              `json:"player_hand_value"`
	DealerHandValue int              `json:"dealer_hand_value"`
}

// DetermineOutcome decides how a finished hand fares against the dealer
func DetermineOutcome(hand *Hand, dealer *DealerHand, r *rules.CompleteRuleSet) entities.Outcome {
	if hand.State == HandSurrendered {
		return entities.OutcomeSurrender
	}

	playerValue := hand.Value()
	if playerValue > 21 {
		return entities.OutcomeLose
	}

	if r.CharlieEnabled() && len(hand.Cards) >= r.CharlieCards {
		return entities.OutcomeCharlie
	}

	playerNatural := hand.IsNatural()
	dealerNatural := dealer.IsNatural()
	switch {
	case playerNatural && dealerNatural:
		switch r.BlackjackTie {
		case rules.TieWin:
			return entities.OutcomeWin
		case rules.TieLose:
			return entities.OutcomeLose
		}
		return entities.OutcomePush
	case playerNatural:
		return entities.OutcomeBlackjack
	case dealerNatural:
		return entities.OutcomeLose
	}

	dealerValue := dealer.Value()
	if r.Dealer22Push && dealerValue == 22 {
		return entities.OutcomePush
	}

	switch {
	case dealerValue > 21:
		return entities.OutcomeWin
	case playerValue > dealerValue:
		return entities.OutcomeWin
	case playerValue < dealerValue:
		return entities.OutcomeLose
	}
	return entities.OutcomePush
}

// CalculatePayout returns the amount handed back for bet under outcome,
// including the returned stake
func CalculatePayout(bet int64, outcome entities.Outcome, r *rules.CompleteRuleSet) int64 {
	switch outcome {
	case entities.OutcomeBlackjack:
		return bet + r.BlackjackPayout.Of(bet)
	case entities.OutcomeWin, entities.OutcomeCharlie:
		return 2 * bet
	case entities.OutcomePush:
		return bet
	case entities.OutcomeSurrender:
		return bet / 2
	}
	return 0
}

// SettleHand pays out one hand and drains its bet escrow. The stake returned
// to the player comes from the escrow; winnings beyond the stake come from
// house and whatever the player does not get back goes to house.
func SettleHand(hand *Hand, dealer *DealerHand, r *rules.CompleteRuleSet, house *ledger.Account) (SettlementResult, error) {
	bet := hand.Bet()
	outcome := DetermineOutcome(hand, dealer, r)
	payout := CalculatePayout(bet, outcome, r)

	result := SettlementResult{
		HandID:          hand.ID,
		PlayerID:        hand.PlayerID,
		Outcome:         outcome,
		Bet:             bet,
		Payout:          payout,
		Profit:          payout - bet,
		InsurancePayout: hand.InsurancePayout,
		PlayerHandValue: hand.Value(),
		DealerHandValue: dealer.Value(),
	}

	winnings := payout - bet
	if winnings > 0 && !house.CanCover(winnings) {
		return result, types.WrapError(types.ErrInsufficientFunds,
			fmt.Sprintf("house cannot cover %s for hand %s", rules.FormatCents(winnings), hand.ID),
			ErrInsufficientFunds)
	}

	returned := payout
	if returned > bet {
		returned = bet
	}
	if err := ledger.Transfer(hand.BetEscrow, hand.bank, returned); err != nil {
		return result, err
	}
	if winnings >= 0 {
		hand.BetEscrow.ReleaseToOwner(ledger.OwnerUser)
	} else {
		ledger.Release(hand.BetEscrow, house, ledger.OwnerHouse)
	}
	if winnings > 0 {
		if err := ledger.Transfer(house, hand.bank, winnings); err != nil {
			return result, err
		}
	}
	house.RecordProfitLoss(-winnings)

	return result, nil
}
