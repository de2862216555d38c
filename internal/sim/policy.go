package sim

import (
	"github.com/fadedpez/tucotable/pkg/entities"
	"github.com/fadedpez/tucotable/pkg/rules"
	"github.com/fadedpez/tucotable/pkg/services/blackjack"
)

// Policy makes the player decisions for a simulated seat
type Policy interface {
	// TakeInsurance is asked once per hand when the dealer shows an Ace
	TakeInsurance(hand blackjack.HandView) bool
	// Decide picks one of legal for the hand against the dealer up-card
	Decide(hand blackjack.HandView, dealerUp entities.Card, legal rules.ActionSet) rules.Action
}

// DealerMimic plays like the dealer: hit below 17, stand otherwise. It never
// insures, doubles, splits or surrenders.
type DealerMimic struct{}

// TakeInsurance implements Policy
func (DealerMimic) TakeInsurance(blackjack.HandView) bool {
	return false
}

// Decide implements Policy
func (DealerMimic) Decide(hand blackjack.HandView, _ entities.Card, legal rules.ActionSet) rules.Action {
	if hand.Value < 17 && legal.Contains(rules.ActionHit) {
		return rules.ActionHit
	}
	return rules.ActionStand
}

// Simple adds the obvious plays to DealerMimic: split aces and eights,
// double on 10 or 11 against a weaker up-card, and surrender hard 16 against
// a ten.
type Simple struct{}

// TakeInsurance implements Policy
func (Simple) TakeInsurance(blackjack.HandView) bool {
	return false
}

// Decide implements Policy
func (Simple) Decide(hand blackjack.HandView, dealerUp entities.Card, legal rules.ActionSet) rules.Action {
	if legal.Contains(rules.ActionSplit) && (hand.Cards[0].IsAce() || hand.Cards[0].Rank == entities.Eight) {
		return rules.ActionSplit
	}
	if legal.Contains(rules.ActionSurrender) && !hand.Soft && hand.Value == 16 && dealerUp.IsTenValue() {
		return rules.ActionSurrender
	}
	if legal.Contains(rules.ActionDouble) && !hand.Soft && (hand.Value == 10 || hand.Value == 11) && dealerUp.Value() < hand.Value {
		return rules.ActionDouble
	}
	return DealerMimic{}.Decide(hand, dealerUp, legal)
}
