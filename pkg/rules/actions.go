package rules

import (
	"github.com/fadedpez/tucotable/pkg/entities"
	"github.com/thoas/go-funk"
)

// Action is a player decision on a hand
type Action string

const (
	ActionHit       Action = "HIT"
	ActionStand     Action = "STAND"
	ActionDouble    Action = "DOUBLE"
	ActionSplit     Action = "SPLIT"
	ActionSurrender Action = "SURRENDER"
)

// ActionSet is the ordered set of actions legal on a hand
type ActionSet []Action

// Contains reports whether a is in the set
func (s ActionSet) Contains(a Action) bool {
	return funk.Contains([]Action(s), a)
}

// Empty reports whether no action is available
func (s ActionSet) Empty() bool {
	return len(s) == 0
}

// HandSnapshot is the read-only view of a hand that action legality needs
type HandSnapshot struct {
	Cards      []entities.Card
	Terminal   bool // busted, stood, blackjack or surrendered
	IsSplit    bool // produced by a split
	IsSplitAce bool // produced by splitting aces
}

// LegalActions returns the actions available on hand against the dealer's
// up-card. splitCount is the number of splits already made in the hand's
// lineage. Funds are not considered here.
func LegalActions(hand HandSnapshot, dealerUp entities.Card, splitCount int, r *CompleteRuleSet) ActionSet {
	if hand.Terminal || len(hand.Cards) == 0 {
		return nil
	}

	total, _ := entities.Score(hand.Cards)
	if total > 21 {
		return nil
	}
	if total == 21 {
		if entities.IsNatural(hand.Cards) && !hand.IsSplit {
			return nil
		}
		return ActionSet{ActionStand}
	}

	actions := make(ActionSet, 0, 5)

	if !hand.IsSplitAce || r.HitSplitAces {
		actions = append(actions, ActionHit)
	}
	actions = append(actions, ActionStand)

	if canDouble(hand, r) {
		actions = append(actions, ActionDouble)
	}
	if canSplit(hand, splitCount, r) {
		actions = append(actions, ActionSplit)
	}
	if canSurrender(hand, dealerUp, r) {
		actions = append(actions, ActionSurrender)
	}

	return actions
}

func canDouble(hand HandSnapshot, r *CompleteRuleSet) bool {
	if len(hand.Cards) != 2 || hand.IsSplitAce {
		return false
	}
	if hand.IsSplit && !r.DoubleAfterSplit {
		return false
	}

	low, high, restricted := r.DoubleRestriction.Range()
	if !restricted {
		return true
	}
	soft := entities.BestScore(hand.Cards)
	hard := entities.HardScore(hand.Cards)
	return (soft >= low && soft <= high) || (hard >= low && hard <= high)
}

func canSplit(hand HandSnapshot, splitCount int, r *CompleteRuleSet) bool {
	if len(hand.Cards) != 2 || hand.Cards[0].Rank != hand.Cards[1].Rank {
		return false
	}
	if splitCount >= r.MaxSplits {
		return false
	}
	if hand.Cards[0].IsAce() && (splitCount > 0 || hand.IsSplitAce) && !r.ResplitAces {
		return false
	}
	return true
}

func canSurrender(hand HandSnapshot, dealerUp entities.Card, r *CompleteRuleSet) bool {
	if len(hand.Cards) != 2 || hand.IsSplit {
		return false
	}
	if r.EarlySurrender {
		return true
	}
	if r.LateSurrender {
		return r.LateSurrenderVsAce || !dealerUp.IsAce()
	}
	return false
}
