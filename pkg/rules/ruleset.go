package rules

import (
	"fmt"

	"github.com/fadedpez/tucotable/internal/types"
)

var ErrInvalidRule = types.NewGameError(types.ErrInvalidRule, "invalid rule")

// DealerRule is the dealer stand variant
type DealerRule string

const (
	// StandSoft17 has the dealer stand on every 17
	StandSoft17 DealerRule = "S17"
	// HitSoft17 has the dealer hit a soft 17
	HitSoft17 DealerRule = "H17"
)

// SurrenderMode selects which surrender, if any, is offered
type SurrenderMode string

const (
	SurrenderNone  SurrenderMode = "none"
	SurrenderLate  SurrenderMode = "late"
	SurrenderEarly SurrenderMode = "early"
)

// DoubleRestriction limits the hand totals a player may double on
type DoubleRestriction string

const (
	DoubleAny          DoubleRestriction = "any"
	DoubleNineToEleven DoubleRestriction = "9-11"
	DoubleTenToEleven  DoubleRestriction = "10-11"
	DoubleElevenOnly   DoubleRestriction = "11"
)

// Range returns the inclusive totals allowed, ok=false for DoubleAny
func (d DoubleRestriction) Range() (low, high int, ok bool) {
	switch d {
	case DoubleNineToEleven:
		return 9, 11, true
	case DoubleTenToEleven:
		return 10, 11, true
	case DoubleElevenOnly:
		return 11, 11, true
	}
	return 0, 0, false
}

// TieOutcome is how a player natural against a dealer natural is settled
type TieOutcome string

const (
	TiePush TieOutcome = "push"
	TieWin  TieOutcome = "win"
	TieLose TieOutcome = "lose"
)

// Ratio is a payout ratio such as 3:2
type Ratio struct {
	Numerator   int64
	Denominator int64
}

// Of returns the winnings the ratio pays on bet, rounded down to the cent
func (r Ratio) Of(bet int64) int64 {
	return bet * r.Numerator / r.Denominator
}

// Float returns the ratio as a decimal
func (r Ratio) Float() float64 {
	return float64(r.Numerator) / float64(r.Denominator)
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d:%d", r.Numerator, r.Denominator)
}

// CompleteRuleSet is a fully resolved rule table. It is built once per table
// configuration and must not be changed while a round references it.
type CompleteRuleSet struct {
	Name               string
	Decks              int
	DealerRule         DealerRule
	DealerPeek         bool
	DoubleAfterSplit   bool
	DoubleRestriction  DoubleRestriction
	ResplitAces        bool
	HitSplitAces       bool
	MaxSplits          int
	EarlySurrender     bool
	LateSurrender      bool
	LateSurrenderVsAce bool
	BlackjackPayout    Ratio
	BlackjackTie       TieOutcome
	CharlieCards       int // zero disables the Charlie rule
	Dealer22Push       bool
	TableMin           int64
	TableMax           int64
	TableUnit          int64
	HouseEdge          float64 // percent, heuristic estimate
}

// SurrenderMode returns the configured surrender mode
func (r *CompleteRuleSet) SurrenderMode() SurrenderMode {
	switch {
	case r.EarlySurrender:
		return SurrenderEarly
	case r.LateSurrender:
		return SurrenderLate
	}
	return SurrenderNone
}

// CharlieEnabled reports whether a card-count auto-win is configured
func (r *CompleteRuleSet) CharlieEnabled() bool {
	return r.CharlieCards > 0
}

func (r *CompleteRuleSet) String() string {
	return fmt.Sprintf("%s: %dD %s peek=%t DAS=%t double=%s RSA=%t HSA=%t splits=%d surrender=%s BJ=%s tie=%s charlie=%d 22push=%t limits=%s-%s/%s edge=%.2f%%",
		r.Name, r.Decks, r.DealerRule, r.DealerPeek, r.DoubleAfterSplit, r.DoubleRestriction,
		r.ResplitAces, r.HitSplitAces, r.MaxSplits, r.SurrenderMode(), r.BlackjackPayout,
		r.BlackjackTie, r.CharlieCards, r.Dealer22Push,
		FormatCents(r.TableMin), FormatCents(r.TableMax), FormatCents(r.TableUnit), r.HouseEdge)
}

// FormatCents renders integer cents as dollars, e.g. 1050 -> "$10.50"
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
