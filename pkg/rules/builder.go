package rules

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fadedpez/tucotable/internal/types"
)

// Builder collects rule choices and resolves them into a CompleteRuleSet.
// Setters record every invalid value and Build joins them into one error.
type Builder struct {
	rules CompleteRuleSet
	errs  []error
}

// NewBuilder starts from the baseline table: six decks, S17 with peek, double
// any two cards including after split, three splits, no surrender, 3:2.
func NewBuilder() *Builder {
	return &Builder{
		rules: CompleteRuleSet{
			Name:               "standard",
			Decks:              6,
			DealerRule:         StandSoft17,
			DealerPeek:         true,
			DoubleAfterSplit:   true,
			DoubleRestriction:  DoubleAny,
			MaxSplits:          3,
			LateSurrenderVsAce: true,
			BlackjackPayout:    Ratio{Numerator: 3, Denominator: 2},
			BlackjackTie:       TiePush,
			TableMin:           1000,
			TableMax:           50000,
			TableUnit:          100,
		},
	}
}

func (b *Builder) fail(format string, args ...interface{}) *Builder {
	b.errs = append(b.errs, types.NewGameError(types.ErrInvalidRule, fmt.Sprintf(format, args...)))
	return b
}

// Name labels the rule set
func (b *Builder) Name(name string) *Builder {
	b.rules.Name = name
	return b
}

// Decks sets the number of decks in the shoe. Fewer decks lower the edge.
func (b *Builder) Decks(n int) *Builder {
	if n < 1 {
		return b.fail("deck count must be at least 1, got %d", n)
	}
	b.rules.Decks = n
	return b
}

// DealerRule selects S17 or H17. H17 raises the edge by about 0.22%.
func (b *Builder) DealerRule(rule DealerRule) *Builder {
	switch rule {
	case StandSoft17, HitSoft17:
		b.rules.DealerRule = rule
	default:
		return b.fail("unknown dealer rule %q", rule)
	}
	return b
}

// DealerPeek controls whether the dealer checks for a natural before play
func (b *Builder) DealerPeek(peek bool) *Builder {
	b.rules.DealerPeek = peek
	return b
}

// DoubleAfterSplit allows doubling on hands produced by a split
func (b *Builder) DoubleAfterSplit(allowed bool) *Builder {
	b.rules.DoubleAfterSplit = allowed
	return b
}

// DoubleRestriction limits the totals a player may double on
func (b *Builder) DoubleRestriction(r DoubleRestriction) *Builder {
	switch r {
	case DoubleAny, DoubleNineToEleven, DoubleTenToEleven, DoubleElevenOnly:
		b.rules.DoubleRestriction = r
	default:
		return b.fail("unknown double restriction %q", r)
	}
	return b
}

// ResplitAces allows splitting a pair of aces again
func (b *Builder) ResplitAces(allowed bool) *Builder {
	b.rules.ResplitAces = allowed
	return b
}

// HitSplitAces allows drawing beyond the single card dealt to split aces
func (b *Builder) HitSplitAces(allowed bool) *Builder {
	b.rules.HitSplitAces = allowed
	return b
}

// MaxSplits caps how many times one starting hand may be split
func (b *Builder) MaxSplits(n int) *Builder {
	if n < 0 {
		return b.fail("max splits cannot be negative, got %d", n)
	}
	b.rules.MaxSplits = n
	return b
}

// Surrender selects none, late or early surrender
func (b *Builder) Surrender(mode SurrenderMode) *Builder {
	switch mode {
	case SurrenderNone:
		b.rules.EarlySurrender, b.rules.LateSurrender = false, false
	case SurrenderLate:
		b.rules.EarlySurrender, b.rules.LateSurrender = false, true
	case SurrenderEarly:
		b.rules.EarlySurrender, b.rules.LateSurrender = true, false
	default:
		return b.fail("unknown surrender mode %q", mode)
	}
	return b
}

// LateSurrenderVsAce controls whether late surrender is offered against an
// Ace up-card before the dealer has checked for a natural
func (b *Builder) LateSurrenderVsAce(allowed bool) *Builder {
	b.rules.LateSurrenderVsAce = allowed
	return b
}

// BlackjackPayout sets the winnings ratio for a player natural
func (b *Builder) BlackjackPayout(numerator, denominator int64) *Builder {
	if numerator <= 0 || denominator <= 0 {
		return b.fail("blackjack payout must be positive, got %d:%d", numerator, denominator)
	}
	b.rules.BlackjackPayout = Ratio{Numerator: numerator, Denominator: denominator}
	return b
}

// BlackjackTie sets how a player natural against a dealer natural settles
func (b *Builder) BlackjackTie(outcome TieOutcome) *Builder {
	switch outcome {
	case TiePush, TieWin, TieLose:
		b.rules.BlackjackTie = outcome
	default:
		return b.fail("unknown blackjack tie outcome %q", outcome)
	}
	return b
}

// CharlieCards sets the card count that wins automatically; zero disables it
func (b *Builder) CharlieCards(n int) *Builder {
	if n != 0 && n < 3 {
		return b.fail("charlie threshold must be 0 or at least 3, got %d", n)
	}
	b.rules.CharlieCards = n
	return b
}

// Dealer22Push makes a dealer total of exactly 22 push every standing hand
func (b *Builder) Dealer22Push(enabled bool) *Builder {
	b.rules.Dealer22Push = enabled
	return b
}

// TableLimits sets the minimum, maximum and unit of a bet in cents
func (b *Builder) TableLimits(minBet, maxBet, unit int64) *Builder {
	switch {
	case minBet <= 0:
		return b.fail("table minimum must be positive, got %d", minBet)
	case maxBet < minBet:
		return b.fail("table maximum %d is below minimum %d", maxBet, minBet)
	case unit <= 0:
		return b.fail("table unit must be positive, got %d", unit)
	case minBet%unit != 0:
		return b.fail("table minimum %d is not a multiple of unit %d", minBet, unit)
	}
	b.rules.TableMin, b.rules.TableMax, b.rules.TableUnit = minBet, maxBet, unit
	return b
}

// Build resolves the rule table and computes the house edge estimate
func (b *Builder) Build() (*CompleteRuleSet, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	rules := b.rules
	rules.HouseEdge = EstimateHouseEdge(&rules)
	return &rules, nil
}

// ParseRatio parses "3:2" or "6/5" style payout ratios
func ParseRatio(s string) (Ratio, error) {
	s = strings.TrimSpace(s)
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == '/' })
	if len(parts) != 2 {
		return Ratio{}, types.NewGameError(types.ErrInvalidRule, fmt.Sprintf("invalid payout ratio %q", s))
	}
	num, err1 := strconv.ParseInt(parts[0], 10, 64)
	den, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil || num <= 0 || den <= 0 {
		return Ratio{}, types.NewGameError(types.ErrInvalidRule, fmt.Sprintf("invalid payout ratio %q", s))
	}
	return Ratio{Numerator: num, Denominator: den}, nil
}
