package blackjack

import (
	"errors"
	"testing"

	"github.com/fadedpez/tucotable/pkg/entities"
	"github.com/fadedpez/tucotable/pkg/ledger"
	"github.com/fadedpez/tucotable/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dealerWith(cards ...string) *DealerHand {
	d := NewDealerHand()
	d.Cards = entities.MustParseCards(cards...)
	return d
}

func mustRules(t *testing.T, b *rules.Builder) *rules.CompleteRuleSet {
	t.Helper()
	r, err := b.Build()
	require.NoError(t, err)
	return r
}

func TestDetermineOutcome(t *testing.T) {
	standard := mustRules(t, rules.NewBuilder())

	tests := []struct {
		name    string
		rules   *rules.CompleteRuleSet
		player  []string
		dealer  []string
		outcome entities.Outcome
	}{
		{"higher total wins", standard, []string{"10H", "9D"}, []string{"10S", "7C"}, entities.OutcomeWin},
		{"lower total loses", standard, []string{"10H", "7D"}, []string{"10S", "9C"}, entities.OutcomeLose},
		{"equal totals push", standard, []string{"10H", "8D"}, []string{"10S", "8C"}, entities.OutcomePush},
		{"player bust loses to dealer bust", standard, []string{"10H", "8D", "5C"}, []string{"10S", "6C", "9D"}, entities.OutcomeLose},
		{"dealer bust", standard, []string{"10H", "2D"}, []string{"10S", "6C", "9D"}, entities.OutcomeWin},
		{"player natural", standard, []string{"AH", "KD"}, []string{"10S", "9C"}, entities.OutcomeBlackjack},
		{"natural beats three card 21", standard, []string{"AH", "KD"}, []string{"7S", "7C", "7D"}, entities.OutcomeBlackjack},
		{"dealer natural", standard, []string{"10H", "9D"}, []string{"AS", "KC"}, entities.OutcomeLose},
		{"both naturals push", standard, []string{"AH", "KD"}, []string{"AS", "QC"}, entities.OutcomePush},
		{"both naturals win", mustRules(t, rules.NewBuilder().BlackjackTie(rules.TieWin)), []string{"AH", "KD"}, []string{"AS", "QC"}, entities.OutcomeWin},
		{"both naturals lose", mustRules(t, rules.NewBuilder().BlackjackTie(rules.TieLose)), []string{"AH", "KD"}, []string{"AS", "QC"}, entities.OutcomeLose},
		{"dealer 22 pushes", mustRules(t, rules.NewBuilder().Dealer22Push(true)), []string{"10H", "9D"}, []string{"10S", "6C", "6D"}, entities.OutcomePush},
		{"dealer 23 still busts", mustRules(t, rules.NewBuilder().Dealer22Push(true)), []string{"10H", "9D"}, []string{"10S", "6C", "7D"}, entities.OutcomeWin},
		{"five card charlie", mustRules(t, rules.NewBuilder().CharlieCards(5)), []string{"2H", "3D", "2C", "4S", "5H"}, []string{"10S", "9C"}, entities.OutcomeCharlie},
		{"charlie beats dealer natural", mustRules(t, rules.NewBuilder().CharlieCards(5)), []string{"2H", "3D", "2C", "4S", "5H"}, []string{"AS", "KC"}, entities.OutcomeCharlie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handWith(tt.player...)
			h.State = HandStood
			assert.Equal(t, tt.outcome, DetermineOutcome(h, dealerWith(tt.dealer...), tt.rules))
		})
	}
}

func TestDetermineOutcomeSurrenderAndSplit(t *testing.T) {
	r := mustRules(t, rules.NewBuilder())

	h := handWith("10H", "6D")
	require.NoError(t, h.Surrender())
	assert.Equal(t, entities.OutcomeSurrender, DetermineOutcome(h, dealerWith("AS", "KC"), r))

	split := handWith("AH", "KD")
	split.IsSplit = true
	assert.Equal(t, entities.OutcomeWin, DetermineOutcome(split, dealerWith("10S", "9C"), r))
}

func TestCalculatePayout(t *testing.T) {
	threeToTwo := mustRules(t, rules.NewBuilder())
	sixToFive := mustRules(t, rules.NewBuilder().BlackjackPayout(6, 5))

	tests := []struct {
		name    string
		bet     int64
		outcome entities.Outcome
		rules   *rules.CompleteRuleSet
		payout  int64
	}{
		{"blackjack 3:2", 100, entities.OutcomeBlackjack, threeToTwo, 250},
		{"blackjack 3:2 odd cents", 1050, entities.OutcomeBlackjack, threeToTwo, 2625},
		{"blackjack 6:5", 1000, entities.OutcomeBlackjack, sixToFive, 2200},
		{"win", 100, entities.OutcomeWin, threeToTwo, 200},
		{"charlie", 100, entities.OutcomeCharlie, threeToTwo, 200},
		{"push", 100, entities.OutcomePush, threeToTwo, 100},
		{"surrender", 100, entities.OutcomeSurrender, threeToTwo, 50},
		{"lose", 100, entities.OutcomeLose, threeToTwo, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.payout, CalculatePayout(tt.bet, tt.outcome, tt.rules))
		})
	}
}

func TestSettleHandNeedsHouseCover(t *testing.T) {
	r := mustRules(t, rules.NewBuilder())
	bank := ledger.NewAccount("p1", 0)
	escrow := ledger.NewEscrow("bet")
	require.NoError(t, escrow.Credit(1000, "test"))

	h := NewHand("p1", 0, bank, escrow)
	for _, c := range entities.MustParseCards("AH", "KD") {
		require.NoError(t, h.AddCard(c))
	}

	house := ledger.NewHouse("house", 100)
	_, err := SettleHand(h, dealerWith("10S", "9C"), r, house)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.Equal(t, int64(1000), escrow.Balance(), "nothing moves when the house cannot pay")

	house = ledger.NewHouse("house", 10000)
	result, err := SettleHand(h, dealerWith("10S", "9C"), r, house)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), result.Payout)
	assert.Equal(t, int64(1500), result.Profit)
	assert.Equal(t, int64(2500), bank.Balance())
	assert.Equal(t, int64(0), escrow.Balance())
	assert.Equal(t, ledger.OwnerUser, escrow.Owner())
	assert.Equal(t, int64(-1500), house.ProfitLoss())
}
