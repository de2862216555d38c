package blackjack

import (
	"testing"

	"github.com/fadedpez/tucotable/pkg/entities"
	"github.com/fadedpez/tucotable/pkg/ledger"
	"github.com/fadedpez/tucotable/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handWith(cards ...string) *Hand {
	h := NewHand("p1", 0, ledger.NewAccount("p1", 0), ledger.NewEscrow("bet"))
	for _, c := range entities.MustParseCards(cards...) {
		_ = h.AddCard(c)
	}
	return h
}

func TestHandStateTransitions(t *testing.T) {
	tests := []struct {
		name  string
		cards []string
		state HandState
		value int
	}{
		{"two cards", []string{"10H", "6D"}, HandActive, 16},
		{"natural", []string{"AH", "KD"}, HandBlackjack, 21},
		{"three card 21", []string{"7H", "7D", "7C"}, HandStood, 21},
		{"bust", []string{"10H", "6D", "9C"}, HandBusted, 25},
		{"soft becomes hard", []string{"AH", "6D", "9C"}, HandActive, 16},
		{"two aces", []string{"AH", "AD"}, HandActive, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handWith(tt.cards...)
			assert.Equal(t, tt.state, h.State)
			assert.Equal(t, tt.value, h.Value())
			assert.Equal(t, tt.value, h.Value(), "value must be stable between calls")
		})
	}
}

func TestHandTerminalStatesRejectChanges(t *testing.T) {
	h := handWith("10H", "6D")
	require.NoError(t, h.Stand())

	assert.ErrorIs(t, h.AddCard(entities.NewCard(entities.Clubs, entities.Two)), ErrHandNotActive)
	assert.ErrorIs(t, h.Stand(), ErrHandNotActive)
	assert.ErrorIs(t, h.Surrender(), ErrHandNotActive)
	assert.NotErrorIs(t, h.Stand(), ErrInvalidState)
	assert.Len(t, h.Cards, 2)
}

func TestHandSplitKeepsLineage(t *testing.T) {
	h := handWith("9H", "9D")
	sibling := h.split(ledger.NewEscrow("split"),
		entities.NewCard(entities.Clubs, entities.Two),
		entities.NewCard(entities.Spades, entities.Ace))

	assert.Equal(t, entities.MustParseCards("9H", "2C"), h.Cards)
	assert.Equal(t, entities.MustParseCards("9D", "AS"), sibling.Cards)
	assert.Equal(t, h.ID, sibling.ParentHandID)
	assert.Equal(t, h.PlayerID, sibling.PlayerID)
	assert.Equal(t, 1, h.SplitCount)
	assert.Equal(t, 1, sibling.SplitCount)
	assert.False(t, sibling.IsSplitAce)
	assert.False(t, sibling.IsNatural())
	assert.Same(t, h.Bank(), sibling.Bank())
}

func TestDealerEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		cards []string
		rule  rules.DealerRule
		state DealerState
	}{
		{"hard 17 under S17", []string{"10H", "7D"}, rules.StandSoft17, DealerStood},
		{"soft 17 under S17", []string{"AH", "6D"}, rules.StandSoft17, DealerStood},
		{"soft 17 under H17", []string{"AH", "6D"}, rules.HitSoft17, DealerActive},
		{"hard 17 under H17", []string{"10H", "7D"}, rules.HitSoft17, DealerStood},
		{"16 draws", []string{"10H", "6D"}, rules.StandSoft17, DealerActive},
		{"soft 18", []string{"AH", "7D"}, rules.HitSoft17, DealerStood},
		{"three card 21", []string{"7H", "7D", "7C"}, rules.StandSoft17, DealerBlackjack},
		{"bust", []string{"10H", "6D", "8C"}, rules.StandSoft17, DealerBusted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDealerHand()
			d.Cards = entities.MustParseCards(tt.cards...)
			d.Evaluate(tt.rule)
			assert.Equal(t, tt.state, d.State)
		})
	}
}

func TestDealerHitStopsAtStandRule(t *testing.T) {
	d := NewDealerHand()
	d.deal(entities.NewCard(entities.Hearts, entities.Ace))
	d.deal(entities.NewCard(entities.Diamonds, entities.Six))

	up, ok := d.UpCard()
	require.True(t, ok)
	assert.True(t, up.IsAce())

	d.Evaluate(rules.HitSoft17)
	require.Equal(t, DealerActive, d.State)

	d.Hit(entities.NewCard(entities.Clubs, entities.Ten), rules.HitSoft17)
	assert.Equal(t, 17, d.Value())
	assert.Equal(t, DealerStood, d.State)
}
