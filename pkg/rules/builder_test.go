package rules

import (
	"testing"

	"github.com/fadedpez/tucotable/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRuleSet(t *testing.T) {
	r, err := NewBuilder().Build()
	require.NoError(t, err)

	assert.Equal(t, 6, r.Decks)
	assert.Equal(t, StandSoft17, r.DealerRule)
	assert.True(t, r.DealerPeek)
	assert.True(t, r.DoubleAfterSplit)
	assert.Equal(t, SurrenderNone, r.SurrenderMode())
	assert.Equal(t, Ratio{3, 2}, r.BlackjackPayout)
	assert.Equal(t, TiePush, r.BlackjackTie)
	assert.False(t, r.CharlieEnabled())
	assert.InDelta(t, 0.40, r.HouseEdge, 1e-9)
}

func TestHouseEdgeAdjustments(t *testing.T) {
	testCases := []struct {
		name     string
		build    func(b *Builder) *Builder
		expected float64
	}{
		{"single deck", func(b *Builder) *Builder { return b.Decks(1) }, -0.08},
		{"eight decks H17", func(b *Builder) *Builder { return b.Decks(8).DealerRule(HitSoft17) }, 0.64},
		{"late surrender", func(b *Builder) *Builder { return b.Surrender(SurrenderLate) }, 0.32},
		{"early surrender", func(b *Builder) *Builder { return b.Surrender(SurrenderEarly) }, -0.23},
		{"six to five", func(b *Builder) *Builder { return b.BlackjackPayout(6, 5) }, 1.76},
		{"seven to five", func(b *Builder) *Builder { return b.BlackjackPayout(7, 5) }, 0.85},
		{"no DAS, 10-11 doubles", func(b *Builder) *Builder {
			return b.DoubleAfterSplit(false).DoubleRestriction(DoubleTenToEleven)
		}, 0.72},
		{"no peek", func(b *Builder) *Builder { return b.DealerPeek(false) }, 0.51},
		{"RSA and HSA", func(b *Builder) *Builder { return b.ResplitAces(true).HitSplitAces(true) }, 0.13},
		{"single split", func(b *Builder) *Builder { return b.MaxSplits(1).ResplitAces(true) }, 0.50},
		{"five card charlie", func(b *Builder) *Builder { return b.CharlieCards(5) }, -1.06},
		{"dealer 22 pushes", func(b *Builder) *Builder { return b.Dealer22Push(true) }, 7.31},
		{"naturals tie lose", func(b *Builder) *Builder { return b.BlackjackTie(TieLose) }, 0.61},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := tc.build(NewBuilder()).Build()
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, r.HouseEdge, 1e-9)
		})
	}
}

func TestBuilderRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name  string
		build func(b *Builder) *Builder
	}{
		{"zero decks", func(b *Builder) *Builder { return b.Decks(0) }},
		{"unknown dealer rule", func(b *Builder) *Builder { return b.DealerRule("S18") }},
		{"unknown double restriction", func(b *Builder) *Builder { return b.DoubleRestriction("8-11") }},
		{"negative splits", func(b *Builder) *Builder { return b.MaxSplits(-1) }},
		{"unknown surrender", func(b *Builder) *Builder { return b.Surrender("sometimes") }},
		{"zero payout", func(b *Builder) *Builder { return b.BlackjackPayout(0, 2) }},
		{"unknown tie", func(b *Builder) *Builder { return b.BlackjackTie("split") }},
		{"two card charlie", func(b *Builder) *Builder { return b.CharlieCards(2) }},
		{"max below min", func(b *Builder) *Builder { return b.TableLimits(1000, 500, 100) }},
		{"min off unit", func(b *Builder) *Builder { return b.TableLimits(1050, 5000, 100) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := tc.build(NewBuilder()).Build()
			assert.Nil(t, r)
			assert.ErrorIs(t, err, ErrInvalidRule)
			assert.True(t, types.IsGameError(err, types.ErrInvalidRule))
		})
	}
}

func TestBuildReportsEveryInvalidValue(t *testing.T) {
	_, err := NewBuilder().Decks(0).CharlieCards(2).DealerRule("S18").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deck count")
	assert.Contains(t, err.Error(), "charlie threshold")
	assert.Contains(t, err.Error(), "S18")
}

func TestBuildReturnsIndependentCopies(t *testing.T) {
	b := NewBuilder()
	first, err := b.Build()
	require.NoError(t, err)

	second, err := b.Decks(2).Build()
	require.NoError(t, err)

	assert.Equal(t, 6, first.Decks)
	assert.Equal(t, 2, second.Decks)
}

func TestParseRatio(t *testing.T) {
	r, err := ParseRatio("3:2")
	require.NoError(t, err)
	assert.Equal(t, int64(150), r.Of(100))
	assert.Equal(t, "3:2", r.String())

	r, err = ParseRatio(" 6/5 ")
	require.NoError(t, err)
	assert.Equal(t, int64(120), r.Of(100))
	assert.Equal(t, int64(12), r.Of(11), "winnings round down to the cent")

	for _, bad := range []string{"", "3", "3:0", "a:b", "-3:2"} {
		_, err := ParseRatio(bad)
		assert.ErrorIs(t, err, ErrInvalidRule, bad)
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$10.50", FormatCents(1050))
	assert.Equal(t, "$0.05", FormatCents(5))
	assert.Equal(t, "-$2.00", FormatCents(-200))
}
