package statistics

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/fadedpez/tucotable/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settled(player, outcome string, bet, payout int64, value int) events.Event {
	e := events.New(events.TypeHandSettled, 1)
	e.PlayerID = player
	e.Outcome = outcome
	e.Amount = bet
	e.Payout = payout
	e.Value = value
	return e
}

func action(player, name string) events.Event {
	e := events.New(events.TypeHandAction, 1)
	e.PlayerID = player
	e.Action = name
	return e
}

func TestServiceAggregatesEvents(t *testing.T) {
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	svc := NewService(clock)

	svc.Emit(action("alice", "SPLIT"))
	svc.Emit(action("alice", "DOUBLE"))
	svc.Emit(action("alice", "HIT"))
	svc.Emit(settled("alice", "WIN", 200, 400, 20))
	svc.Emit(settled("alice", "LOSE", 100, 0, 24))
	svc.Emit(settled("alice", "BLACKJACK", 100, 250, 21))

	insured := events.New(events.TypeInsuranceTaken, 2)
	insured.PlayerID = "alice"
	insured.Amount = 50
	svc.Emit(insured)
	resolved := events.New(events.TypeInsuranceResolved, 2)
	resolved.PlayerID = "alice"
	resolved.Payout = 150
	svc.Emit(resolved)

	svc.Emit(events.New(events.TypeRoundState, 1))

	stats, ok := svc.GetPlayerStatistics("alice")
	require.True(t, ok)
	assert.Equal(t, 3, stats.HandsPlayed)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.Busts)
	assert.Equal(t, 1, stats.Blackjacks)
	assert.Equal(t, 1, stats.Splits)
	assert.Equal(t, 1, stats.DoubleDowns)
	assert.Equal(t, 1, stats.Insurances)
	assert.Equal(t, int64(450), stats.TotalBet)
	assert.Equal(t, int64(800), stats.TotalPayout)
	assert.Equal(t, int64(350), stats.NetProfit())
	assert.Equal(t, clock.Now(), stats.LastUpdated)

	_, ok = svc.GetPlayerStatistics("nobody")
	assert.False(t, ok)
}

func TestLeaderboardRanksByNetProfit(t *testing.T) {
	svc := NewService(quartz.NewMock(t))

	svc.Emit(settled("alice", "WIN", 100, 200, 20))
	svc.Emit(settled("bob", "LOSE", 100, 0, 18))
	svc.Emit(settled("bob", "PUSH", 100, 100, 18))
	svc.Emit(settled("carol", "SURRENDER", 100, 50, 16))
	svc.Emit(action("dave", "HIT"))

	board := svc.GetLeaderboard(1, 2)
	assert.Equal(t, 3, board.TotalPlayers)
	assert.Equal(t, 2, board.TotalPages)
	require.Len(t, board.Players, 2)
	assert.Equal(t, "alice", board.Players[0].PlayerID)
	assert.True(t, board.Players[0].IsTopWinner)
	assert.Equal(t, 1, board.Players[0].Rank)
	assert.Equal(t, "carol", board.Players[1].PlayerID)

	last := svc.GetLeaderboard(5, 2)
	assert.Equal(t, 2, last.CurrentPage)
	require.Len(t, last.Players, 1)
	assert.Equal(t, "bob", last.Players[0].PlayerID)
	assert.True(t, last.Players[0].IsTopPlayer)
	assert.Equal(t, 3, last.Players[0].Rank)
}
