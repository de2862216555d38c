package statistics

import (
	"sort"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/fadedpez/tucotable/pkg/entities"
	"github.com/fadedpez/tucotable/pkg/events"
	"github.com/fadedpez/tucotable/pkg/rules"
)

// Service aggregates per-player results from round events. It implements
// events.Sink and is safe for concurrent use.
type Service struct {
	mu      sync.RWMutex
	players map[string]*entities.PlayerStatistics
	clock   quartz.Clock
}

// NewService creates an empty statistics service
func NewService(clock quartz.Clock) *Service {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Service{
		players: make(map[string]*entities.PlayerStatistics),
		clock:   clock,
	}
}

// PlayerRank represents a player's statistics with ranking information
type PlayerRank struct {
	*entities.PlayerStatistics
	Rank        int     `json:"rank"`
	WinRate     float64 `json:"win_rate"`
	ProfitRate  float64 `json:"profit_rate"`
	IsTopWinner bool    `json:"is_top_winner"`
	IsTopPlayer bool    `json:"is_top_player"`
}

// Leaderboard represents a paginated leaderboard of player statistics
type Leaderboard struct {
	Players        []*PlayerRank `json:"players"`
	TotalPlayers   int           `json:"total_players"`
	CurrentPage    int           `json:"current_page"`
	TotalPages     int           `json:"total_pages"`
	PlayersPerPage int           `json:"players_per_page"`
	LastUpdated    time.Time     `json:"last_updated"`
}

// Emit implements events.Sink
func (s *Service) Emit(e events.Event) {
	if e.PlayerID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.player(e.PlayerID)
	switch e.Type {
	case events.TypeHandSettled:
		stats.HandsPlayed++
		stats.TotalBet += e.Amount
		stats.TotalPayout += e.Payout
		switch entities.Outcome(e.Outcome) {
		case entities.OutcomeWin:
			stats.Wins++
		case entities.OutcomeBlackjack:
			stats.Wins++
			stats.Blackjacks++
		case entities.OutcomeCharlie:
			stats.Wins++
			stats.Charlies++
		case entities.OutcomePush:
			stats.Pushes++
		case entities.OutcomeSurrender:
			stats.Losses++
			stats.Surrenders++
		case entities.OutcomeLose:
			stats.Losses++
			if e.Value > 21 {
				stats.Busts++
			}
		}
	case events.TypeHandAction:
		switch rules.Action(e.Action) {
		case rules.ActionSplit:
			stats.Splits++
		case rules.ActionDouble:
			stats.DoubleDowns++
		}
	case events.TypeInsuranceTaken:
		stats.Insurances++
		stats.TotalBet += e.Amount
	case events.TypeInsuranceResolved:
		stats.TotalPayout += e.Payout
	default:
		return
	}
	stats.LastUpdated = s.clock.Now()
}

func (s *Service) player(id string) *entities.PlayerStatistics {
	stats, ok := s.players[id]
	if !ok {
		stats = &entities.PlayerStatistics{PlayerID: id}
		s.players[id] = stats
	}
	return stats
}

// GetPlayerStatistics returns a copy of one player's statistics
func (s *Service) GetPlayerStatistics(playerID string) (*entities.PlayerStatistics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats, ok := s.players[playerID]
	if !ok {
		return nil, false
	}
	statsCopy := *stats
	return &statsCopy, true
}

// GetLeaderboard ranks players by net profit and returns one page
func (s *Service) GetLeaderboard(page, playersPerPage int) *Leaderboard {
	// Default values
	if page < 1 {
		page = 1
	}
	if playersPerPage < 1 {
		playersPerPage = 10
	}

	s.mu.RLock()
	playerRanks := make([]*PlayerRank, 0, len(s.players))
	for _, stats := range s.players {
		// Skip players with no settled hands
		if stats.HandsPlayed == 0 {
			continue
		}
		statsCopy := *stats

		var profitRate float64
		if stats.TotalBet > 0 {
			profitRate = float64(stats.NetProfit()) / float64(stats.TotalBet)
		}
		playerRanks = append(playerRanks, &PlayerRank{
			PlayerStatistics: &statsCopy,
			WinRate:          stats.WinRate(),
			ProfitRate:       profitRate,
		})
	}
	s.mu.RUnlock()

	sort.Slice(playerRanks, func(i, j int) bool {
		if playerRanks[i].NetProfit() != playerRanks[j].NetProfit() {
			return playerRanks[i].NetProfit() > playerRanks[j].NetProfit()
		}
		return playerRanks[i].PlayerID < playerRanks[j].PlayerID
	})

	if len(playerRanks) > 0 {
		playerRanks[0].IsTopWinner = true

		mostHandsIdx := 0
		for i := 1; i < len(playerRanks); i++ {
			if playerRanks[i].HandsPlayed > playerRanks[mostHandsIdx].HandsPlayed {
				mostHandsIdx = i
			}
		}
		playerRanks[mostHandsIdx].IsTopPlayer = true
	}

	for i := range playerRanks {
		playerRanks[i].Rank = i + 1
	}

	// Calculate pagination
	totalPlayers := len(playerRanks)
	totalPages := (totalPlayers + playersPerPage - 1) / playersPerPage
	if page > totalPages && totalPages > 0 {
		page = totalPages
	}

	start := (page - 1) * playersPerPage
	end := start + playersPerPage
	if end > totalPlayers {
		end = totalPlayers
	}

	currentPagePlayers := []*PlayerRank{}
	if start < totalPlayers {
		currentPagePlayers = playerRanks[start:end]
	}

	return &Leaderboard{
		Players:        currentPagePlayers,
		TotalPlayers:   totalPlayers,
		CurrentPage:    page,
		TotalPages:     totalPages,
		PlayersPerPage: playersPerPage,
		LastUpdated:    s.clock.Now(),
	}
}
