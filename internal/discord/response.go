package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/tucotable/internal/types"
)

// ResponseEmoji maps error codes to appropriate emojis
var ResponseEmoji = map[types.ErrorCode]string{
	types.ErrInvalidState:       "⚠️",
	types.ErrInvalidAction:      "❌",
	types.ErrAlreadyTaken:       "✋",
	types.ErrHandNotActive:      "⚠️",
	types.ErrNoSeats:            "🪑",
	types.ErrNoPlayers:          "🪑",
	types.ErrInsufficientFunds:  "💸",
	types.ErrInvalidAmount:      "❗",
	types.ErrInvalidBet:         "🪙",
	types.ErrPlayerNotFound:     "👤",
	types.ErrHandNotFound:       "🔍",
	types.ErrAccountNotFound:    "🔍",
	types.ErrShoeExhausted:      "🃏",
	types.ErrRoundVoided:        "🃏",
	types.ErrInvalidDecks:       "📜",
	types.ErrInvalidPenetration: "📜",
	types.ErrMissingDependency:  "💥",
	types.ErrInvalidRule:        "📜",
	types.ErrInvalidArgument:    "❗",
	types.ErrInternalError:      "💥",
	types.ErrNetworkError:       "🌐",
	types.ErrDatabaseError:      "💾",
}

// Embed colours by house result for the round
const (
	colorHouseUp   = 0x2ECC71
	colorHouseDown = 0xE74C3C
	colorEven      = 0xFFD700
)

// HandLine is one settled hand in a round summary
type HandLine struct {
	PlayerID string
	Outcome  string
	Bet      int64
	Payout   int64
	Value    int
}

// FormatError renders an error for a channel message
func FormatError(err error) string {
	var gameErr *types.GameError
	if types.As(err, &gameErr) {
		emoji := ResponseEmoji[gameErr.Code]
		if emoji == "" {
			emoji = "❌"
		}
		return fmt.Sprintf("%s %s", emoji, gameErr.Message)
	}
	return fmt.Sprintf("❌ An error occurred: %v", err)
}

// RoundEmbed builds the summary embed posted when a round completes
func RoundEmbed(round int, dealerValue int, lines []HandLine) *discordgo.MessageEmbed {
	var house int64
	fields := make([]*discordgo.MessageEmbedField, 0, len(lines))
	for _, line := range lines {
		house += line.Bet - line.Payout
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   line.PlayerID,
			Value:  fmt.Sprintf("%s with %d, bet %s, paid %s", line.Outcome, line.Value, formatCents(line.Bet), formatCents(line.Payout)),
			Inline: false,
		})
	}

	color := colorEven
	switch {
	case house > 0:
		color = colorHouseUp
	case house < 0:
		color = colorHouseDown
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Round %d", round),
		Description: fmt.Sprintf("Dealer finished on %d. House %s", dealerValue, formatSigned(house)),
		Color:       color,
		Fields:      fields,
	}
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func formatSigned(cents int64) string {
	if cents > 0 {
		return "+" + formatCents(cents)
	}
	return formatCents(cents)
}
