package events

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/tucotable/internal/discord"
	"github.com/fadedpez/tucotable/internal/logging"
	"github.com/fadedpez/tucotable/internal/types"
)

type roundSummary struct {
	dealerValue int
	lines       []discord.HandLine
}

// Discord collects settled hands per round and posts one summary embed per
// completed round to a channel on Flush
type Discord struct {
	session   discord.SessionHandler
	channelID string
	logger    *logging.Logger

	mu     sync.Mutex
	rounds map[int]*roundSummary
	outbox []*discordgo.MessageEmbed
}

// NewDiscord creates a sink posting to channelID
func NewDiscord(session discord.SessionHandler, channelID string, logger *logging.Logger) *Discord {
	if logger == nil {
		logger = logging.Default
	}
	return &Discord{
		session:   session,
		channelID: channelID,
		logger:    logger,
		rounds:    make(map[int]*roundSummary),
	}
}

// Emit implements Sink
func (d *Discord) Emit(e Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch e.Type {
	case TypeCardDealt:
		if e.Dealer {
			d.summary(e.Round).dealerValue = e.Value
		}
	case TypeHandSettled:
		s := d.summary(e.Round)
		s.lines = append(s.lines, discord.HandLine{
			PlayerID: e.PlayerID,
			Outcome:  e.Outcome,
			Bet:      e.Amount,
			Payout:   e.Payout,
			Value:    e.Value,
		})
	case TypeRoundState:
		if e.To == "VOID" {
			delete(d.rounds, e.Round)
			return
		}
		if e.To != "COMPLETE" {
			return
		}
		if s, ok := d.rounds[e.Round]; ok {
			d.outbox = append(d.outbox, discord.RoundEmbed(e.Round, s.dealerValue, s.lines))
			delete(d.rounds, e.Round)
		}
	}
}

func (d *Discord) summary(round int) *roundSummary {
	s, ok := d.rounds[round]
	if !ok {
		s = &roundSummary{}
		d.rounds[round] = s
	}
	return s
}

// Pending returns the number of summaries waiting to be posted
func (d *Discord) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.outbox)
}

// Flush posts every queued summary. A failed post and everything after it
// stays queued.
func (d *Discord) Flush(ctx context.Context) error {
	d.mu.Lock()
	queued := d.outbox
	d.outbox = nil
	d.mu.Unlock()

	for i, embed := range queued {
		if err := ctx.Err(); err != nil {
			d.requeue(queued[i:])
			return err
		}
		if _, err := d.session.ChannelMessageSendEmbed(d.channelID, embed); err != nil {
			d.requeue(queued[i:])
			return types.WrapError(types.ErrNetworkError, "error posting round summary", err)
		}
		d.logger.Debug("Posted %s to channel %s", embed.Title, d.channelID)
	}
	return nil
}

// Announce posts a plain message, used for errors the table cannot recover from
func (d *Discord) Announce(err error) {
	if _, sendErr := d.session.ChannelMessageSend(d.channelID, discord.FormatError(err)); sendErr != nil {
		d.logger.Error("Failed to announce error to channel %s: %v", d.channelID, sendErr)
	}
}

func (d *Discord) requeue(embeds []*discordgo.MessageEmbed) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outbox = append(append([]*discordgo.MessageEmbed(nil), embeds...), d.outbox...)
}
