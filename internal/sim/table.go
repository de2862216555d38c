package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/coder/quartz"
	"github.com/fadedpez/tucotable/internal/logging"
	"github.com/fadedpez/tucotable/internal/types"
	"github.com/fadedpez/tucotable/pkg/entities"
	"github.com/fadedpez/tucotable/pkg/events"
	"github.com/fadedpez/tucotable/pkg/ledger"
	ledgerrepo "github.com/fadedpez/tucotable/pkg/repositories/ledger"
	"github.com/fadedpez/tucotable/pkg/rules"
	"github.com/fadedpez/tucotable/pkg/services/blackjack"
	"github.com/fadedpez/tucotable/pkg/shoe"
)

var (
	ErrNoPlayers   = types.NewGameError(types.ErrNoPlayers, "no player can cover their bet")
	ErrRoundVoided = types.NewGameError(types.ErrRoundVoided, "round voided, stakes refunded")
)

// cardsPerSeat is the shoe reserve per hand, dealer included, below which a
// shoe is replaced before the next round even if the cut card is still ahead
const cardsPerSeat = 6

// Player is a simulated seat at the table
type Player struct {
	ID     string
	Bank   *ledger.Account
	Bet    int64
	Policy Policy
}

// Config holds the table setup. Sink, Logger, Clock, Repository and NewShoe
// are optional.
type Config struct {
	Rules       *rules.CompleteRuleSet
	Penetration float64
	Seed        int64
	House       *ledger.Account
	Players     []*Player
	Sink        events.Sink
	Logger      *logging.Logger
	Clock       quartz.Clock
	Repository  ledgerrepo.Repository

	// NewShoe replaces the default shuffled shoe
	NewShoe func() (*shoe.Shoe, error)
}

// Table plays rounds back to back on one shoe, replacing the shoe once a
// round has reached the cut card
type Table struct {
	config Config
	rand   *rand.Rand
	shoe   *shoe.Shoe
	round  int
	shoes  int
}

// NewTable validates config and fills in defaults
func NewTable(config Config) (*Table, error) {
	if config.Rules == nil || config.House == nil {
		return nil, blackjack.ErrMissingDependency
	}
	if len(config.Players) == 0 {
		return nil, ErrNoPlayers
	}
	for _, p := range config.Players {
		if p.Bank == nil {
			return nil, types.NewGameError(types.ErrPlayerNotFound, fmt.Sprintf("player %s has no bank", p.ID))
		}
		if p.Policy == nil {
			p.Policy = DealerMimic{}
		}
	}
	if config.NewShoe == nil && (config.Penetration < 0 || config.Penetration > 1 || math.IsNaN(config.Penetration)) {
		return nil, shoe.ErrInvalidPenetration
	}
	if config.Sink == nil {
		config.Sink = events.Nop
	}
	if config.Logger == nil {
		config.Logger = logging.Default
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}

	t := &Table{
		config: config,
		rand:   entities.NewRand(config.Seed),
	}
	if t.config.NewShoe == nil {
		t.config.NewShoe = func() (*shoe.Shoe, error) {
			return shoe.New(config.Rules.Decks, config.Penetration,
				shoe.WithRand(t.rand), shoe.WithLogger(config.Logger))
		}
	}
	return t, nil
}

// Rounds returns the number of rounds started
func (t *Table) Rounds() int {
	return t.round
}

// Shoes returns the number of shoes built
func (t *Table) Shoes() int {
	return t.shoes
}

// PlayRound deals one round to every player who can cover their bet, plays
// it out with each player's policy and settles it. A round that fails after
// the deal is voided so no stake is left in escrow; running out of cards
// mid-round returns ErrRoundVoided.
func (t *Table) PlayRound(ctx context.Context) ([]blackjack.SettlementResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seats := t.seats()
	if len(seats) == 0 {
		return nil, ErrNoPlayers
	}

	if t.shoe == nil || t.shoe.IsComplete() || t.shoe.Remaining() < cardsPerSeat*(len(seats)+1) {
		s, err := t.config.NewShoe()
		if err != nil {
			return nil, err
		}
		t.shoe = s
		t.shoes++
	}

	t.round++
	round, err := blackjack.NewRound(blackjack.Config{
		Number: t.round,
		Rules:  t.config.Rules,
		Shoe:   t.shoe,
		Seats:  seats,
		Sink:   t.config.Sink,
		Logger: t.config.Logger,
		Clock:  t.config.Clock,
	})
	if round == nil {
		// NewRound has already refunded the bets
		return nil, t.voided(err)
	}

	var results []blackjack.SettlementResult
	if err == nil {
		results, err = t.play(round)
	}
	if err != nil {
		if voidErr := round.Void(); voidErr != nil {
			t.config.Logger.LogError(voidErr)
		}
		err = t.voided(err)
		if perr := t.persist(ctx, round); perr != nil {
			return nil, errors.Join(err, perr)
		}
		return nil, err
	}

	if err := t.persist(ctx, round); err != nil {
		return results, err
	}
	return results, nil
}

// voided marks a shoe failure as a voided round so Run can carry on
func (t *Table) voided(err error) error {
	if errors.Is(err, shoe.ErrShoeExhausted) {
		return types.WrapError(types.ErrRoundVoided, fmt.Sprintf("round %d ran out of cards", t.round), err)
	}
	return err
}

func (t *Table) play(round *blackjack.Round) ([]blackjack.SettlementResult, error) {
	if round.State() == entities.StateInsurance {
		if err := t.insurance(round); err != nil {
			return nil, err
		}
	}

	for round.State() == entities.StatePlayerTurn {
		if err := t.act(round); err != nil {
			return nil, err
		}
	}

	return round.Settle(t.config.House)
}

func (t *Table) persist(ctx context.Context, round *blackjack.Round) error {
	if t.config.Repository == nil {
		return nil
	}
	if err := ledgerrepo.Persist(ctx, t.config.Repository, t.accounts(round)...); err != nil {
		t.config.Logger.LogError(err)
		return err
	}
	return nil
}

// Run plays rounds until n have been played, the context ends or no player
// can cover their bet. Voided rounds count towards n.
func (t *Table) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		_, err := t.PlayRound(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrRoundVoided):
			t.config.Logger.Warn("%v", err)
		case errors.Is(err, ErrNoPlayers):
			t.config.Logger.Info("Table closed after %d rounds: every player is broke", t.round)
			return nil
		default:
			return err
		}
	}
	return nil
}

func (t *Table) seats() []blackjack.Seat {
	seats := make([]blackjack.Seat, 0, len(t.config.Players))
	for _, p := range t.config.Players {
		if !p.Bank.CanCover(p.Bet) {
			t.config.Logger.Debug("Player %s sits out with %s", p.ID, rules.FormatCents(p.Bank.Balance()))
			continue
		}
		seats = append(seats, blackjack.Seat{PlayerID: p.ID, Bank: p.Bank, Bet: p.Bet})
	}
	return seats
}

func (t *Table) policy(playerID string) Policy {
	for _, p := range t.config.Players {
		if p.ID == playerID {
			return p.Policy
		}
	}
	return DealerMimic{}
}

func (t *Table) insurance(round *blackjack.Round) error {
	snap := round.Snapshot()
	for i, hand := range snap.Hands {
		if t.policy(hand.PlayerID).TakeInsurance(hand) {
			err := round.TakeInsurance(i)
			if err == nil {
				continue
			}
			if !errors.Is(err, blackjack.ErrInsufficientFunds) && !types.IsGameError(err, types.ErrInvalidAmount) {
				return err
			}
			t.config.Logger.Debug("Player %s cannot insure: %v", hand.PlayerID, err)
		}
		if err := round.DeclineInsurance(i); err != nil {
			return err
		}
	}
	return round.ResolveInsurance(t.config.House)
}

func (t *Table) act(round *blackjack.Round) error {
	snap := round.Snapshot()
	hand := snap.Hands[snap.CurrentHandIndex]
	up := snap.Dealer.Cards[0]

	action := t.policy(hand.PlayerID).Decide(hand, up, snap.LegalActions)
	err := round.PlayAction(action)
	if err == nil || !errors.Is(err, blackjack.ErrInsufficientFunds) {
		return err
	}

	t.config.Logger.Debug("Player %s cannot fund %s, playing on", hand.PlayerID, action)
	return round.PlayAction(DealerMimic{}.Decide(hand, up, snap.LegalActions))
}

// accounts lists every account the round touched
func (t *Table) accounts(round *blackjack.Round) []*ledger.Account {
	accounts := []*ledger.Account{t.config.House}
	seen := map[*ledger.Account]bool{t.config.House: true}
	add := func(a *ledger.Account) {
		if a != nil && !seen[a] {
			seen[a] = true
			accounts = append(accounts, a)
		}
	}
	for _, hand := range round.Hands() {
		add(hand.Bank())
		add(hand.BetEscrow)
		add(hand.InsuranceEscrow)
	}
	return accounts
}
