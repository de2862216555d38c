package shoe

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/fadedpez/tucotable/internal/logging"
	"github.com/fadedpez/tucotable/internal/types"
	"github.com/fadedpez/tucotable/pkg/entities"
)

var (
	ErrShoeExhausted      = types.NewGameError(types.ErrShoeExhausted, "shoe is complete, build a new one")
	ErrInvalidDecks       = types.NewGameError(types.ErrInvalidDecks, "deck count must be at least 1")
	ErrInvalidPenetration = types.NewGameError(types.ErrInvalidPenetration, "penetration must be between 0 and 1")
)

// Shoe deals from one or more shuffled decks until the cut card is reached.
// Once complete, the round that reached the cut card may keep drawing; any
// other round gets ErrShoeExhausted.
type Shoe struct {
	cards          []entities.Card
	discards       []entities.Card
	total          int
	cutPosition    int
	complete       bool
	completedRound int
	logger         *logging.Logger
}

type options struct {
	sequence []entities.Card
	rand     *rand.Rand
	logger   *logging.Logger
}

// Option customises shoe construction
type Option func(*options)

// WithSequence deals the given cards verbatim, first card first. The shoe is
// not shuffled and only completes when the sequence runs out.
func WithSequence(cards []entities.Card) Option {
	return func(o *options) {
		o.sequence = append([]entities.Card(nil), cards...)
	}
}

// WithRand sets the random source used for shuffling
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithLogger sets the shoe logger
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New builds a shoe of deckCount decks. penetration is the fraction of the
// shoe dealt before the cut card.
func New(deckCount int, penetration float64, opts ...Option) (*Shoe, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.Default
	}

	if o.sequence != nil {
		return &Shoe{
			cards:  o.sequence,
			total:  len(o.sequence),
			logger: o.logger,
		}, nil
	}

	if deckCount < 1 {
		return nil, ErrInvalidDecks
	}
	if penetration < 0 || penetration > 1 || math.IsNaN(penetration) {
		return nil, ErrInvalidPenetration
	}
	if o.rand == nil {
		o.rand = entities.NewRand(time.Now().UnixNano())
	}

	cards := make([]entities.Card, 0, deckCount*52)
	for i := 0; i < deckCount; i++ {
		cards = append(cards, entities.Riffle(entities.NewDeck().Cards, o.rand)...)
	}
	entities.Shuffle(cards, o.rand)
	cards = entities.Overhand(cards, o.rand)
	cards = entities.CutAt(cards, o.rand.IntN(len(cards)))

	total := len(cards)
	s := &Shoe{
		cards:       cards,
		total:       total,
		cutPosition: int(math.Floor(float64(total) * (1 - penetration))),
		logger:      o.logger,
	}
	s.logger.Debug("Built shoe: decks=%d cards=%d cut=%d", deckCount, total, s.cutPosition)
	return s, nil
}

// Draw deals the next card for the given round number
func (s *Shoe) Draw(round int) (entities.Card, error) {
	if s.complete && s.completedRound != round {
		return entities.Card{}, fmt.Errorf("drawing for round %d after round %d reached the cut card: %w",
			round, s.completedRound, ErrShoeExhausted)
	}
	if len(s.cards) == 0 {
		s.markComplete(round)
		return entities.Card{}, fmt.Errorf("no cards left for round %d: %w", round, ErrShoeExhausted)
	}

	card := s.cards[0]
	s.cards = s.cards[1:]

	if !s.complete && len(s.cards) <= s.cutPosition {
		s.markComplete(round)
	}
	return card, nil
}

func (s *Shoe) markComplete(round int) {
	if s.complete {
		return
	}
	s.complete = true
	s.completedRound = round
	s.logger.Info("Shoe reached cut card during round %d (%d cards left)", round, len(s.cards))
}

// Discard moves used cards onto the discard pile
func (s *Shoe) Discard(cards ...entities.Card) {
	s.discards = append(s.discards, cards...)
}

// IsComplete reports whether the cut card has been reached
func (s *Shoe) IsComplete() bool {
	return s.complete
}

// CompletedRound returns the round that reached the cut card, or zero
func (s *Shoe) CompletedRound() int {
	return s.completedRound
}

// CanDeal reports whether round may draw from this shoe
func (s *Shoe) CanDeal(round int) bool {
	return !s.complete || s.completedRound == round
}

// Remaining returns the number of undealt cards
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Discarded returns the number of cards on the discard pile
func (s *Shoe) Discarded() int {
	return len(s.discards)
}

// CutPosition returns the remaining-card count at which the shoe completes
func (s *Shoe) CutPosition() int {
	return s.cutPosition
}

// Total returns the number of cards the shoe was built with
func (s *Shoe) Total() int {
	return s.total
}
