package blackjack

import (
	"github.com/fadedpez/tucotable/pkg/entities"
	"github.com/fadedpez/tucotable/pkg/ledger"
	"github.com/fadedpez/tucotable/pkg/rules"
	"github.com/google/uuid"
)

// HandState represents the current state of a player hand
type HandState string

const (
	HandActive      HandState = "ACTIVE"
	HandBusted      HandState = "BUSTED"
	HandStood       HandState = "STOOD"
	HandBlackjack   HandState = "BLACKJACK"
	HandSurrendered HandState = "SURRENDERED"
)

// Hand is one player hand with the escrow holding its bet. Every state but
// HandActive is terminal.
type Hand struct {
	ID                string
	PlayerID          string
	Cards             []entities.Card
	State             HandState
	BetEscrow         *ledger.Account
	InsuranceEscrow   *ledger.Account
	InsuranceOffered  bool
	InsuranceDeclined bool
	InsurancePayout   int64
	IsSplit           bool
	IsSplitAce        bool
	SplitCount        int
	Doubled           bool
	OriginalHandIndex int
	ParentHandID      string
	Actions           []rules.Action

	bank *ledger.Account
}

// NewHand creates an empty active hand for a seat. bank is the player account
// that funds doubles, splits and insurance.
func NewHand(playerID string, seat int, bank *ledger.Account, escrow *ledger.Account) *Hand {
	return &Hand{
		ID:                uuid.New().String(),
		PlayerID:          playerID,
		Cards:             make([]entities.Card, 0, 2),
		State:             HandActive,
		BetEscrow:         escrow,
		OriginalHandIndex: seat,
		bank:              bank,
	}
}

// Bank returns the player account backing this hand
func (h *Hand) Bank() *ledger.Account {
	return h.bank
}

// Bet returns the amount currently riding on the hand
func (h *Hand) Bet() int64 {
	if h.BetEscrow == nil {
		return 0
	}
	return h.BetEscrow.Balance()
}

// InsuranceAmount returns the insurance stake still held, or zero
func (h *Hand) InsuranceAmount() int64 {
	if h.InsuranceEscrow == nil {
		return 0
	}
	return h.InsuranceEscrow.Balance()
}

// HasInsurance reports whether insurance was taken
func (h *Hand) HasInsurance() bool {
	return h.InsuranceEscrow != nil
}

// Value returns the best total for the hand
func (h *Hand) Value() int {
	return entities.BestScore(h.Cards)
}

// IsSoft reports whether an Ace is counted as 11
func (h *Hand) IsSoft() bool {
	_, soft := entities.Score(h.Cards)
	return soft
}

// IsNatural reports a two-card 21 that did not come from a split
func (h *Hand) IsNatural() bool {
	return !h.IsSplit && entities.IsNatural(h.Cards)
}

// IsBusted reports a total over 21 regardless of the recorded state
func (h *Hand) IsBusted() bool {
	return h.Value() > 21
}

// IsTerminal reports whether the hand can take no further action
func (h *Hand) IsTerminal() bool {
	return h.State != HandActive
}

// AddCard adds a card to an active hand and re-evaluates its state
func (h *Hand) AddCard(card entities.Card) error {
	if h.State != HandActive {
		return ErrHandNotActive
	}
	h.Cards = append(h.Cards, card)
	h.evaluate()
	return nil
}

// evaluate moves the hand to a terminal state when its cards force one:
// over 21 busts, a natural is blackjack and any other 21 stands.
func (h *Hand) evaluate() {
	if h.State != HandActive {
		return
	}
	switch value := h.Value(); {
	case value > 21:
		h.State = HandBusted
	case value == 21 && h.IsNatural():
		h.State = HandBlackjack
	case value == 21:
		h.State = HandStood
	}
}

// Stand marks the hand as stood
func (h *Hand) Stand() error {
	if h.State != HandActive {
		return ErrHandNotActive
	}
	h.State = HandStood
	return nil
}

// Surrender marks the hand as surrendered
func (h *Hand) Surrender() error {
	if h.State != HandActive {
		return ErrHandNotActive
	}
	h.State = HandSurrendered
	return nil
}

// Snapshot returns the view used for action legality
func (h *Hand) Snapshot() rules.HandSnapshot {
	return rules.HandSnapshot{
		Cards:      append([]entities.Card(nil), h.Cards...),
		Terminal:   h.IsTerminal(),
		IsSplit:    h.IsSplit,
		IsSplitAce: h.IsSplitAce,
	}
}

// split moves the second card into a new hand funded by escrow and deals one
// card to each. The new hand is returned for insertion after h.
func (h *Hand) split(escrow *ledger.Account, first, second entities.Card) *Hand {
	aces := h.Cards[0].IsAce()

	sibling := NewHand(h.PlayerID, h.OriginalHandIndex, h.bank, escrow)
	sibling.ParentHandID = h.ID
	sibling.Cards = append(sibling.Cards, h.Cards[1], second)
	h.Cards = append(h.Cards[:1:1], first)

	splits := h.SplitCount + 1
	for _, hand := range []*Hand{h, sibling} {
		hand.IsSplit = true
		hand.IsSplitAce = aces
		hand.SplitCount = splits
		hand.evaluate()
	}
	return sibling
}

// DealerState represents the state of the dealer hand
type DealerState string

const (
	DealerActive    DealerState = "ACTIVE"
	DealerBusted    DealerState = "BUSTED"
	DealerStood     DealerState = "STOOD"
	DealerBlackjack DealerState = "BLACKJACK"
)

// DealerHand holds the dealer's cards. The dealer never owns money.
type DealerHand struct {
	Cards []entities.Card
	State DealerState
}

// NewDealerHand creates an empty dealer hand
func NewDealerHand() *DealerHand {
	return &DealerHand{
		Cards: make([]entities.Card, 0, 4),
		State: DealerActive,
	}
}

// UpCard returns the first dealt card
func (d *DealerHand) UpCard() (entities.Card, bool) {
	if len(d.Cards) == 0 {
		return entities.Card{}, false
	}
	return d.Cards[0], true
}

// Value returns the best total for the dealer hand
func (d *DealerHand) Value() int {
	return entities.BestScore(d.Cards)
}

// IsNatural reports a two-card 21
func (d *DealerHand) IsNatural() bool {
	return entities.IsNatural(d.Cards)
}

// deal adds an initial card without applying the stand rule
func (d *DealerHand) deal(card entities.Card) {
	d.Cards = append(d.Cards, card)
	if d.IsNatural() {
		d.State = DealerBlackjack
	}
}

// Hit adds a card and applies the stand rule
func (d *DealerHand) Hit(card entities.Card, rule rules.DealerRule) {
	d.Cards = append(d.Cards, card)
	d.Evaluate(rule)
}

// Evaluate classifies the dealer hand: over 21 busts, 21 is blackjack, and
// otherwise the dealer stands on 17 or more, except that H17 hits soft 17.
func (d *DealerHand) Evaluate(rule rules.DealerRule) {
	if d.State != DealerActive {
		return
	}
	total, soft := entities.Score(d.Cards)
	switch {
	case total > 21:
		d.State = DealerBusted
	case total == 21:
		d.State = DealerBlackjack
	case total > 17:
		d.State = DealerStood
	case total == 17 && !(soft && rule == rules.HitSoft17):
		d.State = DealerStood
	}
}
