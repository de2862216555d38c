package blackjack

import (
	"fmt"

	"github.com/coder/quartz"
	"github.com/fadedpez/tucotable/internal/logging"
	"github.com/fadedpez/tucotable/internal/types"
	"github.com/fadedpez/tucotable/pkg/entities"
	"github.com/fadedpez/tucotable/pkg/events"
	"github.com/fadedpez/tucotable/pkg/ledger"
	"github.com/fadedpez/tucotable/pkg/rules"
	"github.com/fadedpez/tucotable/pkg/shoe"
)

// Seat is one player's entry into a round
type Seat struct {
	PlayerID string
	Bank     *ledger.Account
	Bet      int64
}

// Config holds everything a round needs. Sink, Logger and Clock are optional.
type Config struct {
	Number int
	Rules  *rules.CompleteRuleSet
	Shoe   *shoe.Shoe
	Seats  []Seat
	Sink   events.Sink
	Logger *logging.Logger
	Clock  quartz.Clock
}

// Round drives one deal from the initial bets to settlement. It is not safe
// for concurrent use; a host serving several goroutines must serialize calls.
type Round struct {
	number  int
	rules   *rules.CompleteRuleSet
	shoe    *shoe.Shoe
	dealer  *DealerHand
	hands   []*Hand
	state   entities.RoundState
	current int
	results []SettlementResult

	sink   events.Sink
	logger *logging.Logger
	clock  quartz.Clock
}

// NewRound takes the bets, deals two cards to every seat and two to the
// dealer, and moves the round into its first decision phase.
func NewRound(cfg Config) (*Round, error) {
	if cfg.Rules == nil || cfg.Shoe == nil {
		return nil, ErrMissingDependency
	}
	if len(cfg.Seats) == 0 {
		return nil, ErrNoSeats
	}
	if cfg.Sink == nil {
		cfg.Sink = events.Nop
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}

	r := &Round{
		number: cfg.Number,
		rules:  cfg.Rules,
		shoe:   cfg.Shoe,
		dealer: NewDealerHand(),
		hands:  make([]*Hand, 0, len(cfg.Seats)),
		sink:   cfg.Sink,
		logger: cfg.Logger,
		clock:  cfg.Clock,
	}

	if err := r.validateSeats(cfg.Seats); err != nil {
		return nil, err
	}

	for i, seat := range cfg.Seats {
		escrow := ledger.NewEscrow(fmt.Sprintf("round %d seat %d bet", r.number, i), ledger.WithClock(r.clock))
		if err := ledger.Transfer(seat.Bank, escrow, seat.Bet); err != nil {
			r.refund()
			return nil, err
		}
		hand := NewHand(seat.PlayerID, i, seat.Bank, escrow)
		r.hands = append(r.hands, hand)

		e := r.event(events.TypeBetPlaced)
		e.PlayerID = hand.PlayerID
		e.HandID = hand.ID
		e.Amount = seat.Bet
		r.sink.Emit(e)
	}

	if err := r.deal(); err != nil {
		r.refund()
		return nil, err
	}

	up, _ := r.dealer.UpCard()
	r.logger.Debug("Round %d dealt: %d hands, dealer shows %s", r.number, len(r.hands), up)

	switch {
	case up.IsAce():
		for _, hand := range r.hands {
			hand.InsuranceOffered = true
		}
		r.setState(entities.StateInsurance)
	case up.IsTenValue() && r.rules.DealerPeek && r.dealer.IsNatural():
		r.logger.Debug("Round %d dealer peeked a natural", r.number)
		r.setState(entities.StateSettling)
	default:
		r.setState(entities.StatePlayerTurn)
		if err := r.advance(0); err != nil {
			return r, err
		}
	}
	return r, nil
}

// validateSeats checks every bet against the table limits and every bank for
// the total it is about to stake, before any money moves.
func (r *Round) validateSeats(seats []Seat) error {
	totals := make(map[*ledger.Account]int64)
	for _, seat := range seats {
		if seat.Bank == nil {
			return types.NewGameError(types.ErrPlayerNotFound,
				fmt.Sprintf("no bank account for player %s", seat.PlayerID))
		}
		if err := rules.ValidateBet(seat.Bet, r.rules); err != nil {
			return err
		}
		totals[seat.Bank] += seat.Bet
	}
	for bank, total := range totals {
		if !bank.CanCover(total) {
			return types.WrapError(types.ErrInsufficientFunds,
				fmt.Sprintf("%s cannot cover bets of %s", bank.Name(), rules.FormatCents(total)),
				ErrInsufficientFunds)
		}
	}
	return nil
}

func (r *Round) deal() error {
	for _, hand := range r.hands {
		for i := 0; i < 2; i++ {
			card, err := r.draw()
			if err != nil {
				return err
			}
			if err := hand.AddCard(card); err != nil {
				return err
			}
			r.emitCard(hand, card)
		}
	}
	for i := 0; i < 2; i++ {
		card, err := r.draw()
		if err != nil {
			return err
		}
		r.dealer.deal(card)
		r.emitCard(nil, card)
	}
	return nil
}

// refund returns every funded bet after a failed start
func (r *Round) refund() {
	for _, hand := range r.hands {
		ledger.Release(hand.BetEscrow, hand.bank, ledger.OwnerUser)
	}
}

func (r *Round) draw() (entities.Card, error) {
	return r.shoe.Draw(r.number)
}

// TakeInsurance stakes half the hand's bet against a dealer natural
func (r *Round) TakeInsurance(index int) error {
	hand, err := r.insuranceHand(index)
	if err != nil {
		return err
	}

	amount := hand.Bet() / 2
	if amount <= 0 {
		return types.NewGameError(types.ErrInvalidAmount, "bet too small to insure")
	}
	escrow := ledger.NewEscrow(fmt.Sprintf("round %d hand %s insurance", r.number, hand.ID), ledger.WithClock(r.clock))
	if err := ledger.Transfer(hand.bank, escrow, amount); err != nil {
		return err
	}
	hand.InsuranceEscrow = escrow

	e := r.handEvent(events.TypeInsuranceTaken, hand)
	e.Amount = amount
	r.sink.Emit(e)
	return nil
}

// DeclineInsurance records that the hand will not be insured
func (r *Round) DeclineInsurance(index int) error {
	hand, err := r.insuranceHand(index)
	if err != nil {
		return err
	}
	hand.InsuranceDeclined = true
	r.sink.Emit(r.handEvent(events.TypeInsuranceDeclined, hand))
	return nil
}

func (r *Round) insuranceHand(index int) (*Hand, error) {
	if r.state != entities.StateInsurance {
		return nil, r.stateError("insurance")
	}
	hand, err := r.Hand(index)
	if err != nil {
		return nil, err
	}
	if hand.HasInsurance() || hand.InsuranceDeclined {
		return nil, ErrAlreadyTaken
	}
	return hand, nil
}

// ResolveInsurance peeks for a dealer natural and settles every insurance
// stake against house. A dealer natural pays 2:1 and ends the player turn.
func (r *Round) ResolveInsurance(house *ledger.Account) error {
	if r.state != entities.StateInsurance {
		return r.stateError("insurance resolution")
	}

	dealerNatural := r.dealer.IsNatural()
	if dealerNatural {
		var owed int64
		for _, hand := range r.hands {
			owed += 2 * hand.InsuranceAmount()
		}
		if !house.CanCover(owed) {
			return types.WrapError(types.ErrInsufficientFunds,
				fmt.Sprintf("house cannot cover insurance of %s", rules.FormatCents(owed)),
				ErrInsufficientFunds)
		}
	}

	for _, hand := range r.hands {
		if !hand.HasInsurance() {
			continue
		}
		stake := hand.InsuranceAmount()
		if dealerNatural {
			if err := ledger.Transfer(hand.InsuranceEscrow, hand.bank, stake); err != nil {
				return err
			}
			hand.InsuranceEscrow.ReleaseToOwner(ledger.OwnerUser)
			if err := ledger.Transfer(house, hand.bank, 2*stake); err != nil {
				return err
			}
			house.RecordProfitLoss(-2 * stake)
			hand.InsurancePayout = 3 * stake
		} else {
			ledger.Release(hand.InsuranceEscrow, house, ledger.OwnerHouse)
			house.RecordProfitLoss(stake)
		}

		e := r.handEvent(events.TypeInsuranceResolved, hand)
		e.Amount = stake
		e.Payout = hand.InsurancePayout
		r.sink.Emit(e)
	}

	if dealerNatural {
		r.setState(entities.StateSettling)
		return nil
	}
	r.setState(entities.StatePlayerTurn)
	return r.advance(0)
}

// PlayAction applies action to the current hand and moves play on when the
// hand is finished
func (r *Round) PlayAction(action rules.Action) error {
	if r.state != entities.StatePlayerTurn {
		return r.stateError("player actions")
	}
	hand := r.hands[r.current]
	up, _ := r.dealer.UpCard()
	if !rules.LegalActions(hand.Snapshot(), up, hand.SplitCount, r.rules).Contains(action) {
		return types.WrapError(types.ErrInvalidAction,
			fmt.Sprintf("%s not allowed on hand %d", action, r.current), ErrActionNotAllowed)
	}

	var err error
	switch action {
	case rules.ActionHit:
		err = r.hit(hand)
	case rules.ActionStand:
		err = hand.Stand()
	case rules.ActionDouble:
		err = r.double(hand)
	case rules.ActionSplit:
		err = r.split(hand)
	case rules.ActionSurrender:
		err = hand.Surrender()
	}
	if err != nil {
		return err
	}

	hand.Actions = append(hand.Actions, action)
	e := r.handEvent(events.TypeHandAction, hand)
	e.Action = string(action)
	e.Amount = hand.Bet()
	e.Value = hand.Value()
	r.sink.Emit(e)

	if hand.IsTerminal() {
		return r.advance(r.current + 1)
	}
	return nil
}

func (r *Round) hit(hand *Hand) error {
	card, err := r.draw()
	if err != nil {
		return err
	}
	if err := hand.AddCard(card); err != nil {
		return err
	}
	r.emitCard(hand, card)

	if r.rules.CharlieEnabled() && hand.State == HandActive && len(hand.Cards) >= r.rules.CharlieCards {
		return hand.Stand()
	}
	return nil
}

// double matches the current bet, takes exactly one card and stands. A bust
// is still recorded as stood; settlement reads the value.
func (r *Round) double(hand *Hand) error {
	amount := hand.Bet()
	if err := ledger.Transfer(hand.bank, hand.BetEscrow, amount); err != nil {
		return err
	}
	card, err := r.draw()
	if err != nil {
		_ = ledger.Transfer(hand.BetEscrow, hand.bank, amount)
		return err
	}
	hand.Cards = append(hand.Cards, card)
	hand.Doubled = true
	hand.State = HandStood
	r.emitCard(hand, card)
	return nil
}

// split funds a second hand with the current bet and inserts it directly
// after the hand being split
func (r *Round) split(hand *Hand) error {
	amount := hand.Bet()
	escrow := ledger.NewEscrow(fmt.Sprintf("round %d split of %s", r.number, hand.ID), ledger.WithClock(r.clock))
	if err := ledger.Transfer(hand.bank, escrow, amount); err != nil {
		return err
	}

	var cards [2]entities.Card
	for i := range cards {
		card, err := r.draw()
		if err != nil {
			ledger.Release(escrow, hand.bank, ledger.OwnerUser)
			return err
		}
		cards[i] = card
	}

	sibling := hand.split(escrow, cards[0], cards[1])
	r.hands = append(r.hands, nil)
	copy(r.hands[r.current+2:], r.hands[r.current+1:])
	r.hands[r.current+1] = sibling

	r.emitCard(hand, cards[0])
	r.emitCard(sibling, cards[1])
	e := r.handEvent(events.TypeBetPlaced, sibling)
	e.Amount = amount
	r.sink.Emit(e)
	return nil
}

// advance moves to the first non-terminal hand at or after from. Running off
// the end hands the round to the dealer.
func (r *Round) advance(from int) error {
	for i := from; i < len(r.hands); i++ {
		if !r.hands[i].IsTerminal() {
			r.current = i
			return nil
		}
	}
	r.current = len(r.hands)
	r.setState(entities.StateDealerTurn)
	return r.PlayDealerTurn()
}

// PlayDealerTurn draws dealer cards under the stand rule. The dealer does not
// draw when no hand can still beat it.
func (r *Round) PlayDealerTurn() error {
	if r.state != entities.StateDealerTurn {
		return r.stateError("dealer play")
	}

	if r.allHandsDecided() {
		r.logger.Debug("Round %d dealer stands pat, no live hands", r.number)
		r.setState(entities.StateSettling)
		return nil
	}

	r.dealer.Evaluate(r.rules.DealerRule)
	for r.dealer.State == DealerActive {
		card, err := r.draw()
		if err != nil {
			return err
		}
		r.dealer.Hit(card, r.rules.DealerRule)
		r.emitCard(nil, card)
	}
	r.logger.Debug("Round %d dealer finished on %d (%s)", r.number, r.dealer.Value(), r.dealer.State)

	r.setState(entities.StateSettling)
	return nil
}

func (r *Round) allHandsDecided() bool {
	for _, hand := range r.hands {
		if !hand.IsBusted() && hand.State != HandSurrendered {
			return false
		}
	}
	return true
}

// Settle pays out every hand against house, returns the cards to the shoe
// and completes the round. Results line up with Hands().
func (r *Round) Settle(house *ledger.Account) ([]SettlementResult, error) {
	if r.state != entities.StateSettling {
		return nil, r.stateError("settlement")
	}

	var owed int64
	for _, hand := range r.hands {
		bet := hand.Bet()
		if winnings := CalculatePayout(bet, DetermineOutcome(hand, r.dealer, r.rules), r.rules) - bet; winnings > 0 {
			owed += winnings
		}
	}
	if !house.CanCover(owed) {
		return nil, types.WrapError(types.ErrInsufficientFunds,
			fmt.Sprintf("house cannot cover winnings of %s", rules.FormatCents(owed)),
			ErrInsufficientFunds)
	}

	results := make([]SettlementResult, 0, len(r.hands))
	for _, hand := range r.hands {
		result, err := SettleHand(hand, r.dealer, r.rules, house)
		if err != nil {
			r.logger.LogError(err)
			return nil, err
		}
		results = append(results, result)

		e := r.handEvent(events.TypeHandSettled, hand)
		e.Amount = result.Bet
		e.Payout = result.Payout
		e.Outcome = string(result.Outcome)
		e.Value = result.PlayerHandValue
		r.sink.Emit(e)
	}
	r.results = results

	for _, hand := range r.hands {
		r.shoe.Discard(hand.Cards...)
	}
	r.shoe.Discard(r.dealer.Cards...)

	r.setState(entities.StateComplete)
	r.logger.Info("Round %d complete: house P/L %s", r.number, rules.FormatCents(house.ProfitLoss()))
	return results, nil
}

// Void abandons a round that cannot finish. Every stake still in escrow goes
// back to its player's bank and the cards go to the discard pile. Insurance
// already resolved stays settled.
func (r *Round) Void() error {
	if r.state == entities.StateComplete || r.state == entities.StateVoid {
		return r.stateError("voiding")
	}

	var refunded int64
	for _, hand := range r.hands {
		refunded += ledger.Release(hand.BetEscrow, hand.bank, ledger.OwnerUser)
		if hand.InsuranceEscrow != nil {
			refunded += ledger.Release(hand.InsuranceEscrow, hand.bank, ledger.OwnerUser)
		}
		r.shoe.Discard(hand.Cards...)
	}
	r.shoe.Discard(r.dealer.Cards...)

	r.setState(entities.StateVoid)
	r.logger.Warn("Round %d voided: refunded %s", r.number, rules.FormatCents(refunded))
	return nil
}

// Number returns the round number
func (r *Round) Number() int {
	return r.number
}

// State returns the current phase
func (r *Round) State() entities.RoundState {
	return r.state
}

// CurrentHandIndex returns the hand being played, or len(Hands()) once the
// player turn is over
func (r *Round) CurrentHandIndex() int {
	return r.current
}

// Hands returns the player hands in play order
func (r *Round) Hands() []*Hand {
	return append([]*Hand(nil), r.hands...)
}

// Hand returns the hand at index
func (r *Round) Hand(index int) (*Hand, error) {
	if index < 0 || index >= len(r.hands) {
		return nil, types.WrapError(types.ErrHandNotFound,
			fmt.Sprintf("no hand at index %d", index), ErrHandNotFound)
	}
	return r.hands[index], nil
}

// Dealer returns the dealer hand
func (r *Round) Dealer() *DealerHand {
	return r.dealer
}

// Results returns the settlement results, nil until the round is complete
func (r *Round) Results() []SettlementResult {
	return r.results
}

// LegalActions returns the actions available on the current hand
func (r *Round) LegalActions() rules.ActionSet {
	if r.state != entities.StatePlayerTurn || r.current >= len(r.hands) {
		return nil
	}
	hand := r.hands[r.current]
	up, _ := r.dealer.UpCard()
	return rules.LegalActions(hand.Snapshot(), up, hand.SplitCount, r.rules)
}

func (r *Round) setState(to entities.RoundState) {
	from := r.state
	r.state = to
	e := r.event(events.TypeRoundState)
	e.From = string(from)
	e.To = string(to)
	r.sink.Emit(e)
}

func (r *Round) stateError(operation string) error {
	return types.WrapError(types.ErrInvalidState,
		fmt.Sprintf("%s not allowed in state %s", operation, r.state), ErrInvalidState)
}

func (r *Round) event(t events.Type) events.Event {
	e := events.New(t, r.number)
	e.Timestamp = r.clock.Now()
	return e
}

func (r *Round) handEvent(t events.Type, hand *Hand) events.Event {
	e := r.event(t)
	e.PlayerID = hand.PlayerID
	e.HandID = hand.ID
	return e
}

func (r *Round) emitCard(hand *Hand, card entities.Card) {
	e := r.event(events.TypeCardDealt)
	e.Card = card.Short()
	if hand == nil {
		e.Dealer = true
		e.Value = r.dealer.Value()
	} else {
		e.PlayerID = hand.PlayerID
		e.HandID = hand.ID
		e.Value = hand.Value()
	}
	r.sink.Emit(e)
}
