package blackjack

import (
	"github.com/fadedpez/tucotable/pkg/entities"
	"github.com/fadedpez/tucotable/pkg/rules"
)

// HandView is a read-only copy of a player hand
type HandView struct {
	ID           string          `json:"id"`
	PlayerID     string          `json:"player_id"`
	Cards        []entities.Card `json:"cards"`
	Value        int             `json:"value"`
	Soft         bool            `json:"soft"`
	State        HandState       `json:"state"`
	Bet          int64           `json:"bet"`
	Insurance    int64           `json:"insurance"`
	IsSplit      bool            `json:"is_split"`
	IsSplitAce   bool            `json:"is_split_ace"`
	SplitCount   int             `json:"split_count"`
	Doubled      bool            `json:"doubled"`
	ParentHandID string          `json:"parent_hand_id,omitempty"`
}

// DealerView is the dealer hand as players may see it. The hole card stays
// hidden until the player turn is over.
type DealerView struct {
	Cards      []entities.Card `json:"cards"`
	Value      int             `json:"value"`
	State      DealerState     `json:"state"`
	HoleHidden bool            `json:"hole_hidden"`
}

// Snapshot is a point-in-time copy of a round
type Snapshot struct {
	Number           int                 `json:"number"`
	State            entities.RoundState `json:"state"`
	CurrentHandIndex int                 `json:"current_hand_index"`
	Dealer           DealerView          `json:"dealer"`
	Hands            []HandView          `json:"hands"`
	LegalActions     rules.ActionSet     `json:"legal_actions"`
	Results          []SettlementResult  `json:"results,omitempty"`
}

// Snapshot copies the round's visible state
func (r *Round) Snapshot() Snapshot {
	snap := Snapshot{
		Number:           r.number,
		State:            r.state,
		CurrentHandIndex: r.current,
		Hands:            make([]HandView, 0, len(r.hands)),
		LegalActions:     r.LegalActions(),
		Results:          append([]SettlementResult(nil), r.results...),
	}

	hidden := r.state == entities.StateInsurance || r.state == entities.StatePlayerTurn
	if hidden {
		up, _ := r.dealer.UpCard()
		snap.Dealer = DealerView{
			Cards:      []entities.Card{up},
			Value:      up.Value(),
			State:      DealerActive,
			HoleHidden: true,
		}
	} else {
		snap.Dealer = DealerView{
			Cards: append([]entities.Card(nil), r.dealer.Cards...),
			Value: r.dealer.Value(),
			State: r.dealer.State,
		}
	}

	for _, hand := range r.hands {
		snap.Hands = append(snap.Hands, HandView{
			ID:           hand.ID,
			PlayerID:     hand.PlayerID,
			Cards:        append([]entities.Card(nil), hand.Cards...),
			Value:        hand.Value(),
			Soft:         hand.IsSoft(),
			State:        hand.State,
			Bet:          hand.Bet(),
			Insurance:    hand.InsuranceAmount(),
			IsSplit:      hand.IsSplit,
			IsSplitAce:   hand.IsSplitAce,
			SplitCount:   hand.SplitCount,
			Doubled:      hand.Doubled,
			ParentHandID: hand.ParentHandID,
		})
	}
	return snap
}
