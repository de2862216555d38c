package entities

// RoundState is the phase a round is in
type RoundState string

const (
	StateInsurance  RoundState = "INSURANCE"
	StatePlayerTurn RoundState = "PLAYER_TURN"
	StateDealerTurn RoundState = "DEALER_TURN"
	StateSettling   RoundState = "SETTLING"
	StateComplete   RoundState = "COMPLETE"
	StateVoid       RoundState = "VOID"
)

// Outcome represents the result of a settled hand
type Outcome string

const (
	OutcomeWin       Outcome = "WIN"
	OutcomeLose      Outcome = "LOSE"
	OutcomePush      Outcome = "PUSH"
	OutcomeBlackjack Outcome = "BLACKJACK"
	OutcomeSurrender Outcome = "SURRENDER"
	OutcomeCharlie   Outcome = "CHARLIE"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// IsWin returns true if this outcome pays more than the bet back
func (o Outcome) IsWin() bool {
	return o == OutcomeWin || o == OutcomeBlackjack || o == OutcomeCharlie
}
