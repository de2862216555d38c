package rules

import "math"

// The house edge is a table-driven heuristic: a baseline for six decks, S17,
// peek, double any two, DAS, three splits, no surrender and 3:2, plus a fixed
// percentage delta for each deviation. Deltas are additive and ignore rule
// interactions, so the result is an estimate and not an exact expected value.
const baselineHouseEdge = 0.40

var deckEdge = map[int]float64{
	1: -0.48,
	2: -0.19,
	3: -0.10,
	4: -0.06,
	5: -0.03,
	6: 0,
	7: 0.01,
	8: 0.02,
}

var doubleRestrictionEdge = map[DoubleRestriction]float64{
	DoubleAny:          0,
	DoubleNineToEleven: 0.09,
	DoubleTenToEleven:  0.18,
	DoubleElevenOnly:   0.78,
}

var maxSplitEdge = map[int]float64{
	0: 0.57,
	1: 0.10,
	2: 0.03,
	3: 0,
}

var charlieEdge = map[int]float64{
	3: -6.00,
	4: -3.10,
	5: -1.46,
	6: -0.16,
	7: -0.01,
}

var tieEdge = map[TieOutcome]float64{
	TiePush: 0,
	TieWin:  -0.21,
	TieLose: 0.21,
}

const (
	hitSoft17Edge      = 0.22
	noPeekEdge         = 0.11
	noDoubleSplitEdge  = 0.14
	resplitAcesEdge    = -0.08
	hitSplitAcesEdge   = -0.19
	lateSurrenderEdge  = -0.08
	earlySurrenderEdge = -0.63
	dealer22PushEdge   = 6.91
	manySplitsEdge     = -0.01
	manyDecksEdge      = 0.03

	// Player naturals that are not matched by the dealer, in percent of hands.
	// Each unit of payout ratio below 3:2 costs this much.
	naturalFrequency = 4.53
)

// EstimateHouseEdge returns the heuristic house edge in percent, rounded to
// two decimal places. Negative values mean the player has the advantage.
func EstimateHouseEdge(r *CompleteRuleSet) float64 {
	edge := baselineHouseEdge

	if delta, ok := deckEdge[r.Decks]; ok {
		edge += delta
	} else if r.Decks > 8 {
		edge += manyDecksEdge
	}

	if r.DealerRule == HitSoft17 {
		edge += hitSoft17Edge
	}
	if !r.DealerPeek {
		edge += noPeekEdge
	}
	if !r.DoubleAfterSplit {
		edge += noDoubleSplitEdge
	}
	edge += doubleRestrictionEdge[r.DoubleRestriction]

	if delta, ok := maxSplitEdge[r.MaxSplits]; ok {
		edge += delta
	} else {
		edge += manySplitsEdge
	}
	if r.ResplitAces && r.MaxSplits > 1 {
		edge += resplitAcesEdge
	}
	if r.HitSplitAces && r.MaxSplits > 0 {
		edge += hitSplitAcesEdge
	}

	switch {
	case r.EarlySurrender:
		edge += earlySurrenderEdge
	case r.LateSurrender:
		edge += lateSurrenderEdge
	}

	edge += (1.5 - r.BlackjackPayout.Float()) * naturalFrequency

	if r.CharlieEnabled() {
		edge += charlieEdge[r.CharlieCards]
	}
	if r.Dealer22Push {
		edge += dealer22PushEdge
	}
	edge += tieEdge[r.BlackjackTie]

	return math.Round(edge*100) / 100
}
