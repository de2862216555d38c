package entities

// Score totals cards with every Ace counted as 11, then drops Aces to 1 one at
// a time while the total is over 21. soft reports whether an Ace is still
// counted as 11. The total is recomputed from the cards on every call.
func Score(cards []Card) (total int, soft bool) {
	elevenAces := 0
	for _, card := range cards {
		total += card.Value()
		if card.IsAce() {
			elevenAces++
		}
	}

	for total > 21 && elevenAces > 0 {
		total -= 10
		elevenAces--
	}

	return total, elevenAces > 0
}

// BestScore returns the hand total after ace reduction
func BestScore(cards []Card) int {
	total, _ := Score(cards)
	return total
}

// HardScore returns the total with every Ace counted as 1
func HardScore(cards []Card) int {
	total := 0
	for _, card := range cards {
		if card.IsAce() {
			total++
		} else {
			total += card.Value()
		}
	}
	return total
}

// IsNatural reports a two-card 21
func IsNatural(cards []Card) bool {
	return len(cards) == 2 && BestScore(cards) == 21
}

// IsBust checks if a hand exceeds 21
func IsBust(cards []Card) bool {
	return BestScore(cards) > 21
}
