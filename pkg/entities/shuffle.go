package entities

import "math/rand/v2"

// Shuffle permutes cards in place with a uniform Fisher-Yates pass
func Shuffle(cards []Card, r *rand.Rand) {
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Riffle splits cards near the middle and interleaves the two packets,
// dropping one to three cards at a time from a randomly chosen side.
func Riffle(cards []Card, r *rand.Rand) []Card {
	n := len(cards)
	if n < 2 {
		return append([]Card(nil), cards...)
	}

	split := n / 2
	if spread := n / 8; spread > 0 {
		split += r.IntN(2*spread+1) - spread
	}

	left, right := cards[:split], cards[split:]
	out := make([]Card, 0, n)
	for len(left) > 0 || len(right) > 0 {
		fromLeft := len(right) == 0 || (len(left) > 0 && r.IntN(2) == 0)
		drop := 1 + r.IntN(3)
		if fromLeft {
			drop = min(drop, len(left))
			out = append(out, left[:drop]...)
			left = left[drop:]
		} else {
			drop = min(drop, len(right))
			out = append(out, right[:drop]...)
			right = right[drop:]
		}
	}
	return out
}

// Overhand moves small packets from the top of cards onto a new pile, which
// reverses the packet order while keeping each packet intact.
func Overhand(cards []Card, r *rand.Rand) []Card {
	out := make([]Card, 0, len(cards))
	rest := cards
	for len(rest) > 0 {
		size := min(1+r.IntN(8), len(rest))
		packet := rest[:size]
		rest = rest[size:]
		out = append(append(make([]Card, 0, len(out)+size), packet...), out...)
	}
	return out
}

// CutAt moves the first pos cards to the bottom. Positions outside
// [0, len(cards)] are clamped.
func CutAt(cards []Card, pos int) []Card {
	pos = max(0, min(pos, len(cards)))
	out := make([]Card, 0, len(cards))
	out = append(out, cards[pos:]...)
	return append(out, cards[:pos]...)
}
