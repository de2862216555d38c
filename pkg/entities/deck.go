package entities

import (
	"math/rand/v2"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

type Deck struct {
	Cards []Card
}

// NewDeck creates a new deck of 52 cards, one of each rank and suit
func NewDeck() *Deck {
	cards := make([]Card, 0, 52)

	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(suit, rank))
		}
	}

	return &Deck{Cards: cards}
}

// NewRand returns a *rand.Rand seeded deterministically from seed
func NewRand(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Shuffle performs a uniform Fisher-Yates pass over the deck
func (d *Deck) Shuffle(r *rand.Rand) {
	Shuffle(d.Cards, r)
}

// Draw removes and returns the top card from the deck
func (d *Deck) Draw() (Card, bool) {
	if len(d.Cards) == 0 {
		return Card{}, false
	}
	card := d.Cards[0]
	d.Cards = d.Cards[1:]
	return card, true
}

// Len returns the number of cards left in the deck
func (d *Deck) Len() int {
	return len(d.Cards)
}
