package entities

import (
	"fmt"
	"strings"
)

// Suit represents a card suit

type Suit string

const (
	Hearts   Suit = "HEARTS"
	Diamonds Suit = "DIAMONDS"
	Clubs    Suit = "CLUBS"
	Spades   Suit = "SPADES"
)

// Suits lists the suits in deck construction order
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Rank represents a card rank

type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Ranks lists the ranks in deck construction order
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

var rankValues = map[Rank]int{
	Ace: 11, Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7,
	Eight: 8, Nine: 9, Ten: 10, Jack: 10, Queen: 10, King: 10,
}

// Value returns the blackjack value of the rank with an Ace counted as 11
func (r Rank) Value() int {
	return rankValues[r]
}

// Valid reports whether r is one of the thirteen ranks
func (r Rank) Valid() bool {
	_, ok := rankValues[r]
	return ok
}

// Card represents a playing card. Cards are values and never change once dealt.

type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card

func NewCard(suit Suit, rank Rank) Card {
	return Card{
		Suit: suit,
		Rank: rank,
	}
}

// Value returns the card's blackjack value with an Ace counted as 11
func (c Card) Value() int {
	return c.Rank.Value()
}

// IsAce reports whether the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsTenValue reports whether the card counts as ten
func (c Card) IsTenValue() bool {
	return c.Rank.Value() == 10
}

// String returns the string representation of the card

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// Short returns the compact form used in fixtures and exported records, e.g. "10H"
func (c Card) Short() string {
	return string(c.Rank) + string(c.Suit)[:1]
}

// ParseCard parses the compact form produced by Short
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}

	rank := Rank(s[:len(s)-1])
	if !rank.Valid() {
		return Card{}, fmt.Errorf("invalid rank in card %q", s)
	}

	var suit Suit
	switch s[len(s)-1] {
	case 'H':
		suit = Hearts
	case 'D':
		suit = Diamonds
	case 'C':
		suit = Clubs
	case 'S':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid suit in card %q", s)
	}

	return NewCard(suit, rank), nil
}

// MustParseCards parses each compact card and panics on the first bad one
func MustParseCards(cards ...string) []Card {
	parsed := make([]Card, 0, len(cards))
	for _, s := range cards {
		c, err := ParseCard(s)
		if err != nil {
			panic(err)
		}
		parsed = append(parsed, c)
	}
	return parsed
}
