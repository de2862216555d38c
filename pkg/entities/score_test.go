package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	testCases := []struct {
		cards string
		total int
		soft  bool
		hard  int
	}{
		{"AS KH", 21, true, 11},
		{"AS AH", 12, true, 2},
		{"AS AH AD", 13, true, 3},
		{"AS 6H", 17, true, 7},
		{"AS 6H 10D", 17, false, 17},
		{"AS AH 9D", 21, true, 11},
		{"KS QH 2D", 22, false, 22},
		{"5S 5H", 10, false, 10},
		{"AS AH AD AC 7S", 21, true, 11},
		{"AS AH AD AC 10S 8S", 22, false, 22},
		{"", 0, false, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.cards, func(t *testing.T) {
			cards := MustParseCards(strings.Fields(tc.cards)...)
			total, soft := Score(cards)
			assert.Equal(t, tc.total, total)
			assert.Equal(t, tc.soft, soft)
			assert.Equal(t, tc.hard, HardScore(cards))

			again, _ := Score(cards)
			assert.Equal(t, total, again, "recomputing must be idempotent")
			assert.GreaterOrEqual(t, total, 0)
		})
	}
}

func TestIsNaturalAndBust(t *testing.T) {
	assert.True(t, IsNatural(MustParseCards("AS", "JD")))
	assert.False(t, IsNatural(MustParseCards("7S", "7D", "7H")))
	assert.True(t, IsBust(MustParseCards("KS", "QD", "5H")))
	assert.False(t, IsBust(MustParseCards("AS", "AD", "KH")))
}
