package deck

import (
	"holdem-engine/internal/rng"
	"testing"

	"github.com/stretchr/testify/assert"
)

// identity never swaps, leaving the deck in its built order
type identity struct{}

func (identity) Intn(n int) int {
	return n - 1
}

func TestNewDeck(t *testing.T) {
	deck := New()

	assert.Equal(t, 52, deck.CardsLeft())
	assert.Equal(t, Card{Rank: 2, Suit: Clubs}, *deck.Cards[0])
	assert.Equal(t, Card{Rank: 14, Suit: Spades}, *deck.Cards[51])
	assert.Equal(t, "79441517e1184e0e3c37383d2f7bc54996872dd8", deck.HashCode())
}

func TestNewShuffled(t *testing.T) {
	a := assert.New(t)

	a.Equal(New().HashCode(), NewShuffled(identity{}).HashCode())

	d1 := NewShuffled(rng.NewSeeded(1))
	d2 := NewShuffled(rng.NewSeeded(1))
	d3 := NewShuffled(rng.NewSeeded(2))
	a.Equal(d1.HashCode(), d2.HashCode())
	a.NotEqual(d1.HashCode(), d3.HashCode())
	a.NotEqual(New().HashCode(), d1.HashCode())

	// every card appears exactly once
	seen := make(map[Card]bool)
	for _, card := range d3.Cards {
		a.True(card.IsValid(), card.String())
		a.False(seen[*card], "duplicate %s", card)
		seen[*card] = true
	}
	a.Equal(52, len(seen))
}

func TestDeck_Shuffle(t *testing.T) {
	a := assert.New(t)

	d := NewShuffled(rng.NewSeeded(7))
	_, _ = d.DrawN(10)
	a.Equal(42, d.CardsLeft())

	d.Shuffle(rng.NewSeeded(7))
	a.Equal(52, d.CardsLeft())
	a.Equal(NewShuffled(rng.NewSeeded(7)).HashCode(), d.HashCode())
}

func TestDeck_Draw(t *testing.T) {
	deck := New()

	assert.True(t, deck.CanDraw(52))
	assert.False(t, deck.CanDraw(53))

	for i := 0; i < 52; i++ {
		card, err := deck.Draw()
		assert.NotNil(t, card)
		assert.NoError(t, err)
	}

	assert.False(t, deck.CanDraw(1))

	card, err := deck.Draw()
	assert.Nil(t, card)
	assert.Equal(t, ErrEndOfDeck, err)
}

func TestDeck_DrawN(t *testing.T) {
	a := assert.New(t)

	deck := New()
	cards, err := deck.DrawN(3)
	a.NoError(err)
	a.Equal("2c,3c,4c", CardsToString(cards))
	a.Equal(49, deck.CardsLeft())

	cards, err = deck.DrawN(0)
	a.NoError(err)
	a.Empty(cards)

	cards, err = deck.DrawN(47)
	a.NoError(err)
	a.Len(cards, 47)

	// not enough cards, the deck is untouched
	cards, err = deck.DrawN(3)
	a.ErrorIs(err, ErrEndOfDeck)
	a.Nil(cards)
	a.Equal(2, deck.CardsLeft())

	_, err = deck.DrawN(-1)
	a.ErrorIs(err, ErrEndOfDeck)
	a.Equal(2, deck.CardsLeft())
}
