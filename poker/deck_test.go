package poker

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckHoldsEveryCardOnce(t *testing.T) {
	d := NewDeck(rand.New(rand.NewPCG(1, 1)))
	seen := map[Card]bool{}
	for d.Remaining() > 0 {
		c := d.Draw()
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestDrawNConsumes(t *testing.T) {
	d := NewDeck(rand.New(rand.NewPCG(2, 2)))
	hole := d.DrawN(2)
	require.Len(t, hole, 2)
	assert.Equal(t, 50, d.Remaining())

	board := d.DrawN(5)
	assert.Equal(t, 45, d.Remaining())
	for _, b := range board {
		assert.NotContains(t, hole, b)
	}
}

func TestShuffleIsSeedDeterministic(t *testing.T) {
	a := NewDeck(rand.New(rand.NewPCG(9, 9)))
	b := NewDeck(rand.New(rand.NewPCG(9, 9)))
	assert.Equal(t, a.DrawN(52), b.DrawN(52))

	c := NewDeck(rand.New(rand.NewPCG(10, 9)))
	assert.NotEqual(t, a.cards, c.cards)
}
