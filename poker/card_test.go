package poker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardString(t *testing.T) {
	assert.Equal(t, "A♠", NewCard(Ace, Spades).String())
	assert.Equal(t, "T♥", NewCard(Ten, Hearts).String())
	assert.Equal(t, "2♣", NewCard(Two, Clubs).String())
	assert.Equal(t, "Q♦", NewCard(Queen, Diamonds).String())
}

func TestCardColors(t *testing.T) {
	assert.True(t, NewCard(Ace, Hearts).IsRed())
	assert.True(t, NewCard(Ace, Diamonds).IsRed())
	assert.False(t, NewCard(Ace, Spades).IsRed())
	assert.False(t, NewCard(Ace, Clubs).IsRed())
}

func TestCardJSON(t *testing.T) {
	out, err := json.Marshal([]Card{NewCard(Ace, Spades), NewCard(Ten, Hearts)})
	require.NoError(t, err)
	assert.JSONEq(t, `["A♠","T♥"]`, string(out))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "A♠ K♦", Format(hand("As", "Kd")))
}
