package poker

import (
	rand "math/rand/v2"
)

// Deck is a standard 52-card deck. A deck is never reused across hands;
// the hand lifecycle rebuilds and reshuffles one at every deal.
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a shuffled deck drawing randomness from rng
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.Shuffle()
	return d
}

// Shuffle rewinds the deck and applies a Fisher-Yates shuffle
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card
func (d *Deck) Draw() Card {
	c := d.cards[d.next]
	d.next++
	return c
}

// DrawN removes and returns the top n cards
func (d *Deck) DrawN(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = d.Draw()
	}
	return cards
}

// Remaining returns the number of undrawn cards
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
