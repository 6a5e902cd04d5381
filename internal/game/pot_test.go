package game

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/holdem/poker"
)

func testConfig() Config {
	return Config{
		Capacity:      6,
		SmallBlind:    5,
		BigBlind:      10,
		StartingStack: 100,
		Rate:          10,
	}
}

func testRoom(t *testing.T, stacks ...int) *Room {
	t.Helper()
	r := NewRoom("TEST01", testConfig(), rand.New(rand.NewPCG(1, 2)))
	for i, chips := range stacks {
		_, err := r.AddSeat(string(rune('a'+i)), string(rune('A'+i)), chips)
		require.NoError(t, err)
	}
	return r
}

func cards(spec ...string) []poker.Card {
	suits := map[byte]poker.Suit{'s': poker.Spades, 'h': poker.Hearts, 'd': poker.Diamonds, 'c': poker.Clubs}
	ranks := map[byte]poker.Rank{
		'2': poker.Two, '3': poker.Three, '4': poker.Four, '5': poker.Five,
		'6': poker.Six, '7': poker.Seven, '8': poker.Eight, '9': poker.Nine,
		'T': poker.Ten, 'J': poker.Jack, 'Q': poker.Queen, 'K': poker.King, 'A': poker.Ace,
	}
	out := make([]poker.Card, len(spec))
	for i, s := range spec {
		out[i] = poker.Card{Rank: ranks[s[0]], Suit: suits[s[1]]}
	}
	return out
}

func TestBuildPotsSingleLevel(t *testing.T) {
	r := testRoom(t, 100, 100, 100)
	for _, s := range r.Seats {
		s.TotalBet = 10
	}
	pots := r.buildPots()
	require.Len(t, pots, 1)
	assert.Equal(t, 30, pots[0].amount)
	assert.Equal(t, []int{0, 1, 2}, pots[0].eligible)
}

func TestBuildPotsSidePots(t *testing.T) {
	// Three all-ins at 20, 50 and 100 produce a 60 main pot, a 60 side
	// pot and a 50 slice only the deepest stack can win.
	r := testRoom(t, 0, 0, 0)
	r.Seats[0].TotalBet = 20
	r.Seats[1].TotalBet = 50
	r.Seats[2].TotalBet = 100

	pots := r.buildPots()
	require.Len(t, pots, 3)
	assert.Equal(t, 60, pots[0].amount)
	assert.Equal(t, []int{0, 1, 2}, pots[0].eligible)
	assert.Equal(t, 60, pots[1].amount)
	assert.Equal(t, []int{1, 2}, pots[1].eligible)
	assert.Equal(t, 50, pots[2].amount)
	assert.Equal(t, []int{2}, pots[2].eligible)
}

func TestBuildPotsFoldedDeadMoney(t *testing.T) {
	// A folded contribution stays in the pot but the folder is never
	// eligible.
	r := testRoom(t, 0, 0, 0)
	r.Seats[0].TotalBet = 30
	r.Seats[0].Folded = true
	r.Seats[1].TotalBet = 50
	r.Seats[2].TotalBet = 50

	pots := r.buildPots()
	require.Len(t, pots, 2)
	assert.Equal(t, 90, pots[0].amount)
	assert.Equal(t, []int{1, 2}, pots[0].eligible)
	assert.Equal(t, 40, pots[1].amount)
	assert.Equal(t, []int{1, 2}, pots[1].eligible)
}

func TestBuildPotsPartialDeadMoney(t *testing.T) {
	// A folded contribution below the lowest live level is dead money in
	// the main pot.
	r := testRoom(t, 0, 0, 0)
	r.Seats[0].TotalBet = 7
	r.Seats[0].Folded = true
	r.Seats[1].TotalBet = 50
	r.Seats[2].TotalBet = 50

	pots := r.buildPots()
	total := 0
	for _, p := range pots {
		total += p.amount
	}
	assert.Equal(t, 107, total)
}

func TestSettleShowdownWinnerTakesPot(t *testing.T) {
	r := testRoom(t, 0, 0)
	r.Board = cards("As", "Kd", "7h", "7c", "2s")
	r.Seats[0].TotalBet = 50
	r.Seats[0].HoleCards = cards("Ah", "Ad") // aces full of sevens
	r.Seats[1].TotalBet = 50
	r.Seats[1].HoleCards = cards("Kh", "Ks") // kings full of sevens
	r.Pot = 100

	set := r.settleShowdown()
	require.Len(t, set.Awards, 1)
	assert.Equal(t, []string{"a"}, set.Awards[0].Winners)
	assert.Equal(t, 100, set.Awards[0].Payouts["a"])
	assert.Equal(t, 100, r.Seats[0].Chips)
	assert.Equal(t, 0, r.Seats[1].Chips)
	assert.Equal(t, 0, r.Pot)
}

func TestSettleShowdownSplitPot(t *testing.T) {
	// Both hole hands play the board: a true chop.
	r := testRoom(t, 0, 0)
	r.Board = cards("As", "Kd", "Qh", "Jc", "Ts")
	r.Seats[0].TotalBet = 50
	r.Seats[0].HoleCards = cards("2h", "3d")
	r.Seats[1].TotalBet = 50
	r.Seats[1].HoleCards = cards("4h", "5d")
	r.Pot = 100

	set := r.settleShowdown()
	require.Len(t, set.Awards, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, set.Awards[0].Winners)
	assert.Equal(t, 50, r.Seats[0].Chips)
	assert.Equal(t, 50, r.Seats[1].Chips)
}

func TestSettleShowdownOddChipGoesLeftOfButton(t *testing.T) {
	r := testRoom(t, 0, 0, 0)
	r.Dealer = 2 // seat 0 is first after the button
	r.Board = cards("As", "Kd", "Qh", "Jc", "Ts")
	for _, s := range r.Seats {
		s.TotalBet = 33
	}
	r.Seats[0].HoleCards = cards("2h", "3d")
	r.Seats[1].HoleCards = cards("4h", "5d")
	r.Seats[2].HoleCards = cards("6h", "8d")
	r.Pot = 99

	set := r.settleShowdown()
	require.Len(t, set.Awards, 1)
	assert.Equal(t, 34, set.Awards[0].Payouts["a"])
	assert.Equal(t, 33, set.Awards[0].Payouts["b"])
	assert.Equal(t, 32, set.Awards[0].Payouts["c"])
}

func TestSettleShowdownSidePotReturnsExcess(t *testing.T) {
	// Heads-up 50 vs 30: the 20 the deeper stack could not get called
	// comes back regardless of who wins the main pot.
	r := testRoom(t, 0, 0)
	r.Board = cards("2s", "5d", "9h", "Jc", "Kh")
	r.Seats[0].TotalBet = 50
	r.Seats[0].HoleCards = cards("3h", "4d")
	r.Seats[1].TotalBet = 30
	r.Seats[1].HoleCards = cards("Ah", "Ad")
	r.Pot = 80

	set := r.settleShowdown()
	require.Len(t, set.Awards, 2)
	assert.Equal(t, 60, set.Awards[0].Amount)
	assert.Equal(t, []string{"b"}, set.Awards[0].Winners)
	assert.Equal(t, 20, set.Awards[1].Amount)
	assert.Equal(t, []string{"a"}, set.Awards[1].Winners)
	assert.Equal(t, 20, r.Seats[0].Chips)
	assert.Equal(t, 60, r.Seats[1].Chips)
}

func TestSettleEarly(t *testing.T) {
	r := testRoom(t, 0, 0, 0)
	r.Seats[0].Folded = true
	r.Seats[2].Folded = true
	r.Seats[0].TotalBet = 10
	r.Seats[1].TotalBet = 20
	r.Seats[2].TotalBet = 5
	r.Pot = 35

	set := r.settleEarly()
	assert.True(t, set.EarlyWin)
	require.Len(t, set.Awards, 1)
	assert.Equal(t, []string{"b"}, set.Awards[0].Winners)
	assert.Equal(t, 35, r.Seats[1].Chips)
	assert.Equal(t, 0, r.Pot)
}

func TestSettlementPayoutsIndependentOfSeatOrder(t *testing.T) {
	// The same contributions, hands and board pay each identity the same
	// amount no matter how the table happens to be seated.
	type entry struct {
		identity string
		bet      int
		folded   bool
		hole     []poker.Card
	}
	entries := []entry{
		{"a", 30, false, cards("As", "Ad")}, // short all-in, quad aces
		{"b", 50, false, cards("Ks", "Kd")}, // kings full of aces
		{"c", 50, true, cards("Qs", "Qd")},  // folded, pure dead money
		{"d", 50, false, cards("2s", "2d")}, // aces up
	}
	board := cards("Ac", "Ah", "Kc", "7d", "9c")

	settle := func(order []int) map[string]int {
		r := NewRoom("PERM01", testConfig(), rand.New(rand.NewPCG(3, 4)))
		pot := 0
		for _, i := range order {
			e := entries[i]
			_, err := r.AddSeat(e.identity, e.identity, 0)
			require.NoError(t, err)
			seat := r.Seats[len(r.Seats)-1]
			seat.TotalBet = e.bet
			seat.Folded = e.folded
			seat.HoleCards = append([]poker.Card(nil), e.hole...)
			pot += e.bet
		}
		r.Pot = pot
		r.Board = append([]poker.Card(nil), board...)

		// Button on the same identity in every ordering.
		_, idx, err := r.FindSeat("a")
		require.NoError(t, err)
		r.Dealer = idx

		paid := map[string]int{}
		for _, a := range r.settleShowdown().Awards {
			for id, amt := range a.Payouts {
				paid[id] += amt
			}
		}
		return paid
	}

	want := settle([]int{0, 1, 2, 3})
	require.Equal(t, map[string]int{"a": 120, "b": 60}, want)

	for _, p := range [][]int{{1, 0, 3, 2}, {3, 2, 1, 0}, {2, 3, 0, 1}, {1, 3, 0, 2}} {
		assert.Equal(t, want, settle(p), "order %v", p)
	}
}

func TestSettlementConservesChips(t *testing.T) {
	// Random all-in contributions and random hands must always pay out
	// exactly what went in.
	rng := rand.New(rand.NewPCG(7, 7))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.IntN(4)
		stacks := make([]int, n)
		r := testRoom(t, stacks...)
		deck := poker.NewDeck(rng)
		r.Board = deck.DrawN(5)

		pot := 0
		for _, s := range r.Seats {
			s.TotalBet = rng.IntN(200)
			s.HoleCards = deck.DrawN(2)
			if rng.IntN(4) == 0 {
				s.Folded = true
			}
			pot += s.TotalBet
		}
		if r.liveCount() == 0 {
			r.Seats[0].Folded = false
		}
		r.Pot = pot

		set := r.settleShowdown()
		paid := 0
		for _, a := range set.Awards {
			for _, amt := range a.Payouts {
				paid += amt
			}
		}
		assert.Equal(t, pot, paid, "trial %d", trial)
	}
}
