package game

import (
	"sort"

	"github.com/cardroom/holdem/poker"
)

// Award records the outcome of one pot. Winners and payouts are keyed
// by seat identity so the record stays meaningful after seats move.
type Award struct {
	Amount  int            `json:"amount"`
	Winners []string       `json:"winners"`
	Payouts map[string]int `json:"payouts"`
}

// Settlement is the final accounting of a hand.
type Settlement struct {
	Awards   []Award           `json:"awards"`
	EarlyWin bool              `json:"early_win"`
	Board    []poker.Card      `json:"board"`
	Ranks    map[string]string `json:"ranks,omitempty"`
	Best     map[string]string `json:"best,omitempty"`
}

// potLevel is one slice of the pot, cut at a distinct contribution level.
type potLevel struct {
	amount   int
	eligible []int
}

// buildPots slices the total pot at each distinct contribution level.
// Folded seats' chips stay in whichever slices their contribution
// reaches (dead money), but only live seats are eligible to win a slice.
func (r *Room) buildPots() []potLevel {
	levelSet := map[int]bool{}
	for _, s := range r.Seats {
		if s.TotalBet > 0 {
			levelSet[s.TotalBet] = true
		}
	}
	levels := make([]int, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	var pots []potLevel
	prev := 0
	for _, l := range levels {
		p := potLevel{}
		// Every positive contribution is itself a level, so a seat either
		// reaches l in full or contributed nothing past prev.
		for i, s := range r.Seats {
			if s.TotalBet >= l {
				p.amount += l - prev
				if s.Live() {
					p.eligible = append(p.eligible, i)
				}
			}
		}
		pots = append(pots, p)
		prev = l
	}

	if len(pots) > 0 {
		// Chips forfeited by seats that left mid-hand are dead money in
		// the main pot.
		pots[0].amount += r.forfeited
	}

	// A slice whose contributors all folded has nobody to win it; merge
	// it into the nearest slice that does.
	out := pots[:0]
	orphan := 0
	for _, p := range pots {
		if len(p.eligible) == 0 {
			orphan += p.amount
			continue
		}
		p.amount += orphan
		orphan = 0
		out = append(out, p)
	}
	if orphan > 0 && len(out) > 0 {
		out[len(out)-1].amount += orphan
	}
	return out
}

// settleShowdown evaluates every live hand against the board and pays
// out each pot slice to its best eligible hand, splitting ties. Odd
// chips in a split go one at a time to the earliest winners after the
// button.
func (r *Room) settleShowdown() *Settlement {
	set := &Settlement{
		Board: append([]poker.Card(nil), r.Board...),
		Ranks: map[string]string{},
		Best:  map[string]string{},
	}

	ranks := make(map[int]poker.HandRank)
	for i, s := range r.Seats {
		if !s.Live() {
			continue
		}
		rank, best := poker.BestFive(append(append([]poker.Card(nil), s.HoleCards...), r.Board...))
		ranks[i] = rank
		set.Ranks[s.Identity] = rank.String()
		set.Best[s.Identity] = poker.Format(best)
	}

	for _, pot := range r.buildPots() {
		if pot.amount == 0 {
			continue
		}
		var winners []int
		var top poker.HandRank
		for _, i := range pot.eligible {
			switch {
			case len(winners) == 0 || ranks[i] > top:
				winners = []int{i}
				top = ranks[i]
			case ranks[i] == top:
				winners = append(winners, i)
			}
		}
		set.Awards = append(set.Awards, r.payout(pot.amount, winners))
	}

	r.Pot = 0
	return set
}

// settleEarly pays the whole pot to the single remaining live seat.
func (r *Room) settleEarly() *Settlement {
	set := &Settlement{
		EarlyWin: true,
		Board:    append([]poker.Card(nil), r.Board...),
	}
	for i, s := range r.Seats {
		if s.Live() {
			set.Awards = append(set.Awards, r.payout(r.Pot, []int{i}))
			break
		}
	}
	r.Pot = 0
	return set
}

// payout splits amount evenly across the winning seats and credits the
// stacks. Remainder chips go one at a time in table order starting from
// the first seat after the button.
func (r *Room) payout(amount int, winners []int) Award {
	award := Award{
		Amount:  amount,
		Payouts: map[string]int{},
	}
	shares := make(map[int]int, len(winners))
	share := amount / len(winners)
	rem := amount % len(winners)
	for _, w := range winners {
		shares[w] = share
	}
	if rem > 0 {
		order := append([]int(nil), winners...)
		n := len(r.Seats)
		sort.Slice(order, func(a, b int) bool {
			return (order[a]-r.Dealer-1+2*n)%n < (order[b]-r.Dealer-1+2*n)%n
		})
		for i := 0; i < rem; i++ {
			shares[order[i]]++
		}
	}
	for _, w := range winners {
		seat := r.Seats[w]
		seat.Chips += shares[w]
		award.Winners = append(award.Winners, seat.Identity)
		award.Payouts[seat.Identity] = shares[w]
	}
	return award
}
