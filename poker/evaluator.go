package poker

import (
	"math/bits"
	"sort"
)

// HandRank is a totally ordered strength key for a 5-card hand. The high
// nibble holds the category and the remaining bits hold the rank
// tiebreakers in descending significance, so integer comparison is exactly
// the lexicographic (category, tiebreakers...) ordering.
type HandRank uint32

const (
	HighCard HandRank = iota << 28
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// Category returns the category portion of the rank
func (hr HandRank) Category() HandRank {
	return hr & 0xF0000000
}

// String returns a human-readable hand description
func (hr HandRank) String() string {
	switch hr.Category() {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		if hr == StraightFlush|HandRank(Ace-Two) {
			return "Royal Flush"
		}
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Compare compares two ranks and returns 1 if a wins, -1 if b wins, 0 for a tie
func Compare(a, b HandRank) int {
	if a > b {
		return 1
	} else if a < b {
		return -1
	}
	return 0
}

// Evaluate5 ranks exactly five cards. It is a pure function and never
// fails on well-formed input.
func Evaluate5(cards []Card) HandRank {
	var counts [13]uint8
	var rankMask uint16
	flush := true
	for i, c := range cards {
		r := uint8(c.Rank - Two)
		counts[r]++
		rankMask |= 1 << r
		if i > 0 && c.Suit != cards[0].Suit {
			flush = false
		}
	}

	straightHigh := straightHigh(rankMask)

	if flush && straightHigh > 0 {
		return StraightFlush | HandRank(straightHigh)
	}

	if quad := findCount(counts, 4); quad >= 0 {
		kicker := topKicker(rankMask, 1<<uint(quad))
		return FourOfAKind | HandRank(quad)<<4 | HandRank(kicker)
	}

	trips := findCount(counts, 3)
	if trips >= 0 {
		if pair := findCountExcept(counts, 2, uint8(trips)); pair >= 0 {
			return FullHouse | HandRank(trips)<<4 | HandRank(pair)
		}
	}

	if flush {
		return Flush | HandRank(rankMask)
	}

	if straightHigh > 0 {
		return Straight | HandRank(straightHigh)
	}

	if trips >= 0 {
		kickers := rankMask &^ (1 << uint(trips))
		return ThreeOfAKind | HandRank(trips)<<13 | HandRank(kickers)
	}

	if pair1 := findCount(counts, 2); pair1 >= 0 {
		if pair2 := findCountExcept(counts, 2, uint8(pair1)); pair2 >= 0 {
			high, low := pair1, pair2
			if low > high {
				high, low = low, high
			}
			kicker := topKicker(rankMask, 1<<uint(high)|1<<uint(low))
			return TwoPair | HandRank(high)<<8 | HandRank(low)<<4 | HandRank(kicker)
		}
		kickers := rankMask &^ (1 << uint(pair1))
		return Pair | HandRank(pair1)<<13 | HandRank(kickers)
	}

	return HighCard | HandRank(rankMask)
}

// BestFive selects the strongest 5-card combination from five or more
// cards (seven at showdown: two hole cards plus the board). It returns
// the winning rank and the combination itself, sorted by descending rank.
func BestFive(cards []Card) (HandRank, []Card) {
	n := len(cards)
	if n == 5 {
		best := make([]Card, 5)
		copy(best, cards)
		sortDesc(best)
		return Evaluate5(cards), best
	}

	var bestRank HandRank
	var bestCombo []Card
	combo := make([]Card, 5)
	idx := [5]int{0, 1, 2, 3, 4}

	for {
		for i, ci := range idx {
			combo[i] = cards[ci]
		}
		if rank := Evaluate5(combo); bestCombo == nil || rank > bestRank {
			bestRank = rank
			bestCombo = append(bestCombo[:0], combo...)
		}

		// Advance to the next 5-combination in lexicographic index order
		i := 4
		for i >= 0 && idx[i] == n-5+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < 5; j++ {
			idx[j] = idx[j-1] + 1
		}
	}

	sortDesc(bestCombo)
	return bestRank, bestCombo
}

// straightHigh returns the 0-based high rank of a straight in the mask,
// or 0 when there is none. The wheel (A-5-4-3-2) reports 3, a 5-high straight.
func straightHigh(rankMask uint16) uint8 {
	const wheel = 0x100F // Ace plus 2-3-4-5

	if rankMask&wheel == wheel {
		return 3
	}

	seq := rankMask & (rankMask >> 1) & (rankMask >> 2) & (rankMask >> 3) & (rankMask >> 4)
	if seq == 0 {
		return 0
	}
	return uint8(bits.Len16(seq)-1) + 4
}

// findCount finds the highest rank appearing exactly n times
func findCount(counts [13]uint8, n uint8) int {
	for rank := 12; rank >= 0; rank-- {
		if counts[rank] == n {
			return rank
		}
	}
	return -1
}

// findCountExcept finds the highest rank appearing at least n times, excluding one rank
func findCountExcept(counts [13]uint8, n uint8, except uint8) int {
	for rank := 12; rank >= 0; rank-- {
		if uint8(rank) != except && counts[rank] >= n {
			return rank
		}
	}
	return -1
}

// topKicker returns the highest set rank outside the used mask
func topKicker(rankMask, used uint16) uint8 {
	available := rankMask &^ used
	if available == 0 {
		return 0
	}
	return uint8(bits.Len16(available) - 1)
}

func sortDesc(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Rank != cards[j].Rank {
			return cards[i].Rank > cards[j].Rank
		}
		return cards[i].Suit < cards[j].Suit
	})
}
