package game

import (
	"github.com/cardroom/holdem/poker"
)

// Seat is one occupied position in a room.
type Seat struct {
	Identity  string
	Name      string
	Chips     int
	HoleCards []poker.Card

	RoundBet int // contribution on the current street
	TotalBet int // cumulative contribution this hand, feeds the pot levels

	Folded     bool
	AllIn      bool
	Acted      bool // acted at least once this street
	Dealer     bool
	SmallBlind bool
	BigBlind   bool
}

// CanAct reports whether the seat still takes turns this street
func (s *Seat) CanAct() bool {
	return !s.Folded && !s.AllIn && s.Chips > 0
}

// Live reports whether the seat still contends for the pot
func (s *Seat) Live() bool {
	return !s.Folded
}

func (s *Seat) resetForHand() {
	s.HoleCards = nil
	s.RoundBet = 0
	s.TotalBet = 0
	s.Folded = false
	s.AllIn = false
	s.Acted = false
	s.Dealer = false
	s.SmallBlind = false
	s.BigBlind = false
}

func (s *Seat) resetForStreet() {
	s.RoundBet = 0
	s.Acted = false
}
