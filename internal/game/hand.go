package game

import (
	"github.com/cardroom/holdem/poker"
)

// StageChange records one street transition during an action cascade.
type StageChange struct {
	Stage string       `json:"stage"`
	Dealt []poker.Card `json:"dealt,omitempty"`
}

// StepResult describes everything one action caused: the chips paid,
// any streets that were dealt because the action settled the round, and
// the settlement if the hand ended.
type StepResult struct {
	Seat       int           `json:"seat"`
	Action     Action        `json:"-"`
	Paid       int           `json:"paid"`
	Stages     []StageChange `json:"stages,omitempty"`
	Settlement *Settlement   `json:"settlement,omitempty"`
}

// StartHand begins a new hand: rotates the button, posts blinds, deals
// two hole cards per seat and opens preflop betting. When the blinds put
// every seat all-in the hand runs out immediately, so the returned
// StepResult can carry dealt streets and a settlement.
func (r *Room) StartHand() (*StepResult, error) {
	if r.Stage != Waiting {
		return nil, ErrHandInProgress
	}
	playable := 0
	for _, s := range r.Seats {
		if s.Chips > 0 {
			playable++
		}
	}
	if playable < 2 {
		return nil, ErrNotEnoughPlayers
	}

	for _, s := range r.Seats {
		s.resetForHand()
		if s.Chips == 0 {
			s.Folded = true // busted seats sit the hand out
		}
	}
	r.Board = nil
	r.Pot = 0
	r.CurrentBet = 0
	r.LastAggressor = -1

	r.Dealer = r.nextFunded(r.Dealer)
	r.Seats[r.Dealer].Dealer = true

	// Heads-up the dealer posts the small blind, otherwise the two
	// funded seats after the button do.
	var sb, bb int
	if playable == 2 {
		sb = r.Dealer
		bb = r.nextFunded(sb)
	} else {
		sb = r.nextFunded(r.Dealer)
		bb = r.nextFunded(sb)
	}
	r.Seats[sb].SmallBlind = true
	r.Seats[bb].BigBlind = true

	r.Stage = Preflop
	r.placeBet(sb, min(r.Config.SmallBlind, r.Seats[sb].Chips), false)
	r.placeBet(bb, min(r.Config.BigBlind, r.Seats[bb].Chips), false)
	r.LastAggressor = bb

	r.deck = poker.NewDeck(r.rng)
	for _, s := range r.Seats {
		if s.Live() {
			s.HoleCards = r.deck.DrawN(2)
		}
	}

	r.Acting = r.firstToAct()

	// A no-op unless the blinds left nobody able to act, in which case
	// the settled preflop round cascades straight through the runout.
	res := &StepResult{Seat: -1}
	r.autoAdvance(res)
	return res, nil
}

// Advance manually moves a settled round to the next street. Normal play
// never needs it since Apply cascades on its own; it exists for driving
// a hand where every remaining seat is all-in.
func (r *Room) Advance() (*StepResult, error) {
	if !r.Stage.Active() {
		return nil, ErrWrongStage
	}
	if !r.settled() {
		return nil, ErrRoundNotSettled
	}
	res := &StepResult{Seat: -1}
	r.autoAdvance(res)
	return res, nil
}

// autoAdvance drives the hand forward after an action: an early win ends
// the hand immediately, otherwise each settled street deals the next one.
// Streets keep advancing while nobody can act (all-in runout) until the
// river settles into a showdown.
func (r *Room) autoAdvance(res *StepResult) {
	if !r.Stage.Active() {
		return
	}

	if r.liveCount() == 1 {
		res.Settlement = r.settleEarly()
		r.finishHand()
		return
	}

	for r.Stage.Active() && r.settled() {
		if r.Stage == River {
			res.Stages = append(res.Stages, StageChange{Stage: Showdown.String()})
			r.Stage = Showdown
			res.Settlement = r.settleShowdown()
			r.finishHand()
			return
		}

		r.Stage++
		r.CurrentBet = 0
		r.LastAggressor = -1
		for _, s := range r.Seats {
			s.resetForStreet()
		}

		var dealt []poker.Card
		if r.Stage == Flop {
			dealt = r.deck.DrawN(3)
		} else {
			dealt = r.deck.DrawN(1)
		}
		r.Board = append(r.Board, dealt...)
		res.Stages = append(res.Stages, StageChange{Stage: r.Stage.String(), Dealt: dealt})

		r.Acting = r.firstToAct()
	}
}

// nextFunded returns the next seat after idx that has chips to play
func (r *Room) nextFunded(idx int) int {
	n := len(r.Seats)
	for i := 1; i <= n; i++ {
		next := (idx + i) % n
		if r.Seats[next].Chips > 0 {
			return next
		}
	}
	return idx
}

// finishHand returns the room to Waiting with per-hand seat state cleared.
// Stacks and the button stay as they are; the next StartHand rotates the
// button and deals fresh.
func (r *Room) finishHand() {
	r.Stage = Waiting
	r.Board = nil
	r.CurrentBet = 0
	r.forfeited = 0
	r.Acting = -1
	r.LastAggressor = -1
	r.deck = nil
	for _, s := range r.Seats {
		s.RoundBet = 0
		s.TotalBet = 0
		s.Acted = false
	}
}
