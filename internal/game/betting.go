package game

import "fmt"

// Action is a betting action requested by a seat.
type Action int

const (
	Check Action = iota
	Bet
	Call
	Raise
	AllIn
	Fold
)

func (a Action) String() string {
	return [...]string{"check", "bet", "call", "raise", "allin", "fold"}[a]
}

// ParseAction maps a wire action name onto an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "check":
		return Check, nil
	case "bet":
		return Bet, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	case "allin", "all-in":
		return AllIn, nil
	case "fold":
		return Fold, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// Apply validates and applies one betting action for the given identity.
// Validation happens before any mutation: on error the room is unchanged.
// A successful action advances the turn and cascades through any settled
// streets, so the returned StepResult may carry dealt stages and a
// settlement.
func (r *Room) Apply(identity string, action Action, amount int) (*StepResult, error) {
	if !r.Stage.Active() {
		return nil, ErrWrongStage
	}
	seat, idx, err := r.FindSeat(identity)
	if err != nil {
		return nil, err
	}
	if r.Acting < 0 || r.Acting != idx {
		return nil, ErrOutOfTurn
	}

	res := &StepResult{Seat: idx, Action: action}

	switch action {
	case Check:
		if seat.RoundBet != r.CurrentBet {
			return nil, ErrIllegalAmount
		}
		seat.Acted = true

	case Bet:
		if r.CurrentBet != 0 {
			return nil, ErrIllegalAmount
		}
		if amount < r.Config.BigBlind || amount > seat.Chips {
			return nil, ErrIllegalAmount
		}
		r.placeBet(idx, amount, true)
		res.Paid = amount

	case Call:
		pay := r.CurrentBet - seat.RoundBet
		if pay > seat.Chips {
			pay = seat.Chips // capped call is an implicit all-in
		}
		if pay > 0 {
			r.placeBet(idx, pay, true)
		} else {
			seat.Acted = true
		}
		res.Paid = pay

	case Raise:
		// amount is the new total for the street; the minimum increment
		// is a flat big blind rather than the size of the previous raise.
		if amount <= r.CurrentBet || amount-r.CurrentBet < r.Config.BigBlind {
			return nil, ErrIllegalAmount
		}
		pay := amount - seat.RoundBet
		if pay > seat.Chips {
			return nil, ErrIllegalAmount
		}
		r.placeBet(idx, pay, true)
		res.Paid = pay

	case AllIn:
		if seat.Chips <= 0 {
			return nil, ErrIllegalAmount
		}
		pay := seat.Chips
		r.placeBet(idx, pay, true)
		res.Paid = pay

	case Fold:
		r.fold(idx)
	}

	r.advanceTurn()
	r.autoAdvance(res)
	return res, nil
}

// placeBet moves chips from a seat into the pot. Blind posts pass
// markActed=false so the poster still gets its option when the action
// comes back around.
func (r *Room) placeBet(idx int, amount int, markActed bool) {
	seat := r.Seats[idx]
	seat.Chips -= amount
	seat.RoundBet += amount
	seat.TotalBet += amount
	r.Pot += amount
	if seat.RoundBet > r.CurrentBet {
		r.CurrentBet = seat.RoundBet
		if markActed {
			r.LastAggressor = idx
		}
	}
	if seat.Chips == 0 {
		seat.AllIn = true
	}
	if markActed {
		seat.Acted = true
	}
}

// fold marks the seat folded and recalculates the bet level: if the
// folder was the only seat at the current maximum, the level drops to
// the remaining maximum so the round can still settle.
func (r *Room) fold(idx int) {
	seat := r.Seats[idx]
	seat.Folded = true
	seat.Acted = true

	max := 0
	for _, s := range r.Seats {
		if s.Live() && s.RoundBet > max {
			max = s.RoundBet
		}
	}
	r.CurrentBet = max
}

// settled reports whether the current betting round is complete: every
// seat that can still act has matched the bet level and acted since it
// last changed.
func (r *Room) settled() bool {
	for _, s := range r.Seats {
		if !s.CanAct() {
			continue
		}
		if s.RoundBet != r.CurrentBet || !s.Acted {
			return false
		}
	}
	return true
}

// advanceTurn moves the acting index to the next seat, or parks it at -1
// when the round has settled.
func (r *Room) advanceTurn() {
	if r.settled() {
		r.Acting = -1
		return
	}
	if r.Acting < 0 {
		r.Acting = r.firstToAct()
		return
	}
	r.Acting = r.nextAfter(r.Acting)
}

// firstToAct returns the opening seat for the current street: preflop it
// is the first seat after the big blind (the dealer in heads-up play),
// post-flop the first seat after the button.
func (r *Room) firstToAct() int {
	if len(r.Seats) == 0 {
		return -1
	}
	after := r.Dealer
	if r.Stage == Preflop {
		for i, s := range r.Seats {
			if s.BigBlind {
				after = i
				break
			}
		}
	}
	return r.nextAfter(after)
}

// nextAfter returns the next seat after idx that can act, or -1
func (r *Room) nextAfter(idx int) int {
	n := len(r.Seats)
	for i := 1; i <= n; i++ {
		next := (idx + i) % n
		if r.Seats[next].CanAct() {
			return next
		}
	}
	return -1
}
