package game

import (
	rand "math/rand/v2"

	"github.com/cardroom/holdem/poker"
)

// Stage is the hand lifecycle state of a room. Waiting and Showdown are
// the only stages in which betting actions are rejected.
type Stage int

const (
	Waiting Stage = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

func (s Stage) String() string {
	return [...]string{"waiting", "preflop", "flop", "turn", "river", "showdown"}[s]
}

// Active reports whether the stage accepts betting actions
func (s Stage) Active() bool {
	return s >= Preflop && s <= River
}

// Config carries the per-room table parameters.
type Config struct {
	Capacity      int
	SmallBlind    int
	BigBlind      int
	StartingStack int
	Rate          int // coins per chip
}

// Room holds all mutable state for one table. It is not safe for
// concurrent use; the room manager serializes access through one actor
// goroutine per room.
type Room struct {
	ID     string
	Config Config

	Seats []*Seat
	Board []poker.Card
	Stage Stage

	Pot        int
	CurrentBet int
	forfeited  int // contributions of seats that left mid-hand

	Dealer        int // button index, rotates each hand
	Acting        int // index of seat to act, -1 when the round is settled
	LastAggressor int

	deck *poker.Deck
	rng  *rand.Rand
}

// NewRoom creates an empty room in the Waiting stage
func NewRoom(id string, cfg Config, rng *rand.Rand) *Room {
	return &Room{
		ID:            id,
		Config:        cfg,
		Stage:         Waiting,
		Dealer:        -1,
		Acting:        -1,
		LastAggressor: -1,
		rng:           rng,
	}
}

// AddSeat seats a new player with the given stack
func (r *Room) AddSeat(identity, name string, chips int) (int, error) {
	if len(r.Seats) >= r.Config.Capacity {
		return -1, ErrRoomFull
	}
	if _, _, err := r.FindSeat(identity); err == nil {
		return -1, ErrAlreadySeated
	}
	r.Seats = append(r.Seats, &Seat{Identity: identity, Name: name, Chips: chips})
	return len(r.Seats) - 1, nil
}

// FindSeat resolves an identity to its seat. Seat counts are small, a
// linear scan is fine; centralising it keeps the not-seated error in one place.
func (r *Room) FindSeat(identity string) (*Seat, int, error) {
	for i, s := range r.Seats {
		if s.Identity == identity {
			return s, i, nil
		}
	}
	return nil, -1, ErrNotSeated
}

// RemoveSeat removes a player from the room. Leaving mid-hand folds the
// seat first: contributed chips stay in the pot, the remaining stack is
// refunded. The returned StepResult carries any cascade the implicit
// fold caused (early win, settlement).
func (r *Room) RemoveSeat(identity string) (int, *StepResult, error) {
	seat, idx, err := r.FindSeat(identity)
	if err != nil {
		return 0, nil, err
	}

	res := &StepResult{Seat: -1, Action: Fold}
	if r.Stage.Active() && !seat.Folded {
		r.fold(idx)
		if r.Acting == idx {
			r.advanceTurn()
		}
		r.autoAdvance(res)
	}

	refund := seat.Chips
	if r.Stage.Active() {
		// The pot keeps what the leaver put in; without the seat the
		// contribution has to be carried separately.
		r.forfeited += seat.TotalBet
	}
	r.Seats = append(r.Seats[:idx], r.Seats[idx+1:]...)

	// Shift indices that pointed past the removed seat
	if r.Dealer >= idx {
		r.Dealer--
	}
	if r.Acting > idx {
		r.Acting--
	} else if r.Acting == idx {
		r.Acting = -1
	}
	if r.LastAggressor > idx {
		r.LastAggressor--
	} else if r.LastAggressor == idx {
		r.LastAggressor = -1
	}

	return refund, res, nil
}

// liveCount returns the number of seats still contending for the pot
func (r *Room) liveCount() int {
	n := 0
	for _, s := range r.Seats {
		if s.Live() {
			n++
		}
	}
	return n
}

// SeatState is the public view of one seat.
type SeatState struct {
	Identity   string       `json:"identity"`
	Name       string       `json:"name"`
	Chips      int          `json:"chips"`
	RoundBet   int          `json:"round_bet"`
	TotalBet   int          `json:"total_bet"`
	Folded     bool         `json:"folded"`
	AllIn      bool         `json:"all_in"`
	Dealer     bool         `json:"dealer"`
	SmallBlind bool         `json:"small_blind"`
	BigBlind   bool         `json:"big_blind"`
	HoleCards  []poker.Card `json:"hole_cards,omitempty"`
}

// Snapshot is a point-in-time copy of the room's public state. Hole
// cards are included only for the viewer's own seat.
type Snapshot struct {
	ID         string      `json:"id"`
	Stage      string      `json:"stage"`
	Pot        int         `json:"pot"`
	CurrentBet int         `json:"current_bet"`
	Board      []poker.Card `json:"board"`
	Dealer     int         `json:"dealer"`
	Acting     int         `json:"acting"`
	SmallBlind int         `json:"small_blind"`
	BigBlind   int         `json:"big_blind"`
	Rate       int         `json:"rate"`
	Seats      []SeatState `json:"seats"`
}

// Snapshot captures the room state as seen by viewer
func (r *Room) Snapshot(viewer string) Snapshot {
	snap := Snapshot{
		ID:         r.ID,
		Stage:      r.Stage.String(),
		Pot:        r.Pot,
		CurrentBet: r.CurrentBet,
		Board:      append([]poker.Card(nil), r.Board...),
		Dealer:     r.Dealer,
		Acting:     r.Acting,
		SmallBlind: r.Config.SmallBlind,
		BigBlind:   r.Config.BigBlind,
		Rate:       r.Config.Rate,
	}
	for _, s := range r.Seats {
		state := SeatState{
			Identity:   s.Identity,
			Name:       s.Name,
			Chips:      s.Chips,
			RoundBet:   s.RoundBet,
			TotalBet:   s.TotalBet,
			Folded:     s.Folded,
			AllIn:      s.AllIn,
			Dealer:     s.Dealer,
			SmallBlind: s.SmallBlind,
			BigBlind:   s.BigBlind,
		}
		if s.Identity == viewer {
			state.HoleCards = append([]poker.Card(nil), s.HoleCards...)
		}
		snap.Seats = append(snap.Seats, state)
	}
	return snap
}
