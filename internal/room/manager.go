package room

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/internal/randutil"
	"github.com/cardroom/holdem/internal/roomid"
)

// Options configure a Manager.
type Options struct {
	Table      game.Config   // template applied to every new room
	BuyFeePct  int           // surcharge on chip purchases, percent
	SweepAfter time.Duration // how long an empty room survives
	Clock      quartz.Clock
	Seed       func() int64 // per-room deal seeds
}

// Manager owns the live rooms. Every mutation of a room's state is
// funneled through that room's actor goroutine, so the game package
// never needs its own locking; the manager's mutex only guards the
// registry maps.
type Manager struct {
	opts      Options
	ledger    Ledger
	messenger Messenger
	clock     quartz.Clock
	logger    *log.Logger
	ids       *roomid.Generator

	mu       sync.RWMutex
	rooms    map[string]*handle
	byPlayer map[string]*handle
}

type handle struct {
	id         string
	room       *game.Room
	calls      chan call
	done       chan struct{}
	emptySince time.Time // zero while any seat is occupied
}

type call struct {
	fn    func(*game.Room) error
	reply chan error
}

func (h *handle) run() {
	for {
		select {
		case c := <-h.calls:
			c.reply <- c.fn(h.room)
		case <-h.done:
			return
		}
	}
}

// do runs fn on the room's actor goroutine and waits for it.
func (h *handle) do(fn func(*game.Room) error) error {
	reply := make(chan error, 1)
	select {
	case h.calls <- call{fn: fn, reply: reply}:
		return <-reply
	case <-h.done:
		return ErrRoomNotFound
	}
}

// NewManager creates a manager backed by the given ledger and messenger.
func NewManager(ledger Ledger, messenger Messenger, opts Options, logger *log.Logger) *Manager {
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Seed == nil {
		opts.Seed = randutil.Seed
	}
	if opts.SweepAfter <= 0 {
		opts.SweepAfter = 30 * time.Minute
	}
	return &Manager{
		opts:      opts,
		ledger:    ledger,
		messenger: messenger,
		clock:     opts.Clock,
		logger:    logger.WithPrefix("rooms"),
		ids:       roomid.NewGenerator(nil),
		rooms:     make(map[string]*handle),
		byPlayer:  make(map[string]*handle),
	}
}

// buyIn is the coin price of a fresh starting stack.
func (m *Manager) buyIn() int {
	return m.opts.Table.StartingStack * m.opts.Table.Rate
}

// Create opens a new room with the creator seated. The buy-in is
// debited up front.
func (m *Manager) Create(identity, name string) (string, error) {
	m.mu.Lock()
	if _, ok := m.byPlayer[identity]; ok {
		m.mu.Unlock()
		return "", ErrAlreadyInRoom
	}
	if err := m.ledger.Debit(identity, m.buyIn()); err != nil {
		m.mu.Unlock()
		return "", err
	}

	id := m.ids.New()
	for m.rooms[id] != nil {
		id = m.ids.New()
	}

	r := game.NewRoom(id, m.opts.Table, randutil.New(m.opts.Seed()))
	if _, err := r.AddSeat(identity, name, m.opts.Table.StartingStack); err != nil {
		m.ledger.Credit(identity, m.buyIn())
		m.mu.Unlock()
		return "", err
	}

	h := &handle{
		id:    id,
		room:  r,
		calls: make(chan call),
		done:  make(chan struct{}),
	}
	m.rooms[id] = h
	m.byPlayer[identity] = h
	go h.run()
	m.mu.Unlock()

	m.logger.Info("room created", "room", id, "player", identity)
	m.messenger.Broadcast(id, "seat_joined", seatEvent{Player: identity, Name: name})
	return id, nil
}

// Join seats a player in an existing room. Joining is only possible
// between hands; a full room starts the next hand at once.
func (m *Manager) Join(id, identity, name string) error {
	id = roomid.Normalize(id)

	m.mu.Lock()
	h, ok := m.rooms[id]
	if !ok {
		m.mu.Unlock()
		return ErrRoomNotFound
	}
	if _, seated := m.byPlayer[identity]; seated {
		m.mu.Unlock()
		return ErrAlreadyInRoom
	}

	var events []event
	err := h.do(func(r *game.Room) error {
		if r.Stage != game.Waiting {
			return game.ErrHandInProgress
		}
		if len(r.Seats) >= r.Config.Capacity {
			return game.ErrRoomFull
		}
		if err := m.ledger.Debit(identity, m.buyIn()); err != nil {
			return err
		}
		if _, err := r.AddSeat(identity, name, r.Config.StartingStack); err != nil {
			m.ledger.Credit(identity, m.buyIn())
			return err
		}
		events = append(events, broadcast("seat_joined", seatEvent{Player: identity, Name: name}))

		// A full table deals straight away.
		if len(r.Seats) == r.Config.Capacity {
			if res, err := r.StartHand(); err == nil {
				events = append(events, m.dealEvents(r)...)
				events = append(events, m.runoutEvents(r, res)...)
			}
		}
		return nil
	})
	if err != nil {
		m.mu.Unlock()
		return err
	}

	m.byPlayer[identity] = h
	h.emptySince = time.Time{}
	m.mu.Unlock()

	m.logger.Info("player joined", "room", id, "player", identity)
	m.emit(h.id, events)
	return nil
}

// Leave removes a player from their room. Leaving mid-hand folds the
// seat and forfeits its contribution; the remaining stack is cashed out.
func (m *Manager) Leave(identity string) error {
	m.mu.Lock()
	h, ok := m.byPlayer[identity]
	if !ok {
		m.mu.Unlock()
		return ErrNotInRoom
	}

	var events []event
	var refund int
	var empty bool
	err := h.do(func(r *game.Room) error {
		chips, res, err := r.RemoveSeat(identity)
		if err != nil {
			return err
		}
		refund = chips * r.Config.Rate
		events = append(events, broadcast("seat_left", seatEvent{Player: identity}))
		if res != nil && res.Settlement != nil {
			events = append(events, m.settleEvents(r, res)...)
		}
		empty = len(r.Seats) == 0
		return nil
	})
	if err != nil {
		m.mu.Unlock()
		return err
	}

	delete(m.byPlayer, identity)
	if empty {
		h.emptySince = m.clock.Now()
	}
	m.mu.Unlock()

	m.ledger.Credit(identity, refund)
	m.logger.Info("player left", "room", h.id, "player", identity, "refund", refund)
	m.emit(h.id, events)
	return nil
}

// Start deals a new hand in the caller's room.
func (m *Manager) Start(identity string) error {
	h := m.handleFor(identity)
	if h == nil {
		return ErrNotInRoom
	}

	var events []event
	err := h.do(func(r *game.Room) error {
		res, err := r.StartHand()
		if err != nil {
			return err
		}
		events = m.dealEvents(r)
		events = append(events, m.runoutEvents(r, res)...)
		return nil
	})
	if err != nil {
		return err
	}
	m.emit(h.id, events)
	return nil
}

// Act applies a betting action for the caller.
func (m *Manager) Act(identity string, action game.Action, amount int) error {
	h := m.handleFor(identity)
	if h == nil {
		return ErrNotInRoom
	}

	var events []event
	err := h.do(func(r *game.Room) error {
		res, err := r.Apply(identity, action, amount)
		if err != nil {
			return err
		}
		events = append(events, broadcast("action", actionEvent{
			Player: identity,
			Action: action.String(),
			Paid:   res.Paid,
			Stages: res.Stages,
		}))
		if res.Settlement != nil {
			events = append(events, m.settleEvents(r, res)...)
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.emit(h.id, events)
	return nil
}

// Advance pushes a settled all-in round to the next street.
func (m *Manager) Advance(identity string) error {
	h := m.handleFor(identity)
	if h == nil {
		return ErrNotInRoom
	}

	var events []event
	err := h.do(func(r *game.Room) error {
		res, err := r.Advance()
		if err != nil {
			return err
		}
		events = append(events, broadcast("action", actionEvent{
			Action: "advance",
			Stages: res.Stages,
		}))
		if res.Settlement != nil {
			events = append(events, m.settleEvents(r, res)...)
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.emit(h.id, events)
	return nil
}

// BuyChips converts coins into chips between hands. Purchases carry a
// surcharge; top-ups after a lost hand do not.
func (m *Manager) BuyChips(identity string, chips int) error {
	h := m.handleFor(identity)
	if h == nil {
		return ErrNotInRoom
	}
	if chips <= 0 {
		return game.ErrIllegalAmount
	}

	var events []event
	err := h.do(func(r *game.Room) error {
		if r.Stage != game.Waiting {
			return game.ErrHandInProgress
		}
		seat, _, err := r.FindSeat(identity)
		if err != nil {
			return err
		}
		cost := chips * r.Config.Rate
		cost += cost * m.opts.BuyFeePct / 100
		if err := m.ledger.Debit(identity, cost); err != nil {
			return err
		}
		seat.Chips += chips
		events = append(events, notify(identity, "chips_bought", chipsEvent{Chips: chips, Cost: cost}))
		return nil
	})
	if err != nil {
		return err
	}
	m.emit(h.id, events)
	return nil
}

// Snapshot returns the caller's view of their room.
func (m *Manager) Snapshot(identity string) (game.Snapshot, error) {
	h := m.handleFor(identity)
	if h == nil {
		return game.Snapshot{}, ErrNotInRoom
	}

	var snap game.Snapshot
	err := h.do(func(r *game.Room) error {
		snap = r.Snapshot(identity)
		return nil
	})
	return snap, err
}

// Info is the lobby view of one room.
type Info struct {
	ID       string `json:"id"`
	Players  int    `json:"players"`
	Capacity int    `json:"capacity"`
	Stage    string `json:"stage"`
}

// List returns the lobby view of every room.
func (m *Manager) List() []Info {
	m.mu.RLock()
	handles := make([]*handle, 0, len(m.rooms))
	for _, h := range m.rooms {
		handles = append(handles, h)
	}
	m.mu.RUnlock()

	infos := make([]Info, 0, len(handles))
	for _, h := range handles {
		var info Info
		if err := h.do(func(r *game.Room) error {
			info = Info{ID: r.ID, Players: len(r.Seats), Capacity: r.Config.Capacity, Stage: r.Stage.String()}
			return nil
		}); err != nil {
			continue
		}
		infos = append(infos, info)
	}
	return infos
}

// handleFor resolves the room a player is seated in.
func (m *Manager) handleFor(identity string) *handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byPlayer[identity]
}

// Sweep closes rooms that have sat empty past the configured lifetime.
// It blocks until ctx is cancelled.
func (m *Manager) Sweep(ctx context.Context) error {
	ticker := m.clock.TickerFunc(ctx, time.Minute, func() error {
		m.sweepOnce()
		return nil
	}, "room-sweep")
	return ticker.Wait()
}

func (m *Manager) sweepOnce() {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, h := range m.rooms {
		if h.emptySince.IsZero() || now.Sub(h.emptySince) < m.opts.SweepAfter {
			continue
		}
		close(h.done)
		delete(m.rooms, id)
		m.logger.Info("swept empty room", "room", id, "idle", now.Sub(h.emptySince))
	}
}
