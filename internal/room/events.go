package room

import (
	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/poker"
)

// event is a deferred messenger call. Actor closures collect events
// while they hold the room; the manager delivers them afterwards so the
// messenger never runs inside a room's critical section.
type event struct {
	target  string // empty for broadcasts
	name    string
	payload any
}

func broadcast(name string, payload any) event {
	return event{name: name, payload: payload}
}

func notify(target, name string, payload any) event {
	return event{target: target, name: name, payload: payload}
}

func (m *Manager) emit(roomID string, events []event) {
	for _, e := range events {
		if e.target == "" {
			m.messenger.Broadcast(roomID, e.name, e.payload)
		} else {
			m.messenger.Notify(e.target, e.name, e.payload)
		}
	}
}

type seatEvent struct {
	Player string `json:"player"`
	Name   string `json:"name,omitempty"`
}

type actionEvent struct {
	Player string             `json:"player,omitempty"`
	Action string             `json:"action"`
	Paid   int                `json:"paid,omitempty"`
	Stages []game.StageChange `json:"stages,omitempty"`
}

type chipsEvent struct {
	Chips int `json:"chips"`
	Cost  int `json:"cost"`
}

type handStartedEvent struct {
	Dealer int `json:"dealer"`
	Acting int `json:"acting"`
	Pot    int `json:"pot"`
}

type holeCardsEvent struct {
	Cards []poker.Card `json:"cards"`
}

// dealEvents announces a fresh hand and whispers each live seat its
// hole cards.
func (m *Manager) dealEvents(r *game.Room) []event {
	events := []event{
		broadcast("hand_started", handStartedEvent{Dealer: r.Dealer, Acting: r.Acting, Pot: r.Pot}),
	}
	for _, s := range r.Seats {
		if s.Live() {
			events = append(events, notify(s.Identity, "hole_cards", holeCardsEvent{
				Cards: append([]poker.Card(nil), s.HoleCards...),
			}))
		}
	}
	return events
}

// runoutEvents reports streets dealt without any player action, which
// happens when the blind posts leave every seat all-in.
func (m *Manager) runoutEvents(r *game.Room, res *game.StepResult) []event {
	var events []event
	if len(res.Stages) > 0 {
		events = append(events, broadcast("action", actionEvent{Action: "advance", Stages: res.Stages}))
	}
	if res.Settlement != nil {
		events = append(events, m.settleEvents(r, res)...)
	}
	return events
}

// settleEvents announces the settlement and tops stacks back up to the
// starting stack, debiting each player's coin balance for what it can
// cover.
func (m *Manager) settleEvents(r *game.Room, res *game.StepResult) []event {
	events := []event{broadcast("settlement", res.Settlement)}
	events = append(events, m.refill(r)...)
	return events
}

func (m *Manager) refill(r *game.Room) []event {
	var events []event
	for _, s := range r.Seats {
		need := r.Config.StartingStack - s.Chips
		if need <= 0 {
			continue
		}
		cost := need * r.Config.Rate
		if bal := m.ledger.Balance(s.Identity); bal < cost {
			need = bal / r.Config.Rate
			cost = need * r.Config.Rate
		}
		if need <= 0 {
			continue
		}
		if err := m.ledger.Debit(s.Identity, cost); err != nil {
			continue
		}
		s.Chips += need
		events = append(events, notify(s.Identity, "chips_refilled", chipsEvent{Chips: need, Cost: cost}))
	}
	return events
}
