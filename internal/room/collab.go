package room

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrAlreadyInRoom     = errors.New("already in a room")
	ErrNotInRoom         = errors.New("not in a room")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Ledger is the account store the manager settles buy-ins, refunds and
// chip purchases against. Amounts are in coins, not chips; the room's
// exchange rate converts between the two.
type Ledger interface {
	// Balance returns the identity's coin balance.
	Balance(identity string) int
	// Debit removes coins, failing with ErrInsufficientFunds when the
	// balance does not cover the amount.
	Debit(identity string, amount int) error
	// Credit adds coins.
	Credit(identity string, amount int)
}

// Messenger delivers room events to players. Broadcast reaches everyone
// watching the room, Notify exactly one identity. Implementations must
// not call back into the Manager.
type Messenger interface {
	Broadcast(roomID string, event string, payload any)
	Notify(identity string, event string, payload any)
}
