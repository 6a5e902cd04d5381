// Package ledger provides the in-memory coin accounts the room manager
// settles against. First contact with an identity seeds it with the
// configured grant, so new players can sit down without a faucet step.
package ledger

import (
	"sync"

	"github.com/cardroom/holdem/internal/room"
)

// Book is a concurrency-safe account store.
type Book struct {
	mu    sync.Mutex
	grant int
	coins map[string]int
}

// New creates a book that seeds unseen identities with grant coins.
func New(grant int) *Book {
	return &Book{
		grant: grant,
		coins: make(map[string]int),
	}
}

func (b *Book) account(identity string) int {
	if _, ok := b.coins[identity]; !ok {
		b.coins[identity] = b.grant
	}
	return b.coins[identity]
}

// Balance returns the identity's coin balance.
func (b *Book) Balance(identity string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.account(identity)
}

// Debit removes coins, refusing to overdraw.
func (b *Book) Debit(identity string, amount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.account(identity) < amount {
		return room.ErrInsufficientFunds
	}
	b.coins[identity] -= amount
	return nil
}

// Credit adds coins.
func (b *Book) Credit(identity string, amount int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.coins[identity] = b.account(identity) + amount
}
