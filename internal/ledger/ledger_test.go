package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/holdem/internal/room"
)

func TestNewIdentityGetsGrant(t *testing.T) {
	b := New(5000)
	assert.Equal(t, 5000, b.Balance("alice"))
}

func TestDebitAndCredit(t *testing.T) {
	b := New(1000)
	require.NoError(t, b.Debit("alice", 400))
	assert.Equal(t, 600, b.Balance("alice"))

	b.Credit("alice", 100)
	assert.Equal(t, 700, b.Balance("alice"))
}

func TestDebitRefusesOverdraw(t *testing.T) {
	b := New(100)
	err := b.Debit("alice", 101)
	assert.ErrorIs(t, err, room.ErrInsufficientFunds)
	assert.Equal(t, 100, b.Balance("alice"), "failed debit leaves the balance alone")
}

func TestConcurrentCredits(t *testing.T) {
	b := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Credit("alice", 1)
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, b.Balance("alice"))
}
