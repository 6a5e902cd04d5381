package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustStart begins a hand and returns the indices of the small blind,
// big blind and first seat to act.
func mustStart(t *testing.T, r *Room) (sb, bb, first int) {
	t.Helper()
	_, err := r.StartHand()
	require.NoError(t, err)
	for i, s := range r.Seats {
		if s.SmallBlind {
			sb = i
		}
		if s.BigBlind {
			bb = i
		}
	}
	return sb, bb, r.Acting
}

func act(t *testing.T, r *Room, idx int, a Action, amount int) *StepResult {
	t.Helper()
	res, err := r.Apply(r.Seats[idx].Identity, a, amount)
	require.NoError(t, err)
	return res
}

func TestBlindsAndOpeningOrder(t *testing.T) {
	r := testRoom(t, 100, 100, 100)
	sb, bb, first := mustStart(t, r)

	assert.Equal(t, 0, r.Dealer)
	assert.Equal(t, 1, sb)
	assert.Equal(t, 2, bb)
	assert.Equal(t, 0, first, "dealer opens preflop at three seats")
	assert.Equal(t, 15, r.Pot)
	assert.Equal(t, 10, r.CurrentBet)
	assert.Equal(t, 95, r.Seats[sb].Chips)
	assert.Equal(t, 90, r.Seats[bb].Chips)
	for _, s := range r.Seats {
		assert.Len(t, s.HoleCards, 2)
	}
}

func TestHeadsUpDealerPostsSmallBlindAndOpens(t *testing.T) {
	r := testRoom(t, 100, 100)
	sb, bb, first := mustStart(t, r)

	assert.Equal(t, r.Dealer, sb)
	assert.NotEqual(t, sb, bb)
	assert.Equal(t, r.Dealer, first)
}

func TestOutOfTurnRejected(t *testing.T) {
	r := testRoom(t, 100, 100, 100)
	mustStart(t, r)

	_, err := r.Apply(r.Seats[1].Identity, Call, 0)
	assert.ErrorIs(t, err, ErrOutOfTurn)
	assert.Equal(t, 15, r.Pot, "rejected action must not change state")
}

func TestActionsRejectedOutsideHand(t *testing.T) {
	r := testRoom(t, 100, 100)
	_, err := r.Apply("a", Check, 0)
	assert.ErrorIs(t, err, ErrWrongStage)
}

func TestCheckBehindOutstandingBetRejected(t *testing.T) {
	r := testRoom(t, 100, 100, 100)
	mustStart(t, r)

	_, err := r.Apply(r.Seats[0].Identity, Check, 0)
	assert.ErrorIs(t, err, ErrIllegalAmount)
}

func TestBetRules(t *testing.T) {
	r := testRoom(t, 100, 100, 100)
	mustStart(t, r)
	act(t, r, 0, Call, 0)
	act(t, r, 1, Call, 0)
	act(t, r, 2, Check, 0)
	require.Equal(t, Flop, r.Stage)

	// Flop opens on the seat after the button with no outstanding bet.
	require.Equal(t, 1, r.Acting)
	_, err := r.Apply(r.Seats[1].Identity, Bet, 5)
	assert.ErrorIs(t, err, ErrIllegalAmount, "below the big blind")
	_, err = r.Apply(r.Seats[1].Identity, Bet, 500)
	assert.ErrorIs(t, err, ErrIllegalAmount, "beyond the stack")

	res := act(t, r, 1, Bet, 20)
	assert.Equal(t, 20, res.Paid)
	assert.Equal(t, 20, r.CurrentBet)
	assert.Equal(t, 1, r.LastAggressor)

	_, err = r.Apply(r.Seats[2].Identity, Bet, 20)
	assert.ErrorIs(t, err, ErrIllegalAmount, "no bet once one is outstanding")
}

func TestRaiseMinimumIsBigBlind(t *testing.T) {
	r := testRoom(t, 100, 100, 100)
	mustStart(t, r)

	_, err := r.Apply(r.Seats[0].Identity, Raise, 15)
	assert.ErrorIs(t, err, ErrIllegalAmount, "raise must clear the level by a big blind")

	res := act(t, r, 0, Raise, 20)
	assert.Equal(t, 20, res.Paid)
	assert.Equal(t, 20, r.CurrentBet)
	assert.Equal(t, 0, r.LastAggressor)

	// The small blind's raise amount is a street total, not an increment.
	res = act(t, r, 1, Raise, 30)
	assert.Equal(t, 25, res.Paid)
	assert.Equal(t, 30, r.CurrentBet)
}

func TestCallCappedByStackIsAllIn(t *testing.T) {
	r := testRoom(t, 200, 100, 30)
	mustStart(t, r)

	act(t, r, 0, Raise, 60)
	res := act(t, r, 1, Call, 0)
	assert.Equal(t, 55, res.Paid)

	res = act(t, r, 2, Call, 0)
	assert.Equal(t, 20, res.Paid, "short stack calls for what it has")
	assert.True(t, r.Seats[2].AllIn)
	assert.Equal(t, Flop, r.Stage, "capped call settles the street")
	assert.Equal(t, 150, r.Pot)
}

func TestBigBlindHasOption(t *testing.T) {
	r := testRoom(t, 100, 100, 100)
	_, bb, _ := mustStart(t, r)

	act(t, r, 0, Call, 0)
	act(t, r, 1, Call, 0)
	require.Equal(t, Preflop, r.Stage, "limped pot still waits on the big blind")
	require.Equal(t, bb, r.Acting)

	res := act(t, r, bb, Raise, 20)
	assert.Equal(t, Preflop, r.Stage)
	assert.Equal(t, 10, res.Paid)
}

func TestFoldRecalculatesBetLevel(t *testing.T) {
	r := testRoom(t, 100, 100, 100)
	mustStart(t, r)

	act(t, r, 0, Raise, 40)
	act(t, r, 1, Fold, 0)
	assert.Equal(t, 40, r.CurrentBet, "a live raise holds the level")

	// Big blind calls 40, dealer folds next street after betting.
	act(t, r, 2, Call, 0)
	require.Equal(t, Flop, r.Stage)
	act(t, r, 2, Bet, 10)
	act(t, r, 0, Fold, 0)
	assert.Equal(t, Waiting, r.Stage, "last live seat wins at once")
}

func TestFoldDropsLevelToRemainingMax(t *testing.T) {
	r := testRoom(t, 100, 100, 100, 100)
	mustStart(t, r)

	// Dealer opens, raiser goes over, raiser folds out of turn order is
	// not possible; instead have the only seat at the maximum fold.
	act(t, r, 3, Raise, 30)
	act(t, r, 0, Call, 0)
	act(t, r, 1, Raise, 60)
	r.fold(1)
	assert.Equal(t, 30, r.CurrentBet)
}

func TestAllInAggressionReopensAction(t *testing.T) {
	r := testRoom(t, 100, 100, 40)
	mustStart(t, r)

	act(t, r, 0, Call, 0)
	act(t, r, 1, Call, 0)
	res := act(t, r, 2, AllIn, 0)
	assert.Equal(t, 30, res.Paid)
	assert.Equal(t, 40, r.CurrentBet)
	assert.Equal(t, 2, r.LastAggressor)
	assert.Equal(t, Preflop, r.Stage, "callers get to respond to the shove")
}
