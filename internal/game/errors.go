package game

import "errors"

// Action errors are sentinel values so callers can branch on the failure
// mode. Every one of them is reported before any state is mutated.
var (
	ErrOutOfTurn        = errors.New("not your turn to act")
	ErrWrongStage       = errors.New("no betting in this stage")
	ErrIllegalAmount    = errors.New("illegal amount")
	ErrRoomFull         = errors.New("room is full")
	ErrNotSeated        = errors.New("not seated in this room")
	ErrAlreadySeated    = errors.New("already seated in this room")
	ErrNotEnoughPlayers = errors.New("need at least two players")
	ErrHandInProgress   = errors.New("hand already in progress")
	ErrRoundNotSettled  = errors.New("betting round not settled")
)
