package matcherrors

import "errors"

// Sentinel errors shared by the game core and the transport. Callers match
// them with errors.Is; the game package wraps them with context.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrIndexOutOfRange      = errors.New("card index out of range")
	// ErrInvalidMove is never returned by SelectCard; it backs MoveResult.Err
	// so a rejected move can be logged or sent to the client.
	ErrInvalidMove = errors.New("invalid move")
)
