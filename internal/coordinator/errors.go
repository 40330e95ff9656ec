package coordinator

import (
	"errors"

	"telegram_chess/internal/session"
)

// Request-scoped failures. Every error here leaves the session (if any)
// completely unmodified.
var (
	ErrSelfPairing      = session.ErrSelfPairing
	ErrDuplicateSession = session.ErrDuplicateSession
	ErrUnknownOpponent  = errors.New("opponent could not be found")
	ErrNoActiveSession  = errors.New("no active game")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrMalformedMove    = errors.New("malformed move")
	ErrIllegalMove      = errors.New("illegal move")
	ErrSessionEnded     = errors.New("game already ended")
)
