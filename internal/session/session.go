package session

import (
	"strconv"
	"time"

	"telegram_chess/internal/rules"
)

// ID identifies the session for an unordered pair of actors.
type ID string

// PairID derives the session ID for two actor IDs. The order of the
// arguments does not matter: PairID(a, b) == PairID(b, a).
func PairID(a, b int64) ID {
	if b < a {
		a, b = b, a
	}
	return ID(strconv.FormatInt(a, 10) + ":" + strconv.FormatInt(b, 10))
}

type Status int

const (
	StatusActive Status = iota
	StatusEnded
)

// Session is one game between exactly two actors. First is the
// first-mover; role assignment is fixed at creation. State is owned by
// the rules engine and never inspected here.
type Session struct {
	ID        ID
	First     int64
	Second    int64
	State     rules.State
	Turn      int64
	Status    Status
	Outcome   *rules.Outcome
	CreatedAt time.Time
}

// Participant reports whether actor plays in this session.
func (s Session) Participant(actor int64) bool {
	return actor == s.First || actor == s.Second
}

// Opponent returns the other participant.
func (s Session) Opponent(actor int64) int64 {
	if actor == s.First {
		return s.Second
	}
	return s.First
}

// RoleOf maps an actor to its seat.
func (s Session) RoleOf(actor int64) rules.Role {
	if actor == s.First {
		return rules.RoleFirst
	}
	return rules.RoleSecond
}

// ActorFor maps a seat to its actor.
func (s Session) ActorFor(r rules.Role) int64 {
	if r == rules.RoleFirst {
		return s.First
	}
	return s.Second
}
