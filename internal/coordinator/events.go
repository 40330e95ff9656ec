package coordinator

import (
	"telegram_chess/internal/session"
)

type EventKind string

const (
	EventSessionStarted EventKind = "session_started"
	EventBoardUpdated   EventKind = "board_updated"
	EventTurnNotice     EventKind = "turn_notice"
	EventGameEnded      EventKind = "game_ended"
)

// Event is one outbound notification. The transport owes each event a
// single delivery attempt; the core never retries.
type Event struct {
	Kind      EventKind
	Recipient int64
	// Session is a snapshot taken at emission. For EventGameEnded the
	// snapshot carries Status Ended and the final Outcome even though
	// the session is already gone from the store.
	Session session.Session
	// Mover is the actor whose action produced the event; zero for
	// session creation.
	Mover int64
}

func startedEvents(s session.Session) []Event {
	return []Event{
		{Kind: EventSessionStarted, Recipient: s.First, Session: s},
		{Kind: EventSessionStarted, Recipient: s.Second, Session: s},
		{Kind: EventBoardUpdated, Recipient: s.First, Session: s},
		{Kind: EventBoardUpdated, Recipient: s.Second, Session: s},
		{Kind: EventTurnNotice, Recipient: s.Turn, Session: s},
	}
}

func movedEvents(s session.Session, mover int64) []Event {
	return []Event{
		{Kind: EventBoardUpdated, Recipient: mover, Session: s, Mover: mover},
		{Kind: EventBoardUpdated, Recipient: s.Opponent(mover), Session: s, Mover: mover},
		{Kind: EventTurnNotice, Recipient: s.Turn, Session: s, Mover: mover},
	}
}

func endedEvents(s session.Session, mover int64) []Event {
	return []Event{
		{Kind: EventGameEnded, Recipient: s.First, Session: s, Mover: mover},
		{Kind: EventGameEnded, Recipient: s.Second, Session: s, Mover: mover},
	}
}
