package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"telegram_chess/internal/logger"
	"telegram_chess/internal/rules"
	"telegram_chess/internal/session"
)

// Directory resolves a user-facing handle to an actor identity. It is
// an external collaborator: resolution failures are surfaced verbatim
// as ErrUnknownOpponent, never retried.
type Directory interface {
	Resolve(ctx context.Context, handle string) (int64, error)
}

// Coordinator is the turn-coordination state machine. It holds no
// session state of its own: every operation fetches from the store,
// validates, mutates and commits inside a single per-session critical
// section.
type Coordinator struct {
	store     *session.Store
	engine    rules.Engine
	directory Directory
	log       *slog.Logger
}

func New(store *session.Store, engine rules.Engine, directory Directory) *Coordinator {
	return &Coordinator{
		store:     store,
		engine:    engine,
		directory: directory,
		log:       logger.With("component", "coordinator", "game", engine.Name()),
	}
}

// NewSession starts a game between requester and the actor behind
// opponentHandle. The requester is always the first-mover; this is a
// fixed policy, not configurable.
func (c *Coordinator) NewSession(ctx context.Context, requester int64, opponentHandle string) ([]Event, error) {
	opponent, err := c.directory.Resolve(ctx, opponentHandle)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOpponent, opponentHandle)
	}

	s, err := c.store.Create(requester, opponent, c.engine.NewState())
	if err != nil {
		return nil, err
	}

	c.log.Info("session started", "session", s.ID, "first", s.First, "second", s.Second)
	return startedEvents(s), nil
}

// SubmitMove validates and applies one move by actor. On success it
// returns the notifications to deliver; on failure the session is left
// exactly as it was. Validation strictly precedes mutation: a rejected
// move never flips the turn or touches the board.
func (c *Coordinator) SubmitMove(ctx context.Context, actor int64, text string) ([]Event, error) {
	snap, err := c.store.Find(actor)
	if err != nil {
		return nil, ErrNoActiveSession
	}

	var events []Event
	_, err = c.store.Update(snap.ID, func(s *session.Session) error {
		if !s.Participant(actor) {
			return ErrNoActiveSession
		}
		if s.Status != session.StatusActive {
			// ended sessions are removed in the same critical section
			// that ends them, so this only races an in-flight removal
			return ErrSessionEnded
		}
		if s.Turn != actor {
			return ErrNotYourTurn
		}

		mv, err := c.engine.Parse(s.State, text)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedMove, err)
		}
		if !c.engine.IsLegal(s.State, mv) {
			return ErrIllegalMove
		}

		next, err := c.engine.Apply(s.State, mv)
		if err != nil {
			// Unreachable if IsLegal told the truth. The session must
			// not be left half-applied, so it is forcibly ended with an
			// aborted outcome rather than silently kept inconsistent.
			c.log.Error("apply failed after legality check; aborting session",
				"session", s.ID, "actor", actor, "error", err)
			s.Status = session.StatusEnded
			s.Outcome = &rules.Outcome{Kind: rules.Aborted, Reason: rules.ReasonInternal}
			events = endedEvents(*s, actor)
			return nil
		}
		s.State = next

		if out := rules.Resolve(c.engine.Terminal(next)); out.Terminal() {
			s.Status = session.StatusEnded
			final := out
			s.Outcome = &final
			events = endedEvents(*s, actor)
			return nil
		}

		s.Turn = s.Opponent(actor)
		events = movedEvents(*s, actor)
		return nil
	})
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			// session ended between Find and Update
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	return events, nil
}

// Resign ends the actor's session with a win for the opponent. The
// rules engine is not consulted; resignation is always available.
func (c *Coordinator) Resign(ctx context.Context, actor int64) ([]Event, error) {
	snap, err := c.store.Find(actor)
	if err != nil {
		return nil, ErrNoActiveSession
	}

	var events []Event
	_, err = c.store.Update(snap.ID, func(s *session.Session) error {
		if !s.Participant(actor) {
			return ErrNoActiveSession
		}
		if s.Status != session.StatusActive {
			return ErrSessionEnded
		}
		s.Status = session.StatusEnded
		s.Outcome = &rules.Outcome{
			Kind:   rules.Win,
			Winner: s.RoleOf(actor).Other(),
			Reason: rules.ReasonResignation,
		}
		events = endedEvents(*s, actor)
		return nil
	})
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	c.log.Info("session resigned", "session", snap.ID, "actor", actor)
	return events, nil
}

// Session returns a snapshot of the actor's active session.
func (c *Coordinator) Session(actor int64) (session.Session, error) {
	s, err := c.store.Find(actor)
	if err != nil {
		return session.Session{}, ErrNoActiveSession
	}
	return s, nil
}
