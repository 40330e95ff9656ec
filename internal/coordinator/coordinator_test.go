package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"telegram_chess/internal/rules"
	"telegram_chess/internal/session"
)

// countdown is a toy game used to exercise the coordination logic
// without a real rules engine. Any decimal number is a well-formed
// move; a move is legal when it is positive; every accepted move
// decrements the counter and the game is won by the player who moves
// when the counter reaches zero. A move of exactly 99 triggers the
// configured simultaneous terminal conditions, and a move of 13 makes
// Apply fail after IsLegal has passed.
type countdown struct {
	start      int
	simulConds []rules.Outcome
}

type countdownState struct {
	remaining int
	lastMover rules.Role
}

func (countdown) Name() string { return "countdown" }

func (g countdown) NewState() rules.State {
	return countdownState{remaining: g.start}
}

func (countdown) Parse(st rules.State, text string) (rules.Move, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", text)
	}
	return n, nil
}

func (countdown) IsLegal(st rules.State, mv rules.Move) bool {
	return mv.(int) > 0
}

func (countdown) Apply(st rules.State, mv rules.Move) (rules.State, error) {
	if mv.(int) == 13 {
		return nil, errors.New("engine exploded")
	}
	s := st.(countdownState)
	s.remaining--
	s.lastMover = s.lastMover.Other()
	return s, nil
}

func (g countdown) Terminal(st rules.State) []rules.Outcome {
	s := st.(countdownState)
	if s.remaining <= 0 {
		return []rules.Outcome{{Kind: rules.Win, Winner: s.lastMover.Other(), Reason: "countdown"}}
	}
	return nil
}

// simul wraps countdown so a move of 99 reports several terminal
// conditions at once.
type simul struct{ countdown }

func (g simul) Apply(st rules.State, mv rules.Move) (rules.State, error) {
	next, err := g.countdown.Apply(st, mv)
	if err != nil {
		return nil, err
	}
	if mv.(int) == 99 {
		s := next.(countdownState)
		s.remaining = -1000 // marker: report the configured conditions
		return s, nil
	}
	return next, nil
}

func (g simul) Terminal(st rules.State) []rules.Outcome {
	if st.(countdownState).remaining == -1000 {
		return g.simulConds
	}
	return g.countdown.Terminal(st)
}

type staticDirectory map[string]int64

func (d staticDirectory) Resolve(ctx context.Context, handle string) (int64, error) {
	id, ok := d[handle]
	if !ok {
		return 0, errors.New("no such user")
	}
	return id, nil
}

const (
	alice int64 = 101
	bob   int64 = 202
)

func newTestCoordinator(t *testing.T, eng rules.Engine) (*Coordinator, *session.Store) {
	t.Helper()
	st := session.NewStore()
	dir := staticDirectory{"@alice": alice, "@bob": bob}
	return New(st, eng, dir), st
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestNewSessionEvents(t *testing.T) {
	c, st := newTestCoordinator(t, countdown{start: 3})

	events, err := c.NewSession(context.Background(), alice, "@bob")
	if err != nil {
		t.Fatal(err)
	}

	want := []EventKind{EventSessionStarted, EventSessionStarted, EventBoardUpdated, EventBoardUpdated, EventTurnNotice}
	got := kinds(events)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event kinds = %v; want %v", got, want)
		}
	}
	if events[4].Recipient != alice {
		t.Fatal("turn notice must go to the requester (first-mover)")
	}

	s, err := st.Find(bob)
	if err != nil {
		t.Fatal(err)
	}
	if s.First != alice || s.Turn != alice {
		t.Fatal("requester must be first-mover and hold the turn")
	}
}

func TestNewSessionUnknownOpponent(t *testing.T) {
	c, st := newTestCoordinator(t, countdown{start: 3})
	_, err := c.NewSession(context.Background(), alice, "@nobody")
	if !errors.Is(err, ErrUnknownOpponent) {
		t.Fatalf("got %v; want ErrUnknownOpponent", err)
	}
	if st.Len() != 0 {
		t.Fatal("no session may be created for an unresolvable opponent")
	}
}

func TestNewSessionSelfPairing(t *testing.T) {
	c, _ := newTestCoordinator(t, countdown{start: 3})
	if _, err := c.NewSession(context.Background(), alice, "@alice"); !errors.Is(err, ErrSelfPairing) {
		t.Fatalf("got %v; want ErrSelfPairing", err)
	}
}

func TestNewSessionDuplicate(t *testing.T) {
	c, _ := newTestCoordinator(t, countdown{start: 3})
	if _, err := c.NewSession(context.Background(), alice, "@bob"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.NewSession(context.Background(), bob, "@alice"); !errors.Is(err, ErrDuplicateSession) {
		t.Fatalf("got %v; want ErrDuplicateSession", err)
	}
}

func TestSubmitMoveNoSession(t *testing.T) {
	c, _ := newTestCoordinator(t, countdown{start: 3})
	if _, err := c.SubmitMove(context.Background(), alice, "1"); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("got %v; want ErrNoActiveSession", err)
	}
}

func TestSubmitMoveRejectionsLeaveSessionUntouched(t *testing.T) {
	c, st := newTestCoordinator(t, countdown{start: 10})
	if _, err := c.NewSession(context.Background(), alice, "@bob"); err != nil {
		t.Fatal(err)
	}
	before, _ := st.Find(alice)

	cases := []struct {
		name  string
		actor int64
		text  string
		want  error
	}{
		{"not your turn", bob, "1", ErrNotYourTurn},
		{"malformed", alice, "banana", ErrMalformedMove},
		{"illegal", alice, "-4", ErrIllegalMove},
	}

	for _, tc := range cases {
		if _, err := c.SubmitMove(context.Background(), tc.actor, tc.text); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v; want %v", tc.name, err, tc.want)
		}
		after, err := st.Find(alice)
		if err != nil {
			t.Fatalf("%s: session vanished: %v", tc.name, err)
		}
		if after.Turn != before.Turn || after.State != before.State || after.Status != before.Status {
			t.Fatalf("%s: rejected move mutated the session", tc.name)
		}
	}
}

func TestSubmitMoveAlternatesTurns(t *testing.T) {
	c, st := newTestCoordinator(t, countdown{start: 10})
	if _, err := c.NewSession(context.Background(), alice, "@bob"); err != nil {
		t.Fatal(err)
	}

	events, err := c.SubmitMove(context.Background(), alice, "1")
	if err != nil {
		t.Fatal(err)
	}
	want := []EventKind{EventBoardUpdated, EventBoardUpdated, EventTurnNotice}
	got := kinds(events)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event kinds = %v; want %v", got, want)
		}
	}
	if events[0].Recipient != alice || events[1].Recipient != bob {
		t.Fatal("board updates must go to mover first, then opponent")
	}
	if events[2].Recipient != bob {
		t.Fatal("turn notice must go to the new turn holder")
	}

	s, _ := st.Find(alice)
	if s.Turn != bob {
		t.Fatal("turn must flip to the opponent")
	}

	// strict alternation over several moves
	movers := []int64{bob, alice, bob, alice}
	for _, m := range movers {
		if _, err := c.SubmitMove(context.Background(), m, "1"); err != nil {
			t.Fatalf("move by %d: %v", m, err)
		}
	}
	s, _ = st.Find(alice)
	if s.Turn != bob {
		t.Fatalf("turn = %d; alternation skipped a step", s.Turn)
	}
}

func TestSubmitMoveWinEndsAndRemovesSession(t *testing.T) {
	c, st := newTestCoordinator(t, countdown{start: 3})
	if _, err := c.NewSession(context.Background(), alice, "@bob"); err != nil {
		t.Fatal(err)
	}

	moves := []int64{alice, bob}
	for _, m := range moves {
		if _, err := c.SubmitMove(context.Background(), m, "1"); err != nil {
			t.Fatal(err)
		}
	}

	// third move empties the counter: alice wins
	events, err := c.SubmitMove(context.Background(), alice, "1")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Kind != EventGameEnded || events[1].Kind != EventGameEnded {
		t.Fatalf("want two GameEnded events, got %v", kinds(events))
	}
	for _, ev := range events {
		out := ev.Session.Outcome
		if out == nil || out.Kind != rules.Win || out.Winner != rules.RoleFirst {
			t.Fatalf("outcome = %v; want win for the first-mover", out)
		}
	}
	if events[0].Recipient != alice || events[1].Recipient != bob {
		t.Fatal("both participants must be notified of the ending")
	}

	if st.Len() != 0 {
		t.Fatal("ended session must be removed immediately")
	}
	for _, actor := range []int64{alice, bob} {
		if _, err := c.SubmitMove(context.Background(), actor, "1"); !errors.Is(err, ErrNoActiveSession) {
			t.Fatalf("move by %d after end: got %v; want ErrNoActiveSession", actor, err)
		}
	}
}

func TestFullScenario(t *testing.T) {
	// A creates vs B, A fails an illegal move, A moves, B wins.
	c, st := newTestCoordinator(t, countdown{start: 2})
	if _, err := c.NewSession(context.Background(), alice, "@bob"); err != nil {
		t.Fatal(err)
	}

	if _, err := c.SubmitMove(context.Background(), alice, "-1"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("got %v; want ErrIllegalMove", err)
	}
	s, _ := st.Find(alice)
	if s.Turn != alice {
		t.Fatal("turn must still be with A after the illegal move")
	}

	if _, err := c.SubmitMove(context.Background(), alice, "1"); err != nil {
		t.Fatal(err)
	}

	events, err := c.SubmitMove(context.Background(), bob, "1")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("want two GameEnded events, got %d", len(events))
	}
	out := events[0].Session.Outcome
	if out.Kind != rules.Win || out.Winner != rules.RoleSecond {
		t.Fatalf("outcome = %v; want win for B", out)
	}
	if st.Len() != 0 {
		t.Fatal("session must be gone")
	}
}

func TestTerminalPriorityAppliedToSimultaneousConditions(t *testing.T) {
	eng := simul{countdown{start: 100}}
	eng.simulConds = []rules.Outcome{
		{Kind: rules.Draw, Reason: rules.ReasonInsufficient},
		{Kind: rules.Draw, Reason: rules.ReasonMoveRule},
		{Kind: rules.Draw, Reason: rules.ReasonRepetition},
	}
	c, _ := newTestCoordinator(t, eng)
	if _, err := c.NewSession(context.Background(), alice, "@bob"); err != nil {
		t.Fatal(err)
	}

	events, err := c.SubmitMove(context.Background(), alice, "99")
	if err != nil {
		t.Fatal(err)
	}
	out := events[0].Session.Outcome
	if out.Kind != rules.Draw || out.Reason != rules.ReasonMoveRule {
		t.Fatalf("outcome = %v; want the move-rule draw to take priority", out)
	}
}

func TestApplyFailureForciblyEndsSession(t *testing.T) {
	c, st := newTestCoordinator(t, countdown{start: 100})
	if _, err := c.NewSession(context.Background(), alice, "@bob"); err != nil {
		t.Fatal(err)
	}

	// 13 passes parse and legality, then Apply fails
	events, err := c.SubmitMove(context.Background(), alice, "13")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Kind != EventGameEnded {
		t.Fatalf("want two GameEnded events, got %v", kinds(events))
	}
	out := events[0].Session.Outcome
	if out.Kind != rules.Aborted || out.Reason != rules.ReasonInternal {
		t.Fatalf("outcome = %v; want aborted/internal_error", out)
	}
	if st.Len() != 0 {
		t.Fatal("aborted session must be removed")
	}
}

func TestResign(t *testing.T) {
	c, st := newTestCoordinator(t, countdown{start: 100})
	if _, err := c.NewSession(context.Background(), alice, "@bob"); err != nil {
		t.Fatal(err)
	}

	// the non-turn holder may resign too
	events, err := c.Resign(context.Background(), bob)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("want two GameEnded events, got %d", len(events))
	}
	out := events[0].Session.Outcome
	if out.Kind != rules.Win || out.Winner != rules.RoleFirst || out.Reason != rules.ReasonResignation {
		t.Fatalf("outcome = %v; want win for A by resignation", out)
	}
	if st.Len() != 0 {
		t.Fatal("resigned session must be removed")
	}
	if _, err := c.Resign(context.Background(), alice); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("got %v; want ErrNoActiveSession", err)
	}
}

func TestConcurrentSubmitsExactlyOneSucceeds(t *testing.T) {
	for i := 0; i < 25; i++ {
		c, st := newTestCoordinator(t, countdown{start: 100})
		if _, err := c.NewSession(context.Background(), alice, "@bob"); err != nil {
			t.Fatal(err)
		}

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func(j int) {
				defer wg.Done()
				_, errs[j] = c.SubmitMove(context.Background(), alice, "1")
			}(j)
		}
		wg.Wait()

		ok := 0
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrNotYourTurn), errors.Is(err, ErrNoActiveSession), errors.Is(err, ErrSessionEnded):
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if ok != 1 {
			t.Fatalf("exactly one racing submit must succeed, got %d", ok)
		}

		s, err := st.Find(alice)
		if err != nil {
			t.Fatal(err)
		}
		if s.State.(countdownState).remaining != 99 {
			t.Fatalf("board reflects %v; exactly one move must be applied", s.State)
		}
		if s.Turn != bob {
			t.Fatal("turn must have flipped exactly once")
		}
	}
}
