package session

import (
	"errors"
	"sync"
	"time"

	"telegram_chess/internal/rules"
)

var (
	ErrSelfPairing      = errors.New("cannot start a game with yourself")
	ErrDuplicateSession = errors.New("a game is already in progress")
	ErrNotFound         = errors.New("session not found")
)

// Store holds every active session in memory. Sessions are volatile:
// they live for the process lifetime only.
//
// Each session carries its own mutex, so operations on distinct
// sessions never contend; the store-level lock guards only the index
// maps and is held briefly.
type Store struct {
	mu       sync.RWMutex
	sessions map[ID]*entry
	byActor  map[int64]ID
}

type entry struct {
	mu      sync.Mutex
	s       Session
	removed bool
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[ID]*entry),
		byActor:  make(map[int64]ID),
	}
}

// Create registers a new active session for the pair (a, b). a becomes
// the first-mover and holds the turn. It fails with ErrSelfPairing when
// a == b and with ErrDuplicateSession when either actor already
// participates in an active session; the existing session is untouched.
func (st *Store) Create(a, b int64, state rules.State) (Session, error) {
	if a == b {
		return Session{}, ErrSelfPairing
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, busy := st.byActor[a]; busy {
		return Session{}, ErrDuplicateSession
	}
	if _, busy := st.byActor[b]; busy {
		return Session{}, ErrDuplicateSession
	}

	id := PairID(a, b)
	s := Session{
		ID:        id,
		First:     a,
		Second:    b,
		State:     state,
		Turn:      a,
		Status:    StatusActive,
		CreatedAt: time.Now(),
	}
	st.sessions[id] = &entry{s: s}
	st.byActor[a] = id
	st.byActor[b] = id
	return s, nil
}

// Find returns a snapshot of the active session actor plays in.
func (st *Store) Find(actor int64) (Session, error) {
	st.mu.RLock()
	id, ok := st.byActor[actor]
	var e *entry
	if ok {
		e = st.sessions[id]
	}
	st.mu.RUnlock()

	if e == nil {
		return Session{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return Session{}, ErrNotFound
	}
	return e.s, nil
}

// Get returns a snapshot by ID.
func (st *Store) Get(id ID) (Session, error) {
	st.mu.RLock()
	e := st.sessions[id]
	st.mu.RUnlock()

	if e == nil {
		return Session{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return Session{}, ErrNotFound
	}
	return e.s, nil
}

// Update runs fn against the session under its exclusive lock. The
// mutation is committed only when fn returns nil; on error the stored
// session is left exactly as it was. If fn leaves the session Ended it
// is removed from the store in the same critical section, so no caller
// can observe an ended session. Returns the committed snapshot.
func (st *Store) Update(id ID, fn func(*Session) error) (Session, error) {
	st.mu.RLock()
	e := st.sessions[id]
	st.mu.RUnlock()

	if e == nil {
		return Session{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return Session{}, ErrNotFound
	}

	next := e.s
	if err := fn(&next); err != nil {
		return Session{}, err
	}
	e.s = next

	if next.Status == StatusEnded {
		e.removed = true
		st.unindex(id, next)
	}
	return next, nil
}

// Remove deletes the session. Removing an absent ID is a no-op.
func (st *Store) Remove(id ID) {
	st.mu.RLock()
	e := st.sessions[id]
	st.mu.RUnlock()

	if e == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return
	}
	e.removed = true
	st.unindex(id, e.s)
}

func (st *Store) unindex(id ID, s Session) {
	st.mu.Lock()
	delete(st.sessions, id)
	delete(st.byActor, s.First)
	delete(st.byActor, s.Second)
	st.mu.Unlock()
}

// Len reports the number of active sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Active returns snapshots of every active session.
func (st *Store) Active() []Session {
	st.mu.RLock()
	entries := make([]*entry, 0, len(st.sessions))
	for _, e := range st.sessions {
		entries = append(entries, e)
	}
	st.mu.RUnlock()

	out := make([]Session, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.removed {
			out = append(out, e.s)
		}
		e.mu.Unlock()
	}
	return out
}
