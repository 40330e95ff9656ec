// Package chess binds the corentings/chess engine to the rules
// capability interface. White is always the first-mover seat.
package chess

import (
	"errors"
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"

	"telegram_chess/internal/rules"
)

// State wraps a full game so the transport layer can reach the board
// for rendering and archival. The coordination core never looks inside.
type State struct {
	Game *nchess.Game
}

type move struct {
	mv *nchess.Move
}

type Engine struct{}

func New() Engine { return Engine{} }

func (Engine) Name() string { return "chess" }

func (Engine) NewState() rules.State {
	return &State{Game: nchess.NewGame()}
}

// Parse accepts UCI ("e2e4") first and falls back to SAN ("Nf3",
// "exd5", "O-O"). Both are decoded against the current position.
func (Engine) Parse(st rules.State, text string) (rules.Move, error) {
	s, ok := st.(*State)
	if !ok {
		return nil, errors.New("state is not a chess game")
	}
	pos := s.Game.Position()

	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, errors.New("empty move")
	}

	if mv, err := (nchess.UCINotation{}).Decode(pos, strings.ToLower(raw)); err == nil {
		return move{mv: mv}, nil
	}
	if mv, err := (nchess.AlgebraicNotation{}).Decode(pos, raw); err == nil {
		return move{mv: mv}, nil
	}
	return nil, fmt.Errorf("%q is neither UCI nor algebraic notation", raw)
}

// IsLegal tries the move on a clone; the real game is never touched.
func (Engine) IsLegal(st rules.State, mv rules.Move) bool {
	s, ok := st.(*State)
	if !ok {
		return false
	}
	m, ok := mv.(move)
	if !ok {
		return false
	}
	return s.Game.Clone().Move(m.mv, nil) == nil
}

// Apply plays the move on a clone and returns the clone, leaving the
// input state intact.
func (Engine) Apply(st rules.State, mv rules.Move) (rules.State, error) {
	s, ok := st.(*State)
	if !ok {
		return nil, errors.New("state is not a chess game")
	}
	m, ok := mv.(move)
	if !ok {
		return nil, errors.New("move was not produced by this engine")
	}

	next := s.Game.Clone()
	if err := next.Move(m.mv, nil); err != nil {
		return nil, err
	}
	return &State{Game: next}, nil
}

// Terminal maps the game outcome to core outcomes. The library detects
// at most one ending method per position, so the slice carries zero or
// one condition.
func (Engine) Terminal(st rules.State) []rules.Outcome {
	s, ok := st.(*State)
	if !ok {
		return nil
	}
	g := s.Game

	switch g.Outcome() {
	case nchess.WhiteWon:
		return []rules.Outcome{{Kind: rules.Win, Winner: rules.RoleFirst, Reason: reasonFor(g.Method())}}
	case nchess.BlackWon:
		return []rules.Outcome{{Kind: rules.Win, Winner: rules.RoleSecond, Reason: reasonFor(g.Method())}}
	case nchess.Draw:
		return []rules.Outcome{{Kind: rules.Draw, Reason: reasonFor(g.Method())}}
	default:
		return nil
	}
}

func reasonFor(m nchess.Method) string {
	switch m {
	case nchess.Checkmate:
		return rules.ReasonCheckmate
	case nchess.Stalemate:
		return rules.ReasonStalemate
	case nchess.SeventyFiveMoveRule, nchess.FiftyMoveRule:
		return rules.ReasonMoveRule
	case nchess.FivefoldRepetition, nchess.ThreefoldRepetition:
		return rules.ReasonRepetition
	case nchess.InsufficientMaterial:
		return rules.ReasonInsufficient
	case nchess.Resignation:
		return rules.ReasonResignation
	default:
		return strings.ToLower(m.String())
	}
}

// FEN returns the current position of a chess state, or "" when st was
// not produced by this engine.
func FEN(st rules.State) string {
	if s, ok := st.(*State); ok {
		return s.Game.FEN()
	}
	return ""
}

// SideToMove reports which seat is to move.
func SideToMove(st rules.State) rules.Role {
	if s, ok := st.(*State); ok && s.Game.Position().Turn() == nchess.Black {
		return rules.RoleSecond
	}
	return rules.RoleFirst
}

// Transcript returns the move list in PGN form for archival.
func Transcript(st rules.State) string {
	if s, ok := st.(*State); ok {
		return strings.TrimSpace(s.Game.String())
	}
	return ""
}
