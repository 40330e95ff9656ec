package rules

import "fmt"

// Role identifies a seat in a two-player game. The first-mover always
// holds RoleFirst; the session layer maps roles to actor identities.
type Role int

const (
	RoleFirst Role = iota
	RoleSecond
)

func (r Role) Other() Role {
	if r == RoleFirst {
		return RoleSecond
	}
	return RoleFirst
}

func (r Role) String() string {
	if r == RoleFirst {
		return "first"
	}
	return "second"
}

// Kind classifies a terminal condition.
type Kind int

const (
	Ongoing Kind = iota
	Win
	Draw
	Aborted
)

// Reason tags for terminal outcomes.
const (
	ReasonCheckmate    = "checkmate"
	ReasonResignation  = "resignation"
	ReasonStalemate    = "stalemate"
	ReasonMoveRule     = "seventy_five_moves"
	ReasonRepetition   = "repetition"
	ReasonInsufficient = "insufficient_material"
	ReasonInternal     = "internal_error"
)

// Outcome describes one terminal condition reported by an engine.
type Outcome struct {
	Kind   Kind
	Winner Role   // valid when Kind == Win
	Reason string // reason tag, empty for plain wins without one
}

func (o Outcome) Terminal() bool {
	return o.Kind != Ongoing
}

func (o Outcome) String() string {
	switch o.Kind {
	case Win:
		return fmt.Sprintf("win(%s,%s)", o.Winner, o.Reason)
	case Draw:
		return fmt.Sprintf("draw(%s)", o.Reason)
	case Aborted:
		return fmt.Sprintf("aborted(%s)", o.Reason)
	default:
		return "ongoing"
	}
}

// State and Move are opaque to the coordination core; only the engine
// that produced them may inspect their contents.
type (
	State = any
	Move  = any
)

// Engine is the capability interface a game binding must implement.
// State values are treated as immutable by callers: Apply returns a new
// state and must leave its input untouched.
type Engine interface {
	Name() string
	NewState() State
	Parse(st State, text string) (Move, error)
	IsLegal(st State, mv Move) bool
	Apply(st State, mv Move) (State, error)
	// Terminal reports every terminal condition that holds in st.
	// An empty slice means the game is still ongoing.
	Terminal(st State) []Outcome
}

// drawRank orders simultaneous terminal conditions, most specific first.
var drawRank = map[string]int{
	ReasonStalemate:    1,
	ReasonMoveRule:     2,
	ReasonRepetition:   3,
	ReasonInsufficient: 4,
}

// Resolve picks the authoritative outcome when an engine reports several
// simultaneously true terminal conditions. Wins beat draws; among draws
// the order is stalemate, move-rule exhaustion, repetition, insufficient
// material, then anything else. Equal ranks keep first-reported order.
func Resolve(conds []Outcome) Outcome {
	best := Outcome{Kind: Ongoing}
	bestRank := int(^uint(0) >> 1)
	for _, c := range conds {
		r := rank(c)
		if r < bestRank {
			best = c
			bestRank = r
		}
	}
	return best
}

func rank(o Outcome) int {
	switch o.Kind {
	case Win:
		return 0
	case Draw:
		if r, ok := drawRank[o.Reason]; ok {
			return r
		}
		return 5
	case Aborted:
		return 6
	default:
		return 7
	}
}
