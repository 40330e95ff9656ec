package domain

import "time"

// GameOutcome classifies how an archived game ended.
type GameOutcome string

const (
	OutcomeWin     GameOutcome = "win"
	OutcomeDraw    GameOutcome = "draw"
	OutcomeAborted GameOutcome = "aborted"
)

// GameRecord is one finished game as written to the archive. Live
// sessions never touch the database; a record is produced only after a
// session has ended.
type GameRecord struct {
	ID        int64       `db:"id" json:"id"`
	SessionID string      `db:"session_id" json:"session_id"`
	FirstID   int64       `db:"first_id" json:"first_id"`
	SecondID  int64       `db:"second_id" json:"second_id"`
	WinnerID  *int64      `db:"winner_id" json:"winner_id,omitempty"`
	Outcome   GameOutcome `db:"outcome" json:"outcome"`
	Reason    string      `db:"reason" json:"reason"`
	Moves     string      `db:"moves" json:"moves"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}
