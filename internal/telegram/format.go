package telegram

import (
	"errors"
	"fmt"

	"telegram_chess/internal/coordinator"
	"telegram_chess/internal/render"
	"telegram_chess/internal/rules"
	"telegram_chess/internal/rules/chess"
	"telegram_chess/internal/session"
)

const (
	turnPrompt     = "It's your turn to move."
	welcomeExample = "To start a new game, use /newgame @opponent_username\nFor example: /newgame @ChessPlayer2"
)

func welcomeText(firstName string) string {
	return fmt.Sprintf("Hello %s!\n\nWelcome to the Chess Bot!\n%s", firstName, welcomeExample)
}

func boardText(s session.Session) string {
	return render.Board(chess.FEN(s.State))
}

func startedText(s session.Session, recipient int64, opponentName string) string {
	if recipient == s.First {
		return fmt.Sprintf("New game started with %s!\nYou are White.  Your move.", opponentName)
	}
	return fmt.Sprintf("New game started with %s!\nYou are Black.  Waiting for White to move.", opponentName)
}

func movedBoardText(s session.Session, recipient, mover int64) string {
	if mover == 0 {
		return boardText(s)
	}
	if recipient == mover {
		return "Board after your move:\n" + boardText(s)
	}
	return "Board after opponent's move:\n" + boardText(s)
}

// endedText renders the terminal notification from the recipient's
// point of view. The session still carries its final state and
// outcome when these events are delivered.
func endedText(s session.Session, recipient int64) string {
	o := s.Outcome
	if o == nil {
		return "Game over.\n" + boardText(s)
	}
	switch o.Kind {
	case rules.Win:
		won := s.ActorFor(o.Winner) == recipient
		switch o.Reason {
		case rules.ReasonResignation:
			if won {
				return "Your opponent resigned.  You win!\n" + boardText(s)
			}
			return "You resigned.  Game over.\n" + boardText(s)
		default:
			if won {
				return "Checkmate!  You win!\n" + boardText(s)
			}
			return "Checkmate!  You lose.\n" + boardText(s)
		}
	case rules.Draw:
		return drawLabel(o.Reason) + "\n" + boardText(s)
	default:
		return "The game was aborted due to an internal error."
	}
}

func drawLabel(reason string) string {
	switch reason {
	case rules.ReasonStalemate:
		return "Stalemate!"
	case rules.ReasonMoveRule:
		return "75-move rule!"
	case rules.ReasonRepetition:
		return "Threefold repetition!"
	case rules.ReasonInsufficient:
		return "Insufficient Material!"
	default:
		return "Draw!"
	}
}

// errorText translates a coordinator rejection into the reply the
// player sees. handle is only used for unknown-opponent errors.
func errorText(err error, handle string) string {
	switch {
	case errors.Is(err, coordinator.ErrSelfPairing):
		return "You cannot start a game with yourself!"
	case errors.Is(err, coordinator.ErrDuplicateSession):
		return "A game is already in progress with this user."
	case errors.Is(err, coordinator.ErrUnknownOpponent):
		return fmt.Sprintf("Error: Could not find user %s.  Please make sure the username is correct and the user has started the bot.", handle)
	case errors.Is(err, coordinator.ErrNoActiveSession):
		return "You are not currently in a game.  Use /newgame @opponent_username to start one."
	case errors.Is(err, coordinator.ErrNotYourTurn):
		return "It is not your turn to move."
	case errors.Is(err, coordinator.ErrMalformedMove):
		return "Invalid move format.  Please use algebraic notation (e.g., e2e4, Nf3, Rd8)."
	case errors.Is(err, coordinator.ErrIllegalMove):
		return "Illegal move."
	case errors.Is(err, coordinator.ErrSessionEnded):
		return "That game has already ended."
	default:
		return "Something went wrong.  Please try again."
	}
}
