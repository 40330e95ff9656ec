package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram_chess/internal/coordinator"
	"telegram_chess/internal/domain"
	"telegram_chess/internal/logger"
	"telegram_chess/internal/metrics"
	"telegram_chess/internal/ratelimit"
	"telegram_chess/internal/repository"
	"telegram_chess/internal/rules"
	"telegram_chess/internal/rules/chess"
	"telegram_chess/internal/session"
	"telegram_chess/internal/ws"
)

const handlerTimeout = 30 * time.Second

// Bot runs the Telegram front end: commands create and end sessions,
// any other text is treated as a move attempt. All game decisions are
// delegated to the coordinator; the bot only translates messages in
// and notifications out.
type Bot struct {
	api      *tgbotapi.BotAPI
	coord    *coordinator.Coordinator
	dispatch *Dispatcher
	hub      *ws.Hub
	archive  *repository.ArchiveRepository // nil when no database is configured

	moveLimit  int
	moveWindow time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup
	log    *slog.Logger
}

func NewBot(api *tgbotapi.BotAPI, coord *coordinator.Coordinator, hub *ws.Hub, archive *repository.ArchiveRepository, moveLimit int, moveWindow time.Duration) *Bot {
	log := logger.With("component", "bot")
	log.Info("bot authorized", "username", api.Self.UserName)

	return &Bot{
		api:        api,
		coord:      coord,
		dispatch:   NewDispatcher(api),
		hub:        hub,
		archive:    archive,
		moveLimit:  moveLimit,
		moveWindow: moveWindow,
		stopCh:     make(chan struct{}),
		log:        log,
	}
}

// Start runs the update loop until Stop is called. Each message is
// handled on its own goroutine so a slow Telegram round trip never
// stalls the loop.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			if update.Message == nil || update.Message.From == nil {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleMessage(msg)
			}(update.Message)
		}
	}
}

// Stop gracefully stops the bot.
func (b *Bot) Stop() {
	b.log.Info("stopping bot...")
	close(b.stopCh)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("bot shutdown timeout, some handlers may not have completed")
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			b.dispatch.Text(msg.Chat.ID, welcomeText(msg.From.FirstName))
		case "newgame":
			b.handleNewGame(ctx, msg)
		case "resign":
			b.handleResign(ctx, msg)
		case "board":
			b.handleBoard(msg)
		default:
			b.dispatch.Reply(msg.Chat.ID, msg.MessageID, "Unknown command.  Use /help for the list of commands.")
		}
		return
	}

	if strings.TrimSpace(msg.Text) == "" {
		return
	}
	b.handleMove(ctx, msg)
}

func (b *Bot) handleNewGame(ctx context.Context, msg *tgbotapi.Message) {
	handle := strings.TrimSpace(msg.CommandArguments())
	if handle == "" {
		b.dispatch.Reply(msg.Chat.ID, msg.MessageID, "Please specify an opponent's username (e.g., /newgame @ChessPlayer2).")
		return
	}
	if !strings.HasPrefix(handle, "@") {
		b.dispatch.Reply(msg.Chat.ID, msg.MessageID, "Invalid username format.  Please use @username.")
		return
	}

	events, err := b.coord.NewSession(ctx, msg.From.ID, handle)
	if err != nil {
		b.dispatch.Reply(msg.Chat.ID, msg.MessageID, errorText(err, handle))
		return
	}
	metrics.SessionsStarted.Inc()

	requesterName := "@" + msg.From.UserName
	if msg.From.UserName == "" {
		requesterName = msg.From.FirstName
	}
	b.deliver(events, func(recipient int64, s session.Session) string {
		if recipient == s.First {
			return handle
		}
		return requesterName
	})
}

func (b *Bot) handleMove(ctx context.Context, msg *tgbotapi.Message) {
	if ratelimit.Enabled() {
		metrics.RLRequests.WithLabelValues("move").Inc()
		key := fmt.Sprintf("move:%d", msg.From.ID)
		if !ratelimit.Allow(ctx, key, b.moveLimit, b.moveWindow) {
			metrics.RLBlocked.WithLabelValues("move").Inc()
			b.dispatch.Reply(msg.Chat.ID, msg.MessageID, "You are sending moves too quickly.  Please slow down.")
			return
		}
	}

	events, err := b.coord.SubmitMove(ctx, msg.From.ID, strings.TrimSpace(msg.Text))
	if err != nil {
		metrics.MovesRejected.WithLabelValues(rejectionLabel(err)).Inc()
		b.dispatch.Reply(msg.Chat.ID, msg.MessageID, errorText(err, ""))
		return
	}
	metrics.MovesAccepted.Inc()
	b.deliver(events, nil)
}

func (b *Bot) handleResign(ctx context.Context, msg *tgbotapi.Message) {
	events, err := b.coord.Resign(ctx, msg.From.ID)
	if err != nil {
		b.dispatch.Reply(msg.Chat.ID, msg.MessageID, errorText(err, ""))
		return
	}
	b.deliver(events, nil)
}

func (b *Bot) handleBoard(msg *tgbotapi.Message) {
	s, err := b.coord.Session(msg.From.ID)
	if err != nil {
		b.dispatch.Reply(msg.Chat.ID, msg.MessageID, errorText(err, ""))
		return
	}
	text := boardText(s)
	if s.Turn == msg.From.ID {
		text += "\n" + turnPrompt
	} else {
		text += "\nWaiting for your opponent to move."
	}
	b.dispatch.Text(msg.Chat.ID, text)
}

// deliver sends every notification in order, then feeds spectators and
// the archive. opponentName resolves the display name used in
// session-started texts; it is only consulted for those events.
func (b *Bot) deliver(events []coordinator.Event, opponentName func(recipient int64, s session.Session) string) {
	for _, ev := range events {
		switch ev.Kind {
		case coordinator.EventSessionStarted:
			name := "your opponent"
			if opponentName != nil {
				name = opponentName(ev.Recipient, ev.Session)
			}
			b.dispatch.Text(ev.Recipient, startedText(ev.Session, ev.Recipient, name))
		case coordinator.EventBoardUpdated:
			b.dispatch.Text(ev.Recipient, movedBoardText(ev.Session, ev.Recipient, ev.Mover))
		case coordinator.EventTurnNotice:
			b.dispatch.Text(ev.Recipient, turnPrompt)
		case coordinator.EventGameEnded:
			b.dispatch.Text(ev.Recipient, endedText(ev.Session, ev.Recipient))
		}
	}

	if len(events) == 0 {
		return
	}
	s := events[len(events)-1].Session
	if events[len(events)-1].Kind == coordinator.EventGameEnded {
		b.finish(s)
		return
	}
	b.hub.Broadcast(ws.Update{
		Type:    "board",
		Session: string(s.ID),
		FEN:     chess.FEN(s.State),
		Turn:    s.Turn,
	})
}

func (b *Bot) finish(s session.Session) {
	outcome := ""
	kind := "aborted"
	if s.Outcome != nil {
		outcome = s.Outcome.String()
		switch s.Outcome.Kind {
		case rules.Win:
			kind = "win"
		case rules.Draw:
			kind = "draw"
		}
	}
	metrics.GamesEnded.WithLabelValues(kind).Inc()

	b.hub.Broadcast(ws.Update{
		Type:    "ended",
		Session: string(s.ID),
		FEN:     chess.FEN(s.State),
		Outcome: outcome,
	})

	if b.archive == nil {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.archiveGame(s)
	}()
}

func (b *Bot) archiveGame(s session.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec := &domain.GameRecord{
		SessionID: string(s.ID),
		FirstID:   s.First,
		SecondID:  s.Second,
		Outcome:   domain.OutcomeAborted,
		Moves:     chess.Transcript(s.State),
	}
	if s.Outcome != nil {
		rec.Reason = s.Outcome.Reason
		switch s.Outcome.Kind {
		case rules.Win:
			rec.Outcome = domain.OutcomeWin
			winner := s.ActorFor(s.Outcome.Winner)
			rec.WinnerID = &winner
		case rules.Draw:
			rec.Outcome = domain.OutcomeDraw
		}
	}

	if err := b.archive.Create(ctx, rec); err != nil {
		b.log.Error("failed to archive game", "session", s.ID, "error", err)
		return
	}
	b.log.Info("game archived", "session", s.ID, "outcome", rec.Outcome)
}

func rejectionLabel(err error) string {
	switch {
	case errors.Is(err, coordinator.ErrNoActiveSession):
		return "no_session"
	case errors.Is(err, coordinator.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, coordinator.ErrMalformedMove):
		return "malformed"
	case errors.Is(err, coordinator.ErrIllegalMove):
		return "illegal"
	case errors.Is(err, coordinator.ErrSessionEnded):
		return "ended"
	default:
		return "other"
	}
}
