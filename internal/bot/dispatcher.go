package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"tgdrive/internal/domain"
	"tgdrive/internal/session"
)

// Dispatcher runs intents concurrently with at most limit handlers active.
//
// Every intent gets its own goroutine that queues for a slot, so Dispatch
// never blocks the caller. Text for a pending prompt is delivered inline
// before any slot is taken; a handler waiting on a prompt holds its slot,
// and the reply must not queue behind it.
type Dispatcher struct {
	bot    *Bot
	inputs *session.InputRegistry
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher with the given concurrency limit
func NewDispatcher(bot *Bot, inputs *session.InputRegistry, limit int, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		bot:    bot,
		inputs: inputs,
		sem:    semaphore.NewWeighted(int64(limit)),
		logger: logger,
	}
}

// Dispatch schedules an intent. Button data with several commands runs each
// command as its own task.
func (d *Dispatcher) Dispatch(ctx context.Context, in Intent) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}

	d.logger.Debug("intent received",
		"intent_id", in.ID,
		"kind", in.Kind.String(),
		"user_id", in.UserID,
		"data", in.Data,
	)

	switch in.Kind {
	case IntentText:
		if d.inputs.Deliver(in.UserID, in.Text) {
			d.logger.Debug("text delivered to pending prompt", "intent_id", in.ID, "user_id", in.UserID)
			return
		}
		d.spawn(ctx, in, "text", nil, func(ctx context.Context) error { return d.bot.HandleText(ctx, in) })
	case IntentCommand:
		d.spawn(ctx, in, "/"+in.Text, nil, func(ctx context.Context) error { return d.bot.HandleCommand(ctx, in) })
	case IntentUpload:
		d.spawn(ctx, in, "upload", nil, func(ctx context.Context) error { return d.bot.HandleUpload(ctx, in) })
	case IntentButton:
		for _, cmd := range ParseCommands(in.Data) {
			d.spawn(ctx, in, cmd.Verb, cmd.Args, func(ctx context.Context) error { return d.bot.HandleButton(ctx, in, cmd) })
		}
	default:
		d.logger.Warn("unknown intent kind", "intent_id", in.ID, "kind", int(in.Kind))
	}
}

func (d *Dispatcher) spawn(ctx context.Context, in Intent, op string, args []string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		if err := d.sem.Acquire(ctx, 1); err != nil {
			d.logger.Warn("intent dropped", "intent_id", in.ID, "op", op, "error", err)
			return
		}
		defer d.sem.Release(1)

		defer func() {
			if r := recover(); r != nil {
				d.report(ctx, in, op, args, fmt.Errorf("panic: %v", r))
				d.logger.Error("handler panic", "intent_id", in.ID, "stack", string(debug.Stack()))
			}
		}()

		if err := fn(ctx); err != nil {
			d.report(ctx, in, op, args, err)
		}
	}()
}

// Wait blocks until every dispatched task has finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// report is the outermost error boundary: log with context, then tell the user briefly
func (d *Dispatcher) report(ctx context.Context, in Intent, op string, args []string, err error) {
	level := slog.LevelError
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode() < 500 {
		level = slog.LevelWarn
	}

	d.logger.Log(ctx, level, "intent failed",
		"intent_id", in.ID,
		"user_id", in.UserID,
		"op", op,
		"args", strings.Join(args, ":"),
		"error", err,
	)

	if _, sendErr := d.bot.transport.SendText(ctx, in.ChatID, UserMessage(err), nil); sendErr != nil {
		d.logger.Error("failed to report error to user",
			"intent_id", in.ID,
			"user_id", in.UserID,
			"error", sendErr,
		)
	}
}

// UserMessage converts an error into the short text shown in chat.
// Missing and foreign resources get the same message.
func UserMessage(err error) string {
	var validationErr *domain.ValidationError
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrForbidden):
		return "❌ This item does not exist or you do not have necessary permissions."
	case errors.As(err, &validationErr):
		return "❌ " + validationErr.Message
	case errors.As(err, &conflictErr):
		return "❌ " + conflictErr.Message
	case errors.Is(err, domain.ErrValidation):
		return "❌ Invalid request"
	case errors.Is(err, domain.ErrUpstream):
		return "❌ <b>Telegram request failed</b>, please try again later"
	default:
		return "❌ Something went wrong"
	}
}
