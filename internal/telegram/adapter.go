// Package telegram connects the bot to the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tgdrive/internal/bot"
	"tgdrive/internal/domain"
	"tgdrive/internal/domain/services"
)

// api is the subset of *tgbotapi.BotAPI the adapter uses
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Dispatcher receives the intents decoded from updates
type Dispatcher interface {
	Dispatch(ctx context.Context, in bot.Intent)
}

// Adapter implements bot.Transport and services.PayloadStore on top of the Bot API
type Adapter struct {
	api         api
	storageChat int64
	pollTimeout int
	logger      *slog.Logger
}

var (
	_ bot.Transport         = (*Adapter)(nil)
	_ services.PayloadStore = (*Adapter)(nil)
)

// New logs in with the bot token
func New(token string, storageChat int64, pollTimeout int, logger *slog.Logger) (*Adapter, error) {
	if err := tgbotapi.SetLogger(&apiLogger{logger: logger}); err != nil {
		return nil, fmt.Errorf("set bot api logger: %w", err)
	}

	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to bot api: %w: %v", domain.ErrUpstream, err)
	}

	logger.Info("connected to telegram", "bot", botAPI.Self.UserName)
	return newAdapter(botAPI, storageChat, pollTimeout, logger), nil
}

func newAdapter(a api, storageChat int64, pollTimeout int, logger *slog.Logger) *Adapter {
	return &Adapter{
		api:         a,
		storageChat: storageChat,
		pollTimeout: pollTimeout,
		logger:      logger,
	}
}

// SendText sends an HTML message with an optional inline keyboard
func (a *Adapter) SendText(ctx context.Context, chatID int64, text string, kb bot.Keyboard) (int64, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup := inlineKeyboard(kb); markup != nil {
		msg.ReplyMarkup = *markup
	}

	sent, err := a.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send message to %d: %w: %v", chatID, domain.ErrUpstream, err)
	}
	return int64(sent.MessageID), nil
}

// SendFile re-sends a stored document by its platform id
func (a *Adapter) SendFile(ctx context.Context, chatID int64, actualFileID, caption string, kb bot.Keyboard) (int64, error) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(actualFileID))
	doc.Caption = caption
	doc.ParseMode = tgbotapi.ModeHTML
	if markup := inlineKeyboard(kb); markup != nil {
		doc.ReplyMarkup = *markup
	}

	sent, err := a.api.Send(doc)
	if err != nil {
		return 0, fmt.Errorf("send document to %d: %w: %v", chatID, domain.ErrUpstream, err)
	}
	return int64(sent.MessageID), nil
}

// DeleteMessage removes a message from a chat
func (a *Adapter) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	if _, err := a.api.Request(tgbotapi.NewDeleteMessage(chatID, int(messageID))); err != nil {
		return fmt.Errorf("delete message %d: %w: %v", messageID, domain.ErrUpstream, err)
	}
	return nil
}

// GetFile asks the platform for a stored document's metadata
func (a *Adapter) GetFile(ctx context.Context, actualFileID string) (*bot.FileInfo, error) {
	f, err := a.api.GetFile(tgbotapi.FileConfig{FileID: actualFileID})
	if err != nil {
		return nil, fmt.Errorf("get file %s: %w: %v", actualFileID, domain.ErrUpstream, err)
	}
	return &bot.FileInfo{Size: int64(f.FileSize)}, nil
}

// Store copies an uploaded document into the storage chat and returns the
// message id that now holds it
func (a *Adapter) Store(ctx context.Context, actualFileID string) (int64, error) {
	sent, err := a.api.Send(tgbotapi.NewDocument(a.storageChat, tgbotapi.FileID(actualFileID)))
	if err != nil {
		return 0, fmt.Errorf("store in chat %d: %w", a.storageChat, err)
	}
	return int64(sent.MessageID), nil
}

// Poll long-polls for updates and hands each one to d until ctx is done.
// Intents already handed over keep running after ctx is cancelled.
func (a *Adapter) Poll(ctx context.Context, d Dispatcher) {
	taskCtx := context.WithoutCancel(ctx)

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = a.pollTimeout
	updates := a.api.GetUpdatesChan(cfg)
	defer a.api.StopReceivingUpdates()

	a.logger.Info("polling for updates", "timeout_seconds", a.pollTimeout)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.CallbackQuery != nil {
				a.answerCallback(update.CallbackQuery.ID)
			}
			in, ok := intentFromUpdate(update)
			if !ok {
				a.logger.Debug("update ignored", "update_id", update.UpdateID)
				continue
			}
			d.Dispatch(taskCtx, in)
		}
	}
}

// answerCallback stops the client's loading spinner on the pressed button
func (a *Adapter) answerCallback(id string) {
	if _, err := a.api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		a.logger.Warn("failed to answer callback", "callback_id", id, "error", err)
	}
}

func intentFromUpdate(u tgbotapi.Update) (bot.Intent, bool) {
	switch {
	case u.CallbackQuery != nil:
		q := u.CallbackQuery
		if q.From == nil || q.Message == nil || q.Message.Chat == nil {
			return bot.Intent{}, false
		}
		return bot.Intent{
			Kind:      bot.IntentButton,
			UserID:    q.From.ID,
			ChatID:    q.Message.Chat.ID,
			MessageID: int64(q.Message.MessageID),
			Data:      q.Data,
		}, true

	case u.Message != nil:
		m := u.Message
		if m.From == nil || m.Chat == nil {
			return bot.Intent{}, false
		}
		in := bot.Intent{
			UserID:    m.From.ID,
			ChatID:    m.Chat.ID,
			MessageID: int64(m.MessageID),
		}

		switch {
		case m.IsCommand():
			in.Kind = bot.IntentCommand
			in.Text = strings.ToLower(m.Command())
		case m.Document != nil:
			in.Kind = bot.IntentUpload
			in.Upload = &services.UploadRequest{
				ActualFileID: m.Document.FileID,
				Name:         m.Document.FileName,
				MimeType:     m.Document.MimeType,
				Size:         int64(m.Document.FileSize),
			}
		case m.Text != "":
			in.Kind = bot.IntentText
			in.Text = m.Text
		default:
			return bot.Intent{}, false
		}
		return in, true
	}

	return bot.Intent{}, false
}

func inlineKeyboard(kb bot.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, r := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

// apiLogger routes the library's log output into slog
type apiLogger struct {
	logger *slog.Logger
}

func (l *apiLogger) Println(v ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintln(v...)), "component", "telegram")
}

func (l *apiLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "telegram")
}
