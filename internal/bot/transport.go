package bot

import (
	"context"

	"tgdrive/internal/domain/services"
)

// Button is an inline keyboard button carrying encoded commands
type Button struct {
	Text string
	Data string
}

// Keyboard is rows of buttons
type Keyboard [][]Button

// FileInfo is what the platform reports about a stored payload
type FileInfo struct {
	Size int64
}

// Transport is the chat platform as seen by the bot.
// Texts use HTML formatting. Failures are wrapped with domain.ErrUpstream.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string, kb Keyboard) (messageID int64, err error)
	SendFile(ctx context.Context, chatID int64, actualFileID, caption string, kb Keyboard) (messageID int64, err error)
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
	GetFile(ctx context.Context, actualFileID string) (*FileInfo, error)
}

// IntentKind tells what the user did
type IntentKind int

const (
	IntentText IntentKind = iota
	IntentCommand
	IntentUpload
	IntentButton
)

func (k IntentKind) String() string {
	switch k {
	case IntentText:
		return "text"
	case IntentCommand:
		return "command"
	case IntentUpload:
		return "upload"
	case IntentButton:
		return "button"
	default:
		return "unknown"
	}
}

// Intent is one inbound user action
type Intent struct {
	ID        string // correlation id, assigned by the dispatcher when empty
	Kind      IntentKind
	UserID    int64
	ChatID    int64
	MessageID int64  // the message that was sent or whose button was pressed
	Text      string // text content, or the command name for IntentCommand
	Data      string // button data
	Upload    *services.UploadRequest
}
