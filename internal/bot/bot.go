// Package bot turns user intents into drive operations and renders the results.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tgdrive/internal/domain"
	"tgdrive/internal/domain/services"
	"tgdrive/internal/session"
)

// Bot handles intents. It is safe for concurrent use; the Dispatcher decides
// how many intents run at once.
type Bot struct {
	accounts     services.AccountService
	folders      services.FolderService
	files        services.FileService
	inputs       *session.InputRegistry
	transport    Transport
	pageSize     int
	inputTimeout time.Duration
	logger       *slog.Logger
}

// New creates a bot
func New(
	accounts services.AccountService,
	folders services.FolderService,
	files services.FileService,
	inputs *session.InputRegistry,
	transport Transport,
	pageSize int,
	inputTimeout time.Duration,
	logger *slog.Logger,
) *Bot {
	return &Bot{
		accounts:     accounts,
		folders:      folders,
		files:        files,
		inputs:       inputs,
		transport:    transport,
		pageSize:     pageSize,
		inputTimeout: inputTimeout,
		logger:       logger,
	}
}

func (b *Bot) say(ctx context.Context, in Intent, text string) error {
	_, err := b.transport.SendText(ctx, in.ChatID, text, nil)
	return err
}

// HandleCommand runs a slash command; anything but /start gets the help text
func (b *Bot) HandleCommand(ctx context.Context, in Intent) error {
	if in.Text == "start" {
		return b.start(ctx, in)
	}
	return b.say(ctx, in, helpText)
}

func (b *Bot) start(ctx context.Context, in Intent) error {
	res, err := b.accounts.Start(ctx, in.UserID)
	if err != nil {
		return err
	}
	return b.explore(ctx, in, res.Root.ID, ModeBrowse, 0)
}

// HandleText creates a folder named after the text in the current folder.
// Text meant for a pending prompt never gets here.
func (b *Bot) HandleText(ctx context.Context, in Intent) error {
	folder, err := b.folders.CreateFolder(ctx, in.UserID, in.Text)
	if errors.Is(err, domain.ErrNoCurrentFolder) {
		b.logger.Info("folder not created: no current folder", "intent_id", in.ID, "user_id", in.UserID)
		return nil
	}
	if err != nil {
		return err
	}
	return b.say(ctx, in, fmt.Sprintf("✅ Folder '%s' created", esc(folder.Name)))
}

// HandleUpload records a sent document in the current folder
func (b *Bot) HandleUpload(ctx context.Context, in Intent) error {
	b.logger.Info("file received",
		"intent_id", in.ID,
		"user_id", in.UserID,
		"name", in.Upload.Name,
		"mime_type", in.Upload.MimeType,
		"size", SizeToHuman(in.Upload.Size),
	)

	res, err := b.files.Upload(ctx, in.UserID, in.Upload)
	if errors.Is(err, domain.ErrNoCurrentFolder) {
		b.logger.Info("file dropped: no current folder", "intent_id", in.ID, "user_id", in.UserID)
		return nil
	}
	if err != nil {
		return err
	}
	return b.say(ctx, in, fmt.Sprintf("<b>✅ File \"%s\" uploaded to folder \"%s\"</b>",
		esc(res.File.Name), esc(res.Folder.Name)))
}

// HandleButton runs one command of a button press
func (b *Bot) HandleButton(ctx context.Context, in Intent, cmd Command) error {
	switch cmd.Verb {
	case VerbNone:
		return nil
	case VerbDeleteMe:
		return b.transport.DeleteMessage(ctx, in.ChatID, in.MessageID)
	case VerbMaintenance:
		return b.say(ctx, in, "🚧 Please try again later, this option is now under maintenance 🚧")
	case VerbExplorer:
		return b.handleExplorer(ctx, in, cmd)
	case VerbFile:
		return b.withID(cmd, func(id int64) error { return b.preview(ctx, in, id) })
	case VerbSelectFolder:
		return b.withID(cmd, func(id int64) error { return b.selectFolder(ctx, in, id) })
	case VerbSelectFile:
		return b.withID(cmd, func(id int64) error { return b.selectFile(ctx, in, id) })
	case VerbDeleteFolder:
		return b.handleDelete(ctx, in, cmd, b.deleteFolder)
	case VerbDeleteFile:
		return b.handleDelete(ctx, in, cmd, b.deleteFile)
	case VerbRenameFolder:
		return b.withID(cmd, func(id int64) error { return b.renameFolder(ctx, in, id) })
	case VerbMoveFolder:
		return b.withID(cmd, func(id int64) error { return b.moveFolder(ctx, in, id) })
	case VerbMoveFile:
		return b.withID(cmd, func(id int64) error { return b.moveFile(ctx, in, id) })
	default:
		return &domain.ValidationError{Message: fmt.Sprintf("Unknown action %q", cmd.Verb)}
	}
}

func (b *Bot) withID(cmd Command, fn func(id int64) error) error {
	id, err := cmd.ID(0)
	if err != nil {
		return err
	}
	return fn(id)
}

func (b *Bot) handleExplorer(ctx context.Context, in Intent, cmd Command) error {
	id, err := cmd.ID(0)
	if err != nil {
		return err
	}
	mode := cmd.Arg(1, ModeBrowse)
	if mode != ModeBrowse && mode != ModeSelect {
		return &domain.ValidationError{Message: fmt.Sprintf("Unknown explorer mode %q", mode)}
	}
	page, err := cmd.Int(2, 0)
	if err != nil {
		return err
	}
	return b.explore(ctx, in, id, mode, page)
}

func (b *Bot) explore(ctx context.Context, in Intent, folderID int64, mode string, page int) error {
	res, err := b.folders.ViewFolder(ctx, in.UserID, folderID)
	if err != nil {
		return err
	}

	// a stale page button must not move the user
	text, kb, err := explorerView(res, mode, page, b.pageSize)
	if err != nil {
		return err
	}
	if err := b.folders.SetCurrentFolder(ctx, in.UserID, folderID); err != nil {
		return err
	}

	_, err = b.transport.SendText(ctx, in.ChatID, text, kb)
	return err
}

func (b *Bot) preview(ctx context.Context, in Intent, fileID int64) error {
	file, err := b.files.PreviewFile(ctx, in.UserID, fileID)
	if err != nil {
		return err
	}

	size := file.Size
	if info, err := b.transport.GetFile(ctx, file.ActualFileID); err == nil {
		size = info.Size
	} else {
		b.logger.Warn("file info unavailable, using stored size",
			"intent_id", in.ID,
			"file_id", fileID,
			"error", err,
		)
	}

	_, err = b.transport.SendFile(ctx, in.ChatID, file.ActualFileID, previewCaption(file, size), okKeyboard())
	return err
}

func (b *Bot) selectFolder(ctx context.Context, in Intent, folderID int64) error {
	folder, err := b.folders.GetFolder(ctx, in.UserID, folderID)
	if err != nil {
		return err
	}
	text, kb := folderActions(folder)
	_, err = b.transport.SendText(ctx, in.ChatID, text, kb)
	return err
}

func (b *Bot) selectFile(ctx context.Context, in Intent, fileID int64) error {
	file, err := b.files.PreviewFile(ctx, in.UserID, fileID)
	if err != nil {
		return err
	}
	text, kb := fileActions(file)
	_, err = b.transport.SendText(ctx, in.ChatID, text, kb)
	return err
}

type deleteFn func(ctx context.Context, in Intent, id int64, confirmed bool) error

func (b *Bot) handleDelete(ctx context.Context, in Intent, cmd Command, fn deleteFn) error {
	id, err := cmd.ID(0)
	if err != nil {
		return err
	}
	confirmed, err := cmd.Int(1, 0)
	if err != nil {
		return err
	}
	return fn(ctx, in, id, confirmed != 0)
}

func (b *Bot) deleteFolder(ctx context.Context, in Intent, folderID int64, confirmed bool) error {
	folder, err := b.folders.DeleteFolder(ctx, in.UserID, folderID, confirmed)
	if errors.Is(err, domain.ErrAlreadyDeleted) {
		return b.say(ctx, in, "❌ This folder has already been deleted")
	}
	if err != nil {
		return err
	}

	if !confirmed {
		_, err := b.transport.SendText(ctx, in.ChatID,
			fmt.Sprintf("Are you sure you want to delete folder \"%s\"?", esc(folder.Name)),
			confirmKeyboard(VerbDeleteFolder, folder.ID))
		return err
	}
	return b.say(ctx, in, fmt.Sprintf("✅ Folder \"%s\" deleted", esc(folder.Name)))
}

func (b *Bot) deleteFile(ctx context.Context, in Intent, fileID int64, confirmed bool) error {
	file, err := b.files.DeleteFile(ctx, in.UserID, fileID, confirmed)
	if errors.Is(err, domain.ErrAlreadyDeleted) {
		return b.say(ctx, in, "❌ This file has already been deleted")
	}
	if err != nil {
		return err
	}

	if !confirmed {
		_, err := b.transport.SendText(ctx, in.ChatID,
			fmt.Sprintf("Are you sure you want to delete file \"%s\"?", esc(file.Name)),
			confirmKeyboard(VerbDeleteFile, file.ID))
		return err
	}
	return b.say(ctx, in, fmt.Sprintf("✅ File \"%s\" deleted", esc(file.Name)))
}

// ask sends a question and waits for the user's next text. ok is false when
// the wait timed out; the user has been told.
func (b *Bot) ask(ctx context.Context, in Intent, question string) (answer string, ok bool, err error) {
	prompt, err := b.inputs.Begin(in.UserID)
	if errors.Is(err, session.ErrAlreadyWaiting) {
		return "", false, b.say(ctx, in, "❌ Answer the previous question first")
	}
	if err != nil {
		return "", false, err
	}

	if err := b.say(ctx, in, question); err != nil {
		prompt.Abandon()
		return "", false, err
	}

	answer, ok = prompt.Await(b.inputTimeout)
	if !ok {
		b.logger.Info("prompt timed out", "intent_id", in.ID, "user_id", in.UserID)
		return "", false, b.say(ctx, in, "⌛ No answer received, action cancelled")
	}
	return answer, true, nil
}

func (b *Bot) renameFolder(ctx context.Context, in Intent, folderID int64) error {
	folder, err := b.folders.GetFolder(ctx, in.UserID, folderID)
	if err != nil {
		return err
	}

	answer, ok, err := b.ask(ctx, in, fmt.Sprintf("Send the new name for folder %s", esc(folder.Name)))
	if err != nil || !ok {
		return err
	}

	renamed, err := b.folders.RenameFolder(ctx, in.UserID, folderID, answer)
	if err != nil {
		return err
	}
	return b.say(ctx, in, fmt.Sprintf("✅ Folder renamed to \"%s\"", esc(renamed.Name)))
}

func (b *Bot) moveFolder(ctx context.Context, in Intent, folderID int64) error {
	folder, err := b.folders.GetFolder(ctx, in.UserID, folderID)
	if err != nil {
		return err
	}

	answer, ok, err := b.ask(ctx, in, fmt.Sprintf("Send the name of the folder to move %s into", esc(folder.Name)))
	if err != nil || !ok {
		return err
	}

	if _, err := b.folders.MoveFolder(ctx, in.UserID, folderID, answer); err != nil {
		return err
	}
	return b.say(ctx, in, fmt.Sprintf("✅ Folder \"%s\" moved to \"%s\"", esc(folder.Name), esc(answer)))
}

func (b *Bot) moveFile(ctx context.Context, in Intent, fileID int64) error {
	file, err := b.files.PreviewFile(ctx, in.UserID, fileID)
	if err != nil {
		return err
	}

	answer, ok, err := b.ask(ctx, in, fmt.Sprintf("Send the name of the folder to move %s into", esc(file.Name)))
	if err != nil || !ok {
		return err
	}

	if _, err := b.files.MoveFile(ctx, in.UserID, fileID, answer); err != nil {
		return err
	}
	return b.say(ctx, in, fmt.Sprintf("✅ File \"%s\" moved to \"%s\"", esc(file.Name), esc(answer)))
}
