package bot

import (
	"fmt"
	"html"
	"strings"

	"tgdrive/internal/domain/models"
	"tgdrive/internal/domain/services"
)

const helpText = `Use /start to go to root directory

While in a directory:
  - Send a file to have it uploaded
  - Send text message to have another folder created with that name`

// MimeEmoji picks an icon for a MIME type
func MimeEmoji(mimeType string) string {
	major, _, _ := strings.Cut(mimeType, "/")
	if major == "application" && (strings.Contains(mimeType, "zip") || strings.Contains(mimeType, "rar")) {
		return "🗃️"
	}
	switch major {
	case "audio":
		return "🎵"
	case "video":
		return "📽️"
	case "font":
		return "🔤"
	case "image":
		return "🖼️"
	case "text":
		return "📃"
	case "multipart":
		return "🗃️"
	default:
		return "📄"
	}
}

// SizeToHuman formats a byte count with binary prefixes, e.g. 1.5KiB
func SizeToHuman(size int64) string {
	num := float64(size)
	for _, unit := range []string{"", "Ki", "Mi", "Gi", "Ti", "Pi", "Ei", "Zi"} {
		if num > -1024 && num < 1024 {
			return fmt.Sprintf("%.1f%sB", num, unit)
		}
		num /= 1024
	}
	return fmt.Sprintf("%.1fYiB", num)
}

func esc(s string) string { return html.EscapeString(s) }

func row(buttons ...Button) []Button { return buttons }

func btn(text string, cmds ...Command) Button {
	return Button{Text: text, Data: EncodeCommands(cmds...)}
}

var noop = Cmd(VerbNone)

// explorerView renders one page of a folder listing
func explorerView(res *services.ExploreResult, mode string, page, pageSize int) (string, Keyboard, error) {
	id := res.Folder.ID
	del := Cmd(VerbDeleteMe)

	kb := Keyboard{
		row(btn("♻️ Refresh", del, Cmd(VerbExplorer, id, mode, page))),
		row(
			btn("🗑️ Delete", del, Cmd(VerbExplorer, id, ModeSelect)),
			btn("📦 Move", del, Cmd(VerbExplorer, id, ModeSelect)),
			btn("✏️ Rename", del, Cmd(VerbExplorer, id, ModeSelect)),
		),
	}
	if mode == ModeBrowse && res.Parent != nil {
		kb = append(kb, row(btn(fmt.Sprintf("📁 .. (%s)", res.Parent.Name), del, Cmd(VerbExplorer, res.Parent.ID, ModeBrowse))))
	}
	if mode == ModeSelect {
		kb = append(kb, row(btn("✖️ Cancel Select", del, Cmd(VerbExplorer, id, ModeBrowse))))
	}

	text := fmt.Sprintf("📂 Current directory: <b>%s</b>", esc(res.Path))
	if mode == ModeSelect {
		text += "\n<b>Select directory or file:</b>"
	}

	entries := res.Contents.Entries()
	if len(entries) == 0 {
		return text + "\n\n<i>(empty)</i>", kb, nil
	}

	visible, err := Paginate(entries, page, pageSize)
	if err != nil {
		return "", nil, err
	}

	kb = append(kb, row(btn("---------", noop)))
	for _, entry := range visible {
		kb = append(kb, row(entryButton(entry, mode)))
	}

	if pages := PageCount(len(entries), pageSize); pages > 1 {
		prev, next := btn("◀️", noop), btn("▶️", noop)
		if page > 0 {
			prev = btn("◀️", del, Cmd(VerbExplorer, id, mode, page-1))
		}
		if page < pages-1 {
			next = btn("▶️", del, Cmd(VerbExplorer, id, mode, page+1))
		}
		kb = append(kb, row(prev, btn(fmt.Sprintf("%d/%d", page+1, pages), noop), next))
	}

	return text, kb, nil
}

func entryButton(entry models.Entry, mode string) Button {
	prefix := ""
	if mode == ModeSelect {
		prefix = "[CLICK TO SELECT] "
	}

	switch e := entry.(type) {
	case models.Folder:
		if mode == ModeSelect {
			return btn(prefix+"📁 "+e.Name, Cmd(VerbSelectFolder, e.ID))
		}
		return btn("📁 "+e.Name, Cmd(VerbDeleteMe), Cmd(VerbExplorer, e.ID, ModeBrowse))
	case models.File:
		label := prefix + MimeEmoji(e.MimeType) + " " + e.Name
		if mode == ModeSelect {
			return btn(label, Cmd(VerbSelectFile, e.ID))
		}
		return btn(label, Cmd(VerbFile, e.ID))
	default:
		return btn(entry.EntryName(), noop)
	}
}

func folderActions(folder *models.Folder) (string, Keyboard) {
	del := Cmd(VerbDeleteMe)
	text := fmt.Sprintf("📁 <b>%s</b>", esc(folder.Name))
	return text, Keyboard{
		row(
			btn("🗑️ Delete", del, Cmd(VerbDeleteFolder, folder.ID)),
			btn("📦 Move", del, Cmd(VerbMoveFolder, folder.ID)),
			btn("✏️ Rename", del, Cmd(VerbRenameFolder, folder.ID)),
		),
		row(btn("✖️ Cancel", del)),
	}
}

func fileActions(file *models.File) (string, Keyboard) {
	del := Cmd(VerbDeleteMe)
	text := fmt.Sprintf("%s <b>%s</b>", MimeEmoji(file.MimeType), esc(file.Name))
	return text, Keyboard{
		row(
			btn("👁️ Preview", del, Cmd(VerbFile, file.ID)),
			btn("🗑️ Delete", del, Cmd(VerbDeleteFile, file.ID)),
			btn("📦 Move", del, Cmd(VerbMoveFile, file.ID)),
		),
		row(btn("✖️ Cancel", del)),
	}
}

func confirmKeyboard(verb string, id int64) Keyboard {
	return Keyboard{row(
		btn("Yes, delete", Cmd(VerbDeleteMe), Cmd(verb, id, 1)),
		btn("No, cancel", Cmd(VerbDeleteMe)),
	)}
}

func previewCaption(file *models.File, size int64) string {
	return fmt.Sprintf("%s File <b>%s</b>\n\n<i>File size: <b>%s</b>\nMIME type: <b>%s</b></i>\n",
		MimeEmoji(file.MimeType), esc(file.Name), SizeToHuman(size), esc(file.MimeType))
}

func okKeyboard() Keyboard {
	return Keyboard{row(btn("🆗", Cmd(VerbDeleteMe)))}
}
