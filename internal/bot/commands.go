package bot

import (
	"fmt"
	"strconv"
	"strings"

	"tgdrive/internal/domain"
)

// Button data verbs
const (
	VerbNone         = "none"
	VerbDeleteMe     = "deleteme"
	VerbMaintenance  = "maint"
	VerbExplorer     = "explorer"
	VerbFile         = "file"
	VerbDeleteFolder = "delete_folder"
	VerbDeleteFile   = "delete_file"
	VerbRenameFolder = "rename_folder"
	VerbSelectFolder = "select_folder"
	VerbSelectFile   = "select_file"
	VerbMoveFolder   = "move_folder"
	VerbMoveFile     = "move_file"
)

// Explorer modes
const (
	ModeBrowse = "browse"
	ModeSelect = "select"
)

const (
	commandSep = ";"
	argSep     = ":"
)

// Command is one verb with its arguments, e.g. explorer:42:browse
type Command struct {
	Verb string
	Args []string
}

// Cmd builds a command from a verb and arguments of any printable type
func Cmd(verb string, args ...any) Command {
	c := Command{Verb: verb}
	for _, a := range args {
		c.Args = append(c.Args, fmt.Sprint(a))
	}
	return c
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Verb
	}
	return c.Verb + argSep + strings.Join(c.Args, argSep)
}

// ParseCommands splits button data into its commands, in order.
// Empty segments are skipped.
func ParseCommands(data string) []Command {
	var cmds []Command
	for _, segment := range strings.Split(data, commandSep) {
		if segment == "" {
			continue
		}
		parts := strings.Split(segment, argSep)
		cmds = append(cmds, Command{Verb: parts[0], Args: parts[1:]})
	}
	return cmds
}

// EncodeCommands joins commands into button data
func EncodeCommands(cmds ...Command) string {
	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = c.String()
	}
	return strings.Join(parts, commandSep)
}

// ID parses argument i as an id
func (c Command) ID(i int) (int64, error) {
	if i >= len(c.Args) {
		return 0, &domain.ValidationError{Message: fmt.Sprintf("%s: missing argument %d", c.Verb, i)}
	}
	id, err := strconv.ParseInt(c.Args[i], 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{Message: fmt.Sprintf("%s: bad id %q", c.Verb, c.Args[i])}
	}
	return id, nil
}

// Int parses optional argument i, falling back to def when absent
func (c Command) Int(i, def int) (int, error) {
	if i >= len(c.Args) || c.Args[i] == "" {
		return def, nil
	}
	n, err := strconv.Atoi(c.Args[i])
	if err != nil {
		return 0, &domain.ValidationError{Message: fmt.Sprintf("%s: bad number %q", c.Verb, c.Args[i])}
	}
	return n, nil
}

// Arg returns optional argument i or def
func (c Command) Arg(i int, def string) string {
	if i >= len(c.Args) || c.Args[i] == "" {
		return def
	}
	return c.Args[i]
}
