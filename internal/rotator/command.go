package rotator

import "github.com/rickgorman/token-rotator/internal/ui"

// Command is the operator's answer at the token prompt.
type Command int

const (
	CommandUnknown Command = iota
	CommandRotate
	CommandDelete
	CommandIgnore
)

func (c Command) String() string {
	switch c {
	case CommandRotate:
		return "rotate"
	case CommandDelete:
		return "delete"
	case CommandIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// ParseCommand reads the first non-space character of input, ignoring case.
func ParseCommand(input string) Command {
	switch ui.Choice(input) {
	case 'r':
		return CommandRotate
	case 'd':
		return CommandDelete
	case 'i':
		return CommandIgnore
	default:
		return CommandUnknown
	}
}

// ParseConfirm reports whether input is a yes.
func ParseConfirm(input string) bool {
	return ui.Choice(input) == 'y'
}

// ParseGate reports whether input at a group gate means "ignore all".
// Anything else, including an empty line, continues into the group.
func ParseGate(input string) bool {
	return ui.Choice(input) == 'i'
}
