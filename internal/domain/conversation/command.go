package conversation

import "strings"

// Command is a slash command recognised by the bot
type Command string

const (
	CommandNone    Command = ""
	CommandStart   Command = "start"
	CommandCancel  Command = "cancel"
	CommandHelp    Command = "help"
	CommandUnknown Command = "unknown"
)

// ParseCommand classifies inbound text. Free text yields CommandNone.
// "/Start@voucher_bot extra" is treated as /start.
func ParseCommand(text string) Command {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return CommandNone
	}

	token := strings.Fields(trimmed)[0][1:]
	if at := strings.IndexByte(token, '@'); at >= 0 {
		token = token[:at]
	}

	switch Command(strings.ToLower(token)) {
	case CommandStart:
		return CommandStart
	case CommandCancel:
		return CommandCancel
	case CommandHelp:
		return CommandHelp
	default:
		return CommandUnknown
	}
}

// Trigger maps a command to its dispatch trigger. The second result is false
// for commands that never reach the dispatch table (help, unknown).
func (c Command) Trigger() (Trigger, bool) {
	switch c {
	case CommandNone:
		return TriggerText, true
	case CommandStart:
		return TriggerStart, true
	case CommandCancel:
		return TriggerCancel, true
	default:
		return "", false
	}
}
