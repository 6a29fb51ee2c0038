package session

import (
	"fmt"
	"strings"
)

// CommandHelp lists the slash commands
const CommandHelp = "/clear · /save <path> · /help"

// IsCommand reports whether input is a slash command rather than a message
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// RunCommand executes a slash command and returns a one-line result
func (c *Controller) RunCommand(input string) string {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return ""
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "/clear":
		c.Clear()
		return "chat cleared"

	case "/save":
		if len(args) == 0 {
			return "usage: /save <path>"
		}
		path := strings.Join(args, " ")
		if err := c.Save(path); err != nil {
			return err.Error()
		}
		return fmt.Sprintf("saved %d messages to %s", c.transcript.Len(), path)

	case "/help":
		return CommandHelp

	default:
		return fmt.Sprintf("unknown command %s", name)
	}
}
