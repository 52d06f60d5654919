package exclude

import (
	"strings"

	"excluderegion-go/pkg/gcode"
)

// AtCommandAction binds an at-command name and parameter pattern to an
// exclusion action. It satisfies gcode.AtCommandEntry.
type AtCommandAction struct {
	// Command is the at-command name this entry is registered under.
	Command string

	// Parameter is compared case-insensitively against the trimmed
	// parameter string. Empty matches any parameters.
	Parameter string

	// Do is the action performed on a match.
	Do gcode.AtCommandAction
}

// Matches reports whether the entry applies to the given invocation.
func (a AtCommandAction) Matches(cmd, parameters string) bool {
	if a.Parameter == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(parameters), a.Parameter)
}

// Action returns the exclusion action for this entry.
func (a AtCommandAction) Action() gcode.AtCommandAction {
	return a.Do
}
