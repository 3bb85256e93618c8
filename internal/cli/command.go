// Package cli implements the interactive ordering console.
package cli

import (
	"regexp"
	"strconv"
	"strings"

	"menuhub/internal/model"
)

// Actions understood by the console.
const (
	ActionAdd     = "add"
	ActionRemove  = "remove"
	ActionSummary = "summary"
	ActionCancel  = "cancel"
	ActionDone    = "done"
)

var itemCommand = regexp.MustCompile(`^(add|remove)\s+(\d+)\s+(.+)$`)

// Command is one parsed line of console input.
type Command struct {
	Action   string
	Quantity int
	Item     string
}

// ParseCommand parses lines such as "add 2 tea", "remove 1 dumpling",
// "summary", "cancel" and "done". Input is case-insensitive.
func ParseCommand(line string) (Command, bool) {
	line = strings.ToLower(strings.TrimSpace(line))

	switch line {
	case ActionSummary, ActionCancel, ActionDone:
		return Command{Action: line}, true
	}

	m := itemCommand.FindStringSubmatch(line)
	if m == nil {
		return Command{}, false
	}
	qty, err := strconv.Atoi(m[2])
	if err != nil || !model.ValidQuantity(qty) {
		return Command{}, false
	}
	return Command{Action: m[1], Quantity: qty, Item: strings.TrimSpace(m[3])}, true
}
