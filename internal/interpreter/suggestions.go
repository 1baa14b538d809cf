package interpreter

import (
	"fmt"

	"deskagent/internal/action"
)

// suggestionLimit caps how many suggestions are shown at once.
const suggestionLimit = 5

var baseSuggestions = []string{
	"Open notepad",
	"Type hello world",
	"Click at coordinates 500, 300",
	"Read the file example.txt",
	"Wait 2 seconds",
}

// Suggestions proposes follow-up commands. The last executed action steers
// the list: an opened app suggests closing it, a read file suggests writing
// to it.
func (i *Interpreter) Suggestions() []string {
	i.mu.Lock()
	last := i.last
	i.mu.Unlock()

	var out []string
	switch v := last.(type) {
	case action.OpenApp:
		out = append(out, fmt.Sprintf("Close %s", v.AppName))
		out = append(out, fmt.Sprintf("Type something in %s", v.AppName))
	case action.FileRead:
		out = append(out, fmt.Sprintf("Write to %s", v.FilePath))
	case action.TypeText:
		out = append(out, "Press enter")
	}

	for _, s := range baseSuggestions {
		if len(out) >= suggestionLimit {
			break
		}
		out = append(out, s)
	}
	if len(out) > suggestionLimit {
		out = out[:suggestionLimit]
	}
	return out
}
