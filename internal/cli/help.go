package cli

import "github.com/charmbracelet/glamour"

const helpText = `# deskagent

Describe what you want done in plain English and it becomes a desktop
action. Examples:

- Open notepad
- Type hello world
- Click at coordinates 500, 300
- Read the file notes.txt
- Press ctrl+s
- Scroll down
- Wait 2 seconds

## Built-in commands

| Command       | Description                               |
|---------------|-------------------------------------------|
| help          | Show this help                            |
| status        | Session, screen and model status          |
| history       | Recent commands in this session           |
| suggestions   | Suggested follow-up commands              |
| logs [n]      | Last n audit log lines (default 10)       |
| export        | Export this session's audit log to a file |
| config        | Show the active configuration             |
| clear         | Clear session history                     |
| quit          | Leave (also: exit, bye)                   |

## Safety

Every action is validated before it runs. Shell commands are never
executed, system directories are off limits, and risky actions ask for
confirmation first.
`

// renderHelp renders the help text as terminal markdown, falling back to
// the raw text when the renderer cannot be built.
func renderHelp() string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return helpText
	}
	rendered, err := renderer.Render(helpText)
	if err != nil {
		return helpText
	}
	return rendered
}
