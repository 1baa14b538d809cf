package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"deskagent/internal/action"
	"deskagent/internal/interpreter"
)

// confirmModel is a one-shot y/n prompt. Anything other than an explicit
// yes cancels.
type confirmModel struct {
	prompt   string
	approved bool
	done     bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y":
			m.approved = true
			m.done = true
			return m, tea.Quit
		case "n", "N", "esc", "enter", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	content := WarnStyle.Render("Confirmation required") + "\n\n" +
		m.prompt + "\n\n" +
		FaintStyle.Render("y: confirm  n/esc: cancel")
	return ConfirmBoxStyle.Render(content)
}

// NewConfirmFunc builds the confirmation gate. When interactive, a Bubble
// Tea popup handles the decision; otherwise (piped stdin, tests) a plain
// y/n line read does. Either way the default answer is no.
func NewConfirmFunc(reader *bufio.Reader, out io.Writer, interactive bool) interpreter.ConfirmFunc {
	return func(a action.Action, prompt string) bool {
		if interactive {
			final, err := tea.NewProgram(confirmModel{prompt: prompt}).Run()
			if err == nil {
				if m, ok := final.(confirmModel); ok {
					return m.approved
				}
			}
			// Fall through to the line prompt if the TUI could not run.
		}

		fmt.Fprintf(out, "%s\n%s [y/N]: ", WarnStyle.Render("Confirmation required"), prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
