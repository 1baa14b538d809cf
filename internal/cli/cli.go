// Package cli is the interactive shell: a line-based loop that feeds
// commands through the interpreter and executes whatever comes out ready.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"deskagent/internal/action"
	"deskagent/internal/auditlog"
	"deskagent/internal/config"
	"deskagent/internal/executor"
	"deskagent/internal/interpreter"
)

// Runner executes validated actions.
type Runner interface {
	Execute(ctx context.Context, a action.Action) executor.Result
	Screen() executor.ScreenInfo
	Cleanup() int
}

// CLI is the interactive session loop.
type CLI struct {
	interp *interpreter.Interpreter
	runner Runner
	audit  *auditlog.Log
	cfg    *config.Config
	log    *zap.Logger

	reader *bufio.Reader
	out    io.Writer

	modelName    string
	sessionStart time.Time
}

// New creates the session loop. reader must be the same one the
// confirmation gate reads from, so prompts and answers stay in order.
func New(interp *interpreter.Interpreter, runner Runner, audit *auditlog.Log, cfg *config.Config, log *zap.Logger, reader *bufio.Reader, out io.Writer, modelName string) *CLI {
	return &CLI{
		interp:       interp,
		runner:       runner,
		audit:        audit,
		cfg:          cfg,
		log:          log,
		reader:       reader,
		out:          out,
		modelName:    modelName,
		sessionStart: time.Now().UTC(),
	}
}

// Run enters the read-eval loop. It returns when the user quits, input
// ends, or the context is cancelled. Spawned applications are cleaned up
// on the way out.
func (c *CLI) Run(ctx context.Context) error {
	defer c.cleanup()

	c.banner()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(c.out, PromptStyle.Render("deskagent>")+" ")
		line, err := c.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(c.out)
				return nil
			}
			return err
		}

		command := strings.TrimSpace(line)
		if command == "" {
			continue
		}

		if isBuiltin(command) {
			if quit := c.builtin(command); quit {
				fmt.Fprintln(c.out, "Goodbye!")
				return nil
			}
			continue
		}

		c.runCommand(ctx, command)
	}
}

func (c *CLI) banner() {
	fmt.Fprintln(c.out, TitleStyle.Render("deskagent — talk to your desktop"))
	fmt.Fprintln(c.out, FaintStyle.Render(fmt.Sprintf("model: %s  |  type 'help' for commands, 'quit' to leave", c.modelName)))
	fmt.Fprintln(c.out)
}

// runCommand drives one free-text command through the pipeline and, when
// it comes out ready, executes it.
func (c *CLI) runCommand(ctx context.Context, command string) {
	outcome := c.interp.ProcessCommand(ctx, command)
	if !outcome.Ready {
		fmt.Fprintln(c.out, ErrorStyle.Render("✗ "+outcome.Message))
		return
	}

	if outcome.Message != "" {
		fmt.Fprintln(c.out, FaintStyle.Render(outcome.Message))
	}

	result := c.runner.Execute(ctx, outcome.Action)
	c.interp.RecordExecution(outcome.TraceID, command, outcome.Action, result.OK, result.Message)

	if result.OK {
		fmt.Fprintln(c.out, SuccessStyle.Render("✔ "+result.Message))
	} else {
		fmt.Fprintln(c.out, ErrorStyle.Render("✗ "+result.Message))
	}
}

// cleanup terminates spawned applications on the way out and records the
// result in the audit log.
func (c *CLI) cleanup() {
	terminated := c.runner.Cleanup()
	if c.audit == nil {
		return
	}
	entry := auditlog.Entry{
		Event:  auditlog.EventCleanup,
		Detail: fmt.Sprintf("terminated %d spawned process(es)", terminated),
	}
	if err := c.audit.Record(entry); err != nil {
		c.log.Warn("audit record failed", zap.Error(err))
	}
}

var builtinNames = map[string]bool{
	"help": true, "status": true, "history": true, "suggestions": true,
	"logs": true, "export": true, "config": true, "clear": true,
	"quit": true, "exit": true, "bye": true,
}

func isBuiltin(command string) bool {
	fields := strings.Fields(strings.ToLower(command))
	return len(fields) > 0 && builtinNames[fields[0]]
}

// builtin handles session commands. The return value reports whether the
// session should end.
func (c *CLI) builtin(command string) bool {
	fields := strings.Fields(strings.ToLower(command))
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit", "bye":
		return true
	case "help":
		fmt.Fprint(c.out, renderHelp())
	case "status":
		c.printStatus()
	case "history":
		c.printHistory()
	case "suggestions":
		fmt.Fprintln(c.out, TitleStyle.Render("Try one of these:"))
		for _, s := range c.interp.Suggestions() {
			fmt.Fprintf(c.out, "  • %s\n", s)
		}
	case "logs":
		n := 10
		if len(fields) > 1 {
			if parsed, err := strconv.Atoi(fields[1]); err == nil && parsed > 0 {
				n = parsed
			}
		}
		c.printLogs(n)
	case "export":
		c.exportSession()
	case "config":
		c.printConfig()
	case "clear":
		c.interp.ClearHistory()
		fmt.Fprintln(c.out, "Session history cleared")
	}
	return false
}

func (c *CLI) printStatus() {
	fmt.Fprintln(c.out, TitleStyle.Render("Status"))
	fmt.Fprintf(c.out, "  model:    %s\n", c.modelName)
	fmt.Fprintf(c.out, "  uptime:   %s\n", time.Since(c.sessionStart).Round(time.Second))
	fmt.Fprintf(c.out, "  commands: %d\n", len(c.interp.History()))

	screen := c.runner.Screen()
	if screen.Available {
		fmt.Fprintf(c.out, "  screen:   %dx%d, mouse at (%d, %d)\n",
			screen.Width, screen.Height, screen.MouseX, screen.MouseY)
	} else {
		fmt.Fprintln(c.out, "  screen:   not available")
	}

	if c.audit != nil {
		fmt.Fprintf(c.out, "  audit:    %s\n", c.audit.Path())
	}
}

func (c *CLI) printHistory() {
	history := c.interp.History()
	if len(history) == 0 {
		fmt.Fprintln(c.out, "No commands yet this session")
		return
	}

	fmt.Fprintln(c.out, TitleStyle.Render("Session history"))
	for n, entry := range history {
		mark := SuccessStyle.Render("✔")
		if !entry.OK {
			mark = ErrorStyle.Render("✗")
		}
		fmt.Fprintf(c.out, "  %2d. %s %s %s\n", n+1, mark, entry.Command,
			FaintStyle.Render(fmt.Sprintf("(%s)", entry.Kind)))
	}
}

func (c *CLI) printLogs(n int) {
	if c.audit == nil {
		fmt.Fprintln(c.out, "Audit log not available")
		return
	}
	tail, err := c.audit.Tail(n)
	if err != nil {
		fmt.Fprintln(c.out, ErrorStyle.Render("✗ could not read audit log: "+err.Error()))
		return
	}
	if tail == "" {
		fmt.Fprintln(c.out, "Audit log is empty")
		return
	}
	fmt.Fprintln(c.out, tail)
}

func (c *CLI) exportSession() {
	if c.audit == nil {
		fmt.Fprintln(c.out, "Audit log not available")
		return
	}

	content, err := c.audit.ExportSession(c.sessionStart)
	if err != nil {
		fmt.Fprintln(c.out, ErrorStyle.Render("✗ export failed: "+err.Error()))
		return
	}
	if content == "" {
		fmt.Fprintln(c.out, "Nothing to export this session")
		return
	}

	name := fmt.Sprintf("session_export_%s.jsonl", time.Now().UTC().Format("20060102_150405"))
	path := filepath.Join(filepath.Dir(c.audit.Path()), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		fmt.Fprintln(c.out, ErrorStyle.Render("✗ export failed: "+err.Error()))
		return
	}
	fmt.Fprintln(c.out, SuccessStyle.Render("✔ session exported to "+path))
}

func (c *CLI) printConfig() {
	encoded, err := json.MarshalIndent(c.cfg, "", "  ")
	if err != nil {
		fmt.Fprintln(c.out, ErrorStyle.Render("✗ "+err.Error()))
		return
	}
	fmt.Fprintln(c.out, string(encoded))
}
