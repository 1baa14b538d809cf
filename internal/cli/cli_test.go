package cli

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"deskagent/internal/action"
	"deskagent/internal/auditlog"
	"deskagent/internal/config"
	"deskagent/internal/executor"
	"deskagent/internal/interpreter"
	"deskagent/internal/safety"
)

type stubTranslator struct {
	action action.Action
}

func (s *stubTranslator) Translate(ctx context.Context, command string, hints map[string]any) (action.Action, error) {
	return s.action, nil
}

func (s *stubTranslator) Clarify(ctx context.Context, command, reason string) string {
	return "cannot do that: " + reason
}

type stubRunner struct {
	result       executor.Result
	executed     []action.Action
	screen       executor.ScreenInfo
	cleaned      bool
	spawnedCount int
}

func (r *stubRunner) Execute(ctx context.Context, a action.Action) executor.Result {
	r.executed = append(r.executed, a)
	return r.result
}

func (r *stubRunner) Screen() executor.ScreenInfo { return r.screen }

func (r *stubRunner) Cleanup() int {
	r.cleaned = true
	return r.spawnedCount
}

// newTestCLI wires a CLI over scripted input. The stub translator always
// returns translated, and the runner always reports result.
func newTestCLI(t *testing.T, script string, translated action.Action, result executor.Result) (*CLI, *stubRunner, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	reader := bufio.NewReader(strings.NewReader(script))
	runner := &stubRunner{result: result, screen: executor.ScreenInfo{Available: true, Width: 800, Height: 600}}

	confirm := NewConfirmFunc(reader, out, false)
	checker := safety.NewChecker(safety.DefaultPolicy(), zap.NewNop())
	interp := interpreter.New(&stubTranslator{action: translated}, checker, nil, zap.NewNop(), confirm, interpreter.Options{HistorySize: 10, ContextSize: 3})

	c := New(interp, runner, nil, config.DefaultConfig(), zap.NewNop(), reader, out, "test-model")
	return c, runner, out
}

func TestRunQuitImmediately(t *testing.T) {
	c, runner, out := newTestCLI(t, "quit\n", nil, executor.Result{})

	require.NoError(t, c.Run(context.Background()))

	assert.Contains(t, out.String(), "Goodbye!")
	assert.True(t, runner.cleaned)
}

func TestRunEOFEndsSession(t *testing.T) {
	c, runner, _ := newTestCLI(t, "", nil, executor.Result{})

	require.NoError(t, c.Run(context.Background()))
	assert.True(t, runner.cleaned)
}

func TestRunExecutesTranslatedCommand(t *testing.T) {
	translated := action.Click{
		Meta: action.Meta{Reasoning: "clicking as asked", Confidence: 0.9},
		X:    100, Y: 100, Button: "left", Clicks: 1,
	}
	c, runner, out := newTestCLI(t, "click somewhere\nquit\n", translated, executor.Result{OK: true, Message: "Clicked at (100, 100)"})

	require.NoError(t, c.Run(context.Background()))

	require.Len(t, runner.executed, 1)
	assert.Contains(t, out.String(), "Clicked at (100, 100)")
	assert.Contains(t, out.String(), "clicking as asked")
}

func TestRunRejectedCommandShowsClarification(t *testing.T) {
	c, runner, out := newTestCLI(t, "run rm -rf /\nquit\n", action.ShellExec{RawKind: "shell"}, executor.Result{})

	require.NoError(t, c.Run(context.Background()))

	assert.Empty(t, runner.executed)
	assert.Contains(t, out.String(), "shell command execution is not allowed")
}

func TestRunConfirmationApprovedThenExecutes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	translated := action.FileWrite{FilePath: path, Content: "hi", Mode: "w"}
	// Command, then "y" answering the confirmation, then quit.
	c, runner, out := newTestCLI(t, "write hi\ny\nquit\n", translated, executor.Result{OK: true, Message: "wrote it"})

	require.NoError(t, c.Run(context.Background()))

	require.Len(t, runner.executed, 1)
	assert.Contains(t, out.String(), "Confirmation required")
	assert.Contains(t, out.String(), "wrote it")
}

func TestRunConfirmationDenied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	translated := action.FileWrite{FilePath: path, Content: "hi", Mode: "w"}
	c, runner, out := newTestCLI(t, "write hi\nn\nquit\n", translated, executor.Result{})

	require.NoError(t, c.Run(context.Background()))

	assert.Empty(t, runner.executed)
	assert.Contains(t, out.String(), "Action cancelled by user")
}

func TestBuiltinHelp(t *testing.T) {
	c, _, out := newTestCLI(t, "help\nquit\n", nil, executor.Result{})

	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "deskagent")
}

func TestBuiltinStatus(t *testing.T) {
	c, _, out := newTestCLI(t, "status\nquit\n", nil, executor.Result{})

	require.NoError(t, c.Run(context.Background()))

	assert.Contains(t, out.String(), "test-model")
	assert.Contains(t, out.String(), "800x600")
}

func TestBuiltinHistoryAfterCommand(t *testing.T) {
	translated := action.OpenApp{AppName: "gedit"}
	// "y" answers the open_app confirmation prompt.
	c, _, out := newTestCLI(t, "open gedit\ny\nhistory\nquit\n", translated, executor.Result{OK: true, Message: "Launched gedit"})

	require.NoError(t, c.Run(context.Background()))

	assert.Contains(t, out.String(), "Session history")
	assert.Contains(t, out.String(), "open gedit")
}

func TestBuiltinSuggestions(t *testing.T) {
	c, _, out := newTestCLI(t, "suggestions\nquit\n", nil, executor.Result{})

	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "Open notepad")
}

func TestBuiltinClear(t *testing.T) {
	translated := action.OpenApp{AppName: "gedit"}
	c, _, out := newTestCLI(t, "open gedit\ny\nclear\nhistory\nquit\n", translated, executor.Result{OK: true, Message: "ok"})

	require.NoError(t, c.Run(context.Background()))

	assert.Contains(t, out.String(), "Session history cleared")
	assert.Contains(t, out.String(), "No commands yet this session")
}

func TestBuiltinConfig(t *testing.T) {
	c, _, out := newTestCLI(t, "config\nquit\n", nil, executor.Result{})

	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "gemini-2.5-flash")
}

func TestBuiltinLogsWithAuditLog(t *testing.T) {
	dir := t.TempDir()
	audit, err := auditlog.Open(filepath.Join(dir, "audit.jsonl"))
	require.NoError(t, err)
	defer audit.Close()
	require.NoError(t, audit.Record(auditlog.Entry{Event: auditlog.EventSession, Detail: "session started"}))

	out := &bytes.Buffer{}
	reader := bufio.NewReader(strings.NewReader("logs 5\nquit\n"))
	runner := &stubRunner{}

	confirm := NewConfirmFunc(reader, out, false)
	checker := safety.NewChecker(safety.DefaultPolicy(), zap.NewNop())
	interp := interpreter.New(&stubTranslator{}, checker, audit, zap.NewNop(), confirm, interpreter.Options{})

	c := New(interp, runner, audit, config.DefaultConfig(), zap.NewNop(), reader, out, "test-model")

	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "session started")
}

func TestRunRecordsCleanupInAuditLog(t *testing.T) {
	dir := t.TempDir()
	audit, err := auditlog.Open(filepath.Join(dir, "audit.jsonl"))
	require.NoError(t, err)
	defer audit.Close()

	out := &bytes.Buffer{}
	reader := bufio.NewReader(strings.NewReader("quit\n"))
	runner := &stubRunner{spawnedCount: 2}

	confirm := NewConfirmFunc(reader, out, false)
	checker := safety.NewChecker(safety.DefaultPolicy(), zap.NewNop())
	interp := interpreter.New(&stubTranslator{}, checker, audit, zap.NewNop(), confirm, interpreter.Options{})

	c := New(interp, runner, audit, config.DefaultConfig(), zap.NewNop(), reader, out, "test-model")

	require.NoError(t, c.Run(context.Background()))

	tail, err := audit.Tail(5)
	require.NoError(t, err)
	assert.Contains(t, tail, `"event":"cleanup"`)
	assert.Contains(t, tail, "terminated 2 spawned process(es)")
}
