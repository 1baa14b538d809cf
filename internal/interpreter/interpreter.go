// Package interpreter drives a command through the full pipeline:
// translation, safety validation and confirmation. It hands back a validated
// action for the caller to execute and keeps the session history that feeds
// translation context.
package interpreter

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"deskagent/internal/action"
	"deskagent/internal/auditlog"
	"deskagent/internal/safety"
)

// Translator is the model-facing dependency.
type Translator interface {
	Translate(ctx context.Context, command string, hints map[string]any) (action.Action, error)
	Clarify(ctx context.Context, command, reason string) string
}

// ConfirmFunc asks the user to approve an action before execution. The
// prompt describes the action; the return value is the user's decision.
type ConfirmFunc func(a action.Action, prompt string) bool

// Outcome is the terminal state of one command's trip through the pipeline.
// When Ready is true the Action passed every gate and the caller should
// execute it.
type Outcome struct {
	TraceID string
	Ready   bool
	Action  action.Action
	Message string
}

// HistoryEntry is one completed command in the session ring buffer. The
// reasoning is the model's own explanation of the interpretation; it travels
// back to the model with later commands.
type HistoryEntry struct {
	Command   string
	Kind      action.Kind
	Reasoning string
	OK        bool
	Message   string
	Timestamp time.Time
}

// Interpreter validates commands and tracks session state.
type Interpreter struct {
	translator Translator
	checker    *safety.Checker
	audit      *auditlog.Log
	log        *zap.Logger
	confirm    ConfirmFunc

	historySize int
	contextSize int

	mu      sync.Mutex
	history []HistoryEntry
	last    action.Action // last successfully executed action
}

// Options tunes session behavior.
type Options struct {
	// HistorySize is the ring buffer capacity. Minimum 1.
	HistorySize int
	// ContextSize is how many recent commands are passed to the model.
	ContextSize int
}

// New creates an Interpreter. confirm may be nil, in which case every
// confirmation request is treated as denied.
func New(t Translator, checker *safety.Checker, audit *auditlog.Log, log *zap.Logger, confirm ConfirmFunc, opts Options) *Interpreter {
	if opts.HistorySize < 1 {
		opts.HistorySize = 10
	}
	if opts.ContextSize < 0 {
		opts.ContextSize = 0
	}
	return &Interpreter{
		translator:  t,
		checker:     checker,
		audit:       audit,
		log:         log,
		confirm:     confirm,
		historySize: opts.HistorySize,
		contextSize: opts.ContextSize,
	}
}

// ProcessCommand runs one free-text command through translation, safety
// validation and the confirmation gate. Rejections and cancellations are
// terminal here; a Ready outcome carries the action for the caller to
// execute, followed by RecordExecution.
func (i *Interpreter) ProcessCommand(ctx context.Context, command string) Outcome {
	trace := uuid.NewString()
	command = strings.TrimSpace(command)

	i.record(auditlog.Entry{TraceID: trace, Event: auditlog.EventCommand, Detail: command})
	i.log.Info("processing command", zap.String("trace_id", trace), zap.String("command", command))

	a, err := i.translator.Translate(ctx, command, i.buildContext())
	if err != nil {
		i.record(auditlog.Entry{TraceID: trace, Event: auditlog.EventTranslation, Detail: err.Error(), OK: auditlog.Bool(false)})
		i.remember(command, action.KindError, "", false, "translation failed")
		return Outcome{TraceID: trace, Message: "Failed to interpret command"}
	}
	i.record(auditlog.Entry{TraceID: trace, Event: auditlog.EventTranslation, Kind: string(a.Kind()), Detail: a.Details(), OK: auditlog.Bool(true)})

	// The model can decline on its own; explain instead of executing.
	if fault, ok := a.(action.Fault); ok {
		message := i.translator.Clarify(ctx, command, fault.Message)
		i.remember(command, action.KindError, fault.Metadata().Reasoning, false, fault.Message)
		return Outcome{TraceID: trace, Message: message}
	}

	verdict := i.checker.Validate(a)
	i.record(auditlog.Entry{TraceID: trace, Event: auditlog.EventSafetyCheck, Kind: string(a.Kind()), Detail: verdict.Reason, OK: auditlog.Bool(verdict.Safe)})
	if !verdict.Safe {
		message := i.translator.Clarify(ctx, command, verdict.Reason)
		i.remember(command, a.Kind(), a.Metadata().Reasoning, false, verdict.Reason)
		return Outcome{TraceID: trace, Action: a, Message: message}
	}

	if i.checker.RequiresConfirmation(a) {
		approved := i.confirm != nil && i.confirm(a, confirmationPrompt(a))
		i.record(auditlog.Entry{TraceID: trace, Event: auditlog.EventConfirmation, Kind: string(a.Kind()), OK: auditlog.Bool(approved)})
		if !approved {
			i.remember(command, a.Kind(), a.Metadata().Reasoning, false, "cancelled")
			return Outcome{TraceID: trace, Action: a, Message: "Action cancelled by user"}
		}
	}

	return Outcome{TraceID: trace, Ready: true, Action: a, Message: "Command interpreted successfully: " + a.Metadata().Reasoning}
}

// RecordExecution stores the execution result of a Ready action: the audit
// line, the history entry and the context for the next translation.
func (i *Interpreter) RecordExecution(trace, command string, a action.Action, ok bool, message string) {
	i.record(auditlog.Entry{TraceID: trace, Event: auditlog.EventExecution, Kind: string(a.Kind()), Detail: message, OK: auditlog.Bool(ok)})
	i.remember(command, a.Kind(), a.Metadata().Reasoning, ok, message)
	if ok {
		i.mu.Lock()
		i.last = a
		i.mu.Unlock()
	}
}

func confirmationPrompt(a action.Action) string {
	return fmt.Sprintf("About to perform: %s (%s)", a.Kind(), a.Details())
}

// buildContext assembles the advisory hints sent with each translation:
// recent commands, the last executed action and ambient platform facts.
func (i *Interpreter) buildContext() map[string]any {
	i.mu.Lock()
	recent := make([]map[string]string, 0, i.contextSize)
	start := len(i.history) - i.contextSize
	if start < 0 {
		start = 0
	}
	for _, entry := range i.history[start:] {
		recent = append(recent, map[string]string{
			"command":   entry.Command,
			"action":    string(entry.Kind),
			"reasoning": entry.Reasoning,
		})
	}
	last := i.last
	i.mu.Unlock()

	hints := map[string]any{
		"platform": runtime.GOOS,
	}
	if len(recent) > 0 {
		hints["recent_commands"] = recent
	}
	if last != nil {
		hints["last_action"] = string(last.Kind())
	}
	if cwd, err := os.Getwd(); err == nil {
		hints["working_directory"] = cwd
	}
	if home, err := os.UserHomeDir(); err == nil {
		hints["home_directory"] = home
	}
	return hints
}

// remember appends one entry to the session ring buffer, evicting the
// oldest entry when full.
func (i *Interpreter) remember(command string, kind action.Kind, reasoning string, ok bool, message string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.history = append(i.history, HistoryEntry{
		Command:   command,
		Kind:      kind,
		Reasoning: reasoning,
		OK:        ok,
		Message:   message,
		Timestamp: time.Now(),
	})
	if len(i.history) > i.historySize {
		i.history = i.history[len(i.history)-i.historySize:]
	}
}

// History returns a copy of the session ring buffer, oldest first.
func (i *Interpreter) History() []HistoryEntry {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]HistoryEntry, len(i.history))
	copy(out, i.history)
	return out
}

// ClearHistory drops session memory, including the last-action context.
func (i *Interpreter) ClearHistory() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.history = nil
	i.last = nil
}

func (i *Interpreter) record(entry auditlog.Entry) {
	if i.audit == nil {
		return
	}
	if err := i.audit.Record(entry); err != nil {
		i.log.Warn("audit record failed", zap.Error(err))
	}
}
