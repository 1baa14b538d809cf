// Package action defines the closed set of desktop actions the agent can
// perform. Actions are immutable value objects produced by the translation
// layer and consumed once by the safety checker and the executor.
package action

import "fmt"

// Kind identifies an action variant.
type Kind string

const (
	KindClick     Kind = "click"
	KindType      Kind = "type"
	KindKeyPress  Kind = "key_press"
	KindOpenApp   Kind = "open_app"
	KindCloseApp  Kind = "close_app"
	KindFileRead  Kind = "file_read"
	KindFileWrite Kind = "file_write"
	KindMouseMove Kind = "mouse_move"
	KindScroll    Kind = "scroll"
	KindWait      Kind = "wait"
	KindError     Kind = "error"
)

// Meta is the metadata every translated action carries: the model's
// explanation for choosing it and its confidence in [0, 1].
type Meta struct {
	Reasoning  string  `mapstructure:"reasoning"`
	Confidence float64 `mapstructure:"confidence"`
}

// Metadata implements Action for every variant that embeds Meta.
func (m Meta) Metadata() Meta { return m }

// Action is the tagged variant consumed by the safety checker and executor.
// Implementations are the structs in this package and nothing else.
type Action interface {
	Kind() Kind
	Metadata() Meta

	// Details returns a short human-readable summary for confirmation
	// prompts and audit entries.
	Details() string
}

// Click presses a mouse button at screen coordinates.
type Click struct {
	Meta   `mapstructure:",squash"`
	X      int    `mapstructure:"x"`
	Y      int    `mapstructure:"y"`
	Button string `mapstructure:"button"`
	Clicks int    `mapstructure:"clicks"`
}

func (a Click) Kind() Kind { return KindClick }
func (a Click) Details() string {
	return fmt.Sprintf("Click at (%d, %d)", a.X, a.Y)
}

// TypeText injects literal text as keystrokes.
type TypeText struct {
	Meta     `mapstructure:",squash"`
	Text     string  `mapstructure:"text"`
	Interval float64 `mapstructure:"interval"`
}

func (a TypeText) Kind() Kind { return KindType }
func (a TypeText) Details() string {
	text := a.Text
	if len(text) > 50 {
		text = text[:47] + "..."
	}
	return fmt.Sprintf("Type: %q", text)
}

// KeyPress dispatches a single key or a '+'-joined combination.
type KeyPress struct {
	Meta `mapstructure:",squash"`
	Key  string `mapstructure:"key"`
}

func (a KeyPress) Kind() Kind { return KindKeyPress }
func (a KeyPress) Details() string {
	return fmt.Sprintf("Press key: %s", a.Key)
}

// OpenApp launches an application by name.
type OpenApp struct {
	Meta    `mapstructure:",squash"`
	AppName string `mapstructure:"app_name"`
}

func (a OpenApp) Kind() Kind { return KindOpenApp }
func (a OpenApp) Details() string {
	return fmt.Sprintf("Open application: %s", a.AppName)
}

// CloseApp terminates running processes matching a name.
type CloseApp struct {
	Meta    `mapstructure:",squash"`
	AppName string `mapstructure:"app_name"`
}

func (a CloseApp) Kind() Kind { return KindCloseApp }
func (a CloseApp) Details() string {
	return fmt.Sprintf("Close application: %s", a.AppName)
}

// FileRead reads a file and returns a bounded preview of its content.
type FileRead struct {
	Meta     `mapstructure:",squash"`
	FilePath string `mapstructure:"file_path"`
}

func (a FileRead) Kind() Kind { return KindFileRead }
func (a FileRead) Details() string {
	return fmt.Sprintf("Read file: %s", a.FilePath)
}

// FileWrite writes or appends content to a file.
type FileWrite struct {
	Meta     `mapstructure:",squash"`
	FilePath string `mapstructure:"file_path"`
	Content  string `mapstructure:"content"`
	Mode     string `mapstructure:"mode"`
}

func (a FileWrite) Kind() Kind { return KindFileWrite }
func (a FileWrite) Details() string {
	return fmt.Sprintf("Write to file: %s", a.FilePath)
}

// Append reports whether the write should append instead of truncate.
func (a FileWrite) Append() bool {
	return a.Mode == "a" || a.Mode == "append"
}

// MouseMove moves the pointer to screen coordinates.
type MouseMove struct {
	Meta     `mapstructure:",squash"`
	X        int     `mapstructure:"x"`
	Y        int     `mapstructure:"y"`
	Duration float64 `mapstructure:"duration"`
}

func (a MouseMove) Kind() Kind { return KindMouseMove }
func (a MouseMove) Details() string {
	return fmt.Sprintf("Move mouse to (%d, %d)", a.X, a.Y)
}

// Scroll scrolls the wheel, optionally pinned to screen coordinates.
type Scroll struct {
	Meta      `mapstructure:",squash"`
	Direction string `mapstructure:"direction"`
	Clicks    int    `mapstructure:"clicks"`
	X         *int   `mapstructure:"x"`
	Y         *int   `mapstructure:"y"`
}

func (a Scroll) Kind() Kind { return KindScroll }
func (a Scroll) Details() string {
	return fmt.Sprintf("Scroll %s %d clicks", a.Direction, a.Clicks)
}

// Wait sleeps for a bounded number of seconds.
type Wait struct {
	Meta    `mapstructure:",squash"`
	Seconds float64 `mapstructure:"seconds"`
}

func (a Wait) Kind() Kind { return KindWait }
func (a Wait) Details() string {
	return fmt.Sprintf("Wait for %g seconds", a.Seconds)
}

// Fault is the model's structured refusal: the command could not be turned
// into an executable action. It never reaches the executor.
type Fault struct {
	Meta    `mapstructure:",squash"`
	Message string `mapstructure:"error"`
}

func (a Fault) Kind() Kind { return KindError }
func (a Fault) Details() string {
	return fmt.Sprintf("Error: %s", a.Message)
}

// ShellExec represents a process-execution kind the model was never offered
// but may still emit (shell, execute, run_command). It is recognized so the
// safety checker can reject it by category rather than by malformed shape.
type ShellExec struct {
	Meta    `mapstructure:",squash"`
	RawKind string
}

func (a ShellExec) Kind() Kind { return Kind(a.RawKind) }
func (a ShellExec) Details() string {
	return fmt.Sprintf("Execute shell command (%s)", a.RawKind)
}

// FilePath returns the file path an action targets, if any. The safety
// checker uses it for sensitive-location confirmation checks.
func FilePath(a Action) string {
	switch v := a.(type) {
	case FileRead:
		return v.FilePath
	case FileWrite:
		return v.FilePath
	default:
		return ""
	}
}
