// Package executor performs the OS-level effect for a single validated
// action and reports the outcome. Every failure path becomes a Result; no
// error or panic crosses its boundary.
package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"deskagent/internal/action"
)

// previewLimit is the cap on file content returned to the caller.
const previewLimit = 1000

// Result is the outcome of one execution.
type Result struct {
	OK      bool
	Message string
}

func success(format string, args ...any) Result {
	return Result{OK: true, Message: fmt.Sprintf(format, args...)}
}

func failure(format string, args ...any) Result {
	return Result{OK: false, Message: fmt.Sprintf(format, args...)}
}

// Executor maps validated actions to OS effects. It tracks every process it
// spawned so Cleanup can release them.
type Executor struct {
	input   Input
	procs   ProcessManager
	maxWait float64 // wait action ceiling in seconds
	log     *zap.Logger

	mu      sync.Mutex
	spawned map[string]int // app name -> pid
}

// New creates an Executor with the given drivers. maxWaitSeconds is the
// ceiling a single wait action may sleep.
func New(input Input, procs ProcessManager, maxWaitSeconds float64, log *zap.Logger) *Executor {
	return &Executor{
		input:   input,
		procs:   procs,
		maxWait: maxWaitSeconds,
		log:     log,
		spawned: make(map[string]int),
	}
}

// Execute performs the action's OS effect. The action is only read, never
// mutated. Panics from drivers are converted to failed results.
func (e *Executor) Execute(ctx context.Context, a action.Action) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("driver panic during execution",
				zap.String("kind", string(a.Kind())),
				zap.Any("panic", r))
			result = failure("action execution failed: %v", r)
		}
	}()

	switch v := a.(type) {
	case action.Click:
		result = e.executeClick(v)
	case action.TypeText:
		result = e.executeType(v)
	case action.KeyPress:
		result = e.executeKeyPress(v)
	case action.OpenApp:
		result = e.executeOpenApp(v)
	case action.CloseApp:
		result = e.executeCloseApp(v)
	case action.FileRead:
		result = e.executeFileRead(v)
	case action.FileWrite:
		result = e.executeFileWrite(v)
	case action.MouseMove:
		result = e.executeMouseMove(v)
	case action.Scroll:
		result = e.executeScroll(v)
	case action.Wait:
		result = e.executeWait(ctx, v)
	default:
		result = failure("unknown action type: %s", a.Kind())
	}

	if result.OK {
		e.log.Info("action executed",
			zap.String("kind", string(a.Kind())),
			zap.String("result", result.Message))
	} else {
		e.log.Warn("action failed",
			zap.String("kind", string(a.Kind())),
			zap.String("result", result.Message))
	}
	return result
}

func (e *Executor) executeClick(a action.Click) Result {
	if !e.input.Available() {
		return failure("input driver not available")
	}

	// Safety already range-checked; re-check against the real screen.
	width, height := e.input.ScreenSize()
	if a.X < 0 || a.X > width || a.Y < 0 || a.Y > height {
		return failure("coordinates (%d, %d) are outside screen bounds", a.X, a.Y)
	}

	if err := e.input.Click(a.X, a.Y, a.Button, a.Clicks); err != nil {
		return failure("click failed: %v", err)
	}
	return success("Clicked at (%d, %d)", a.X, a.Y)
}

func (e *Executor) executeType(a action.TypeText) Result {
	if !e.input.Available() {
		return failure("input driver not available")
	}

	// Per-character injection with a small delay emulates human typing and
	// avoids input-buffer loss in target applications.
	interval := time.Duration(a.Interval * float64(time.Second))
	count := 0
	for _, ch := range a.Text {
		if err := e.input.TypeChar(ch); err != nil {
			return failure("type failed after %d characters: %v", count, err)
		}
		count++
		if interval > 0 {
			time.Sleep(interval)
		}
	}
	return success("Typed %d characters", count)
}

func (e *Executor) executeKeyPress(a action.KeyPress) Result {
	if !e.input.Available() {
		return failure("input driver not available")
	}

	key := strings.TrimSpace(a.Key)
	var err error
	if strings.Contains(key, "+") {
		parts := strings.Split(key, "+")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		// Last part is the key, the rest are held modifiers.
		err = e.input.KeyTap(parts[len(parts)-1], parts[:len(parts)-1]...)
	} else {
		err = e.input.KeyTap(key)
	}
	if err != nil {
		return failure("key press failed: %v", err)
	}
	return success("Pressed key: %s", a.Key)
}

func (e *Executor) executeOpenApp(a action.OpenApp) Result {
	var pid int
	var err error
	if runtime.GOOS == "windows" {
		pid, err = e.launchWindows(a.AppName)
	} else {
		pid, err = e.launchUnix(a.AppName)
	}
	if err != nil {
		return failure("%v", err)
	}

	e.mu.Lock()
	e.spawned[a.AppName] = pid
	e.mu.Unlock()

	return success("Launched %s", a.AppName)
}

// launchWindows walks the common installation roots and stops at the first
// path that spawns.
func (e *Executor) launchWindows(appName string) (int, error) {
	candidates := []string{
		appName,
		filepath.Join(`C:\Program Files`, appName),
		filepath.Join(`C:\Program Files (x86)`, appName),
		filepath.Join(`C:\Windows\System32`, appName),
	}
	for _, candidate := range candidates {
		pid, err := e.procs.Start(candidate)
		if err == nil {
			return pid, nil
		}
	}
	return 0, fmt.Errorf("could not find application: %s", appName)
}

func (e *Executor) launchUnix(appName string) (int, error) {
	// A trailing .exe is a cross-platform command from the model.
	name := strings.TrimSuffix(appName, ".exe")
	pid, err := e.procs.Start(name)
	if err != nil {
		return 0, fmt.Errorf("application not found: %s", name)
	}
	return pid, nil
}

func (e *Executor) executeCloseApp(a action.CloseApp) Result {
	terminated, err := e.procs.TerminateMatching(a.AppName)
	if err != nil {
		return failure("app close failed: %v", err)
	}
	if terminated == 0 {
		return failure("No running instances of %s found", a.AppName)
	}
	return success("Terminated %d instance(s) of %s", terminated, a.AppName)
}

func (e *Executor) executeFileRead(a action.FileRead) Result {
	data, err := os.ReadFile(a.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return failure("File does not exist: %s", a.FilePath)
		}
		return failure("file read failed: %v", err)
	}

	// Lenient decoding: drop invalid byte sequences rather than failing.
	content := strings.ToValidUTF8(string(data), "")

	preview := []rune(content)
	if len(preview) > previewLimit {
		return success("File content:\n%s... (truncated)", string(preview[:previewLimit]))
	}
	return success("File content:\n%s", content)
}

func (e *Executor) executeFileWrite(a action.FileWrite) Result {
	if err := os.MkdirAll(filepath.Dir(a.FilePath), 0o755); err != nil {
		return failure("file write failed: %v", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if a.Append() {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(a.FilePath, flags, 0o644)
	if err != nil {
		return failure("file write failed: %v", err)
	}
	defer f.Close()

	if _, err := f.WriteString(a.Content); err != nil {
		return failure("file write failed: %v", err)
	}
	return success("Successfully wrote %d characters to %s", len([]rune(a.Content)), a.FilePath)
}

func (e *Executor) executeMouseMove(a action.MouseMove) Result {
	if !e.input.Available() {
		return failure("input driver not available")
	}

	width, height := e.input.ScreenSize()
	if a.X < 0 || a.X > width || a.Y < 0 || a.Y > height {
		return failure("coordinates (%d, %d) are outside screen bounds", a.X, a.Y)
	}

	e.input.Move(a.X, a.Y, a.Duration)
	return success("Moved mouse to (%d, %d)", a.X, a.Y)
}

func (e *Executor) executeScroll(a action.Scroll) Result {
	if !e.input.Available() {
		return failure("input driver not available")
	}

	amount := a.Clicks
	if !strings.EqualFold(a.Direction, "up") {
		amount = -amount
	}

	if err := e.input.Scroll(amount, a.X, a.Y); err != nil {
		return failure("scroll failed: %v", err)
	}
	return success("Scrolled %s %d clicks", a.Direction, a.Clicks)
}

func (e *Executor) executeWait(ctx context.Context, a action.Wait) Result {
	if a.Seconds > e.maxWait {
		return failure("Wait time too long (max %g seconds)", e.maxWait)
	}
	if a.Seconds < 0 {
		return failure("wait time cannot be negative")
	}

	select {
	case <-time.After(time.Duration(a.Seconds * float64(time.Second))):
		return success("Waited for %g seconds", a.Seconds)
	case <-ctx.Done():
		return failure("wait interrupted: %v", ctx.Err())
	}
}

// ScreenInfo is ambient display state for the status display.
type ScreenInfo struct {
	Available bool
	Width     int
	Height    int
	MouseX    int
	MouseY    int
}

// Screen reports display dimensions and pointer position when the input
// driver is available.
func (e *Executor) Screen() ScreenInfo {
	if !e.input.Available() {
		return ScreenInfo{}
	}
	width, height := e.input.ScreenSize()
	x, y := e.input.MousePosition()
	return ScreenInfo{Available: true, Width: width, Height: height, MouseX: x, MouseY: y}
}

// Cleanup terminates every process this executor spawned and still tracks,
// returning how many were terminated. Best-effort: individual failures are
// logged, not returned.
func (e *Executor) Cleanup() int {
	e.mu.Lock()
	tracked := make(map[string]int, len(e.spawned))
	for name, pid := range e.spawned {
		tracked[name] = pid
	}
	e.spawned = make(map[string]int)
	e.mu.Unlock()

	terminated := 0
	for name, pid := range tracked {
		if !e.procs.Exists(pid) {
			continue
		}
		if err := e.procs.Terminate(pid); err != nil {
			e.log.Warn("cleanup failed to terminate process",
				zap.String("app", name),
				zap.Int("pid", pid),
				zap.Error(err))
			continue
		}
		terminated++
		e.log.Info("cleanup terminated process",
			zap.String("app", name),
			zap.Int("pid", pid))
	}
	return terminated
}
