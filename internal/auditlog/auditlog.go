// Package auditlog persists one line per pipeline event to an append-only
// log file. Every rejection, confirmation outcome, and execution result is
// recorded with its category and a per-command trace ID.
package auditlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// timeLayout is the leading timestamp format on every line.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Entry is one line in the audit log.
type Entry struct {
	Timestamp string `json:"ts"`
	TraceID   string `json:"trace_id,omitempty"`
	Event     string `json:"event"`
	Kind      string `json:"kind,omitempty"`
	Detail    string `json:"detail,omitempty"`
	OK        *bool  `json:"ok,omitempty"`
}

// Event categories.
const (
	EventCommand      = "command"
	EventTranslation  = "translation"
	EventSafetyCheck  = "safety_check"
	EventConfirmation = "confirmation"
	EventExecution    = "execution"
	EventCleanup      = "cleanup"
	EventSession      = "session"
)

// Log is a mutex-guarded append-only line log.
type Log struct {
	path string
	file *os.File
	mu   sync.Mutex
	now  func() time.Time
}

// Open creates the log directory if needed and opens the log file for
// appending. A directory that cannot be created is a fatal startup
// condition for the caller.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("auditlog: create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("auditlog: open file: %w", err)
	}

	return &Log{path: path, file: file, now: time.Now}, nil
}

// Record appends an entry, stamping it with the current UTC time.
func (l *Log) Record(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp == "" {
		entry.Timestamp = l.now().UTC().Format(timeLayout)
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("auditlog: marshal entry: %w", err)
	}
	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("auditlog: write entry: %w", err)
	}
	return nil
}

// Bool is a convenience for Entry.OK.
func Bool(v bool) *bool { return &v }

// Tail returns the last n raw lines of the log.
func (l *Log) Tail(n int) (string, error) {
	lines, err := l.readLines()
	if err != nil {
		return "", err
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n"), nil
}

// ExportSession returns every line whose timestamp is at or after the given
// session start. Lines that do not parse are skipped.
func (l *Log) ExportSession(since time.Time) (string, error) {
	lines, err := l.readLines()
	if err != nil {
		return "", err
	}

	cutoff := since.UTC().Truncate(time.Millisecond)
	var out []string
	for _, line := range lines {
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		ts, err := time.Parse(timeLayout, entry.Timestamp)
		if err != nil {
			continue
		}
		if !ts.Before(cutoff) {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n"), nil
}

// Path returns the log file path.
func (l *Log) Path() string { return l.path }

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

func (l *Log) readLines() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("auditlog: read log: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("auditlog: scan log: %w", err)
	}
	return lines, nil
}
