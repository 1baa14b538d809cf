package auditlog

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	log, err := Open(filepath.Join(t.TempDir(), "logs", "agent.log"))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestRecord_AppendsTimestampedJSONLines(t *testing.T) {
	log := openTestLog(t)

	require.NoError(t, log.Record(Entry{Event: EventCommand, Detail: "open notepad", TraceID: "t1"}))
	require.NoError(t, log.Record(Entry{Event: EventSafetyCheck, Kind: "open_app", OK: Bool(true)}))

	tail, err := log.Tail(10)
	require.NoError(t, err)

	lines := strings.Split(tail, "\n")
	require.Len(t, lines, 2)

	var entry Entry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, EventCommand, entry.Event)
	assert.Equal(t, "t1", entry.TraceID)

	_, err = time.Parse("2006-01-02T15:04:05.000Z", entry.Timestamp)
	assert.NoError(t, err, "every line leads with a parseable timestamp")
}

func TestTail_ReturnsLastN(t *testing.T) {
	log := openTestLog(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Record(Entry{Event: EventCommand, Detail: string(rune('a' + i))}))
	}

	tail, err := log.Tail(2)
	require.NoError(t, err)

	lines := strings.Split(tail, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"d"`)
	assert.Contains(t, lines[1], `"e"`)
}

func TestExportSession_FiltersByTimestamp(t *testing.T) {
	log := openTestLog(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	log.now = func() time.Time { return clock }

	require.NoError(t, log.Record(Entry{Event: EventCommand, Detail: "before"}))

	clock = base.Add(10 * time.Minute)
	require.NoError(t, log.Record(Entry{Event: EventCommand, Detail: "during"}))
	require.NoError(t, log.Record(Entry{Event: EventExecution, Detail: "also during"}))

	export, err := log.ExportSession(base.Add(5 * time.Minute))
	require.NoError(t, err)

	assert.NotContains(t, export, "before")
	assert.Contains(t, export, "during")
	assert.Contains(t, export, "also during")
	assert.Len(t, strings.Split(export, "\n"), 2)
}

func TestOpen_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(filepath.Join(dir, "nested", "logs", "agent.log"))
	require.NoError(t, err)
	defer log.Close()

	require.NoError(t, log.Record(Entry{Event: EventSession, Detail: "started"}))
}
