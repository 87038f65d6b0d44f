package experiment

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/edakit/pkg/errors"
	"github.com/YuminosukeSato/edakit/pkg/log"
)

var start = time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC)

func newTestExperiment(t *testing.T) (*Experiment, *log.TestLogger) {
	t.Helper()
	logger, _ := log.NewTestLogger(log.LevelDebug)
	e, err := New("heartbeat", t.TempDir(),
		WithClock(func() time.Time { return start }),
		WithLogger(logger),
		WithTick(time.Millisecond))
	require.NoError(t, err)
	return e, logger
}

func logLines(t *testing.T, e *Experiment) []string {
	t.Helper()
	c, err := e.Contents()
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(c, "\n"), "\n")
}

func TestNewCreatesLog(t *testing.T) {
	e, logger := newTestExperiment(t)

	assert.Equal(t, "heartbeat_20240501_093015.txt", filepath.Base(e.Path()))
	assert.Equal(t, []string{"[09:30:15] Experiment started: heartbeat at 09:30:15"}, logLines(t, e))
	assert.True(t, logger.ContainsField(log.RunIDKey, e.RunID.String()))
	assert.True(t, logger.ContainsField(log.ExperimentKey, "heartbeat"))
}

func TestNewRejectsEmptyName(t *testing.T) {
	_, err := New("", t.TempDir())
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestLogEventAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.txt")
	require.NoError(t, LogEvent(path, "first", start))
	require.NoError(t, LogEvent(path, "second", start.Add(90*time.Second)))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[09:30:15] first\n[09:31:45] second\n", string(b))
}

func TestCountdown(t *testing.T) {
	e, _ := newTestExperiment(t)
	var out bytes.Buffer

	require.NoError(t, e.Countdown(context.Background(), 2, "Rest", &out))

	assert.Contains(t, out.String(), "Rest: 2 seconds remaining\r")
	assert.Contains(t, out.String(), "Rest: 1 seconds remaining\r")
	lines := logLines(t, e)
	assert.Equal(t, []string{
		"[09:30:15] Experiment started: heartbeat at 09:30:15",
		"[09:30:15] Rest started (2 seconds)",
		"[09:30:15] Rest ended",
	}, lines)
}

func TestCountdownCancelled(t *testing.T) {
	e, _ := newTestExperiment(t)
	e.tick = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Countdown(ctx, 5, "", &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	lines := logLines(t, e)
	assert.Equal(t, "[09:30:15] Countdown cancelled", lines[len(lines)-1])
}

func TestAskConfirm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    bool
		logLine string
		printed string
	}{
		{"yes", "y\n", true, "[09:30:15] Baseline | Response: Yes", "✔️ Response recorded: Yes"},
		{"no after retry", "maybe\nNo\n", false, "[09:30:15] Baseline | Response: No", "❌ Response recorded: No"},
		{"yes without newline", "YES", true, "[09:30:15] Baseline | Response: Yes", "Response recorded: Yes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestExperiment(t)
			var out bytes.Buffer
			got, err := e.AskConfirm("Is the sensor attached?", "Baseline", strings.NewReader(tt.input), &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), tt.printed)
			lines := logLines(t, e)
			assert.Equal(t, tt.logLine, lines[len(lines)-1])
		})
	}
}

func TestAskConfirmEOF(t *testing.T) {
	e, _ := newTestExperiment(t)
	_, err := e.AskConfirm("Ready?", "Start", strings.NewReader("what\n"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Len(t, logLines(t, e), 1)
}

func TestRecordNote(t *testing.T) {
	e, _ := newTestExperiment(t)
	var out bytes.Buffer

	note, err := e.RecordNote("", strings.NewReader("  subject moved  \nsecond line\n\nignored\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "subject moved second line", note)
	assert.Contains(t, out.String(), "Enter any notes you'd like to record:")
	assert.Contains(t, out.String(), "📝 Note recorded.")

	lines := logLines(t, e)
	assert.Equal(t, "[09:30:15] Note: subject moved second line", lines[len(lines)-1])
}
