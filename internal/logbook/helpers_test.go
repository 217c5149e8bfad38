package logbook

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iz2uqf/hamlog/internal/store"
	"github.com/iz2uqf/hamlog/internal/testutil"
)

var fixedNow = time.Date(2023, 7, 5, 8, 0, 0, 0, time.UTC)

// newTestEngine opens an engine on a fresh database in a temp dir, with its
// clock stopped at fixedNow.
func newTestEngine(t *testing.T, fields Fields) *Engine {
	t.Helper()
	return newTestEngineWith(t, fields, Options{Now: testutil.NewClock(fixedNow).Now})
}

func newTestEngineWith(t *testing.T, fields Fields, opts Options) *Engine {
	t.Helper()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	e, err := Open(filepath.Join(t.TempDir(), "test.db"), fields, opts)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

// newTestLog creates a log and returns its id.
func newTestLog(t *testing.T, e *Engine) int64 {
	t.Helper()
	l, err := e.AddLog(context.Background(), "test", "")
	require.NoError(t, err)
	return l.ID
}

// sampleRecord is a minimal valid contact.
func sampleRecord() map[string]string {
	return map[string]string{
		"qso_date":         "20230704",
		"time_on":          "1230",
		"call":             "W1AW",
		"freq":             "14.250",
		"mode":             "SSB",
		"station_callsign": "IZ2UQF",
		"my_gridsquare":    "JN45",
	}
}

func countRows(t *testing.T, e *Engine, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, e.st.DB().QueryRow(query, args...).Scan(&n))
	return n
}

func attrsOf(t *testing.T, e *Engine, key string, logID int64) map[string]store.Attr {
	t.Helper()
	q, err := e.st.GetQSO(context.Background(), key, logID)
	require.NoError(t, err)
	out := make(map[string]store.Attr, len(q.Attrs))
	for _, a := range q.Attrs {
		out[a.Name] = a
	}
	return out
}
