package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temporary directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestLog inserts a log and returns its id.
func createTestLog(t *testing.T, s *Store) int64 {
	t.Helper()
	l, err := s.AddLog(context.Background(), "test", "test log")
	if err != nil {
		t.Fatalf("AddLog() failed: %v", err)
	}
	return l.ID
}

// createTestQSO builds a QSO with the header columns filled in.
func createTestQSO(key string, logID int64, attrs ...Attr) QSO {
	return QSO{
		Key:          key,
		LogID:        logID,
		Call:         "W1AW",
		Freq:         "14.250",
		Mode:         "SSB",
		Operator:     "IZ2UQF",
		MyGridsquare: "JN45",
		Attrs:        attrs,
	}
}

func countRows(t *testing.T, s *Store, query string, args ...any) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}
