package store

import (
	"context"
	"testing"
)

func TestAddLog_AssignsIncreasingIDs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.AddLog(ctx, "field day", "2023 field day")
	if err != nil {
		t.Fatalf("AddLog() failed: %v", err)
	}
	second, err := s.AddLog(ctx, "contest", "")
	if err != nil {
		t.Fatalf("AddLog() failed: %v", err)
	}

	if first.ID <= 0 {
		t.Errorf("first id = %d, want > 0", first.ID)
	}
	if second.ID <= first.ID {
		t.Errorf("second id = %d, want > %d", second.ID, first.ID)
	}
	if first.Name != "field day" || first.Description != "2023 field day" {
		t.Errorf("unexpected log %+v", first)
	}
}

func TestReplaceQSO_InsertsHeaderAndAttrs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	logID := createTestLog(t, s)

	q := createTestQSO("2023-07-04 12:30:00", logID,
		Attr{Name: "call", Value: "W1AW"},
		Attr{Name: "rst_sent", Value: "59"},
		Attr{Name: "app_hamlog_note", Value: "hi", AppDefined: true},
	)
	if err := s.ReplaceQSO(ctx, q); err != nil {
		t.Fatalf("ReplaceQSO() failed: %v", err)
	}

	var call, freq, mode, operator, grid string
	err := s.db.QueryRow(`
		SELECT call, freq, mode, operator, my_gridsquare
		FROM qso WHERE id_qso = ? AND id_log = ?
	`, q.Key, logID).Scan(&call, &freq, &mode, &operator, &grid)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if call != "W1AW" || freq != "14.250" || mode != "SSB" || operator != "IZ2UQF" || grid != "JN45" {
		t.Errorf("header = %s %s %s %s %s", call, freq, mode, operator, grid)
	}

	if n := countRows(t, s, "SELECT COUNT(*) FROM qso_attrs WHERE id_qso = ? AND id_log = ?", q.Key, logID); n != 3 {
		t.Errorf("attr rows = %d, want 3", n)
	}

	var appDefined bool
	err = s.db.QueryRow(`
		SELECT is_app_defined FROM qso_attrs
		WHERE id_qso = ? AND id_log = ? AND field_name = 'app_hamlog_note'
	`, q.Key, logID).Scan(&appDefined)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !appDefined {
		t.Error("app_hamlog_note should be flagged application-defined")
	}
}

func TestReplaceQSO_FullReplace(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	logID := createTestLog(t, s)
	key := "2023-07-04 12:30:00"

	first := createTestQSO(key, logID,
		Attr{Name: "call", Value: "W1AW"},
		Attr{Name: "rst_sent", Value: "59"},
		Attr{Name: "comment", Value: "first"},
	)
	if err := s.ReplaceQSO(ctx, first); err != nil {
		t.Fatalf("first ReplaceQSO() failed: %v", err)
	}

	second := createTestQSO(key, logID, Attr{Name: "call", Value: "W1AW"})
	second.Mode = "CW"
	if err := s.ReplaceQSO(ctx, second); err != nil {
		t.Fatalf("second ReplaceQSO() failed: %v", err)
	}

	if n := countRows(t, s, "SELECT COUNT(*) FROM qso WHERE id_qso = ? AND id_log = ?", key, logID); n != 1 {
		t.Errorf("header rows = %d, want 1", n)
	}

	got, err := s.GetQSO(ctx, key, logID)
	if err != nil {
		t.Fatalf("GetQSO() failed: %v", err)
	}
	if got.Mode != "CW" {
		t.Errorf("mode = %q, want CW", got.Mode)
	}
	if len(got.Attrs) != 1 || got.Attrs[0].Name != "call" {
		t.Errorf("attrs = %+v, want only call", got.Attrs)
	}
}

func TestReplaceQSO_UnknownLogRollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	q := createTestQSO("2023-07-04 12:30:00", 999, Attr{Name: "call", Value: "W1AW"})
	if err := s.ReplaceQSO(ctx, q); err == nil {
		t.Fatal("expected foreign key error for unknown log")
	}

	if n := countRows(t, s, "SELECT COUNT(*) FROM qso"); n != 0 {
		t.Errorf("qso rows = %d, want 0", n)
	}
	if n := countRows(t, s, "SELECT COUNT(*) FROM qso_attrs"); n != 0 {
		t.Errorf("attr rows = %d, want 0", n)
	}
}

func TestReplaceQSO_DuplicateAttrRollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	logID := createTestLog(t, s)
	key := "2023-07-04 12:30:00"

	original := createTestQSO(key, logID, Attr{Name: "comment", Value: "keep me"})
	if err := s.ReplaceQSO(ctx, original); err != nil {
		t.Fatalf("ReplaceQSO() failed: %v", err)
	}

	// Two rows with the same field name violate the attrs primary key mid-transaction.
	bad := createTestQSO(key, logID,
		Attr{Name: "comment", Value: "a"},
		Attr{Name: "comment", Value: "b"},
	)
	bad.Mode = "FT8"
	if err := s.ReplaceQSO(ctx, bad); err == nil {
		t.Fatal("expected constraint error")
	}

	got, err := s.GetQSO(ctx, key, logID)
	if err != nil {
		t.Fatalf("GetQSO() failed: %v", err)
	}
	if got.Mode != "SSB" {
		t.Errorf("mode = %q, want original SSB after rollback", got.Mode)
	}
	if len(got.Attrs) != 1 || got.Attrs[0].Value != "keep me" {
		t.Errorf("attrs = %+v, want original set after rollback", got.Attrs)
	}
}

func TestDeleteQSO_RemovesAllRows(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	logID := createTestLog(t, s)

	keep := createTestQSO("2023-07-04 12:31:00", logID, Attr{Name: "call", Value: "K1ABC"})
	drop := createTestQSO("2023-07-04 12:30:00", logID, Attr{Name: "call", Value: "W1AW"})
	for _, q := range []QSO{keep, drop} {
		if err := s.ReplaceQSO(ctx, q); err != nil {
			t.Fatalf("ReplaceQSO() failed: %v", err)
		}
	}
	if _, err := s.db.Exec("INSERT INTO qsl (id_qso, id_log, sent) VALUES (?, ?, 'Y')", drop.Key, logID); err != nil {
		t.Fatalf("insert qsl failed: %v", err)
	}

	if err := s.DeleteQSO(ctx, drop.Key, logID); err != nil {
		t.Fatalf("DeleteQSO() failed: %v", err)
	}

	exists, err := s.QSOExists(ctx, drop.Key, logID)
	if err != nil {
		t.Fatalf("QSOExists() failed: %v", err)
	}
	if exists {
		t.Error("deleted QSO still exists")
	}
	if n := countRows(t, s, "SELECT COUNT(*) FROM qso_attrs WHERE id_qso = ?", drop.Key); n != 0 {
		t.Errorf("attr rows = %d, want 0", n)
	}
	if n := countRows(t, s, "SELECT COUNT(*) FROM qsl WHERE id_qso = ?", drop.Key); n != 0 {
		t.Errorf("qsl rows = %d, want 0", n)
	}

	exists, err = s.QSOExists(ctx, keep.Key, logID)
	if err != nil {
		t.Fatalf("QSOExists() failed: %v", err)
	}
	if !exists {
		t.Error("unrelated QSO was deleted")
	}
}

func TestDeleteLog_Cascades(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	doomed := createTestLog(t, s)
	other := createTestLog(t, s)

	for _, logID := range []int64{doomed, other} {
		q := createTestQSO("2023-07-04 12:30:00", logID, Attr{Name: "call", Value: "W1AW"})
		if err := s.ReplaceQSO(ctx, q); err != nil {
			t.Fatalf("ReplaceQSO() failed: %v", err)
		}
	}
	if _, err := s.db.Exec("INSERT INTO qsl (id_qso, id_log) VALUES ('2023-07-04 12:30:00', ?)", doomed); err != nil {
		t.Fatalf("insert qsl failed: %v", err)
	}

	if err := s.DeleteLog(ctx, doomed); err != nil {
		t.Fatalf("DeleteLog() failed: %v", err)
	}

	for _, table := range []string{"qso", "qso_attrs", "qsl"} {
		if n := countRows(t, s, "SELECT COUNT(*) FROM "+table+" WHERE id_log = ?", doomed); n != 0 {
			t.Errorf("%s rows for deleted log = %d, want 0", table, n)
		}
	}
	exists, err := s.LogExists(ctx, doomed)
	if err != nil {
		t.Fatalf("LogExists() failed: %v", err)
	}
	if exists {
		t.Error("deleted log still exists")
	}

	if n := countRows(t, s, "SELECT COUNT(*) FROM qso WHERE id_log = ?", other); n != 1 {
		t.Errorf("other log qso rows = %d, want 1", n)
	}
}
