package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// LogExists reports whether a log with the given id exists.
func (s *Store) LogExists(ctx context.Context, logID int64) (bool, error) {
	return s.recordExists(ctx,
		"SELECT COUNT(*) FROM logs WHERE id = :logid",
		sql.Named("logid", logID),
	)
}

// QSOExists reports whether a QSO header row exists for the composite key.
func (s *Store) QSOExists(ctx context.Context, key string, logID int64) (bool, error) {
	return s.recordExists(ctx,
		"SELECT COUNT(*) FROM qso WHERE (id_qso = :qsoid) AND (id_log = :logid)",
		sql.Named("qsoid", key),
		sql.Named("logid", logID),
	)
}

func (s *Store) recordExists(ctx context.Context, query string, args ...any) (bool, error) {
	if s.db == nil {
		return false, ErrClosed
	}
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("check exists: %w", err)
	}
	return count > 0, nil
}

// GetLog returns a single log. Returns ErrNotFound if it doesn't exist.
func (s *Store) GetLog(ctx context.Context, logID int64) (Log, error) {
	if s.db == nil {
		return Log{}, fmt.Errorf("get log: %w", ErrClosed)
	}
	var l Log
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description FROM logs WHERE id = :logid",
		sql.Named("logid", logID),
	).Scan(&l.ID, &l.Name, &l.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return Log{}, fmt.Errorf("get log %d: %w", logID, ErrNotFound)
	}
	if err != nil {
		return Log{}, fmt.Errorf("get log: %w", err)
	}
	return l, nil
}

// ListLogs returns all logs ordered by id.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListLogs(ctx context.Context) ([]Log, error) {
	if s.db == nil {
		return nil, fmt.Errorf("list logs: %w", ErrClosed)
	}
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, description FROM logs ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	logs := []Log{}
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.Name, &l.Description); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return logs, nil
}

// CountQSOs returns the number of QSO header rows in a log.
func (s *Store) CountQSOs(ctx context.Context, logID int64) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("count qsos: %w", ErrClosed)
	}
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM qso WHERE id_log = :logid",
		sql.Named("logid", logID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count qsos: %w", err)
	}
	return count, nil
}

// GetQSO returns one QSO with its attributes ordered by field name.
// Returns ErrNotFound if no header row exists for the key.
func (s *Store) GetQSO(ctx context.Context, key string, logID int64) (QSO, error) {
	if s.db == nil {
		return QSO{}, fmt.Errorf("get qso: %w", ErrClosed)
	}

	q := QSO{Key: key, LogID: logID}
	err := s.db.QueryRowContext(ctx, `
		SELECT call, freq, mode, operator, my_gridsquare
		FROM qso
		WHERE (id_qso = :qsoid) AND (id_log = :logid)
	`,
		sql.Named("qsoid", key),
		sql.Named("logid", logID),
	).Scan(&q.Call, &q.Freq, &q.Mode, &q.Operator, &q.MyGridsquare)
	if errors.Is(err, sql.ErrNoRows) {
		return QSO{}, fmt.Errorf("get qso %q in log %d: %w", key, logID, ErrNotFound)
	}
	if err != nil {
		return QSO{}, fmt.Errorf("get qso: %w", err)
	}

	attrs, err := s.readAttrs(ctx,
		"WHERE (id_qso = :qsoid) AND (id_log = :logid)",
		sql.Named("qsoid", key),
		sql.Named("logid", logID),
	)
	if err != nil {
		return QSO{}, err
	}
	q.Attrs = attrs[key]
	if q.Attrs == nil {
		q.Attrs = []Attr{}
	}
	return q, nil
}

// ListQSOs returns every QSO of a log ordered by key, each with its attributes
// ordered by field name.
// Returns an empty slice (not nil) if the log holds no QSOs.
func (s *Store) ListQSOs(ctx context.Context, logID int64) ([]QSO, error) {
	if s.db == nil {
		return nil, fmt.Errorf("list qsos: %w", ErrClosed)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id_qso, call, freq, mode, operator, my_gridsquare
		FROM qso
		WHERE id_log = :logid
		ORDER BY id_qso COLLATE BINARY ASC
	`, sql.Named("logid", logID))
	if err != nil {
		return nil, fmt.Errorf("query qsos: %w", err)
	}
	defer rows.Close()

	qsos := []QSO{}
	for rows.Next() {
		q := QSO{LogID: logID}
		if err := rows.Scan(&q.Key, &q.Call, &q.Freq, &q.Mode, &q.Operator, &q.MyGridsquare); err != nil {
			return nil, fmt.Errorf("scan qso: %w", err)
		}
		qsos = append(qsos, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate qsos: %w", err)
	}
	rows.Close()

	attrs, err := s.readAttrs(ctx, "WHERE id_log = :logid", sql.Named("logid", logID))
	if err != nil {
		return nil, err
	}
	for i := range qsos {
		qsos[i].Attrs = attrs[qsos[i].Key]
		if qsos[i].Attrs == nil {
			qsos[i].Attrs = []Attr{}
		}
	}
	return qsos, nil
}

// readAttrs loads attribute rows matching the where clause, grouped by QSO key.
func (s *Store) readAttrs(ctx context.Context, where string, args ...any) (map[string][]Attr, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id_qso, field_name, field_value, is_app_defined
		FROM qso_attrs
		`+where+`
		ORDER BY id_qso COLLATE BINARY ASC, field_name COLLATE BINARY ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query attrs: %w", err)
	}
	defer rows.Close()

	byKey := make(map[string][]Attr)
	for rows.Next() {
		var key string
		var a Attr
		if err := rows.Scan(&key, &a.Name, &a.Value, &a.AppDefined); err != nil {
			return nil, fmt.Errorf("scan attr: %w", err)
		}
		byKey[key] = append(byKey[key], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attrs: %w", err)
	}
	return byKey, nil
}
