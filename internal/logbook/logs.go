package logbook

import (
	"context"
	"errors"

	"github.com/iz2uqf/hamlog/internal/store"
)

// AddLog creates a new log container; its id is assigned by the store.
func (e *Engine) AddLog(ctx context.Context, name, description string) (store.Log, error) {
	const op = "add log"
	st, err := e.conn(op)
	if err != nil {
		return store.Log{}, err
	}
	l, err := st.AddLog(ctx, name, description)
	if err != nil {
		return store.Log{}, storageError(op, 0, "", err)
	}
	e.logger.InfoContext(ctx, "log created", "log_id", l.ID, "name", name)
	return l, nil
}

// DeleteLog removes a log and every QSO belonging to it in one transaction.
// Deleting an unknown log succeeds and removes nothing.
func (e *Engine) DeleteLog(ctx context.Context, logID int64) error {
	const op = "delete log"
	st, err := e.conn(op)
	if err != nil {
		return err
	}
	if err := st.DeleteLog(ctx, logID); err != nil {
		return storageError(op, logID, "", err)
	}
	e.logger.InfoContext(ctx, "log deleted", "log_id", logID)
	return nil
}

// DeleteQSO removes one QSO and its attributes in one transaction.
// Deleting an unknown QSO succeeds and removes nothing.
func (e *Engine) DeleteQSO(ctx context.Context, key string, logID int64) error {
	const op = "delete qso"
	st, err := e.conn(op)
	if err != nil {
		return err
	}
	if err := st.DeleteQSO(ctx, key, logID); err != nil {
		return storageError(op, logID, key, err)
	}
	e.logger.DebugContext(ctx, "qso deleted", "log_id", logID, "qso_key", key)
	return nil
}

// GetLog returns a single log container.
func (e *Engine) GetLog(ctx context.Context, logID int64) (store.Log, error) {
	const op = "get log"
	st, err := e.conn(op)
	if err != nil {
		return store.Log{}, err
	}
	l, err := st.GetLog(ctx, logID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Log{}, &Error{Code: CodeContainerNotFound, Op: op, LogID: logID}
	}
	if err != nil {
		return store.Log{}, storageError(op, logID, "", err)
	}
	return l, nil
}

// ListLogs returns every log container ordered by id.
func (e *Engine) ListLogs(ctx context.Context) ([]store.Log, error) {
	const op = "list logs"
	st, err := e.conn(op)
	if err != nil {
		return nil, err
	}
	logs, err := st.ListLogs(ctx)
	if err != nil {
		return nil, storageError(op, 0, "", err)
	}
	return logs, nil
}

// GetQSO returns one stored QSO. A missing QSO returns an error matching
// store.ErrNotFound.
func (e *Engine) GetQSO(ctx context.Context, key string, logID int64) (store.QSO, error) {
	const op = "get qso"
	st, err := e.conn(op)
	if err != nil {
		return store.QSO{}, err
	}
	if err := e.requireLog(ctx, st, op, logID); err != nil {
		return store.QSO{}, err
	}
	q, err := st.GetQSO(ctx, key, logID)
	if errors.Is(err, store.ErrNotFound) {
		return store.QSO{}, err
	}
	if err != nil {
		return store.QSO{}, storageError(op, logID, key, err)
	}
	return q, nil
}

// ListQSOs returns every QSO of a log ordered by key.
func (e *Engine) ListQSOs(ctx context.Context, logID int64) ([]store.QSO, error) {
	const op = "list qsos"
	st, err := e.conn(op)
	if err != nil {
		return nil, err
	}
	if err := e.requireLog(ctx, st, op, logID); err != nil {
		return nil, err
	}
	qsos, err := st.ListQSOs(ctx, logID)
	if err != nil {
		return nil, storageError(op, logID, "", err)
	}
	return qsos, nil
}

// CountQSOs returns the number of QSOs in a log.
func (e *Engine) CountQSOs(ctx context.Context, logID int64) (int, error) {
	const op = "count qsos"
	st, err := e.conn(op)
	if err != nil {
		return 0, err
	}
	if err := e.requireLog(ctx, st, op, logID); err != nil {
		return 0, err
	}
	n, err := st.CountQSOs(ctx, logID)
	if err != nil {
		return 0, storageError(op, logID, "", err)
	}
	return n, nil
}
