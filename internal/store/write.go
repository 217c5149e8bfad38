package store

import (
	"context"
	"database/sql"
	"fmt"
)

// AddLog inserts a new log container. The id is assigned by the database.
func (s *Store) AddLog(ctx context.Context, name, description string) (Log, error) {
	if s.db == nil {
		return Log{}, fmt.Errorf("add log: %w", ErrClosed)
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO logs (name, description) VALUES (:name, :description)",
		sql.Named("name", name),
		sql.Named("description", description),
	)
	if err != nil {
		return Log{}, fmt.Errorf("add log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Log{}, fmt.Errorf("add log: last insert id: %w", err)
	}

	return Log{ID: id, Name: name, Description: description}, nil
}

// DeleteLog removes a log and every QSO, attribute and QSL row that belongs to it.
// Deleting a log that does not exist is not an error.
func (s *Store) DeleteLog(ctx context.Context, logID int64) error {
	stmts := []string{
		"DELETE FROM qso_attrs WHERE id_log = :logid",
		"DELETE FROM qsl WHERE id_log = :logid",
		"DELETE FROM qso WHERE id_log = :logid",
		"DELETE FROM logs WHERE id = :logid",
	}
	if err := s.execMany(ctx, stmts, sql.Named("logid", logID)); err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	return nil
}

// DeleteQSO removes one QSO with its attribute and QSL rows.
// Deleting a QSO that does not exist is not an error.
func (s *Store) DeleteQSO(ctx context.Context, key string, logID int64) error {
	stmts := []string{
		"DELETE FROM qso_attrs WHERE (id_qso = :qsoid) AND (id_log = :logid)",
		"DELETE FROM qsl WHERE (id_qso = :qsoid) AND (id_log = :logid)",
		"DELETE FROM qso WHERE (id_qso = :qsoid) AND (id_log = :logid)",
	}
	if err := s.execMany(ctx, stmts, sql.Named("qsoid", key), sql.Named("logid", logID)); err != nil {
		return fmt.Errorf("delete qso: %w", err)
	}
	return nil
}

// ReplaceQSO writes a QSO header and its attribute set, replacing anything
// stored under the same (Key, LogID). The old rows are deleted and the new
// ones inserted in a single transaction; attributes are never merged.
//
// Note: LogID must reference an existing log (foreign key constraint).
func (s *Store) ReplaceQSO(ctx context.Context, q QSO) error {
	if s.db == nil {
		return fmt.Errorf("replace qso: %w", ErrClosed)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace qso: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	key := sql.Named("qsoid", q.Key)
	logID := sql.Named("logid", q.LogID)

	// Attributes first: they reference the header row.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM qso_attrs WHERE (id_qso = :qsoid) AND (id_log = :logid)",
		key, logID,
	); err != nil {
		return fmt.Errorf("replace qso: delete attrs: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM qso WHERE (id_qso = :qsoid) AND (id_log = :logid)",
		key, logID,
	); err != nil {
		return fmt.Errorf("replace qso: delete header: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO qso
		(id_qso, id_log, call, freq, mode, operator, my_gridsquare)
		VALUES (:qsoid, :logid, :call, :freq, :mode, :operator, :my_gridsquare)
	`,
		key,
		logID,
		sql.Named("call", q.Call),
		sql.Named("freq", q.Freq),
		sql.Named("mode", q.Mode),
		sql.Named("operator", q.Operator),
		sql.Named("my_gridsquare", q.MyGridsquare),
	); err != nil {
		return fmt.Errorf("replace qso: insert header: %w", err)
	}

	if len(q.Attrs) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO qso_attrs
			(id_qso, id_log, field_name, field_value, is_app_defined)
			VALUES (:qsoid, :logid, :name, :value, :app)
		`)
		if err != nil {
			return fmt.Errorf("replace qso: prepare attrs: %w", err)
		}
		defer stmt.Close()

		for _, a := range q.Attrs {
			if _, err := stmt.ExecContext(ctx,
				key,
				logID,
				sql.Named("name", a.Name),
				sql.Named("value", a.Value),
				sql.Named("app", a.AppDefined),
			); err != nil {
				return fmt.Errorf("replace qso: insert attr %q: %w", a.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace qso: commit: %w", err)
	}

	return nil
}
