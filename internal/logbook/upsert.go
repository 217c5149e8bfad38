package logbook

import (
	"context"
	"errors"
	"sort"

	"github.com/iz2uqf/hamlog/internal/adif"
	"github.com/iz2uqf/hamlog/internal/store"
)

// AddOrUpdateQSO validates and normalizes rec, derives its key and replaces
// whatever is stored under (key, logID). It returns the derived key.
//
// Field names must be writable to an ADI file, and id_qso and id_log are
// reserved for the key and log id. Validation and key failures never touch
// storage. A storage failure rolls back the whole replacement. Calling it
// twice with the same record leaves the same stored state.
func (e *Engine) AddOrUpdateQSO(ctx context.Context, rec map[string]string, logID int64) (string, error) {
	const op = "add qso"

	folded := adif.Fold(rec)
	if err := e.fields.Validate(folded); err != nil {
		return "", withContext(err, op, logID)
	}
	normalized := Normalize(folded)

	key, err := DeriveKey(normalized)
	if err != nil {
		return "", withContext(err, op, logID)
	}

	st, err := e.conn(op)
	if err != nil {
		return "", err
	}
	if err := e.requireLog(ctx, st, op, logID); err != nil {
		return "", err
	}

	if err := st.ReplaceQSO(ctx, e.buildQSO(normalized, key, logID)); err != nil {
		return "", storageError(op, logID, key, err)
	}

	e.logger.DebugContext(ctx, "qso stored",
		"log_id", logID,
		"qso_key", key,
		"fields", len(normalized))
	return key, nil
}

// buildQSO maps a normalized record onto the header columns and one
// attribute row per field.
func (e *Engine) buildQSO(rec adif.Record, key string, logID int64) store.QSO {
	q := store.QSO{
		Key:          key,
		LogID:        logID,
		Call:         rec[FieldCall],
		Freq:         rec[FieldFreq],
		Mode:         rec[FieldMode],
		Operator:     rec[FieldOperator],
		MyGridsquare: rec[FieldMyGridsquare],
		Attrs:        make([]store.Attr, 0, len(rec)),
	}
	for name, value := range rec {
		q.Attrs = append(q.Attrs, store.Attr{
			Name:       name,
			Value:      value,
			AppDefined: e.fields.IsAppDefined(name),
		})
	}
	sort.Slice(q.Attrs, func(i, j int) bool { return q.Attrs[i].Name < q.Attrs[j].Name })
	return q
}

// withContext stamps the operation and log onto a pipeline error.
func withContext(err error, op string, logID int64) error {
	var le *Error
	if errors.As(err, &le) {
		le.Op, le.LogID = op, logID
	}
	return err
}
