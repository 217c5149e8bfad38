package logbook

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/iz2uqf/hamlog/internal/adif"
	"github.com/iz2uqf/hamlog/internal/store"
)

// headerText keeps free text from opening a tag inside the header.
var headerText = strings.NewReplacer("<", "[", ">", "]")

// ExportToADIF writes every QSO of logID to w as an ADI file and returns the
// number of records written. Records are ordered by key and fields by name,
// so exporting the same log twice produces identical output apart from the
// created_timestamp header field.
func (e *Engine) ExportToADIF(ctx context.Context, w io.Writer, logID int64) (int, error) {
	const op = "export"
	st, err := e.conn(op)
	if err != nil {
		return 0, err
	}
	l, err := e.GetLog(ctx, logID)
	if err != nil {
		return 0, withContext(err, op, logID)
	}
	qsos, err := st.ListQSOs(ctx, logID)
	if err != nil {
		return 0, storageError(op, logID, "", err)
	}

	enc := adif.NewEncoder(w)
	header := adif.Header{
		Text: headerText.Replace(fmt.Sprintf("Log %q exported by %s", l.Name, e.programID)),
		Fields: []adif.Field{
			{Name: "adif_ver", Value: adif.Version},
			{Name: "created_timestamp", Value: e.now().UTC().Format("20060102 150405")},
			{Name: "programid", Value: e.programID},
		},
	}
	if err := enc.WriteHeader(header); err != nil {
		return 0, fmt.Errorf("%s: write header: %w", op, err)
	}

	for i, q := range qsos {
		if err := enc.Encode(recordFromQSO(q)); err != nil {
			return i, fmt.Errorf("%s: qso %q: %w", op, q.Key, err)
		}
	}
	if err := enc.Flush(); err != nil {
		return 0, fmt.Errorf("%s: flush: %w", op, err)
	}

	e.logger.InfoContext(ctx, "log exported", "log_id", logID, "qsos", len(qsos))
	return len(qsos), nil
}

// recordFromQSO rebuilds the ADIF record of a stored QSO. Attributes are
// authoritative; header columns and the key only fill fields that are absent.
func recordFromQSO(q store.QSO) adif.Record {
	rec := adif.Record(q.Fields())

	fill := func(name, value string) {
		if _, ok := rec[name]; !ok && value != "" {
			rec[name] = value
		}
	}
	fill(FieldCall, q.Call)
	fill(FieldFreq, q.Freq)
	fill(FieldMode, q.Mode)
	fill(FieldOperator, q.Operator)
	fill(FieldMyGridsquare, q.MyGridsquare)
	if date, tm, ok := splitKey(q.Key); ok {
		fill(FieldQSODate, date)
		fill(FieldTimeOn, tm)
	}
	return rec
}
