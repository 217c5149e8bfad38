package logbook

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/iz2uqf/hamlog/internal/adif"
)

// RecordOutcome is the result of storing one decoded record.
type RecordOutcome struct {
	Index int    `json:"index"`         // position in the file, from 0
	Key   string `json:"key,omitempty"` // derived key, if derivation got that far
	Err   error  `json:"-"`
}

// ImportReport summarizes one ImportFromADIF call.
type ImportReport struct {
	ImportID string          `json:"import_id"`
	LogID    int64           `json:"log_id"`
	Total    int             `json:"total"`
	Imported int             `json:"imported"`
	Failed   int             `json:"failed"`
	Outcomes []RecordOutcome `json:"-"`
}

// Failures returns the outcomes of records that were not stored.
func (r *ImportReport) Failures() []RecordOutcome {
	var failed []RecordOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// ImportFromADIF decodes r and stores every record into logID, in file order.
//
// The log must exist and the connection be live, otherwise the import fails
// before anything is read. A record that fails validation or storage is
// recorded in the report and the import continues; such failures do not make
// the call itself fail. A malformed file stops the import at the bad tag and
// returns the partial report with the decode error.
func (e *Engine) ImportFromADIF(ctx context.Context, r io.Reader, logID int64) (*ImportReport, error) {
	const op = "import"
	st, err := e.conn(op)
	if err != nil {
		return nil, err
	}
	if err := e.requireLog(ctx, st, op, logID); err != nil {
		return nil, err
	}

	report := &ImportReport{
		ImportID: e.ids.Generate(),
		LogID:    logID,
		Outcomes: []RecordOutcome{},
	}
	logger := e.logger.With("import_id", report.ImportID, "log_id", logID)
	logger.InfoContext(ctx, "import started")

	dec := adif.NewDecoder(r)
	for index := 0; ; index++ {
		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.ErrorContext(ctx, "import aborted", "index", index, "error", err)
			return report, fmt.Errorf("%s: record %d: %w", op, index, err)
		}

		key, err := e.AddOrUpdateQSO(ctx, rec, logID)
		outcome := RecordOutcome{Index: index, Key: key, Err: err}
		report.Total++
		if err != nil {
			report.Failed++
			var le *Error
			if errors.As(err, &le) {
				outcome.Key = le.Key
			}
			logger.WarnContext(ctx, "record rejected",
				"index", index,
				"qso_key", outcome.Key,
				"error", err)
		} else {
			report.Imported++
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	logger.InfoContext(ctx, "import finished",
		"total", report.Total,
		"imported", report.Imported,
		"failed", report.Failed)
	return report, nil
}
