package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/iz2uqf/hamlog/internal/logbook"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	LogID  string
	Strict bool
}

// ImportFailure describes one rejected record.
type ImportFailure struct {
	Index int    `json:"index"`
	Key   string `json:"key,omitempty"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// ImportResult is the JSON payload of the import command.
type ImportResult struct {
	*logbook.ImportReport
	File     string          `json:"file"`
	Failures []ImportFailure `json:"failures"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file.adi>",
		Short: "Import an ADIF file into a log",
		Long: `Import every record of an ADI file into an existing log.

Records are validated, normalized and stored one by one. A rejected record
is reported and the import carries on; a malformed file stops the import at
the offending tag. Records already in the log are replaced.

Example:
  hamlog import fieldday.adi --log 1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.LogID, "log", "l", "", "target log id (required)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit with an error if any record is rejected")
	_ = cmd.MarkFlagRequired("log")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	logID, err := parseLogID(opts.LogID)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		if outErr := formatter.Error(ErrCodeFile, fmt.Sprintf("failed to open %s: %v", path, err), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "failed to open input", err)
	}
	defer f.Close()

	eng, err := openEngine(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer closeEngine(eng, cmd)

	report, err := eng.ImportFromADIF(context.Background(), f, logID)
	if err != nil {
		if report != nil {
			formatter.VerboseLog("%s of %s records stored before the error",
				humanize.Comma(int64(report.Imported)), humanize.Comma(int64(report.Total)))
		}
		return formatter.Fail("import failed", err)
	}

	result := ImportResult{
		ImportReport: report,
		File:         path,
		Failures:     importFailures(report),
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, fail := range result.Failures {
			formatter.VerboseLog("record %d %s: %s", fail.Index, fail.Key, fail.Error)
		}
		msg := fmt.Sprintf("Imported %s of %s records into log %d (%s rejected)",
			humanize.Comma(int64(report.Imported)),
			humanize.Comma(int64(report.Total)),
			logID,
			humanize.Comma(int64(report.Failed)))
		if err := formatter.Success(msg); err != nil {
			return err
		}
	}

	if opts.Strict && report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d record(s) rejected", ErrCodeRejected, report.Failed))
	}
	return nil
}

func importFailures(report *logbook.ImportReport) []ImportFailure {
	failures := []ImportFailure{}
	for _, o := range report.Failures() {
		failures = append(failures, ImportFailure{
			Index: o.Index,
			Key:   o.Key,
			Code:  string(logbook.CodeOf(o.Err)),
			Error: o.Err.Error(),
		})
	}
	return failures
}
