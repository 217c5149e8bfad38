package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	LogID string
}

// ExportResult is the JSON payload of the export command.
type ExportResult struct {
	LogID int64  `json:"log_id"`
	File  string `json:"file"`
	QSOs  int    `json:"qsos"`
	Bytes int    `json:"bytes"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <file.adi|->",
		Short: "Export a log as an ADIF file",
		Long: `Export every QSO of a log as an ADI file. Use - to write to stdout,
in which case the summary goes to stderr.

Example:
  hamlog export fieldday.adi --log 1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.LogID, "log", "l", "", "log id to export (required)")
	_ = cmd.MarkFlagRequired("log")

	return cmd
}

func runExport(opts *ExportOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	toStdout := path == "-"
	if toStdout {
		// stdout carries the ADI data.
		formatter.Writer = formatter.GetErrWriter()
	}

	logID, err := parseLogID(opts.LogID)
	if err != nil {
		return err
	}

	eng, err := openEngine(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer closeEngine(eng, cmd)

	// Render into memory first so a failed export never leaves a truncated file.
	var buf bytes.Buffer
	n, err := eng.ExportToADIF(context.Background(), &buf, logID)
	if err != nil {
		return formatter.Fail("export failed", err)
	}

	if err := writeOutput(path, buf.Bytes(), cmd.OutOrStdout()); err != nil {
		if outErr := formatter.Error(ErrCodeFile, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}

	result := ExportResult{LogID: logID, File: path, QSOs: n, Bytes: buf.Len()}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	dest := path
	if toStdout {
		dest = "stdout"
	}
	return formatter.Success(fmt.Sprintf("Exported %s QSOs from log %d to %s (%s)",
		humanize.Comma(int64(n)), logID, dest, humanize.Bytes(uint64(buf.Len()))))
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
