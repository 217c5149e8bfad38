package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iz2uqf/hamlog/internal/store"
)

// QSOOptions holds flags shared by the qso subcommands.
type QSOOptions struct {
	*RootOptions
	LogID string
}

// NewQSOCommand creates the qso command group.
func NewQSOCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QSOOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "qso",
		Short: "Inspect and delete stored QSOs",
		Long: `Inspect and delete stored QSOs. A QSO is addressed by its key,
"YYYY-MM-DD HH:MM:00", within a log.`,
	}
	cmd.PersistentFlags().StringVarP(&opts.LogID, "log", "l", "", "log id (required)")
	_ = cmd.MarkPersistentFlagRequired("log")

	cmd.AddCommand(newQSOListCommand(opts))
	cmd.AddCommand(newQSOShowCommand(opts))
	cmd.AddCommand(newQSODeleteCommand(opts))
	return cmd
}

func newQSOListCommand(opts *QSOOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List the QSOs of a log",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQSOList(opts, cmd)
		},
	}
}

func runQSOList(opts *QSOOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	logID, err := parseLogID(opts.LogID)
	if err != nil {
		return err
	}

	eng, err := openEngine(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer closeEngine(eng, cmd)

	qsos, err := eng.ListQSOs(context.Background(), logID)
	if err != nil {
		return formatter.Fail("failed to list QSOs", err)
	}

	if opts.Format == "json" {
		return formatter.Success(qsos)
	}
	if len(qsos) == 0 {
		return formatter.Success(fmt.Sprintf("Log %d has no QSOs.", logID))
	}
	var b strings.Builder
	for _, q := range qsos {
		fmt.Fprintf(&b, "%s  %-12s %-10s %s\n", q.Key, q.Call, q.Freq, q.Mode)
	}
	return formatter.Success(strings.TrimRight(b.String(), "\n"))
}

func newQSOShowCommand(opts *QSOOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Show every stored field of a QSO",
		Long: `Show every stored field of a QSO.

Example:
  hamlog qso show "2023-07-04 12:30:00" --log 1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQSOShow(opts, args[0], cmd)
		},
	}
}

func runQSOShow(opts *QSOOptions, key string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	logID, err := parseLogID(opts.LogID)
	if err != nil {
		return err
	}

	eng, err := openEngine(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer closeEngine(eng, cmd)

	q, err := eng.GetQSO(context.Background(), key, logID)
	if err != nil {
		return formatter.Fail(fmt.Sprintf("QSO %q", key), err)
	}

	if opts.Format == "json" {
		return formatter.Success(q)
	}
	return formatter.Success(formatQSO(q))
}

// formatQSO renders a QSO as aligned name/value lines, app-defined fields
// marked with an asterisk.
func formatQSO(q store.QSO) string {
	attrs := append([]store.Attr(nil), q.Attrs...)
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })

	width := 0
	for _, a := range attrs {
		if len(a.Name) > width {
			width = len(a.Name)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "QSO %s (log %d)\n", q.Key, q.LogID)
	for _, a := range attrs {
		mark := " "
		if a.AppDefined {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %-*s  %s\n", mark, width, a.Name, a.Value)
	}
	return strings.TrimRight(b.String(), "\n")
}

func newQSODeleteCommand(opts *QSOOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <key>",
		Short:         "Delete a QSO",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQSODelete(opts, args[0], cmd)
		},
	}
}

func runQSODelete(opts *QSOOptions, key string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)

	logID, err := parseLogID(opts.LogID)
	if err != nil {
		return err
	}

	eng, err := openEngine(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer closeEngine(eng, cmd)

	// The engine treats deleting an absent QSO as a no-op; the CLI reports it.
	if _, err := eng.GetQSO(ctx, key, logID); err != nil {
		return formatter.Fail(fmt.Sprintf("QSO %q", key), err)
	}
	if err := eng.DeleteQSO(ctx, key, logID); err != nil {
		return formatter.Fail("failed to delete QSO", err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]interface{}{"deleted": key, "log_id": logID})
	}
	return formatter.Success(fmt.Sprintf("Deleted QSO %s from log %d", key, logID))
}
