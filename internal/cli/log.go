package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/iz2uqf/hamlog/internal/store"
)

// LogAddOptions holds flags for the log add command.
type LogAddOptions struct {
	*RootOptions
	Description string
}

// LogSummary is a log container with its QSO count.
type LogSummary struct {
	store.Log
	QSOs int `json:"qsos"`
}

// NewLogCommand creates the log command group.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Manage log containers",
	}
	cmd.AddCommand(newLogAddCommand(rootOpts))
	cmd.AddCommand(newLogListCommand(rootOpts))
	cmd.AddCommand(newLogDeleteCommand(rootOpts))
	return cmd
}

func newLogAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new log",
		Long: `Create a new, empty log container. The log id is assigned by the database.

Example:
  hamlog log add "Field Day 2023" --description "IZ2UQF/P portable"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogAdd(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "log description")

	return cmd
}

func runLogAdd(opts *LogAddOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	eng, err := openEngine(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer closeEngine(eng, cmd)

	l, err := eng.AddLog(context.Background(), name, opts.Description)
	if err != nil {
		return formatter.Fail("failed to add log", err)
	}

	if opts.Format == "json" {
		return formatter.Success(l)
	}
	return formatter.Success(fmt.Sprintf("Created log %d (%s)", l.ID, l.Name))
}

func newLogListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List logs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogList(rootOpts, cmd)
		},
	}
}

func runLogList(opts *RootOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts, cmd)

	eng, err := openEngine(opts, cmd)
	if err != nil {
		return err
	}
	defer closeEngine(eng, cmd)

	logs, err := eng.ListLogs(ctx)
	if err != nil {
		return formatter.Fail("failed to list logs", err)
	}

	summaries := make([]LogSummary, 0, len(logs))
	for _, l := range logs {
		n, err := eng.CountQSOs(ctx, l.ID)
		if err != nil {
			return formatter.Fail("failed to list logs", err)
		}
		summaries = append(summaries, LogSummary{Log: l, QSOs: n})
	}

	if opts.Format == "json" {
		return formatter.Success(summaries)
	}

	if len(summaries) == 0 {
		return formatter.Success("No logs found.")
	}
	var b strings.Builder
	for _, s := range summaries {
		fmt.Fprintf(&b, "%4d  %-24s %8s QSOs", s.ID, s.Name, humanize.Comma(int64(s.QSOs)))
		if s.Description != "" {
			fmt.Fprintf(&b, "  %s", s.Description)
		}
		b.WriteString("\n")
	}
	return formatter.Success(strings.TrimRight(b.String(), "\n"))
}

func newLogDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a log and all of its QSOs",
		Long: `Delete a log container together with every QSO, attribute and QSL row
that belongs to it. The deletion is a single transaction.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logID, err := parseLogID(args[0])
			if err != nil {
				return err
			}
			return runLogDelete(rootOpts, logID, cmd)
		},
	}
}

func runLogDelete(opts *RootOptions, logID int64, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts, cmd)

	eng, err := openEngine(opts, cmd)
	if err != nil {
		return err
	}
	defer closeEngine(eng, cmd)

	if _, err := eng.GetLog(ctx, logID); err != nil {
		return formatter.Fail("failed to delete log", err)
	}
	if err := eng.DeleteLog(ctx, logID); err != nil {
		return formatter.Fail("failed to delete log", err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]int64{"deleted": logID})
	}
	return formatter.Success(fmt.Sprintf("Deleted log %d", logID))
}

// parseLogID parses a log id argument or flag value.
func parseLogID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid log id %q", s))
	}
	return id, nil
}
