package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iz2uqf/hamlog/internal/config"
	"github.com/iz2uqf/hamlog/internal/logbook"
)

// newFormatter builds the output formatter for a command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// newLogger returns a text logger on the command's stderr. Debug output is
// enabled by --verbose.
func newLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// openEngine loads the configuration and opens the logbook it points at.
// The caller must Close the returned engine.
func openEngine(opts *RootOptions, cmd *cobra.Command) (*logbook.Engine, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}

	logger := newLogger(opts, cmd)
	logger.Debug("opening database", "path", cfg.Database)

	engineOpts := cfg.EngineOptions()
	engineOpts.Logger = logger
	eng, err := logbook.Open(cfg.Database, cfg.Fields(), engineOpts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return eng, nil
}

// closeEngine closes eng, logging rather than returning a close failure.
func closeEngine(eng *logbook.Engine, cmd *cobra.Command) {
	if err := eng.Close(); err != nil {
		slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil)).Error("error closing database", "error", err)
	}
}
