package logbook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iz2uqf/hamlog/internal/store"
)

// DefaultProgramID identifies this program in exported ADIF headers.
const DefaultProgramID = "hamlog"

// Options configures an Engine. All fields are optional.
type Options struct {
	// Logger receives structured diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// ProgramID is written as programid in exported headers.
	ProgramID string

	// Now supplies the export timestamp. Defaults to time.Now.
	Now func() time.Time

	// IDs generates import ids. Defaults to UUIDv7Generator.
	IDs IDGenerator
}

// Engine owns one storage connection for its whole lifetime.
//
// Engine is not safe for concurrent use: it assumes a single logical writer.
type Engine struct {
	st        *store.Store
	fields    Fields
	logger    *slog.Logger
	programID string
	now       func() time.Time
	ids       IDGenerator
}

// Open opens the database at path and returns an Engine holding its
// connection. If construction fails no connection is left open.
func Open(path string, fields Fields, opts Options) (*Engine, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, &Error{Code: CodeConnectionUnavailable, Op: "open", Err: err}
	}
	return New(st, fields, opts), nil
}

// New wraps an already open store. The Engine takes ownership of st and
// closes it in Close.
func New(st *store.Store, fields Fields, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	programID := opts.ProgramID
	if programID == "" {
		programID = DefaultProgramID
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ids := opts.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	return &Engine{
		st:        st,
		fields:    fields.orDefault(),
		logger:    logger.With("component", "logbook"),
		programID: programID,
		now:       now,
		ids:       ids,
	}
}

// Close releases the storage connection. Only the first call has an effect;
// every operation afterwards fails with CodeConnectionUnavailable.
func (e *Engine) Close() error {
	if e.st == nil {
		return nil
	}
	err := e.st.Close()
	e.st = nil
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// Fields returns the engine's field configuration.
func (e *Engine) Fields() Fields {
	return e.fields
}

// conn returns the live store or a CodeConnectionUnavailable error.
func (e *Engine) conn(op string) (*store.Store, error) {
	if e.st == nil || e.st.DB() == nil {
		return nil, &Error{Code: CodeConnectionUnavailable, Op: op}
	}
	return e.st, nil
}

// requireLog fails with CodeContainerNotFound unless logID exists.
func (e *Engine) requireLog(ctx context.Context, st *store.Store, op string, logID int64) error {
	exists, err := st.LogExists(ctx, logID)
	if err != nil {
		return storageError(op, logID, "", err)
	}
	if !exists {
		return &Error{Code: CodeContainerNotFound, Op: op, LogID: logID}
	}
	return nil
}
