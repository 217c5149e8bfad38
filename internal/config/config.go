// Package config loads the hamlog configuration file.
//
// The file is YAML, decoded strictly (unknown keys are errors) over the
// built-in defaults, then checked against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/iz2uqf/hamlog/internal/adif"
	"github.com/iz2uqf/hamlog/internal/logbook"
)

//go:embed schema.cue
var schemaCUE string

// DefaultDatabase is the database path used when none is configured.
const DefaultDatabase = "hamlog.db"

// Config is the decoded configuration file.
type Config struct {
	// Database is the SQLite file path.
	Database string `yaml:"database" json:"database"`

	// RequiredFields must all be present on a QSO for it to be accepted.
	RequiredFields []string `yaml:"required_fields" json:"required_fields"`

	// AppDefinedFields are stored flagged as application-defined.
	AppDefinedFields []string `yaml:"app_defined_fields" json:"app_defined_fields"`

	// ProgramID is written into exported ADIF headers.
	ProgramID string `yaml:"program_id" json:"program_id"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Database:         DefaultDatabase,
		RequiredFields:   append([]string(nil), logbook.DefaultRequired...),
		AppDefinedFields: []string{},
		ProgramID:        logbook.DefaultProgramID,
	}
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.RequiredFields = foldNames(cfg.RequiredFields)
	cfg.AppDefinedFields = foldNames(cfg.AppDefinedFields)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration against the embedded CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	// nil slices encode as null, which no list constraint accepts.
	if c.RequiredFields == nil {
		c.RequiredFields = []string{}
	}
	if c.AppDefinedFields == nil {
		c.AppDefinedFields = []string{}
	}

	v := schema.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return errors.New(cueerrors.Details(err, nil))
	}
	return nil
}

// Fields returns the engine field configuration.
func (c Config) Fields() logbook.Fields {
	return logbook.NewFields(c.RequiredFields, c.AppDefinedFields)
}

// EngineOptions returns the engine options derived from the configuration.
func (c Config) EngineOptions() logbook.Options {
	return logbook.Options{ProgramID: c.ProgramID}
}

func foldNames(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = adif.FoldName(name)
	}
	return out
}
