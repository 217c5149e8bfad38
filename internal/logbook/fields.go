package logbook

import (
	"sort"

	"github.com/iz2uqf/hamlog/internal/adif"
)

// ADIF field names the engine reads or writes.
const (
	FieldQSODate         = "qso_date"
	FieldTimeOn          = "time_on"
	FieldCall            = "call"
	FieldFreq            = "freq"
	FieldMode            = "mode"
	FieldMyGridsquare    = "my_gridsquare"
	FieldStationCallsign = "station_callsign"
	FieldOperator        = "operator"
	FieldOwnerCallsign   = "owner_callsign"
)

// Housekeeping names. The key and log id are stored as columns, so a record
// carrying fields with these names is rejected.
const (
	fieldQSOKey = "id_qso"
	fieldLogID  = "id_log"
)

var reservedFields = []string{fieldQSOKey, fieldLogID}

// identityFields must contribute at least one value to every valid record.
var identityFields = []string{FieldStationCallsign, FieldOperator}

// DefaultRequired is the required-field set used when none is configured.
var DefaultRequired = []string{FieldQSODate, FieldTimeOn, FieldCall, FieldFreq, FieldMode, FieldMyGridsquare}

// Fields is the immutable field configuration of an Engine.
// The zero value means DefaultRequired with no application-defined fields.
type Fields struct {
	required   []string
	appDefined map[string]struct{}
}

// NewFields builds a configuration from the required-field set and the
// application-defined allow-list. Names are folded to lower case and
// de-duplicated; the input slices are not retained.
func NewFields(required, appDefined []string) Fields {
	f := Fields{
		required:   make([]string, 0, len(required)),
		appDefined: make(map[string]struct{}, len(appDefined)),
	}
	seen := make(map[string]bool, len(required))
	for _, name := range required {
		name = adif.FoldName(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		f.required = append(f.required, name)
	}
	for _, name := range appDefined {
		if name = adif.FoldName(name); name != "" {
			f.appDefined[name] = struct{}{}
		}
	}
	return f
}

// DefaultFields returns the configuration used when nothing else is given.
func DefaultFields() Fields {
	return NewFields(DefaultRequired, nil)
}

func (f Fields) orDefault() Fields {
	if f.required == nil {
		return DefaultFields()
	}
	return f
}

// Required returns a copy of the required-field set.
func (f Fields) Required() []string {
	f = f.orDefault()
	return append([]string(nil), f.required...)
}

// AppDefined returns the application-defined allow-list, sorted.
func (f Fields) AppDefined() []string {
	names := make([]string, 0, len(f.appDefined))
	for name := range f.appDefined {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsAppDefined reports whether a (folded) field name is on the allow-list.
func (f Fields) IsAppDefined(name string) bool {
	_, ok := f.appDefined[name]
	return ok
}
