package logbook

import (
	"sort"

	"github.com/iz2uqf/hamlog/internal/adif"
)

// Validate checks that rec names at least one of station_callsign and
// operator, and carries every required field. Field names are matched case
// insensitively. Values are not inspected: a present but empty field counts.
// Every field name must also be writable to an ADI file and must not be one
// of the reserved names id_qso and id_log.
//
// On failure the returned *Error lists the missing fields and the invalid
// names; when the identity is missing both identity field names are listed.
func (f Fields) Validate(rec map[string]string) error {
	folded := adif.Fold(rec)
	var missing, invalid []string

	for name := range folded {
		if adif.ValidName(name) != nil || isReserved(name) {
			invalid = append(invalid, name)
		}
	}
	sort.Strings(invalid)

	hasIdentity := false
	for _, name := range identityFields {
		if _, ok := folded[name]; ok {
			hasIdentity = true
			break
		}
	}
	if !hasIdentity {
		missing = append(missing, identityFields...)
	}

	for _, name := range f.orDefault().required {
		if _, ok := folded[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 || len(invalid) > 0 {
		return &Error{Code: CodeValidationFailure, Op: "validate", Fields: missing, Invalid: invalid}
	}
	return nil
}

func isReserved(name string) bool {
	for _, r := range reservedFields {
		if name == r {
			return true
		}
	}
	return false
}

// IsValid reports whether Validate accepts rec.
func (f Fields) IsValid(rec map[string]string) bool {
	return f.Validate(rec) == nil
}
