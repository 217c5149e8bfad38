package logbook

import "github.com/iz2uqf/hamlog/internal/adif"

// Normalize returns a copy of rec with the station identity filled in:
// operator defaults to station_callsign and vice versa, then owner_callsign
// defaults to station_callsign. Existing values are never overwritten, so
// Normalize is idempotent. rec must already have folded field names.
func Normalize(rec adif.Record) adif.Record {
	out := rec.Clone()

	if _, ok := out[FieldOperator]; !ok {
		if station, ok := out[FieldStationCallsign]; ok {
			out[FieldOperator] = station
		}
	} else if _, ok := out[FieldStationCallsign]; !ok {
		out[FieldStationCallsign] = out[FieldOperator]
	}

	if _, ok := out[FieldOwnerCallsign]; !ok {
		if station, ok := out[FieldStationCallsign]; ok {
			out[FieldOwnerCallsign] = station
		}
	}

	return out
}
