package adif

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Record is one contact as read from a file: field name to value.
// Names are always lower case.
type Record map[string]string

// Field is a single name/value pair, used where field order matters.
type Field struct {
	Name  string
	Value string
}

// FoldName returns the canonical (lower case) form of a field name.
func FoldName(name string) string {
	return cases.Lower(language.Und).String(name)
}

// Fold returns a copy of rec with every field name folded to lower case.
// When two names fold to the same key the lexically greater original name wins,
// so the result does not depend on map iteration order.
func Fold(rec map[string]string) Record {
	names := make([]string, 0, len(rec))
	for name := range rec {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(Record, len(rec))
	for _, name := range names {
		out[FoldName(name)] = rec[name]
	}
	return out
}

// Fixup fills receive-side fields from their transmit counterparts when a
// logger only recorded one side: band_rx from band, freq_rx from freq.
func Fixup(rec Record) {
	if band, ok := rec["band"]; ok {
		if _, ok := rec["band_rx"]; !ok {
			rec["band_rx"] = band
		}
	}
	if freq, ok := rec["freq"]; ok {
		if _, ok := rec["freq_rx"]; !ok {
			rec["freq_rx"] = freq
		}
	}
}

// Fields returns the record's fields ordered by name.
func (r Record) Fields() []Field {
	fields := make([]Field, 0, len(r))
	for name, value := range r {
		fields = append(fields, Field{Name: name, Value: value})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
