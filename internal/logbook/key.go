package logbook

// DeriveKey builds the QSO primary key "YYYY-MM-DD HH:MM:00" from the
// qso_date (YYYYMMDD) and time_on (HHMM[SS]) fields of a folded record.
//
// The date and time are sliced at fixed offsets without calendar checks. A
// short or malformed value yields a malformed key rather than an error; only
// a missing field fails.
func DeriveKey(rec map[string]string) (string, error) {
	date, okDate := rec[FieldQSODate]
	tm, okTime := rec[FieldTimeOn]
	if !okDate || !okTime {
		var missing []string
		if !okDate {
			missing = append(missing, FieldQSODate)
		}
		if !okTime {
			missing = append(missing, FieldTimeOn)
		}
		return "", &Error{Code: CodeMissingKeyField, Op: "derive key", Fields: missing}
	}

	return clip(date, 0, 4) + "-" + clip(date, 4, 6) + "-" + clip(date, 6, 8) +
		" " + clip(tm, 0, 2) + ":" + clip(tm, 2, 4) + ":00", nil
}

// clip returns s[i:j] with both bounds clamped to len(s).
func clip(s string, i, j int) string {
	if i > len(s) {
		i = len(s)
	}
	if j > len(s) {
		j = len(s)
	}
	return s[i:j]
}

// splitKey reverses DeriveKey for well-formed keys, returning the ADIF date
// and time. ok is false if key is not in the derived layout.
func splitKey(key string) (date, tm string, ok bool) {
	if len(key) != len("2006-01-02 15:04:05") || key[4] != '-' || key[7] != '-' || key[10] != ' ' || key[13] != ':' {
		return "", "", false
	}
	return key[0:4] + key[5:7] + key[8:10], key[11:13] + key[14:16], true
}
