// Package logbook is the QSO normalization and persistence engine.
//
// It takes loosely typed ADIF records, validates them, fills in the station
// identity fields, derives the contact's primary key and replaces the stored
// contact atomically. It also owns log container CRUD and ADIF import/export.
//
// # Pipeline
//
// AddOrUpdateQSO runs, in order:
//
//  1. fold field names to lower case
//  2. Validate against the configured required fields
//  3. Normalize operator, station_callsign and owner_callsign
//  4. DeriveKey from qso_date and time_on
//  5. replace header and attribute rows for (key, log) in one transaction
//
// Two contacts in the same log that share date and minute get the same key;
// the later one replaces the earlier.
//
// # Errors
//
// Every failure is an *Error carrying a Code. Compare with errors.Is against
// the Err* sentinels or use CodeOf.
package logbook
