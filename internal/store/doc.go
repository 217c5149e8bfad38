// Package store provides SQLite-backed storage for amateur-radio logs.
//
// The schema holds four tables:
//   - logs: named log containers
//   - qso: one header row per contact, keyed by (id_qso, id_log)
//   - qso_attrs: one row per ADIF field of a contact
//   - qsl: confirmation records, removed together with their contact
//
// # Replace Semantics
//
// A contact's header and attribute rows are always written as a set. ReplaceQSO
// deletes whatever exists for the composite key and inserts the new rows inside
// one transaction, so a re-import with fewer fields never leaves stale attributes.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
//   - a single open connection, held for the lifetime of the Store
//
// Multi-statement operations run through execMany, which shares one set of
// named parameters across all statements and commits only if every statement
// succeeds.
package store
