// Package adif reads and writes the ADI flavour of the Amateur Data
// Interchange Format.
//
// A file is an optional free-text header closed by <eoh>, followed by records.
// Each record is a run of fields of the form
//
//	<name:length>value
//	<name:length:type>value
//
// closed by <eor>. The length counts bytes of the value. Field names are case
// insensitive and are folded to lower case on read; the optional type
// indicator is ignored.
//
// Decoding is lenient in the same places real-world log files are sloppy:
// tags without a length are skipped, text between fields is ignored and a
// trailing record without <eor> is dropped. A length that is not a
// non-negative integer is a SyntaxError.
package adif
