// Package source loads text files as lines and writes them back byte for byte:
// line terminators (\n or \r\n), a missing final newline and a UTF-8 BOM all
// survive a Parse/Bytes round trip.
package source
