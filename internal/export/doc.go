// Package export assembles flattened complexes into fixed-column flat
// records and writes them to tab-separated sinks.
//
// # Record Rules
//
// Every record has a fixed column count. Each field is sanitized before it
// is placed in a row:
//   - NFC normalization (golang.org/x/text)
//   - runs of whitespace, tabs and newlines collapse to one space
//   - empty values render as the sentinel "-", never as an empty column
//   - any value containing the literal text "null" is a data error and the
//     whole complex is rejected (FieldError names the column)
//
// # Atomicity
//
// All rows for one complex (summary, components, PDB mapping, and the
// 18-column complex row) are assembled in memory before anything is
// written. A data error anywhere skips the complex in every table; an I/O
// error aborts the run.
package export
