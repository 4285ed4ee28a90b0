// Package cluster filters a PSI-MITAB interaction stream down to binary
// protein pairs and merges repeated evidence for the same pair.
//
// Records are processed one at a time, in file order:
//
//	parse → resolve ids → self/negative/taxon checks → exclusion list
//	      → evidence lookup → binary classification → merge into pair
//
// Each step either passes the record on or drops it with a counted,
// logged reason. A malformed line stops the whole run with a *ParseError;
// a missing evidence lookup only drops that one record.
//
// Finish assigns synthetic ids to the merged pairs in first-seen order and
// builds the interactor → interaction index.
package cluster
