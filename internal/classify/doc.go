// Package classify partitions a complex's cross-references and annotations
// into the named buckets the exporters render.
//
// Both classifiers are pure functions: they never mutate their input and
// never log. Callers decide how to report ambiguous input (for example more
// than one evidence-ontology xref) because only they know which complex is
// being exported.
package classify
