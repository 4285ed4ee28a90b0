package classify

import "github.com/roach88/complexport/internal/model"

// XrefBuckets is the disjoint partition of one complex's cross-references.
type XrefBuckets struct {
	// EvidenceOntology is the single evidence-ontology xref, or nil when
	// there is none or more than one.
	EvidenceOntology *model.Xref

	// AmbiguousEvidence holds every evidence-ontology xref when more than
	// one exists. None of them is picked.
	AmbiguousEvidence []model.Xref

	ExpEvidence []model.Xref
	GO          []model.Xref
	Other       []model.Xref
}

// Len returns the total number of classified xrefs across all buckets.
func (b XrefBuckets) Len() int {
	n := len(b.AmbiguousEvidence) + len(b.ExpEvidence) + len(b.GO) + len(b.Other)
	if b.EvidenceOntology != nil {
		n++
	}
	return n
}

// ClassifyXrefs partitions xrefs into mutually exclusive buckets.
//
// Buckets are computed in order and each one consumes its members from the
// remaining pool before the next bucket is evaluated:
//  1. evidence ontology (database "evidence ontology")
//  2. experimental evidence (qualifier "exp-evidence")
//  3. GO (database "go")
//  4. everything else
//
// The input slice is copied, never modified.
func ClassifyXrefs(xrefs []model.Xref) XrefBuckets {
	var buckets XrefBuckets

	pool := make([]model.Xref, len(xrefs))
	copy(pool, xrefs)

	var evidence []model.Xref
	evidence, pool = take(pool, func(x model.Xref) bool {
		return x.Database.Is(model.MIEvidenceOntology, model.DBEvidenceOntology)
	})
	switch len(evidence) {
	case 0:
	case 1:
		buckets.EvidenceOntology = &evidence[0]
	default:
		buckets.AmbiguousEvidence = evidence
	}

	buckets.ExpEvidence, pool = take(pool, func(x model.Xref) bool {
		return x.Qualifier.Is(model.MIExpEvidence, model.QualExpEvidence)
	})

	buckets.GO, pool = take(pool, func(x model.Xref) bool {
		return x.Database.Is(model.MIGeneOntology, model.DBGeneOntology)
	})

	buckets.Other = pool
	return buckets
}

// take splits pool into the members matching pred and the remainder,
// preserving relative order in both.
func take(pool []model.Xref, pred func(model.Xref) bool) (matched, rest []model.Xref) {
	for _, x := range pool {
		if pred(x) {
			matched = append(matched, x)
		} else {
			rest = append(rest, x)
		}
	}
	return matched, rest
}
