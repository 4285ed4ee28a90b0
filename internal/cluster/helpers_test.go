package cluster

import (
	"context"
	"strings"

	"github.com/roach88/complexport/internal/model"
	"github.com/roach88/complexport/internal/store"
)

// line builds a MITAB line for proteins a and b (b may be ""). set
// overrides columns by index, growing the line as needed.
func line(ac, a, b string, set map[int]string) string {
	n := minColumns
	for i := range set {
		n = max(n, i+1)
	}
	cols := make([]string, n)
	for i := range cols {
		cols[i] = "-"
	}
	cols[colIDA] = "uniprotkb:" + a
	if b != "" {
		cols[colIDB] = "uniprotkb:" + b
		cols[colTaxB] = "taxid:9606(human)"
	}
	cols[colTaxA] = "taxid:9606(human)"
	cols[colDetectionMethod] = `psi-mi:"MI:0018"(two hybrid)`
	cols[colPublications] = "pubmed:1000|imex:IM-1"
	cols[colInteractionTypes] = `psi-mi:"MI:0915"(physical association)`
	cols[colInteractionIDs] = "intact:" + ac + "|imex:IM-1-1"
	for i, v := range set {
		cols[i] = v
	}
	return strings.Join(cols, "\t")
}

// mapLookup serves evidence from memory.
type mapLookup map[string][]model.EvidenceParticipant

func (m mapLookup) InteractionEvidence(_ context.Context, ac string) (*model.InteractionEvidence, error) {
	parts, ok := m[ac]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &model.InteractionEvidence{Ac: ac, Participants: parts}, nil
}

func pair(minA, minB int) []model.EvidenceParticipant {
	return []model.EvidenceParticipant{
		{InteractorAc: "EBI-A", Stoichiometry: model.Stoichiometry{Min: minA, Max: minA}},
		{InteractorAc: "EBI-B", Stoichiometry: model.Stoichiometry{Min: minB, Max: minB}},
	}
}
