package cluster

import "github.com/roach88/complexport/internal/model"

// IsBinary reports whether an evidence's participants describe a true
// binary interaction rather than a spoke-expanded n-ary one.
//
// Binary means one of:
//   - two distinct participants, each with minimum stoichiometry 1
//   - one participant with maximum stoichiometry of at least 2 (self-binding)
//   - two participants, both with minimum stoichiometry 0 (unknown)
func IsBinary(parts []model.EvidenceParticipant) bool {
	switch len(parts) {
	case 1:
		return parts[0].Stoichiometry.Max >= 2
	case 2:
		a, b := parts[0].Stoichiometry.Min, parts[1].Stoichiometry.Min
		if a == 0 && b == 0 {
			return true
		}
		return a == 1 && b == 1 && parts[0].InteractorAc != parts[1].InteractorAc
	default:
		return false
	}
}
