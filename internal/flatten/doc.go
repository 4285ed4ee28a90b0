// Package flatten resolves a complex's participant tree into a flat,
// deterministic multiset of protein leaves with aggregated copy counts.
//
// # Algorithm
//
// Flatten walks the participant list depth-first, pre-order:
//  1. Participants whose interactor is neither a protein nor a complex are
//     dropped (small molecules, nucleic acids, ...)
//  2. copies = stoichiometry.max * multiplier; a zero multiplier yields an
//     explicit zero ("indeterminate count"), never an omitted entry
//  3. Repeated interactors are summed under their canonical model.Key
//  4. Complex entries recurse with their copies as the new multiplier
//  5. Protein entries must carry a preferred identifier and a UniProtKB
//     identity accession
//  6. Chains (chain-parent xref) are exported under their parent accession
//
// # Cycles
//
// The walk keeps the current path of complex accessions. Re-entering a
// complex already on the path fails fast with ErrCodeCyclicComplex. The same
// sub-complex reached through two sibling branches is not a cycle and is
// counted once per branch. A max depth bounds pathological but acyclic
// nesting.
package flatten
