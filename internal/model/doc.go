// Package model provides the read-only entity types exported by complexport.
//
// This package contains type definitions only. All other internal packages
// import model; model imports nothing internal.
//
// Key design constraints:
//   - Interactor is a tagged union (Kind) - complexes are interactors too
//   - Entities are treated as immutable once loaded from the store
//   - Controlled-vocabulary terms are matched by MI id first, short name second
//   - All YAML/JSON tags use snake_case
package model
