// Package store provides SQLite-backed storage for complexes, interactors
// and the interaction evidence the cluster filter checks against.
//
// # Ordering
//
// Every multi-row read carries an explicit ORDER BY with COLLATE BINARY, so
// paging through complexes yields the same sequence on every run.
//
// # Hydration
//
// Complex and ComplexesByQuery return fully linked object graphs:
// participants, identifiers, cross-references, aliases and annotations are
// loaded, and complex participants are resolved to their own bodies. Each
// complex is loaded at most once per call, so a cyclic graph in the database
// comes back as linked objects instead of recursing forever. Detecting the
// cycle is left to the flattener.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
