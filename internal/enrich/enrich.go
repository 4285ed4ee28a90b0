// Package enrich fills in cross-references missing from stored complexes
// before they are flattened.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/complexport/internal/model"
	"github.com/roach88/complexport/internal/store"
)

// Enricher completes a partially-populated complex in place.
type Enricher interface {
	Enrich(ctx context.Context, c *model.Complex) error
}

// Noop leaves complexes untouched.
type Noop struct{}

// Enrich implements Enricher.
func (Noop) Enrich(context.Context, *model.Complex) error { return nil }

// InteractorLookup resolves an interactor by database accession.
// A miss returns an error matching store.ErrNotFound.
type InteractorLookup interface {
	Interactor(ctx context.Context, ac string) (*model.Interactor, error)
}

// StoreEnricher copies identity cross-references from the interactor
// table onto proteins that lack a UniProtKB accession or preferred id.
//
// Lookup misses are soft: they are logged and the protein is left as is, so
// the flattener reports it if the identifier was mandatory.
type StoreEnricher struct {
	Lookup InteractorLookup
	Logger *slog.Logger
}

// Enrich implements Enricher. Nested complexes are visited once each.
func (e *StoreEnricher) Enrich(ctx context.Context, c *model.Complex) error {
	return e.enrich(ctx, c, make(map[*model.Complex]bool))
}

func (e *StoreEnricher) enrich(ctx context.Context, c *model.Complex, visited map[*model.Complex]bool) error {
	if c == nil || visited[c] {
		return nil
	}
	visited[c] = true

	for _, p := range c.Participants {
		i := p.Interactor
		switch {
		case i.IsComplex():
			if err := e.enrich(ctx, i.Complex, visited); err != nil {
				return err
			}
		case i.IsProtein():
			if err := e.enrichProtein(ctx, c, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *StoreEnricher) enrichProtein(ctx context.Context, c *model.Complex, p *model.Interactor) error {
	if _, ok := p.UniprotAccession(); ok && p.PreferredID != "" {
		return nil
	}

	found, err := e.Lookup.Interactor(ctx, p.Ac)
	if errors.Is(err, store.ErrNotFound) {
		e.logger().Debug("enrichment lookup miss", "complex", c.Ac, "interactor", p.Ac)
		return nil
	}
	if err != nil {
		return fmt.Errorf("enrich %s: %w", p.Ac, err)
	}

	if p.PreferredID == "" {
		p.PreferredID = found.PreferredID
	}
	if _, ok := p.UniprotAccession(); !ok {
		if ac, ok := found.UniprotAccession(); ok {
			p.Identifiers = append(p.Identifiers, model.Xref{
				Database:  model.CvTerm{MI: model.MIUniprot, ShortName: model.DBUniprot},
				Qualifier: model.CvTerm{MI: model.MIIdentity, ShortName: model.QualIdentity},
				ID:        ac,
			})
		}
	}
	return nil
}

func (e *StoreEnricher) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
