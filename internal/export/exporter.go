package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/complexport/internal/enrich"
	"github.com/roach88/complexport/internal/model"
	"github.com/roach88/complexport/internal/store"
)

// DefaultChunkSize is the number of complexes fetched per page.
const DefaultChunkSize = 200

// Source pages through stored complexes in a stable order.
type Source interface {
	CountAll(ctx context.Context) (int, error)
	ComplexesByQuery(ctx context.Context, q store.Query, offset, limit int) ([]*model.Complex, error)
}

// Stats summarizes an export run.
type Stats struct {
	Total    int `json:"total"`
	Exported int `json:"exported"`
	Skipped  int `json:"skipped"`
	// Lines counts GAF annotation lines; zero for table exports.
	Lines int `json:"lines,omitempty"`
}

// Exporter drives the three-table export.
type Exporter struct {
	Source    Source
	Query     store.Query
	Enricher  enrich.Enricher
	Assembler *Assembler
	ChunkSize int
	Logger    *slog.Logger
}

// Run exports every complex matched by Query into sink and closes it.
//
// A complex that fails assembly with a data error is logged and skipped in
// every table; the run continues. Any other error, including a failed
// write, stops the run and is returned with the stats gathered so far.
func (e *Exporter) Run(ctx context.Context, sink Sink) (stats Stats, err error) {
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close output: %w", cerr))
		}
	}()

	log := e.logger()
	assembler := e.Assembler
	if assembler == nil {
		assembler = NewAssembler()
	}
	enricher := e.Enricher
	if enricher == nil {
		enricher = enrich.Noop{}
	}

	stored, err := e.Source.CountAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("count complexes: %w", err)
	}
	log.Info("export starting", "stored_complexes", stored)

	err = Walk(ctx, e.Source, e.Query, e.ChunkSize, func(c *model.Complex) error {
		stats.Total++

		if err := enricher.Enrich(ctx, c); err != nil {
			return err
		}

		tables, err := assembler.AssembleTables(c)
		if IsDataError(err) {
			stats.Skipped++
			log.Warn("skipping complex", "complex", c.Ac, "error", err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("assemble %s: %w", c.Ac, err)
		}
		if len(tables.AmbiguousEvidence) > 0 {
			log.Warn("multiple evidence codes, none exported",
				"complex", c.Ac, "evidence", tables.AmbiguousEvidence)
		}

		if err := sink.WriteTables(tables); err != nil {
			return fmt.Errorf("write %s: %w", c.Ac, err)
		}
		stats.Exported++
		log.Debug("exported complex", "complex", c.Ac, "components", len(tables.Components))
		return nil
	})
	if err != nil {
		return stats, err
	}

	log.Info("export finished", "total", stats.Total, "exported", stats.Exported, "skipped", stats.Skipped)
	return stats, nil
}

func (e *Exporter) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// Walk calls fn for every complex matched by q, fetching chunk complexes
// per page until a short page. A non-positive chunk uses DefaultChunkSize.
// The first error from the source, fn, or ctx stops the walk.
func Walk(ctx context.Context, src Source, q store.Query, chunk int, fn func(*model.Complex) error) error {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	for offset := 0; ; offset += chunk {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := src.ComplexesByQuery(ctx, q, offset, chunk)
		if err != nil {
			return fmt.Errorf("fetch complexes at offset %d: %w", offset, err)
		}
		for _, c := range page {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(c); err != nil {
				return err
			}
		}
		if len(page) < chunk {
			return nil
		}
	}
}
