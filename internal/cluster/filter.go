package cluster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/complexport/internal/model"
	"github.com/roach88/complexport/internal/store"
)

// Options configures a Filter.
type Options struct {
	// ExcludeSelf drops interactions whose two sides are the same protein,
	// including intra-molecular lines with no B interactor.
	ExcludeSelf bool
	// ExcludeSpokeExpanded drops evidence that fails IsBinary.
	ExcludeSpokeExpanded bool
	// Taxa, when non-empty, requires at least one side to be in the set.
	Taxa []int
	// Excluded lists interaction accessions that are never exported.
	Excluded []string
	// MinEvidence is the number of distinct interaction accessions a pair
	// needs to be kept. Values below 1 mean 1.
	MinEvidence int
}

// EvidenceLookup resolves interaction evidence by accession. A miss
// returns an error matching store.ErrNotFound.
type EvidenceLookup interface {
	InteractionEvidence(ctx context.Context, ac string) (*model.InteractionEvidence, error)
}

// Stats counts what happened to each record.
type Stats struct {
	Read          int `json:"read"`
	Accepted      int `json:"accepted"`
	Self          int `json:"self"`
	NoExternalID  int `json:"no_external_id"`
	Negative      int `json:"negative"`
	Taxon         int `json:"taxon"`
	Excluded      int `json:"excluded"`
	MissingLookup int `json:"missing_lookup"`
	SpokeExpanded int `json:"spoke_expanded"`
	Pairs         int `json:"pairs"`
	BelowMinimum  int `json:"below_minimum"`
}

// BinaryInteraction is the merged evidence for one unordered protein pair.
// UniprotA sorts before or equal to UniprotB.
type BinaryInteraction struct {
	ID               int
	UniprotA         string
	UniprotB         string
	GeneA            string
	GeneB            string
	InteractionAcs   []string
	Publications     []string
	DetectionMethods []string
	InteractionTypes []string

	seen map[string]bool
}

// EvidenceCount is the number of distinct interaction accessions.
func (b *BinaryInteraction) EvidenceCount() int {
	return len(b.InteractionAcs)
}

// IsSelf reports whether both sides are the same protein.
func (b *BinaryInteraction) IsSelf() bool {
	return b.UniprotA == b.UniprotB
}

func (b *BinaryInteraction) add(list *[]string, kind, value string) {
	key := kind + "\x00" + value
	if value == "" || b.seen[key] {
		return
	}
	b.seen[key] = true
	*list = append(*list, value)
}

// Cluster is the result of a filter run.
type Cluster struct {
	// Interactions in id order.
	Interactions []*BinaryInteraction
	// InteractionMapping indexes Interactions by id.
	InteractionMapping map[int]*BinaryInteraction
	// InteractorMapping lists the ids of every interaction a UniProtKB
	// accession takes part in. Self interactions are listed once.
	InteractorMapping map[string][]int
	// SpokeExpanded holds every interaction accession classified as
	// spoke-expanded, whether or not it was exported.
	SpokeExpanded map[string]bool
}

type pairKey struct{ a, b string }

// Filter applies the record pipeline and accumulates accepted pairs.
// A Filter is single-use and not safe for concurrent use.
type Filter struct {
	opts     Options
	lookup   EvidenceLookup
	logger   *slog.Logger
	taxa     map[int]bool
	excluded map[string]bool

	pairs map[pairKey]*BinaryInteraction
	order []pairKey
	spoke map[string]bool
	stats Stats
}

// NewFilter returns a Filter reading evidence from lookup.
func NewFilter(lookup EvidenceLookup, opts Options, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Filter{
		opts:     opts,
		lookup:   lookup,
		logger:   logger,
		taxa:     make(map[int]bool, len(opts.Taxa)),
		excluded: make(map[string]bool, len(opts.Excluded)),
		pairs:    make(map[pairKey]*BinaryInteraction),
		spoke:    make(map[string]bool),
	}
	for _, t := range opts.Taxa {
		f.taxa[t] = true
	}
	for _, ac := range opts.Excluded {
		f.excluded[ac] = true
	}
	return f
}

// Add runs one record through the pipeline. Dropped records are counted
// and logged; only lookup failures other than a miss are returned.
func (f *Filter) Add(ctx context.Context, rec *Record) error {
	f.stats.Read++
	log := f.logger.With("interaction", rec.InteractionAc, "line", rec.Line)

	idA := uniprotID(rec.IDsA, rec.AltIDsA)
	geneA := geneName(rec.AliasesA)
	idB, geneB, taxB := uniprotID(rec.IDsB, rec.AltIDsB), geneName(rec.AliasesB), rec.TaxB
	if rec.IntraMolecular() {
		if f.opts.ExcludeSelf {
			f.stats.Self++
			log.Debug("skipping intra-molecular interaction")
			return nil
		}
		idB, geneB, taxB = idA, geneA, rec.TaxA
	}

	if idA == "" || idB == "" {
		f.stats.NoExternalID++
		log.Info("skipping interaction without uniprotkb identifiers")
		return nil
	}
	if f.opts.ExcludeSelf && idA == idB {
		f.stats.Self++
		log.Debug("skipping self interaction", "uniprot", idA)
		return nil
	}
	if rec.Negative {
		f.stats.Negative++
		log.Debug("skipping negative interaction")
		return nil
	}
	if !f.taxonAllowed(rec.TaxA, taxB) {
		f.stats.Taxon++
		log.Debug("skipping interaction outside allowed taxa", "tax_a", rec.TaxA, "tax_b", taxB)
		return nil
	}
	if f.excluded[rec.InteractionAc] {
		f.stats.Excluded++
		log.Debug("skipping excluded interaction")
		return nil
	}

	ev, err := f.lookup.InteractionEvidence(ctx, rec.InteractionAc)
	if errors.Is(err, store.ErrNotFound) {
		f.stats.MissingLookup++
		log.Warn("interaction evidence not found")
		return nil
	}
	if err != nil {
		return fmt.Errorf("look up %s: %w", rec.InteractionAc, err)
	}

	if !IsBinary(ev.Participants) {
		f.spoke[rec.InteractionAc] = true
		if f.opts.ExcludeSpokeExpanded {
			f.stats.SpokeExpanded++
			log.Debug("skipping spoke-expanded interaction", "participants", len(ev.Participants))
			return nil
		}
	}

	f.merge(rec, idA, geneA, idB, geneB)
	f.stats.Accepted++
	return nil
}

func (f *Filter) taxonAllowed(a, b int) bool {
	if a <= 0 || b <= 0 {
		return false
	}
	if len(f.taxa) == 0 {
		return true
	}
	return f.taxa[a] || f.taxa[b]
}

func (f *Filter) merge(rec *Record, idA, geneA, idB, geneB string) {
	if idB < idA {
		idA, idB = idB, idA
		geneA, geneB = geneB, geneA
	}
	key := pairKey{idA, idB}

	bi, ok := f.pairs[key]
	if !ok {
		bi = &BinaryInteraction{UniprotA: idA, UniprotB: idB, seen: make(map[string]bool)}
		f.pairs[key] = bi
		f.order = append(f.order, key)
	}
	if bi.GeneA == "" {
		bi.GeneA = geneA
	}
	if bi.GeneB == "" {
		bi.GeneB = geneB
	}

	bi.add(&bi.InteractionAcs, "ac", rec.InteractionAc)
	for _, t := range rec.Publications {
		bi.add(&bi.Publications, "pub", t.DB+":"+t.Value)
	}
	for _, t := range rec.DetectionMethods {
		bi.add(&bi.DetectionMethods, "method", t.String())
	}
	for _, t := range rec.InteractionTypes {
		bi.add(&bi.InteractionTypes, "type", t.String())
	}
}

// Finish assigns ids 1..n, in first-seen order, to the pairs with at least
// MinEvidence interaction accessions and builds the cluster indexes.
func (f *Filter) Finish() *Cluster {
	minEvidence := max(f.opts.MinEvidence, 1)

	c := &Cluster{
		InteractionMapping: make(map[int]*BinaryInteraction),
		InteractorMapping:  make(map[string][]int),
		SpokeExpanded:      f.spoke,
	}
	for _, key := range f.order {
		bi := f.pairs[key]
		if bi.EvidenceCount() < minEvidence {
			f.stats.BelowMinimum++
			continue
		}
		bi.ID = len(c.Interactions) + 1
		c.Interactions = append(c.Interactions, bi)
		c.InteractionMapping[bi.ID] = bi
		c.InteractorMapping[bi.UniprotA] = append(c.InteractorMapping[bi.UniprotA], bi.ID)
		if !bi.IsSelf() {
			c.InteractorMapping[bi.UniprotB] = append(c.InteractorMapping[bi.UniprotB], bi.ID)
		}
	}
	f.stats.Pairs = len(c.Interactions)
	return c
}

// Stats returns the counters gathered so far.
func (f *Filter) Stats() Stats {
	return f.stats
}

// Run feeds every record from r through f and returns the finished
// cluster. A parse error or a failed lookup aborts the run.
func Run(ctx context.Context, r *Reader, f *Filter) (*Cluster, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := f.Add(ctx, rec); err != nil {
			return nil, err
		}
	}
	return f.Finish(), nil
}
