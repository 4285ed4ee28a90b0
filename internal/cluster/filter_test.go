package cluster

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/complexport/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runLines(t *testing.T, lookup EvidenceLookup, opts Options, lines ...string) (*Cluster, Stats) {
	t.Helper()
	r, err := NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	f := NewFilter(lookup, opts, quietLogger())
	c, err := Run(context.Background(), r, f)
	require.NoError(t, err)
	return c, f.Stats()
}

func TestFilter_MergesUnorderedPairs(t *testing.T) {
	lookup := mapLookup{"EBI-1": pair(1, 1), "EBI-2": pair(1, 1), "EBI-3": pair(0, 0)}

	c, stats := runLines(t, lookup, Options{},
		line("EBI-1", "Q99999", "P12345", map[int]string{colAliasA: "uniprotkb:XYZ2(gene name)"}),
		line("EBI-2", "P12345", "Q99999", map[int]string{colPublications: "pubmed:2000"}),
		line("EBI-3", "P12345", "O11111", nil),
	)

	assert.Equal(t, 3, stats.Accepted)
	require.Len(t, c.Interactions, 2)

	first := c.Interactions[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "P12345", first.UniprotA)
	assert.Equal(t, "Q99999", first.UniprotB)
	assert.Equal(t, "XYZ2", first.GeneB)
	assert.Equal(t, []string{"EBI-1", "EBI-2"}, first.InteractionAcs)
	assert.Equal(t, []string{"pubmed:1000", "imex:IM-1", "pubmed:2000"}, first.Publications)
	assert.Equal(t, 2, first.EvidenceCount())

	second := c.Interactions[1]
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "O11111", second.UniprotA)

	assert.Same(t, first, c.InteractionMapping[1])
	assert.Equal(t, []int{1, 2}, c.InteractorMapping["P12345"])
	assert.Equal(t, []int{1}, c.InteractorMapping["Q99999"])
}

func TestFilter_SelfInteractions(t *testing.T) {
	lookup := mapLookup{"EBI-1": {{InteractorAc: "EBI-A", Stoichiometry: model.Stoichiometry{Min: 1, Max: 2}}}}
	intra := line("EBI-1", "P12345", "", nil)

	c, stats := runLines(t, lookup, Options{}, intra)
	require.Len(t, c.Interactions, 1)
	assert.True(t, c.Interactions[0].IsSelf())
	assert.Equal(t, []int{1}, c.InteractorMapping["P12345"])
	assert.Equal(t, 1, stats.Accepted)

	c, stats = runLines(t, lookup, Options{ExcludeSelf: true}, intra, line("EBI-1", "P12345", "P12345", nil))
	assert.Empty(t, c.Interactions)
	assert.Equal(t, 2, stats.Self)
}

func TestFilter_DropReasons(t *testing.T) {
	lookup := mapLookup{"EBI-1": pair(1, 1), "EBI-2": pair(1, 1), "EBI-3": pair(1, 1), "EBI-4": pair(1, 1)}

	_, stats := runLines(t, lookup, Options{Taxa: []int{10090}, Excluded: []string{"EBI-4"}},
		line("EBI-1", "P1", "P2", map[int]string{colIDB: "chebi:CHEBI:15422"}),
		line("EBI-2", "P1", "P2", map[int]string{colNegative: "true"}),
		line("EBI-3", "P1", "P2", nil),
		line("EBI-4", "P1", "P2", map[int]string{colTaxA: "taxid:10090(mouse)"}),
		line("EBI-5", "P1", "P2", map[int]string{colTaxA: "taxid:10090(mouse)"}),
		line("EBI-6", "P1", "P2", map[int]string{colTaxB: "taxid:-1(in vitro)"}),
	)

	assert.Equal(t, Stats{
		Read:          6,
		NoExternalID:  1,
		Negative:      1,
		Taxon:         2,
		Excluded:      1,
		MissingLookup: 1,
	}, stats)
}

func TestFilter_SpokeExpanded(t *testing.T) {
	three := []model.EvidenceParticipant{{InteractorAc: "a"}, {InteractorAc: "b"}, {InteractorAc: "c"}}
	lookup := mapLookup{"EBI-1": three, "EBI-2": pair(1, 1)}
	lines := []string{line("EBI-1", "P1", "P2", nil), line("EBI-2", "P1", "P2", nil)}

	c, stats := runLines(t, lookup, Options{ExcludeSpokeExpanded: true}, lines...)
	require.Len(t, c.Interactions, 1)
	assert.Equal(t, []string{"EBI-2"}, c.Interactions[0].InteractionAcs)
	assert.True(t, c.SpokeExpanded["EBI-1"])
	assert.Equal(t, 1, stats.SpokeExpanded)

	c, _ = runLines(t, lookup, Options{}, lines...)
	assert.Equal(t, []string{"EBI-1", "EBI-2"}, c.Interactions[0].InteractionAcs)
	assert.True(t, c.SpokeExpanded["EBI-1"])
}

func TestFilter_MinEvidence(t *testing.T) {
	lookup := mapLookup{"EBI-1": pair(1, 1), "EBI-2": pair(1, 1), "EBI-3": pair(1, 1)}

	c, stats := runLines(t, lookup, Options{MinEvidence: 2},
		line("EBI-1", "P3", "P4", nil),
		line("EBI-2", "P1", "P2", nil),
		line("EBI-3", "P2", "P1", nil),
	)
	require.Len(t, c.Interactions, 1)
	assert.Equal(t, 1, c.Interactions[0].ID)
	assert.Equal(t, "P1", c.Interactions[0].UniprotA)
	assert.Equal(t, 1, stats.BelowMinimum)
	assert.NotContains(t, c.InteractorMapping, "P3")
}

func TestRun_ParseErrorAborts(t *testing.T) {
	r, err := NewReader(strings.NewReader(line("EBI-1", "P1", "P2", nil) + "\nbroken line\n"))
	require.NoError(t, err)

	_, err = Run(context.Background(), r, NewFilter(mapLookup{"EBI-1": pair(1, 1)}, Options{}, quietLogger()))
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
}

type brokenLookup struct{}

func (brokenLookup) InteractionEvidence(context.Context, string) (*model.InteractionEvidence, error) {
	return nil, errors.New("database is locked")
}

func TestRun_LookupFailureAborts(t *testing.T) {
	r, err := NewReader(strings.NewReader(line("EBI-1", "P1", "P2", nil)))
	require.NoError(t, err)

	_, err = Run(context.Background(), r, NewFilter(brokenLookup{}, Options{}, quietLogger()))
	assert.ErrorContains(t, err, "database is locked")
}
