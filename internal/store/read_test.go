package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/complexport/internal/model"
	"github.com/roach88/complexport/internal/testutil"
)

func TestComplex_Hydrated(t *testing.T) {
	s := createSeededStore(t)

	c, err := s.Complex(context.Background(), "CPX-2")
	require.NoError(t, err)

	assert.Equal(t, "3", c.Version)
	assert.Equal(t, "Nested Complex", c.RecommendedName)
	assert.Equal(t, "P12345:Q99999", c.SystematicName)
	assert.Equal(t, model.CvTerm{MI: model.MIIntact, ShortName: "intact"}, c.Source)
	assert.Equal(t, []string{"Nested"}, c.AliasNames(model.AliasComplexSynonym))

	require.Len(t, c.Annotations, 2)
	require.NotNil(t, c.Annotations[0].Value)
	assert.Equal(t, "A nested test complex.", *c.Annotations[0].Value)
	assert.Nil(t, c.Annotations[1].Value)

	require.Len(t, c.Identifiers, 1)
	assert.Equal(t, "1ABC", c.Identifiers[0].ID)
	require.Len(t, c.Xrefs, 1)
	assert.Equal(t, "cytoplasm", c.Xrefs[0].Secondary)

	require.Len(t, c.Participants, 3)
	nested := c.Participants[0]
	assert.True(t, nested.Interactor.IsComplex())
	assert.Equal(t, "EBI-1", nested.Interactor.Complex.Ac)
	assert.Equal(t, model.Stoichiometry{Min: 2, Max: 2}, nested.Stoichiometry)

	inner := nested.Interactor.Complex.Participants[0].Interactor
	ac, ok := inner.UniprotAccession()
	require.True(t, ok)
	assert.Equal(t, "P12345", ac)

	assert.Equal(t, model.KindOther, c.Participants[2].Interactor.Kind)
}

func TestComplex_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Complex(context.Background(), "CPX-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComplexesByQuery_OrderedAndPaged(t *testing.T) {
	s := createSeededStore(t)
	ctx := context.Background()

	n, err := s.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first, err := s.ComplexesByQuery(ctx, nil, 0, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "CPX-2", first[0].Ac)

	second, err := s.ComplexesByQuery(ctx, nil, 1, 1)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "EBI-1", second[0].Ac)

	past, err := s.ComplexesByQuery(ctx, nil, 2, 1)
	require.NoError(t, err)
	assert.NotNil(t, past)
	assert.Empty(t, past)
}

func TestComplexesByQuery_Filter(t *testing.T) {
	s := createSeededStore(t)

	got, err := s.ComplexesByQuery(context.Background(), And{Predicates: []Query{
		Equals{Field: "tax_id", Value: 9606},
		Equals{Field: "version", Value: "1"},
	}}, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "EBI-1", got[0].Ac)
}

func TestComplexesByQuery_UnknownField(t *testing.T) {
	s := createSeededStore(t)

	_, err := s.ComplexesByQuery(context.Background(), Equals{Field: "ac; DROP TABLE complexes", Value: "x"}, 0, 10)
	assert.Error(t, err)
}

func TestAllComplexes(t *testing.T) {
	s := createSeededStore(t)

	all, err := s.AllComplexes(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "CPX-2", all[0].Ac)
	assert.Equal(t, "EBI-1", all[1].Ac)
}

func TestComplex_CyclicGraphTerminates(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	a := testutil.Complex("CPX-A", "A")
	b := testutil.Complex("CPX-B", "B", testutil.Sub(a, 1))
	a.Participants = []model.Participant{testutil.Sub(b, 1)}

	require.NoError(t, s.PutComplex(ctx, a))
	require.NoError(t, s.PutComplex(ctx, b))

	got, err := s.Complex(ctx, "CPX-A")
	require.NoError(t, err)

	child := got.Participants[0].Interactor.Complex
	require.NotNil(t, child)
	assert.Equal(t, "CPX-B", child.Ac)
	assert.Same(t, got, child.Participants[0].Interactor.Complex)
}

func TestComplex_UnresolvedComplexParticipant(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	missing := testutil.Complex("CPX-9", "Never stored")
	top := testutil.Complex("CPX-1", "Top", testutil.Sub(missing, 1))
	require.NoError(t, s.PutComplex(ctx, top))

	got, err := s.Complex(ctx, "CPX-1")
	require.NoError(t, err)

	i := got.Participants[0].Interactor
	assert.Equal(t, model.KindComplex, i.Kind)
	assert.False(t, i.IsComplex())
}

func TestInteractor(t *testing.T) {
	s := createSeededStore(t)

	i, err := s.Interactor(context.Background(), "EBI-11")
	require.NoError(t, err)
	assert.Equal(t, model.KindProtein, i.Kind)
	assert.Equal(t, "Q99999", i.PreferredID)

	_, err = s.Interactor(context.Background(), "EBI-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInteractionEvidence(t *testing.T) {
	s := createSeededStore(t)

	ev, err := s.InteractionEvidence(context.Background(), "EBI-100")
	require.NoError(t, err)
	assert.Equal(t, []model.EvidenceParticipant{
		{InteractorAc: "EBI-10", Stoichiometry: model.Stoichiometry{Min: 1, Max: 1}},
		{InteractorAc: "EBI-11", Stoichiometry: model.Stoichiometry{Min: 1, Max: 1}},
	}, ev.Participants)

	_, err = s.InteractionEvidence(context.Background(), "EBI-404")
	assert.ErrorIs(t, err, ErrNotFound)
}
