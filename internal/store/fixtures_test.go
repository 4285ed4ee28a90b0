package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixtures_Counts(t *testing.T) {
	s := createTestStore(t)

	stats, err := s.LoadFixtures(context.Background(), "testdata/complexes.yaml")
	require.NoError(t, err)
	assert.Equal(t, LoadStats{Interactors: 3, Complexes: 2, Evidences: 1}, stats)
}

func TestLoadFixtures_MissingFile(t *testing.T) {
	s := createTestStore(t)

	_, err := s.LoadFixtures(context.Background(), "testdata/does-not-exist.yaml")
	assert.Error(t, err)
}

func TestParseFixtures_MultipleDocuments(t *testing.T) {
	fx, err := ParseFixtures(strings.NewReader(`
interactors:
  - {kind: protein, ac: EBI-1, preferred_id: P1}
---
interactors:
  - {kind: protein, ac: EBI-2, preferred_id: P2}
`))
	require.NoError(t, err)
	assert.Len(t, fx.Interactors, 2)
}

func TestParseFixtures_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "complexs: []", "field complexs not found"},
		{"missing ac", "interactors:\n  - {kind: protein}", "ac is required"},
		{"bad kind", "interactors:\n  - {kind: rna, ac: EBI-1}", "invalid kind"},
		{"complex as interactor", "interactors:\n  - {kind: complex, ac: CPX-1}", "complexes belong under"},
		{"participant without ac", "complexes:\n  - {ac: CPX-1, participants: [{stoichiometry: {min: 1, max: 1}}]}", "participants[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixtures(strings.NewReader(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestPutFixtures_UnknownParticipant(t *testing.T) {
	s := createTestStore(t)

	fx, err := ParseFixtures(strings.NewReader(`
complexes:
  - ac: CPX-1
    participants:
      - {ac: EBI-404, stoichiometry: {min: 1, max: 1}}
`))
	require.NoError(t, err)

	_, err = s.PutFixtures(context.Background(), fx)
	assert.ErrorIs(t, err, ErrNotFound)
}
