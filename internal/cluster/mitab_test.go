package cluster

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	text := line("EBI-100", "P12345", "Q99999", map[int]string{
		colAliasA: "uniprotkb:ABC1(gene name)|uniprotkb:abc(gene name synonym)",
		colAliasB: "uniprotkb:XYZ2(gene name)",
	})

	rec, err := ParseLine(7, text)
	require.NoError(t, err)

	assert.Equal(t, 7, rec.Line)
	assert.Equal(t, "EBI-100", rec.InteractionAc)
	assert.Equal(t, 9606, rec.TaxA)
	assert.Equal(t, 9606, rec.TaxB)
	assert.False(t, rec.Negative)
	assert.False(t, rec.IntraMolecular())
	assert.Equal(t, "P12345", uniprotID(rec.IDsA, rec.AltIDsA))
	assert.Equal(t, "ABC1", geneName(rec.AliasesA))
	assert.Equal(t, "XYZ2", geneName(rec.AliasesB))
	require.Len(t, rec.DetectionMethods, 1)
	assert.Equal(t, Term{DB: "psi-mi", Value: "MI:0018", Text: "two hybrid"}, rec.DetectionMethods[0])
	assert.Len(t, rec.Publications, 2)
}

func TestParseLine_IntraMolecularAndNegative(t *testing.T) {
	rec, err := ParseLine(1, line("EBI-1", "P12345", "", map[int]string{colNegative: "true"}))
	require.NoError(t, err)
	assert.True(t, rec.IntraMolecular())
	assert.True(t, rec.Negative)
	assert.Zero(t, rec.TaxB)
}

func TestParseLine_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"too few columns", "uniprotkb:P1\tuniprotkb:P2", "2 columns"},
		{"no interaction ac", line("EBI-1", "P1", "P2", map[int]string{colInteractionIDs: "imex:IM-1"}), "no intact interaction accession"},
		{"no interactor A", line("EBI-1", "P1", "P2", map[int]string{colIDA: "-"}), "interactor A"},
		{"bad taxid", line("EBI-1", "P1", "P2", map[int]string{colTaxA: "taxid:human"}), "taxid A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(3, tt.text)
			require.Error(t, err)
			assert.True(t, IsParseError(err))
			assert.ErrorContains(t, err, "line 3")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestParseTerm(t *testing.T) {
	tests := []struct {
		in   string
		want Term
	}{
		{"uniprotkb:P12345", Term{DB: "uniprotkb", Value: "P12345"}},
		{"taxid:-1(in vitro)", Term{DB: "taxid", Value: "-1", Text: "in vitro"}},
		{`psi-mi:"MI:0407"(direct interaction)`, Term{DB: "psi-mi", Value: "MI:0407", Text: "direct interaction"}},
		{"plain", Term{Value: "plain"}},
	}
	for _, tt := range tests {
		got, ok := parseTerm(tt.in)
		require.True(t, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, ok := parseTerm("-")
	assert.False(t, ok)
}

func TestSplitOutsideQuotes(t *testing.T) {
	assert.Equal(t, []string{`a:"x|y"`, "b:z"}, splitOutsideQuotes(`a:"x|y"|b:z`, '|'))
}

func TestReader_SkipsCommentsAndBlankLines(t *testing.T) {
	input := "#ID(s) interactor A\tID(s) interactor B\n\n" +
		line("EBI-1", "P1", "P2", nil) + "\n" +
		line("EBI-2", "P3", "P4", nil) + "\r\n"

	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)

	first, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, first.Line)

	second, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "EBI-2", second.InteractionAc)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, r.Close())
}

func TestReader_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := pgzip.NewWriter(&buf)
	_, err := io.WriteString(zw, line("EBI-9", "P1", "P2", nil)+"\n")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "EBI-9", rec.InteractionAc)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
	require.NotNil(t, r.closer)
	assert.NoError(t, r.Close())
}
