package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"plain", "Test Complex", "Test Complex"},
		{"empty", "", "-"},
		{"whitespace only", " \t\n ", "-"},
		{"collapses runs", "a\t\tb\n\nc  d", "a b c d"},
		{"trims", "  padded  ", "padded"},
		{"nfc", "Cafe\u0301", "Caf\u00e9"},
		{"null uppercase is allowed", "NULL", "NULL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize("c", tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitize_NullCollision(t *testing.T) {
	_, err := Sanitize("description", "binds nullified substrate")
	require.Error(t, err)
	assert.True(t, IsFieldError(err))

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrCodeNullCollision, fe.Code)
	assert.Equal(t, "description", fe.Column)
}

func TestJoinField(t *testing.T) {
	got, err := JoinField("aliases", []string{"a", "", "  ", "b\tc"}, "|")
	require.NoError(t, err)
	assert.Equal(t, "a|b c", got)

	got, err = JoinField("aliases", nil, "|")
	require.NoError(t, err)
	assert.Equal(t, Sentinel, got)

	_, err = JoinField("ligand", []string{"ok", "null"}, "|")
	assert.True(t, IsFieldError(err))
}

func TestFieldError_MissingValueMessage(t *testing.T) {
	err := &FieldError{Code: ErrCodeMissingValue, Column: "taxon"}
	assert.Equal(t, `MISSING_VALUE: column "taxon" is mandatory`, err.Error())
}
