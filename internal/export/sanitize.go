package export

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Sentinel stands in for every missing value.
const Sentinel = "-"

// reservedText may never appear in an exported value: downstream readers
// treat it as a missing-value marker.
const reservedText = "null"

var whitespaceRun = regexp.MustCompile(`\s+`)

// Field error codes.
const (
	// ErrCodeNullCollision identifies a value containing the reserved text.
	ErrCodeNullCollision = "NULL_COLLISION"
	// ErrCodeMissingValue identifies a mandatory value that is empty.
	ErrCodeMissingValue = "MISSING_VALUE"
)

// FieldError reports a field that cannot be exported.
type FieldError struct {
	Code   string
	Column string
	Value  string
}

func (e *FieldError) Error() string {
	if e.Code == ErrCodeMissingValue {
		return fmt.Sprintf("%s: column %q is mandatory", e.Code, e.Column)
	}
	return fmt.Sprintf("%s: column %q: value %q contains reserved text %q", e.Code, e.Column, e.Value, reservedText)
}

// IsFieldError returns true if err is a FieldError.
// Uses errors.As to handle wrapped errors.
func IsFieldError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}

// Sanitize normalizes a single field value. Empty values become Sentinel.
func Sanitize(column, value string) (string, error) {
	v, err := clean(column, value)
	if err != nil {
		return "", err
	}
	if v == "" {
		return Sentinel, nil
	}
	return v, nil
}

// JoinField sanitizes each value, drops the empty ones and joins the rest
// with sep. An empty result becomes Sentinel.
func JoinField(column string, values []string, sep string) (string, error) {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		c, err := clean(column, v)
		if err != nil {
			return "", err
		}
		if c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return Sentinel, nil
	}
	return strings.Join(parts, sep), nil
}

// clean normalizes a value without substituting the sentinel.
func clean(column, value string) (string, error) {
	v := norm.NFC.String(value)
	v = strings.TrimSpace(whitespaceRun.ReplaceAllString(v, " "))
	if strings.Contains(v, reservedText) {
		return "", &FieldError{Code: ErrCodeNullCollision, Column: column, Value: v}
	}
	return v, nil
}

// rowBuilder accumulates sanitized cells, remembering the first error.
type rowBuilder struct {
	cells []string
	err   error
}

func newRowBuilder(capacity int) *rowBuilder {
	return &rowBuilder{cells: make([]string, 0, capacity)}
}

func (b *rowBuilder) add(column, value string) {
	if b.err != nil {
		return
	}
	v, err := Sanitize(column, value)
	if err != nil {
		b.err = err
		return
	}
	b.cells = append(b.cells, v)
}

func (b *rowBuilder) join(column string, values []string, sep string) {
	if b.err != nil {
		return
	}
	v, err := JoinField(column, values, sep)
	if err != nil {
		b.err = err
		return
	}
	b.cells = append(b.cells, v)
}

func (b *rowBuilder) row() (Row, error) {
	if b.err != nil {
		return nil, b.err
	}
	return Row(b.cells), nil
}
