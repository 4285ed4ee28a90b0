package cluster

import (
	"errors"
	"fmt"
)

// ParseError reports a malformed MITAB line. It aborts the run.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mitab line %d: %s", e.Line, e.Reason)
}

// IsParseError returns true if err is a ParseError.
// Uses errors.As to handle wrapped errors.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
