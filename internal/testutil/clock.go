package testutil

import "time"

// FixedClock is a clock frozen at a single instant.
//
// Exporters stamp headers with the current date; tests freeze it so golden
// files stay byte-identical across runs.
type FixedClock struct {
	T time.Time
}

// NewFixedClock returns a clock frozen at the given UTC date.
func NewFixedClock(year int, month time.Month, day int) FixedClock {
	return FixedClock{T: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Now returns the frozen instant.
func (c FixedClock) Now() time.Time {
	return c.T
}

// FixedIDGenerator returns the same run id every time.
//
// If id is empty, Generate returns "test-run-default".
type FixedIDGenerator struct {
	ID string
}

// Generate returns the fixed run id.
func (g FixedIDGenerator) Generate() string {
	if g.ID == "" {
		return "test-run-default"
	}
	return g.ID
}
