package export

import (
	"errors"
	"fmt"
	"io"
)

// Sink accepts the fully-assembled rows of one complex at a time.
type Sink interface {
	WriteTables(t *Tables) error
	Close() error
}

// TablePaths returns the three table paths for an output prefix.
func TablePaths(prefix string) (summary, components, pdb string) {
	return prefix + "_table1.tsv", prefix + "_table2.tsv", prefix + "_table3.tsv"
}

// ComplexesPath returns the path of the 18-column complexes file.
func ComplexesPath(prefix string) string {
	return prefix + "_complexes.tsv"
}

// TableSink writes the three complex tables, and optionally the 18-column
// complexes file, under a shared prefix.
type TableSink struct {
	closers    []io.Closer
	summary    *TSVWriter
	components *TSVWriter
	pdb        *TSVWriter
	complexes  *TSVWriter
}

// OpenTableSink creates the output files and writes their headers.
// On failure every file opened so far is closed.
func OpenTableSink(prefix string, withComplexes bool) (_ *TableSink, err error) {
	s := &TableSink{}
	defer func() {
		if err != nil {
			_ = s.closeFiles()
		}
	}()

	summaryPath, componentsPath, pdbPath := TablePaths(prefix)
	if s.summary, err = s.open(summaryPath, SummaryColumns); err != nil {
		return nil, err
	}
	if s.components, err = s.open(componentsPath, ComponentColumns); err != nil {
		return nil, err
	}
	if s.pdb, err = s.open(pdbPath, PdbColumns); err != nil {
		return nil, err
	}
	if withComplexes {
		if s.complexes, err = s.open(ComplexesPath(prefix), ComplexColumns); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewTableSink builds a sink over caller-owned writers. complexes may be nil.
// Close flushes but does not close the writers.
func NewTableSink(summary, components, pdb, complexes io.Writer) (*TableSink, error) {
	s := &TableSink{}
	var err error
	if s.summary, err = NewTSVWriter(summary, SummaryColumns); err != nil {
		return nil, err
	}
	if s.components, err = NewTSVWriter(components, ComponentColumns); err != nil {
		return nil, err
	}
	if s.pdb, err = NewTSVWriter(pdb, PdbColumns); err != nil {
		return nil, err
	}
	if complexes != nil {
		if s.complexes, err = NewTSVWriter(complexes, ComplexColumns); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *TableSink) open(path string, header []string) (*TSVWriter, error) {
	f, err := CreateOutput(path)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, f)
	w, err := NewTSVWriter(f, header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// WriteTables validates every row of t, then writes and flushes them.
// Nothing is written when any row is invalid.
func (s *TableSink) WriteTables(t *Tables) error {
	type pending struct {
		w   *TSVWriter
		row Row
	}
	var rows []pending
	rows = append(rows, pending{s.summary, t.Summary})
	for _, r := range t.Components {
		rows = append(rows, pending{s.components, r})
	}
	rows = append(rows, pending{s.pdb, t.Pdb})
	if s.complexes != nil {
		rows = append(rows, pending{s.complexes, t.Complex})
	}

	for _, p := range rows {
		if err := p.w.Check(p.row); err != nil {
			return fmt.Errorf("complex %s: %w", t.ComplexAc, err)
		}
	}
	for _, p := range rows {
		if err := p.w.WriteRow(p.row); err != nil {
			return fmt.Errorf("complex %s: %w", t.ComplexAc, err)
		}
	}
	return s.flush()
}

// Counts returns the number of data rows written per table.
func (s *TableSink) Counts() (summary, components, pdb int) {
	return s.summary.Rows(), s.components.Rows(), s.pdb.Rows()
}

// Close flushes every table and closes the files the sink opened.
func (s *TableSink) Close() error {
	return errors.Join(s.flush(), s.closeFiles())
}

func (s *TableSink) flush() error {
	var errs []error
	for _, w := range []*TSVWriter{s.summary, s.components, s.pdb, s.complexes} {
		if w != nil {
			errs = append(errs, w.Flush())
		}
	}
	return errors.Join(errs...)
}

func (s *TableSink) closeFiles() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	s.closers = nil
	return errors.Join(errs...)
}
