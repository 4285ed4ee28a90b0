package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
)

// Separator and terminator for every flat file.
const (
	FieldSeparator = "\t"
	LineTerminator = "\n"
)

// TSVWriter writes fixed-column, tab-separated rows.
//
// Every row must have exactly len(columns) cells and no empty cell; a row
// violating either rule is rejected before any byte of it is written.
type TSVWriter struct {
	w       *bufio.Writer
	columns int
	rows    int
}

// NewTSVWriter writes the header row and returns the writer.
func NewTSVWriter(w io.Writer, header []string) (*TSVWriter, error) {
	t := &TSVWriter{w: bufio.NewWriter(w), columns: len(header)}
	if err := t.write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return t, nil
}

// Check validates a row without writing it.
func (t *TSVWriter) Check(row Row) error {
	if len(row) != t.columns {
		return fmt.Errorf("row has %d columns, want %d", len(row), t.columns)
	}
	for i, cell := range row {
		if cell == "" {
			return fmt.Errorf("row column %d is empty", i+1)
		}
	}
	return nil
}

// WriteRow validates and writes a row.
func (t *TSVWriter) WriteRow(row Row) error {
	if err := t.Check(row); err != nil {
		return err
	}
	if err := t.write(row); err != nil {
		return err
	}
	t.rows++
	return nil
}

// Rows returns the number of data rows written.
func (t *TSVWriter) Rows() int {
	return t.rows
}

// Flush writes buffered rows to the underlying writer.
func (t *TSVWriter) Flush() error {
	return t.w.Flush()
}

func (t *TSVWriter) write(cells []string) error {
	if _, err := t.w.WriteString(strings.Join(cells, FieldSeparator)); err != nil {
		return err
	}
	_, err := t.w.WriteString(LineTerminator)
	return err
}

// CreateOutput creates path (and its parent directories) for writing.
// A ".gz" suffix selects parallel gzip compression.
func CreateOutput(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	return &gzipFile{gz: pgzip.NewWriter(f), f: f}, nil
}

// gzipFile closes the compressor before the file it writes to.
type gzipFile struct {
	gz *pgzip.Writer
	f  *os.File
}

func (g *gzipFile) Write(p []byte) (int, error) {
	return g.gz.Write(p)
}

func (g *gzipFile) Close() error {
	return errors.Join(g.gz.Close(), g.f.Close())
}
