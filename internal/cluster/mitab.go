package cluster

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
)

// Column positions (0-based) in a MITAB 2.5+ line.
const (
	colIDA              = 0
	colIDB              = 1
	colAltIDA           = 2
	colAltIDB           = 3
	colAliasA           = 4
	colAliasB           = 5
	colDetectionMethod  = 6
	colPublications     = 8
	colTaxA             = 9
	colTaxB             = 10
	colInteractionTypes = 11
	colInteractionIDs   = 13
	colNegative         = 35

	minColumns = 15
	maxLineLen = 4 << 20
)

// Database names recognized in MITAB fields.
const (
	dbUniprot = "uniprotkb"
	dbIntact  = "intact"
	dbTaxid   = "taxid"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Term is one "db:value(text)" entry of a MITAB field.
type Term struct {
	DB    string
	Value string
	Text  string
}

// String renders the term as "db:value(text)".
func (t Term) String() string {
	s := t.Value
	if t.DB != "" {
		s = t.DB + ":" + s
	}
	if t.Text != "" {
		s += "(" + t.Text + ")"
	}
	return s
}

// Record is one parsed MITAB line.
type Record struct {
	Line             int
	IDsA, IDsB       []Term
	AltIDsA, AltIDsB []Term
	AliasesA         []Term
	AliasesB         []Term
	DetectionMethods []Term
	Publications     []Term
	TaxA, TaxB       int
	InteractionTypes []Term
	InteractionAc    string
	Negative         bool
}

// IntraMolecular reports whether the line has no B interactor.
func (r *Record) IntraMolecular() bool {
	return len(r.IDsB) == 0 && len(r.AltIDsB) == 0
}

// Reader reads MITAB records, transparently decompressing gzip input.
// Close it when done.
type Reader struct {
	sc     *bufio.Scanner
	closer io.Closer
	line   int
}

// NewReader wraps r, detecting gzip input from its magic bytes.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	var closer io.Closer
	magic, err := br.Peek(len(gzipMagic))
	if err == nil && bytes.Equal(magic, gzipMagic) {
		zr, err := pgzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip input: %w", err)
		}
		src, closer = zr, zr
	}

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 64*1024), maxLineLen)
	return &Reader{sc: sc, closer: closer}, nil
}

// Close releases the decompressor, if any. It does not close the
// underlying reader.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Next returns the next record, or io.EOF after the last one.
// Comment lines (#) and blank lines are skipped.
func (r *Reader) Next() (*Record, error) {
	for r.sc.Scan() {
		r.line++
		text := strings.TrimRight(r.sc.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		return ParseLine(r.line, text)
	}
	if err := r.sc.Err(); err != nil {
		return nil, fmt.Errorf("read mitab line %d: %w", r.line+1, err)
	}
	return nil, io.EOF
}

// ParseLine parses one MITAB line.
func ParseLine(line int, text string) (*Record, error) {
	cols := strings.Split(text, "\t")
	if len(cols) < minColumns {
		return nil, &ParseError{Line: line, Reason: fmt.Sprintf("%d columns, want at least %d", len(cols), minColumns)}
	}

	rec := &Record{
		Line:             line,
		IDsA:             parseField(cols[colIDA]),
		IDsB:             parseField(cols[colIDB]),
		AltIDsA:          parseField(cols[colAltIDA]),
		AltIDsB:          parseField(cols[colAltIDB]),
		AliasesA:         parseField(cols[colAliasA]),
		AliasesB:         parseField(cols[colAliasB]),
		DetectionMethods: parseField(cols[colDetectionMethod]),
		Publications:     parseField(cols[colPublications]),
		InteractionTypes: parseField(cols[colInteractionTypes]),
	}

	if len(rec.IDsA) == 0 && len(rec.AltIDsA) == 0 {
		return nil, &ParseError{Line: line, Reason: "interactor A has no identifier"}
	}

	var err error
	if rec.TaxA, err = parseTaxID(cols[colTaxA]); err != nil {
		return nil, &ParseError{Line: line, Reason: "taxid A: " + err.Error()}
	}
	if rec.TaxB, err = parseTaxID(cols[colTaxB]); err != nil {
		return nil, &ParseError{Line: line, Reason: "taxid B: " + err.Error()}
	}

	for _, t := range parseField(cols[colInteractionIDs]) {
		if t.DB == dbIntact {
			rec.InteractionAc = t.Value
			break
		}
	}
	if rec.InteractionAc == "" {
		return nil, &ParseError{Line: line, Reason: "no intact interaction accession"}
	}

	if len(cols) > colNegative {
		rec.Negative = strings.EqualFold(strings.TrimSpace(cols[colNegative]), "true")
	}
	return rec, nil
}

// parseField splits a "|"-separated MITAB field into terms. "-" is empty.
func parseField(field string) []Term {
	field = strings.TrimSpace(field)
	if field == "" || field == "-" {
		return nil
	}
	var terms []Term
	for _, item := range splitOutsideQuotes(field, '|') {
		if t, ok := parseTerm(item); ok {
			terms = append(terms, t)
		}
	}
	return terms
}

// parseTerm parses `db:value(text)`; value may be double-quoted.
func parseTerm(item string) (Term, bool) {
	item = strings.TrimSpace(item)
	if item == "" || item == "-" {
		return Term{}, false
	}

	var t Term
	db, rest, found := strings.Cut(item, ":")
	if !found {
		return Term{Value: item}, true
	}
	t.DB = db

	if strings.HasPrefix(rest, `"`) {
		if end := strings.Index(rest[1:], `"`); end >= 0 {
			t.Value = rest[1 : end+1]
			rest = rest[end+2:]
		}
	} else if open := strings.IndexByte(rest, '('); open >= 0 {
		t.Value = rest[:open]
		rest = rest[open:]
	} else {
		t.Value = rest
		rest = ""
	}

	if strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")") {
		t.Text = rest[1 : len(rest)-1]
	}
	return t, true
}

// splitOutsideQuotes splits s on sep, ignoring separators inside quotes.
func splitOutsideQuotes(s string, sep byte) []string {
	var parts []string
	inQuotes := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case sep:
			if !inQuotes {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// parseTaxID reads the first taxid term. A missing taxon is 0.
func parseTaxID(field string) (int, error) {
	for _, t := range parseField(field) {
		if t.DB != dbTaxid {
			continue
		}
		id, err := strconv.Atoi(t.Value)
		if err != nil {
			return 0, fmt.Errorf("invalid taxid %q", t.Value)
		}
		return id, nil
	}
	return 0, nil
}

// uniprotID returns the first uniprotkb identifier among the primary then
// alternative ids. Isoform suffixes are kept.
func uniprotID(ids, altIDs []Term) string {
	for _, group := range [][]Term{ids, altIDs} {
		for _, t := range group {
			if t.DB == dbUniprot && t.Value != "" {
				return t.Value
			}
		}
	}
	return ""
}

// geneName returns the first uniprotkb alias annotated "gene name".
func geneName(aliases []Term) string {
	for _, t := range aliases {
		if t.DB == dbUniprot && strings.EqualFold(t.Text, "gene name") {
			return t.Value
		}
	}
	return ""
}
