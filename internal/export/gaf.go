package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/complexport/internal/classify"
	"github.com/roach88/complexport/internal/model"
	"github.com/roach88/complexport/internal/store"
)

// FormatVersion selects the GAF dialect.
type FormatVersion int

const (
	GAF21 FormatVersion = iota + 1
	GAF22
)

// GAF constants shared by both versions.
const (
	GAFDatabase    = "ComplexPortal"
	GAFGeneratedBy = "IntAct"
	gafColumns     = 17
	defaultGOCode  = "IPI"
)

func (v FormatVersion) String() string {
	switch v {
	case GAF21:
		return "2.1"
	case GAF22:
		return "2.2"
	default:
		return "unknown"
	}
}

// ParseFormatVersion accepts "2.1" or "2.2", with or without a "gaf" prefix.
func ParseFormatVersion(s string) (FormatVersion, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "gaf") {
	case "2.1", "21":
		return GAF21, nil
	case "2.2", "22", "":
		return GAF22, nil
	default:
		return 0, fmt.Errorf("unsupported GAF version %q (want 2.1 or 2.2)", s)
	}
}

// GORecord is one GO annotation of a complex, independent of GAF version.
type GORecord struct {
	ComplexAc  string
	Symbol     string
	Relation   string
	GOID       string
	References []string
	Evidence   string
	Aspect     string
	ObjectName string
	Synonyms   []string
	TaxID      int
}

// aspects maps GO xref qualifiers to (aspect, relation).
var aspects = map[string][2]string{
	model.QualComponent: {"C", "part_of"},
	model.QualFunction:  {"F", "enables"},
	model.QualProcess:   {"P", "involved_in"},
}

// ecoToGO maps evidence-ontology codes to GO evidence codes.
var ecoToGO = map[string]string{
	"ECO:0000353": "IPI",
	"ECO:0000021": "IPI",
	"ECO:0000314": "IDA",
	"ECO:0000250": "ISS",
	"ECO:0000266": "ISO",
	"ECO:0000305": "IC",
	"ECO:0000304": "TAS",
	"ECO:0000303": "NAS",
}

// GORecords builds the GO annotations of c. GO cross-references whose
// qualifier names no GO aspect are returned in skipped.
func GORecords(c *model.Complex) (records []GORecord, skipped []string, err error) {
	if c.TaxID <= 0 {
		return nil, nil, &FieldError{Code: ErrCodeMissingValue, Column: "taxon"}
	}

	xrefs := classify.ClassifyXrefs(c.Xrefs)

	evidence := defaultGOCode
	if xrefs.EvidenceOntology != nil {
		if code, ok := ecoToGO[xrefs.EvidenceOntology.ID]; ok {
			evidence = code
		}
	}

	var refs []string
	for _, x := range xrefs.Other {
		if x.Database.Is(model.MIPubmed, model.DBPubmed) {
			refs = append(refs, "PMID:"+x.ID)
		}
	}
	if len(refs) == 0 {
		refs = []string{GAFDatabase + ":" + c.Ac}
	}

	objectName := c.SystematicName
	if strings.TrimSpace(objectName) == "" {
		objectName = c.RecommendedName
	}

	for _, x := range xrefs.GO {
		aspect, ok := aspects[strings.ToLower(strings.TrimSpace(x.Qualifier.ShortName))]
		if !ok {
			skipped = append(skipped, x.ID)
			continue
		}
		records = append(records, GORecord{
			ComplexAc:  c.Ac,
			Symbol:     c.RecommendedName,
			Relation:   aspect[1],
			GOID:       x.ID,
			References: refs,
			Evidence:   evidence,
			Aspect:     aspect[0],
			ObjectName: objectName,
			Synonyms:   c.AliasNames(model.AliasComplexSynonym),
			TaxID:      c.TaxID,
		})
	}
	return records, skipped, nil
}

// GAFWriter writes GO records in one GAF version.
type GAFWriter struct {
	w       *bufio.Writer
	version FormatVersion
	date    time.Time
	lines   int
}

// NewGAFWriter writes the GAF header and returns the writer. date stamps
// both the header and every line.
func NewGAFWriter(w io.Writer, version FormatVersion, date time.Time) (*GAFWriter, error) {
	if version != GAF21 && version != GAF22 {
		return nil, fmt.Errorf("unsupported GAF version %d", version)
	}
	g := &GAFWriter{w: bufio.NewWriter(w), version: version, date: date}
	header := []string{
		"!gaf-version: " + version.String(),
		"!generated-by: " + GAFGeneratedBy,
		"!date-generated: " + date.Format("2006-01-02"),
	}
	for _, h := range header {
		if _, err := g.w.WriteString(h + LineTerminator); err != nil {
			return nil, fmt.Errorf("write GAF header: %w", err)
		}
	}
	return g, nil
}

// Format renders r as a GAF line in the writer's version.
func (g *GAFWriter) Format(r GORecord) (Row, error) {
	switch g.version {
	case GAF21:
		return formatGAF21(r, g.date)
	case GAF22:
		return formatGAF22(r, g.date)
	default:
		return nil, fmt.Errorf("unsupported GAF version %d", g.version)
	}
}

// WriteRecords formats every record before writing any of them.
func (g *GAFWriter) WriteRecords(records []GORecord) error {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row, err := g.Format(r)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	for _, row := range rows {
		if _, err := g.w.WriteString(strings.Join(row, FieldSeparator) + LineTerminator); err != nil {
			return err
		}
		g.lines++
	}
	return nil
}

// Lines returns the number of annotation lines written.
func (g *GAFWriter) Lines() int {
	return g.lines
}

// Flush writes buffered lines to the underlying writer.
func (g *GAFWriter) Flush() error {
	return g.w.Flush()
}

// exportComplex writes every GO line of c, or none of them when one fails
// to format. Data errors are counted as skips; anything else is returned.
func (g *GAFWriter) exportComplex(c *model.Complex, stats *Stats, log *slog.Logger) error {
	stats.Total++

	records, unknown, err := GORecords(c)
	if err == nil {
		err = g.WriteRecords(records)
	}
	if IsDataError(err) {
		stats.Skipped++
		log.Warn("skipping complex", "complex", c.Ac, "error", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", c.Ac, err)
	}
	for _, id := range unknown {
		log.Warn("GO term without aspect", "complex", c.Ac, "go", id)
	}
	if err := g.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", c.Ac, err)
	}
	stats.Exported++
	return nil
}

// WriteGAF writes a complete GAF file for complexes to w.
func WriteGAF(w io.Writer, version FormatVersion, date time.Time, logger *slog.Logger, complexes ...*model.Complex) (Stats, error) {
	var stats Stats
	if logger == nil {
		logger = slog.Default()
	}
	g, err := NewGAFWriter(w, version, date)
	if err != nil {
		return stats, err
	}
	for _, c := range complexes {
		if err := g.exportComplex(c, &stats, logger); err != nil {
			return stats, err
		}
	}
	stats.Lines = g.Lines()
	return stats, g.Flush()
}

// formatGAF21 leaves the qualifier column empty and types the object as a
// complex.
func formatGAF21(r GORecord, date time.Time) (Row, error) {
	return gafRow(r, "", "complex", date)
}

// formatGAF22 carries the relation in the qualifier column and uses the GO
// term for the object type.
func formatGAF22(r GORecord, date time.Time) (Row, error) {
	return gafRow(r, r.Relation, "protein-containing complex", date)
}

func gafRow(r GORecord, qualifier, objectType string, date time.Time) (Row, error) {
	cells := []struct {
		column string
		value  string
	}{
		{"db", GAFDatabase},
		{"db_object_id", r.ComplexAc},
		{"db_object_symbol", r.Symbol},
		{"qualifier", qualifier},
		{"go_id", r.GOID},
		{"db_reference", strings.Join(r.References, "|")},
		{"evidence_code", r.Evidence},
		{"with_from", ""},
		{"aspect", r.Aspect},
		{"db_object_name", r.ObjectName},
		{"db_object_synonym", strings.Join(r.Synonyms, "|")},
		{"db_object_type", objectType},
		{"taxon", "taxon:" + strconv.Itoa(r.TaxID)},
		{"date", date.Format("20060102")},
		{"assigned_by", GAFDatabase},
		{"annotation_extension", ""},
		{"gene_product_form_id", ""},
	}

	row := make(Row, 0, gafColumns)
	for _, c := range cells {
		v, err := clean(c.column, c.value)
		if err != nil {
			return nil, err
		}
		row = append(row, v)
	}
	return row, nil
}

// GAFExporter drives a GAF export over stored complexes.
type GAFExporter struct {
	Source    Source
	Query     store.Query
	Version   FormatVersion
	Date      time.Time
	ChunkSize int
	Logger    *slog.Logger
}

// Run writes the GAF file to out and closes it. Complexes with data
// errors are skipped and logged; write errors abort the run.
func (e *GAFExporter) Run(ctx context.Context, out io.WriteCloser) (stats Stats, err error) {
	defer func() {
		if cerr := out.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close output: %w", cerr))
		}
	}()

	log := e.Logger
	if log == nil {
		log = slog.Default()
	}

	g, err := NewGAFWriter(out, e.Version, e.Date)
	if err != nil {
		return stats, err
	}

	err = Walk(ctx, e.Source, e.Query, e.ChunkSize, func(c *model.Complex) error {
		return g.exportComplex(c, &stats, log)
	})
	if err != nil {
		return stats, err
	}
	stats.Lines = g.Lines()

	log.Info("GAF export finished", "total", stats.Total, "exported", stats.Exported,
		"skipped", stats.Skipped, "lines", stats.Lines)
	return stats, g.Flush()
}
