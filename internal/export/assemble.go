package export

import (
	"fmt"
	"strconv"

	"github.com/roach88/complexport/internal/classify"
	"github.com/roach88/complexport/internal/flatten"
	"github.com/roach88/complexport/internal/model"
)

// Row is one fixed-column flat record.
type Row []string

// Column layouts.
var (
	SummaryColumns   = []string{"complex_id", "version", "recommended_name", "systematic_name", "complex_assembly"}
	ComponentColumns = []string{"complex_id", "version", "database_name", "database_ac", "stoichiometry"}
	PdbColumns       = []string{"complex_id", "version", "pdb_ids"}

	ComplexColumns = []string{
		"complex_ac",
		"recommended_name",
		"aliases",
		"taxonomy_id",
		"participants",
		"evidence_code",
		"experimental_evidence",
		"go_annotations",
		"cross_references",
		"description",
		"complex_properties",
		"complex_assembly",
		"ligand",
		"disease",
		"agonist",
		"antagonist",
		"comment",
		"source",
	}
)

// Tables holds every row exported for a single complex.
type Tables struct {
	ComplexAc  string
	Summary    Row
	Components []Row
	Pdb        Row
	Complex    Row

	// AmbiguousEvidence lists evidence-ontology ids dropped because the
	// complex carried more than one.
	AmbiguousEvidence []string
}

// Assembler converts complexes into flat rows.
type Assembler struct {
	Flattener *flatten.Flattener
}

// NewAssembler returns an Assembler using a default Flattener.
func NewAssembler() *Assembler {
	return &Assembler{Flattener: flatten.New()}
}

// IsDataError reports whether err is fatal to a single complex only:
// flatten errors and field errors. Everything else aborts the run.
func IsDataError(err error) bool {
	return flatten.IsDataError(err) || IsFieldError(err)
}

// AssembleTables builds the summary, component, PDB and complex rows for c.
// Either every row is returned or none is.
func (a *Assembler) AssembleTables(c *model.Complex) (*Tables, error) {
	leaves, err := a.Flattener.Flatten(c, 1)
	if err != nil {
		return nil, err
	}

	t := &Tables{ComplexAc: c.Ac}

	if t.Summary, err = summaryRow(c); err != nil {
		return nil, err
	}
	for _, l := range leaves {
		row, err := componentRow(c, l)
		if err != nil {
			return nil, err
		}
		t.Components = append(t.Components, row)
	}
	if t.Pdb, err = a.AssemblePdbRow(c); err != nil {
		return nil, err
	}

	xrefs := classify.ClassifyXrefs(c.Xrefs)
	for _, x := range xrefs.AmbiguousEvidence {
		t.AmbiguousEvidence = append(t.AmbiguousEvidence, x.ID)
	}
	if t.Complex, err = complexRow(c, leaves, xrefs); err != nil {
		return nil, err
	}
	return t, nil
}

// AssembleComplexRow builds the 18-column complex row for c.
func (a *Assembler) AssembleComplexRow(c *model.Complex) (Row, error) {
	leaves, err := a.Flattener.Flatten(c, 1)
	if err != nil {
		return nil, err
	}
	return complexRow(c, leaves, classify.ClassifyXrefs(c.Xrefs))
}

// AssemblePdbRow builds the PDB mapping row: accession, version, and the
// comma-joined wwpdb identifiers from the complex identifiers followed by
// its cross-references, without duplicates.
func (a *Assembler) AssemblePdbRow(c *model.Complex) (Row, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, group := range [][]model.Xref{c.Identifiers, c.Xrefs} {
		for _, x := range group {
			if !x.Database.Is(model.MIWwpdb, model.DBWwpdb) || seen[x.ID] {
				continue
			}
			seen[x.ID] = true
			ids = append(ids, x.ID)
		}
	}

	b := newRowBuilder(len(PdbColumns))
	b.add("complex_id", c.Ac)
	b.add("version", c.Version)
	b.join("pdb_ids", ids, ",")
	return b.row()
}

func summaryRow(c *model.Complex) (Row, error) {
	annots := classify.ClassifyAnnotations(c.Annotations)

	b := newRowBuilder(len(SummaryColumns))
	b.add("complex_id", c.Ac)
	b.add("version", c.Version)
	b.add("recommended_name", c.RecommendedName)
	b.add("systematic_name", c.SystematicName)
	b.add("complex_assembly", annots.Assembly)
	return b.row()
}

func componentRow(c *model.Complex, l flatten.Leaf) (Row, error) {
	b := newRowBuilder(len(ComponentColumns))
	b.add("complex_id", c.Ac)
	b.add("version", c.Version)
	b.add("database_name", flatten.ExportDatabase)
	b.add("database_ac", l.Accession)
	b.add("stoichiometry", strconv.Itoa(l.Copies))
	return b.row()
}

func complexRow(c *model.Complex, leaves []flatten.Leaf, xrefs classify.XrefBuckets) (Row, error) {
	annots := classify.ClassifyAnnotations(c.Annotations)

	participants := make([]string, 0, len(leaves))
	for _, l := range leaves {
		participants = append(participants, fmt.Sprintf("%s(%d)", l.Accession, l.Copies))
	}

	var evidenceCode string
	if xrefs.EvidenceOntology != nil {
		evidenceCode = xrefs.EvidenceOntology.ID
	}

	expEvidence := make([]string, 0, len(xrefs.ExpEvidence))
	for _, x := range xrefs.ExpEvidence {
		expEvidence = append(expEvidence, x.Database.ShortName+":"+x.ID)
	}

	goTerms := make([]string, 0, len(xrefs.GO))
	for _, x := range xrefs.GO {
		goTerms = append(goTerms, withSuffix(x.ID, x.Secondary))
	}

	others := make([]string, 0, len(xrefs.Other))
	for _, x := range xrefs.Other {
		others = append(others, withSuffix(x.Database.ShortName+":"+x.ID, x.Qualifier.ShortName))
	}

	var taxID string
	if c.TaxID != 0 {
		taxID = strconv.Itoa(c.TaxID)
	}

	source, err := sourceField(c.Source)
	if err != nil {
		return nil, err
	}

	b := newRowBuilder(len(ComplexColumns))
	b.add("complex_ac", c.Ac)
	b.add("recommended_name", c.RecommendedName)
	b.join("aliases", c.AliasNames(model.AliasComplexSynonym), "|")
	b.add("taxonomy_id", taxID)
	b.join("participants", participants, "|")
	b.add("evidence_code", evidenceCode)
	b.join("experimental_evidence", expEvidence, "|")
	b.join("go_annotations", goTerms, "|")
	b.join("cross_references", others, "|")
	b.add("description", annots.CuratedComplex)
	b.add("complex_properties", annots.Properties)
	b.add("complex_assembly", annots.Assembly)
	b.join("ligand", annots.Ligands, "|")
	b.join("disease", annots.Diseases, "|")
	b.join("agonist", annots.Agonists, "|")
	b.join("antagonist", annots.Antagonists, "|")
	b.join("comment", annots.Comments, "|")
	b.add("source", source)
	return b.row()
}

// sourceField renders the source as psi-mi:"<MI>"(<name>).
func sourceField(source model.CvTerm) (string, error) {
	mi, err := Sanitize("source", source.MI)
	if err != nil {
		return "", err
	}
	name, err := Sanitize("source", source.ShortName)
	if err != nil {
		return "", err
	}
	return `psi-mi:"` + mi + `"(` + name + ")", nil
}

// withSuffix renders "value(suffix)", or just value when suffix is empty.
func withSuffix(value, suffix string) string {
	if suffix == "" {
		return value
	}
	return value + "(" + suffix + ")"
}
