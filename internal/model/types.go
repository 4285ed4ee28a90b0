package model

import "strings"

// Kind discriminates the Interactor variants.
type Kind string

const (
	KindProtein Kind = "protein"
	KindComplex Kind = "complex"
	KindOther   Kind = "other"
)

// ValidKinds defines allowed interactor kinds.
var ValidKinds = map[Kind]bool{
	KindProtein: true,
	KindComplex: true,
	KindOther:   true,
}

// CvTerm is a PSI-MI controlled-vocabulary term.
type CvTerm struct {
	MI        string `yaml:"mi,omitempty" json:"mi,omitempty" toml:"mi"`
	ShortName string `yaml:"short_name" json:"short_name" toml:"short_name"`
}

// Is reports whether the term matches the given MI id or short name.
// The MI id wins when both sides carry one.
func (t CvTerm) Is(mi, shortName string) bool {
	if t.MI != "" && mi != "" {
		return t.MI == mi
	}
	return strings.EqualFold(strings.TrimSpace(t.ShortName), shortName)
}

// IsZero reports whether the term is empty.
func (t CvTerm) IsZero() bool {
	return t.MI == "" && t.ShortName == ""
}

// Xref is a cross-reference to an external database entry.
type Xref struct {
	Database  CvTerm `yaml:"database" json:"database"`
	Qualifier CvTerm `yaml:"qualifier,omitempty" json:"qualifier,omitempty"`
	ID        string `yaml:"id" json:"id"`
	Secondary string `yaml:"secondary,omitempty" json:"secondary,omitempty"`
}

// Annotation is a free-text annotation keyed by topic.
// A nil Value is distinct from an empty one.
type Annotation struct {
	Topic CvTerm  `yaml:"topic" json:"topic"`
	Value *string `yaml:"value,omitempty" json:"value,omitempty"`
}

// Alias is a typed alternative name.
type Alias struct {
	Type CvTerm `yaml:"type" json:"type"`
	Name string `yaml:"name" json:"name"`
}

// Stoichiometry is the (min, max) copy-count range of a participant.
// Zero means unknown.
type Stoichiometry struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Participant is an interactor's membership in a complex.
type Participant struct {
	Interactor    *Interactor   `json:"interactor"`
	Stoichiometry Stoichiometry `json:"stoichiometry"`
}

// Interactor is a molecule taking part in an interaction or complex.
//
// Interactor is a tagged union over Kind. When Kind is KindComplex the
// Complex field holds the nested complex; it is nil for every other kind.
type Interactor struct {
	Kind        Kind     `json:"kind"`
	Ac          string   `json:"ac"`
	PreferredID string   `json:"preferred_id,omitempty"`
	Name        string   `json:"name,omitempty"`
	TaxID       int      `json:"tax_id,omitempty"`
	Identifiers []Xref   `json:"identifiers,omitempty"`
	Xrefs       []Xref   `json:"xrefs,omitempty"`
	Complex     *Complex `json:"-"`
}

// IsProtein reports whether the interactor is a protein.
func (i *Interactor) IsProtein() bool { return i != nil && i.Kind == KindProtein }

// IsComplex reports whether the interactor is a complex with a body.
func (i *Interactor) IsComplex() bool {
	return i != nil && i.Kind == KindComplex && i.Complex != nil
}

// UniprotAccession returns the canonical UniProtKB identity accession.
// Identifiers are searched before xrefs; the first uniprotkb identity wins.
func (i *Interactor) UniprotAccession() (string, bool) {
	if i == nil {
		return "", false
	}
	for _, group := range [][]Xref{i.Identifiers, i.Xrefs} {
		for _, x := range group {
			if !x.Database.Is(MIUniprot, DBUniprot) {
				continue
			}
			if !x.Qualifier.IsZero() && !x.Qualifier.Is(MIIdentity, QualIdentity) {
				continue
			}
			if id := strings.TrimSpace(x.ID); id != "" {
				return id, true
			}
		}
	}
	return "", false
}

// HasChainParent reports whether any cross-reference marks the interactor
// as a chain of a parent protein.
func (i *Interactor) HasChainParent() bool {
	if i == nil {
		return false
	}
	for _, group := range [][]Xref{i.Identifiers, i.Xrefs} {
		for _, x := range group {
			if x.Qualifier.Is(MIChainParent, QualChainParent) {
				return true
			}
		}
	}
	return false
}

// Complex is a macromolecular assembly.
type Complex struct {
	Ac              string        `json:"ac"`
	Version         string        `json:"version"`
	RecommendedName string        `json:"recommended_name"`
	SystematicName  string        `json:"systematic_name,omitempty"`
	Aliases         []Alias       `json:"aliases,omitempty"`
	TaxID           int           `json:"tax_id"`
	Source          CvTerm        `json:"source"`
	EvidenceType    CvTerm        `json:"evidence_type"`
	Participants    []Participant `json:"participants"`
	Identifiers     []Xref        `json:"identifiers,omitempty"`
	Xrefs           []Xref        `json:"xrefs,omitempty"`
	Annotations     []Annotation  `json:"annotations,omitempty"`
}

// AsInteractor wraps the complex so it can participate in another complex.
func (c *Complex) AsInteractor() *Interactor {
	return &Interactor{
		Kind:        KindComplex,
		Ac:          c.Ac,
		PreferredID: c.Ac,
		Name:        c.RecommendedName,
		TaxID:       c.TaxID,
		Identifiers: c.Identifiers,
		Xrefs:       c.Xrefs,
		Complex:     c,
	}
}

// AliasNames returns the names of all aliases of the given type, in order.
func (c *Complex) AliasNames(aliasType string) []string {
	var names []string
	for _, a := range c.Aliases {
		if a.Type.Is("", aliasType) {
			names = append(names, a.Name)
		}
	}
	return names
}

// Component is one flattened participant row: a leaf interactor with its
// aggregated copy count under a top-level complex.
type Component struct {
	Database      string `json:"database"`
	Accession     string `json:"accession"`
	Stoichiometry int    `json:"stoichiometry"`
}

// InteractionEvidence is the stored evidence backing a binary interaction.
type InteractionEvidence struct {
	Ac           string                `json:"ac"`
	Participants []EvidenceParticipant `json:"participants"`
}

// EvidenceParticipant is one participant of an interaction evidence.
type EvidenceParticipant struct {
	InteractorAc  string        `json:"interactor_ac"`
	Stoichiometry Stoichiometry `json:"stoichiometry"`
}
