package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/complexport/internal/model"
)

// Fixtures is the YAML seeding format. Complex participants refer to
// interactors and other complexes by accession.
type Fixtures struct {
	Interactors []FixtureInteractor `yaml:"interactors"`
	Complexes   []FixtureComplex    `yaml:"complexes"`
	Evidences   []FixtureEvidence   `yaml:"evidences"`
}

// FixtureInteractor is a non-complex interactor.
type FixtureInteractor struct {
	Kind        model.Kind   `yaml:"kind"`
	Ac          string       `yaml:"ac"`
	PreferredID string       `yaml:"preferred_id"`
	Name        string       `yaml:"name,omitempty"`
	TaxID       int          `yaml:"tax_id,omitempty"`
	Identifiers []model.Xref `yaml:"identifiers,omitempty"`
	Xrefs       []model.Xref `yaml:"xrefs,omitempty"`
}

// FixtureComplex is a complex whose participants are accession references.
type FixtureComplex struct {
	Ac              string               `yaml:"ac"`
	Version         string               `yaml:"version"`
	RecommendedName string               `yaml:"recommended_name"`
	SystematicName  string               `yaml:"systematic_name,omitempty"`
	Aliases         []model.Alias        `yaml:"aliases,omitempty"`
	TaxID           int                  `yaml:"tax_id"`
	Source          model.CvTerm         `yaml:"source"`
	EvidenceType    model.CvTerm         `yaml:"evidence_type,omitempty"`
	Participants    []FixtureParticipant `yaml:"participants"`
	Identifiers     []model.Xref         `yaml:"identifiers,omitempty"`
	Xrefs           []model.Xref         `yaml:"xrefs,omitempty"`
	Annotations     []model.Annotation   `yaml:"annotations,omitempty"`
}

// FixtureParticipant references an interactor or complex by accession.
type FixtureParticipant struct {
	Ac            string              `yaml:"ac"`
	Stoichiometry model.Stoichiometry `yaml:"stoichiometry"`
}

// FixtureEvidence is an interaction evidence with its participants.
type FixtureEvidence struct {
	Ac           string               `yaml:"ac"`
	Participants []FixtureParticipant `yaml:"participants"`
}

// LoadStats counts the records a fixture load wrote.
type LoadStats struct {
	Interactors int `json:"interactors"`
	Complexes   int `json:"complexes"`
	Evidences   int `json:"evidences"`
}

// ParseFixtures decodes every YAML document in r into a single Fixtures
// value. Unknown fields are rejected.
func ParseFixtures(r io.Reader) (*Fixtures, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	all := &Fixtures{}
	for {
		var doc Fixtures
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		all.Interactors = append(all.Interactors, doc.Interactors...)
		all.Complexes = append(all.Complexes, doc.Complexes...)
		all.Evidences = append(all.Evidences, doc.Evidences...)
	}

	if err := validateFixtures(all); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}
	return all, nil
}

// LoadFixtures reads a fixture file and writes its contents to the store.
func (s *Store) LoadFixtures(ctx context.Context, path string) (LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadStats{}, fmt.Errorf("failed to read fixture file: %w", err)
	}
	defer f.Close()

	fx, err := ParseFixtures(f)
	if err != nil {
		return LoadStats{}, fmt.Errorf("%s: %w", path, err)
	}
	return s.PutFixtures(ctx, fx)
}

// PutFixtures writes interactors, then complexes, then evidences.
// Participants that are neither in the fixtures nor already stored are
// rejected.
func (s *Store) PutFixtures(ctx context.Context, fx *Fixtures) (LoadStats, error) {
	var stats LoadStats

	known := make(map[string]*model.Interactor, len(fx.Interactors)+len(fx.Complexes))
	for _, fi := range fx.Interactors {
		i := &model.Interactor{
			Kind:        fi.Kind,
			Ac:          fi.Ac,
			PreferredID: fi.PreferredID,
			Name:        fi.Name,
			TaxID:       fi.TaxID,
			Identifiers: fi.Identifiers,
			Xrefs:       fi.Xrefs,
		}
		if err := s.PutInteractor(ctx, i); err != nil {
			return stats, err
		}
		known[i.Ac] = i
		stats.Interactors++
	}
	for _, fc := range fx.Complexes {
		known[fc.Ac] = &model.Interactor{
			Kind:        model.KindComplex,
			Ac:          fc.Ac,
			PreferredID: fc.Ac,
			Name:        fc.RecommendedName,
			TaxID:       fc.TaxID,
		}
	}

	resolve := func(ac string) (*model.Interactor, error) {
		if i, ok := known[ac]; ok {
			return i, nil
		}
		i, err := s.Interactor(ctx, ac)
		if err != nil {
			return nil, fmt.Errorf("participant %s: %w", ac, err)
		}
		known[ac] = i
		return i, nil
	}

	for _, fc := range fx.Complexes {
		c := &model.Complex{
			Ac:              fc.Ac,
			Version:         fc.Version,
			RecommendedName: fc.RecommendedName,
			SystematicName:  fc.SystematicName,
			Aliases:         fc.Aliases,
			TaxID:           fc.TaxID,
			Source:          fc.Source,
			EvidenceType:    fc.EvidenceType,
			Identifiers:     fc.Identifiers,
			Xrefs:           fc.Xrefs,
			Annotations:     fc.Annotations,
		}
		for _, fp := range fc.Participants {
			i, err := resolve(fp.Ac)
			if err != nil {
				return stats, fmt.Errorf("complex %s: %w", fc.Ac, err)
			}
			c.Participants = append(c.Participants, model.Participant{Interactor: i, Stoichiometry: fp.Stoichiometry})
		}
		if err := s.PutComplex(ctx, c); err != nil {
			return stats, err
		}
		stats.Complexes++
	}

	for _, fe := range fx.Evidences {
		ev := model.InteractionEvidence{Ac: fe.Ac}
		for _, fp := range fe.Participants {
			ev.Participants = append(ev.Participants, model.EvidenceParticipant{
				InteractorAc:  fp.Ac,
				Stoichiometry: fp.Stoichiometry,
			})
		}
		if err := s.PutInteractionEvidence(ctx, ev); err != nil {
			return stats, err
		}
		stats.Evidences++
	}
	return stats, nil
}

func validateFixtures(fx *Fixtures) error {
	for i, fi := range fx.Interactors {
		if fi.Ac == "" {
			return fmt.Errorf("interactors[%d]: ac is required", i)
		}
		if fi.Kind == model.KindComplex {
			return fmt.Errorf("interactors[%d]: complexes belong under complexes:", i)
		}
		if !model.ValidKinds[fi.Kind] {
			return fmt.Errorf("interactors[%d]: invalid kind %q", i, fi.Kind)
		}
	}
	for i, fc := range fx.Complexes {
		if fc.Ac == "" {
			return fmt.Errorf("complexes[%d]: ac is required", i)
		}
		for j, p := range fc.Participants {
			if p.Ac == "" {
				return fmt.Errorf("complexes[%d].participants[%d]: ac is required", i, j)
			}
		}
	}
	for i, fe := range fx.Evidences {
		if fe.Ac == "" {
			return fmt.Errorf("evidences[%d]: ac is required", i)
		}
	}
	return nil
}
