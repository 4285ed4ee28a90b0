package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/complexport/internal/model"
)

// Xref roles.
const (
	roleIdentifier = "identifier"
	roleXref       = "xref"
)

// PutInteractor inserts or replaces an interactor with its identifiers and
// cross-references. For complex interactors only the interactor row is
// written; the body is stored with PutComplex.
func (s *Store) PutInteractor(ctx context.Context, i *model.Interactor) error {
	if err := validInteractor(i); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return putInteractor(ctx, tx, i)
	})
}

// PutComplex inserts or replaces a complex. Its participants, aliases,
// annotations and cross-references replace any previously stored ones.
//
// Protein and other participants are upserted alongside. Complex
// participants only get an interactor row when none exists yet; their
// bodies must be stored with their own PutComplex call.
func (s *Store) PutComplex(ctx context.Context, c *model.Complex) error {
	if c == nil || c.Ac == "" {
		return fmt.Errorf("put complex: missing accession")
	}
	for _, p := range c.Participants {
		if err := validInteractor(p.Interactor); err != nil {
			return fmt.Errorf("put complex %s: %w", c.Ac, err)
		}
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO complexes
			(ac, version, recommended_name, systematic_name, tax_id,
			 source_mi, source_name, evidence_mi, evidence_name)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(ac) DO UPDATE SET
				version = excluded.version,
				recommended_name = excluded.recommended_name,
				systematic_name = excluded.systematic_name,
				tax_id = excluded.tax_id,
				source_mi = excluded.source_mi,
				source_name = excluded.source_name,
				evidence_mi = excluded.evidence_mi,
				evidence_name = excluded.evidence_name
		`,
			c.Ac,
			c.Version,
			c.RecommendedName,
			c.SystematicName,
			c.TaxID,
			c.Source.MI,
			c.Source.ShortName,
			c.EvidenceType.MI,
			c.EvidenceType.ShortName,
		); err != nil {
			return fmt.Errorf("put complex %s: %w", c.Ac, err)
		}

		if err := upsertInteractorRow(ctx, tx, &model.Interactor{
			Kind:        model.KindComplex,
			Ac:          c.Ac,
			PreferredID: c.Ac,
			Name:        c.RecommendedName,
			TaxID:       c.TaxID,
		}); err != nil {
			return err
		}

		for _, table := range []string{"participants", "aliases", "annotations"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE complex_ac = ?", c.Ac); err != nil {
				return fmt.Errorf("put complex %s: clear %s: %w", c.Ac, table, err)
			}
		}
		if err := putXrefs(ctx, tx, c.Ac, c.Identifiers, c.Xrefs); err != nil {
			return err
		}

		for pos, p := range c.Participants {
			if p.Interactor.Kind == model.KindComplex {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO interactors (ac, kind, preferred_id, name, tax_id)
					VALUES (?, 'complex', ?, ?, ?)
					ON CONFLICT(ac) DO NOTHING
				`, p.Interactor.Ac, p.Interactor.Ac, p.Interactor.Name, p.Interactor.TaxID); err != nil {
					return fmt.Errorf("put complex %s: participant %s: %w", c.Ac, p.Interactor.Ac, err)
				}
			} else if err := putInteractor(ctx, tx, p.Interactor); err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO participants (complex_ac, position, interactor_ac, stoich_min, stoich_max)
				VALUES (?, ?, ?, ?, ?)
			`, c.Ac, pos, p.Interactor.Ac, p.Stoichiometry.Min, p.Stoichiometry.Max); err != nil {
				return fmt.Errorf("put complex %s: participant %s: %w", c.Ac, p.Interactor.Ac, err)
			}
		}

		for pos, a := range c.Aliases {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO aliases (complex_ac, position, type_mi, type_name, name)
				VALUES (?, ?, ?, ?, ?)
			`, c.Ac, pos, a.Type.MI, a.Type.ShortName, a.Name); err != nil {
				return fmt.Errorf("put complex %s: alias: %w", c.Ac, err)
			}
		}

		for pos, a := range c.Annotations {
			var value sql.NullString
			if a.Value != nil {
				value = sql.NullString{String: *a.Value, Valid: true}
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO annotations (complex_ac, position, topic_mi, topic_name, value)
				VALUES (?, ?, ?, ?, ?)
			`, c.Ac, pos, a.Topic.MI, a.Topic.ShortName, value); err != nil {
				return fmt.Errorf("put complex %s: annotation: %w", c.Ac, err)
			}
		}
		return nil
	})
}

// PutInteractionEvidence inserts or replaces an interaction evidence and
// its participants.
func (s *Store) PutInteractionEvidence(ctx context.Context, ev model.InteractionEvidence) error {
	if ev.Ac == "" {
		return fmt.Errorf("put evidence: missing accession")
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO interaction_evidences (ac) VALUES (?)
			ON CONFLICT(ac) DO NOTHING
		`, ev.Ac); err != nil {
			return fmt.Errorf("put evidence %s: %w", ev.Ac, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM evidence_participants WHERE evidence_ac = ?", ev.Ac); err != nil {
			return fmt.Errorf("put evidence %s: %w", ev.Ac, err)
		}
		for pos, p := range ev.Participants {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO evidence_participants (evidence_ac, position, interactor_ac, stoich_min, stoich_max)
				VALUES (?, ?, ?, ?, ?)
			`, ev.Ac, pos, p.InteractorAc, p.Stoichiometry.Min, p.Stoichiometry.Max); err != nil {
				return fmt.Errorf("put evidence %s: participant %s: %w", ev.Ac, p.InteractorAc, err)
			}
		}
		return nil
	})
}

func validInteractor(i *model.Interactor) error {
	if i == nil || i.Ac == "" {
		return fmt.Errorf("interactor missing accession")
	}
	if !model.ValidKinds[i.Kind] {
		return fmt.Errorf("interactor %s: invalid kind %q", i.Ac, i.Kind)
	}
	return nil
}

func putInteractor(ctx context.Context, tx *sql.Tx, i *model.Interactor) error {
	if err := upsertInteractorRow(ctx, tx, i); err != nil {
		return err
	}
	if i.Kind == model.KindComplex {
		return nil
	}
	return putXrefs(ctx, tx, i.Ac, i.Identifiers, i.Xrefs)
}

func upsertInteractorRow(ctx context.Context, tx *sql.Tx, i *model.Interactor) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO interactors (ac, kind, preferred_id, name, tax_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(ac) DO UPDATE SET
			kind = excluded.kind,
			preferred_id = excluded.preferred_id,
			name = excluded.name,
			tax_id = excluded.tax_id
	`, i.Ac, string(i.Kind), i.PreferredID, i.Name, i.TaxID)
	if err != nil {
		return fmt.Errorf("put interactor %s: %w", i.Ac, err)
	}
	return nil
}

// putXrefs replaces the identifiers and cross-references owned by ac.
func putXrefs(ctx context.Context, tx *sql.Tx, ac string, identifiers, xrefs []model.Xref) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM xrefs WHERE owner_ac = ?", ac); err != nil {
		return fmt.Errorf("clear xrefs of %s: %w", ac, err)
	}
	for _, group := range []struct {
		role  string
		xrefs []model.Xref
	}{{roleIdentifier, identifiers}, {roleXref, xrefs}} {
		for pos, x := range group.xrefs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO xrefs
				(owner_ac, role, position, database_mi, database_name, qualifier_mi, qualifier_name, id, secondary)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				ac,
				group.role,
				pos,
				x.Database.MI,
				x.Database.ShortName,
				x.Qualifier.MI,
				x.Qualifier.ShortName,
				x.ID,
				x.Secondary,
			); err != nil {
				return fmt.Errorf("put xref %s of %s: %w", x.ID, ac, err)
			}
		}
	}
	return nil
}
