package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/complexport/internal/model"
)

// CountAll returns the number of stored complexes.
func (s *Store) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM complexes").Scan(&n); err != nil {
		return 0, fmt.Errorf("count complexes: %w", err)
	}
	return n, nil
}

// ComplexesByQuery returns one page of complexes matching q, ordered by
// accession. A non-positive limit returns every match from offset on.
//
// Returns an empty slice (not nil) past the last page.
func (s *Store) ComplexesByQuery(ctx context.Context, q Query, offset, limit int) ([]*model.Complex, error) {
	query, params, err := compileListing(q, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	acs, err := s.queryStrings(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list complexes: %w", err)
	}

	l := newLoader(s)
	out := make([]*model.Complex, 0, len(acs))
	for _, ac := range acs {
		c, err := l.complex(ctx, ac)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// AllComplexes returns every stored complex, ordered by accession.
func (s *Store) AllComplexes(ctx context.Context) ([]*model.Complex, error) {
	return s.ComplexesByQuery(ctx, All{}, 0, 0)
}

// Complex returns the fully hydrated complex with the given accession.
// Returns ErrNotFound if it does not exist.
func (s *Store) Complex(ctx context.Context, ac string) (*model.Complex, error) {
	return newLoader(s).complex(ctx, ac)
}

// Interactor returns the interactor with the given accession, including its
// identifiers and cross-references. Complex interactors are returned with
// their body. Returns ErrNotFound if it does not exist.
func (s *Store) Interactor(ctx context.Context, ac string) (*model.Interactor, error) {
	return newLoader(s).interactor(ctx, ac)
}

// InteractionEvidence returns the stored evidence for an interaction
// accession. Returns ErrNotFound if it does not exist.
func (s *Store) InteractionEvidence(ctx context.Context, ac string) (*model.InteractionEvidence, error) {
	var found string
	err := s.db.QueryRowContext(ctx, "SELECT ac FROM interaction_evidences WHERE ac = ?", ac).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("interaction evidence %s: %w", ac, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read interaction evidence %s: %w", ac, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT interactor_ac, stoich_min, stoich_max
		FROM evidence_participants
		WHERE evidence_ac = ?
		ORDER BY position ASC
	`, ac)
	if err != nil {
		return nil, fmt.Errorf("query evidence participants: %w", err)
	}
	defer rows.Close()

	ev := &model.InteractionEvidence{Ac: found, Participants: []model.EvidenceParticipant{}}
	for rows.Next() {
		var p model.EvidenceParticipant
		if err := rows.Scan(&p.InteractorAc, &p.Stoichiometry.Min, &p.Stoichiometry.Max); err != nil {
			return nil, fmt.Errorf("scan evidence participant: %w", err)
		}
		ev.Participants = append(ev.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evidence participants: %w", err)
	}
	return ev, nil
}

func (s *Store) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// loader hydrates object graphs. Each complex and interactor is loaded at
// most once, and a complex is cached before its participants are loaded, so
// cycles resolve to shared pointers.
type loader struct {
	s           *Store
	complexes   map[string]*model.Complex
	interactors map[string]*model.Interactor
}

func newLoader(s *Store) *loader {
	return &loader{
		s:           s,
		complexes:   make(map[string]*model.Complex),
		interactors: make(map[string]*model.Interactor),
	}
}

type participantRow struct {
	interactorAc string
	stoich       model.Stoichiometry
}

func (l *loader) complex(ctx context.Context, ac string) (*model.Complex, error) {
	if c, ok := l.complexes[ac]; ok {
		return c, nil
	}

	c := &model.Complex{}
	err := l.s.db.QueryRowContext(ctx, `
		SELECT ac, version, recommended_name, systematic_name, tax_id,
		       source_mi, source_name, evidence_mi, evidence_name
		FROM complexes
		WHERE ac = ?
	`, ac).Scan(
		&c.Ac,
		&c.Version,
		&c.RecommendedName,
		&c.SystematicName,
		&c.TaxID,
		&c.Source.MI,
		&c.Source.ShortName,
		&c.EvidenceType.MI,
		&c.EvidenceType.ShortName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("complex %s: %w", ac, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read complex %s: %w", ac, err)
	}
	l.complexes[ac] = c

	if c.Identifiers, c.Xrefs, err = l.xrefs(ctx, ac); err != nil {
		return nil, err
	}
	if c.Aliases, err = l.aliases(ctx, ac); err != nil {
		return nil, err
	}
	if c.Annotations, err = l.annotations(ctx, ac); err != nil {
		return nil, err
	}

	parts, err := l.participantRows(ctx, ac)
	if err != nil {
		return nil, err
	}
	c.Participants = make([]model.Participant, 0, len(parts))
	for _, p := range parts {
		i, err := l.interactor(ctx, p.interactorAc)
		if errors.Is(err, ErrNotFound) {
			// Unknown participants surface as "other" so the flattener
			// ignores them; only protein and complex participants count.
			i = &model.Interactor{Kind: model.KindOther, Ac: p.interactorAc}
		} else if err != nil {
			return nil, err
		}
		c.Participants = append(c.Participants, model.Participant{Interactor: i, Stoichiometry: p.stoich})
	}
	return c, nil
}

func (l *loader) interactor(ctx context.Context, ac string) (*model.Interactor, error) {
	if i, ok := l.interactors[ac]; ok {
		return i, nil
	}

	i := &model.Interactor{}
	var kind string
	err := l.s.db.QueryRowContext(ctx, `
		SELECT ac, kind, preferred_id, name, tax_id
		FROM interactors
		WHERE ac = ?
	`, ac).Scan(&i.Ac, &kind, &i.PreferredID, &i.Name, &i.TaxID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("interactor %s: %w", ac, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read interactor %s: %w", ac, err)
	}
	i.Kind = model.Kind(kind)
	l.interactors[ac] = i

	if i.Kind != model.KindComplex {
		i.Identifiers, i.Xrefs, err = l.xrefs(ctx, ac)
		return i, err
	}

	// A complex interactor without a stored body stays unresolved.
	body, err := l.complex(ctx, ac)
	if errors.Is(err, ErrNotFound) {
		return i, nil
	}
	if err != nil {
		return nil, err
	}
	i.Complex = body
	i.Identifiers = body.Identifiers
	i.Xrefs = body.Xrefs
	return i, nil
}

func (l *loader) participantRows(ctx context.Context, ac string) ([]participantRow, error) {
	rows, err := l.s.db.QueryContext(ctx, `
		SELECT interactor_ac, stoich_min, stoich_max
		FROM participants
		WHERE complex_ac = ?
		ORDER BY position ASC
	`, ac)
	if err != nil {
		return nil, fmt.Errorf("query participants of %s: %w", ac, err)
	}
	defer rows.Close()

	var out []participantRow
	for rows.Next() {
		var p participantRow
		if err := rows.Scan(&p.interactorAc, &p.stoich.Min, &p.stoich.Max); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return out, nil
}

func (l *loader) xrefs(ctx context.Context, owner string) (identifiers, xrefs []model.Xref, err error) {
	rows, err := l.s.db.QueryContext(ctx, `
		SELECT role, database_mi, database_name, qualifier_mi, qualifier_name, id, secondary
		FROM xrefs
		WHERE owner_ac = ?
		ORDER BY role ASC, position ASC
	`, owner)
	if err != nil {
		return nil, nil, fmt.Errorf("query xrefs of %s: %w", owner, err)
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		var x model.Xref
		if err := rows.Scan(
			&role,
			&x.Database.MI,
			&x.Database.ShortName,
			&x.Qualifier.MI,
			&x.Qualifier.ShortName,
			&x.ID,
			&x.Secondary,
		); err != nil {
			return nil, nil, fmt.Errorf("scan xref: %w", err)
		}
		if role == roleIdentifier {
			identifiers = append(identifiers, x)
		} else {
			xrefs = append(xrefs, x)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate xrefs: %w", err)
	}
	return identifiers, xrefs, nil
}

func (l *loader) aliases(ctx context.Context, ac string) ([]model.Alias, error) {
	rows, err := l.s.db.QueryContext(ctx, `
		SELECT type_mi, type_name, name
		FROM aliases
		WHERE complex_ac = ?
		ORDER BY position ASC
	`, ac)
	if err != nil {
		return nil, fmt.Errorf("query aliases of %s: %w", ac, err)
	}
	defer rows.Close()

	var out []model.Alias
	for rows.Next() {
		var a model.Alias
		if err := rows.Scan(&a.Type.MI, &a.Type.ShortName, &a.Name); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aliases: %w", err)
	}
	return out, nil
}

func (l *loader) annotations(ctx context.Context, ac string) ([]model.Annotation, error) {
	rows, err := l.s.db.QueryContext(ctx, `
		SELECT topic_mi, topic_name, value
		FROM annotations
		WHERE complex_ac = ?
		ORDER BY position ASC
	`, ac)
	if err != nil {
		return nil, fmt.Errorf("query annotations of %s: %w", ac, err)
	}
	defer rows.Close()

	var out []model.Annotation
	for rows.Next() {
		var a model.Annotation
		var value sql.NullString
		if err := rows.Scan(&a.Topic.MI, &a.Topic.ShortName, &value); err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}
		if value.Valid {
			v := value.String
			a.Value = &v
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate annotations: %w", err)
	}
	return out, nil
}
