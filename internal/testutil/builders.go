package testutil

import "github.com/roach88/complexport/internal/model"

// Protein builds a protein interactor whose preferred id is its UniProt
// accession.
func Protein(ac, uniprot string) *model.Interactor {
	return &model.Interactor{
		Kind:        model.KindProtein,
		Ac:          ac,
		PreferredID: uniprot,
		Name:        uniprot,
		TaxID:       9606,
		Identifiers: []model.Xref{UniprotIdentity(uniprot)},
	}
}

// Chain builds a protein chain carrying a chain-parent cross-reference.
func Chain(ac, uniprot, parent string) *model.Interactor {
	p := Protein(ac, uniprot)
	p.Xrefs = append(p.Xrefs, Xref(model.DBUniprot, model.QualChainParent, parent, ""))
	return p
}

// SmallMolecule builds an interactor that is neither protein nor complex.
func SmallMolecule(ac, chebi string) *model.Interactor {
	return &model.Interactor{
		Kind:        model.KindOther,
		Ac:          ac,
		PreferredID: chebi,
		Name:        chebi,
		Identifiers: []model.Xref{Xref("chebi", model.QualIdentity, chebi, "")},
	}
}

// Complex builds a human complex from IntAct with version "1".
func Complex(ac, name string, parts ...model.Participant) *model.Complex {
	return &model.Complex{
		Ac:              ac,
		Version:         "1",
		RecommendedName: name,
		TaxID:           9606,
		Source:          model.CvTerm{MI: model.MIIntact, ShortName: model.DBIntact},
		Participants:    parts,
	}
}

// Part builds a participant with a fixed stoichiometry (min == max).
func Part(i *model.Interactor, n int) model.Participant {
	return PartRange(i, n, n)
}

// PartRange builds a participant with a stoichiometry range.
func PartRange(i *model.Interactor, minimum, maximum int) model.Participant {
	return model.Participant{
		Interactor:    i,
		Stoichiometry: model.Stoichiometry{Min: minimum, Max: maximum},
	}
}

// Sub builds a participant that is itself a complex.
func Sub(c *model.Complex, n int) model.Participant {
	return Part(c.AsInteractor(), n)
}

// UniprotIdentity builds a uniprotkb identity cross-reference.
func UniprotIdentity(accession string) model.Xref {
	return model.Xref{
		Database:  model.CvTerm{MI: model.MIUniprot, ShortName: model.DBUniprot},
		Qualifier: model.CvTerm{MI: model.MIIdentity, ShortName: model.QualIdentity},
		ID:        accession,
	}
}

// Xref builds a cross-reference from short names.
func Xref(database, qualifier, id, secondary string) model.Xref {
	return model.Xref{
		Database:  model.CvTerm{ShortName: database},
		Qualifier: model.CvTerm{ShortName: qualifier},
		ID:        id,
		Secondary: secondary,
	}
}

// Annot builds an annotation with a non-nil value.
func Annot(topic, value string) model.Annotation {
	return model.Annotation{Topic: model.CvTerm{ShortName: topic}, Value: &value}
}
