package model

import (
	"cmp"
	"fmt"
)

// Key is the canonical identity of an interactor.
//
// Keys form a total order (Compare) so that accumulations over participant
// lists never depend on incidental iteration order.
type Key struct {
	Kind Kind
	ID   string
	Ac   string
}

// KeyOf returns the canonical key of an interactor.
// The preferred identifier is the primary component; the database accession
// breaks ties between interactors that share a preferred identifier.
func KeyOf(i *Interactor) Key {
	if i == nil {
		return Key{}
	}
	return Key{Kind: i.Kind, ID: i.PreferredID, Ac: i.Ac}
}

// Compare orders keys by kind, then preferred id, then accession.
func (k Key) Compare(other Key) int {
	if c := cmp.Compare(k.Kind, other.Kind); c != 0 {
		return c
	}
	if c := cmp.Compare(k.ID, other.ID); c != 0 {
		return c
	}
	return cmp.Compare(k.Ac, other.Ac)
}

// String renders the key for diagnostics.
func (k Key) String() string {
	if k.Ac != "" && k.Ac != k.ID {
		return fmt.Sprintf("%s:%s[%s]", k.Kind, k.ID, k.Ac)
	}
	return fmt.Sprintf("%s:%s", k.Kind, k.ID)
}
