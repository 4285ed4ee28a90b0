package flatten

import (
	"slices"
	"strings"

	"github.com/roach88/complexport/internal/model"
)

// DefaultMaxDepth bounds complex nesting. Real complexes nest two or three
// levels deep.
const DefaultMaxDepth = 32

// ExportDatabase is the database name written for every flattened leaf.
const ExportDatabase = "uniprot"

// Leaf is a protein reached by flattening, with its aggregated copy count.
type Leaf struct {
	Interactor *model.Interactor
	// Accession is the exported UniProtKB accession (chain suffix stripped).
	Accession string
	Copies    int
}

// Flattener resolves complexes into protein leaves.
// A Flattener holds no per-run state and can be reused.
type Flattener struct {
	// MaxDepth is the deepest allowed nesting. Zero or negative disables the
	// limit; the cycle guard still applies.
	MaxDepth int
}

// New returns a Flattener with DefaultMaxDepth.
func New() *Flattener {
	return &Flattener{MaxDepth: DefaultMaxDepth}
}

// Flatten returns the protein leaves of c, ordered by canonical key.
//
// Calling Flatten twice on the same complex yields identical output. The
// result never contains complex entries: each one is replaced by its own
// expansion, with copy counts multiplied down the tree.
func (f *Flattener) Flatten(c *model.Complex, multiplier int) ([]Leaf, error) {
	if c == nil {
		return []Leaf{}, nil
	}

	w := &walker{
		maxDepth: f.MaxDepth,
		root:     c.Ac,
		onPath:   make(map[any]bool),
		leaves:   newAccumulator(),
	}
	if err := w.walk(c, multiplier); err != nil {
		return nil, err
	}

	entries := w.leaves.sorted()
	out := make([]Leaf, 0, len(entries))
	for _, e := range entries {
		out = append(out, Leaf{Interactor: e.interactor, Accession: e.accession, Copies: e.copies})
	}
	return out, nil
}

// Components flattens c from the top (multiplier 1) and renders the leaves
// as component rows.
func (f *Flattener) Components(c *model.Complex) ([]model.Component, error) {
	leaves, err := f.Flatten(c, 1)
	if err != nil {
		return nil, err
	}
	out := make([]model.Component, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, model.Component{
			Database:      ExportDatabase,
			Accession:     l.Accession,
			Stoichiometry: l.Copies,
		})
	}
	return out, nil
}

// walker carries the state of one Flatten call through the recursion.
type walker struct {
	maxDepth int
	root     string
	path     []string
	onPath   map[any]bool
	leaves   *accumulator
}

func (w *walker) walk(c *model.Complex, multiplier int) error {
	id := pathKey(c)
	if w.onPath[id] {
		return newCycleError(w.root, w.path, c.Ac)
	}
	if w.maxDepth > 0 && len(w.path) >= w.maxDepth {
		return newDepthError(w.root, w.path, w.maxDepth)
	}

	w.path = append(w.path, c.Ac)
	w.onPath[id] = true
	defer func() {
		w.path = w.path[:len(w.path)-1]
		delete(w.onPath, id)
	}()

	// Direct participants first, so duplicates at this level are merged
	// before anything is expanded.
	direct := newAccumulator()
	for _, p := range c.Participants {
		i := p.Interactor
		if i == nil || (i.Kind != model.KindProtein && i.Kind != model.KindComplex) {
			continue
		}
		direct.add(i, "", p.Stoichiometry.Max*multiplier)
	}

	for _, e := range direct.sorted() {
		switch e.interactor.Kind {
		case model.KindComplex:
			if !e.interactor.IsComplex() {
				return &Error{
					Code:         ErrCodeUnresolvedComplex,
					Message:      "complex participant has no resolved body",
					ComplexAc:    w.root,
					ParentAc:     c.Ac,
					InteractorAc: e.interactor.Ac,
				}
			}
			if err := w.walk(e.interactor.Complex, e.copies); err != nil {
				return err
			}
		case model.KindProtein:
			accession, err := w.exportAccession(c, e.interactor)
			if err != nil {
				return err
			}
			w.leaves.addLeaf(e.interactor, accession, e.copies)
		}
	}
	return nil
}

// pathKey identifies a complex on the current path: by accession, or by
// pointer when it has none.
func pathKey(c *model.Complex) any {
	if c.Ac != "" {
		return c.Ac
	}
	return c
}

// exportAccession returns the UniProtKB accession a protein is exported
// under, failing when the protein cannot be identified.
func (w *walker) exportAccession(parent *model.Complex, p *model.Interactor) (string, error) {
	if strings.TrimSpace(p.PreferredID) == "" {
		return "", &Error{
			Code:         ErrCodeMissingIdentifier,
			Message:      "protein has no preferred identifier",
			ComplexAc:    w.root,
			ParentAc:     parent.Ac,
			InteractorAc: p.Ac,
		}
	}

	accession, ok := p.UniprotAccession()
	if !ok {
		return "", &Error{
			Code:         ErrCodeMissingUniprot,
			Message:      "protein has no UniProtKB accession",
			ComplexAc:    w.root,
			ParentAc:     parent.Ac,
			InteractorAc: p.Ac,
		}
	}

	if p.HasChainParent() {
		accession = TruncateChain(accession)
	}
	return accession, nil
}

// TruncateChain strips an isoform or chain suffix: "P12345-2" → "P12345",
// "P12345-PRO_0000001" → "P12345".
func TruncateChain(accession string) string {
	if i := strings.IndexByte(accession, '-'); i > 0 {
		return accession[:i]
	}
	return accession
}

// accumulator sums copy counts per canonical interactor key.
type accumulator struct {
	entries map[model.Key]*entry
}

type entry struct {
	key        model.Key
	interactor *model.Interactor
	accession  string
	copies     int
}

func newAccumulator() *accumulator {
	return &accumulator{entries: make(map[model.Key]*entry)}
}

func (a *accumulator) add(i *model.Interactor, accession string, copies int) {
	a.addKeyed(model.KeyOf(i), i, accession, copies)
}

// addLeaf merges by exported accession, so one protein curated under two
// interactors, or two chains of one parent, yields a single leaf. The
// interactor kept is the first one reached.
func (a *accumulator) addLeaf(i *model.Interactor, accession string, copies int) {
	a.addKeyed(model.Key{Kind: model.KindProtein, ID: accession}, i, accession, copies)
}

func (a *accumulator) addKeyed(key model.Key, i *model.Interactor, accession string, copies int) {
	if e, ok := a.entries[key]; ok {
		e.copies += copies
		return
	}
	a.entries[key] = &entry{key: key, interactor: i, accession: accession, copies: copies}
}

// sorted returns the entries in canonical key order.
func (a *accumulator) sorted() []*entry {
	out := make([]*entry, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(x, y *entry) int {
		return x.key.Compare(y.key)
	})
	return out
}
