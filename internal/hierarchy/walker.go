// Package hierarchy computes the contracts an implementation type satisfies by
// walking its declared interfaces and its superclass chain.
package hierarchy

// Walker resolves candidate contracts against a Source.
type Walker struct {
	source  Source
	root    string
	classes ClassCandidates
}

// WalkerOptions configures a Walker.
type WalkerOptions struct {
	// RootType is the universal root of the class hierarchy. It is never a
	// candidate and ends the superclass walk. Empty means no root class.
	RootType string
	Classes  ClassCandidates
}

// NewWalker creates a Walker reading type information from source.
func NewWalker(source Source, opts WalkerOptions) *Walker {
	return &Walker{
		source:  source,
		root:    Erase(opts.RootType),
		classes: opts.Classes,
	}
}

// ResolveCandidates returns every contract the type id satisfies: its own
// interfaces, the interfaces of each ancestor class up to the root, and the
// ancestor classes selected by the walker's ClassCandidates mode.
// Unknown types yield an empty set; unknown ancestors stop the walk after
// their own identifier is considered.
func (w *Walker) ResolveCandidates(id string) CandidateSet {
	var set CandidateSet

	st, ok := w.source.Lookup(Erase(id))
	if !ok {
		return set
	}
	w.addInterfaces(&set, st.Interfaces)

	seen := map[string]bool{Erase(id): true}
	super := Erase(st.Superclass)
	for depth := 0; !w.isRoot(super); depth++ {
		if seen[super] {
			break
		}
		seen[super] = true

		if w.classes == ClassesAll || (w.classes == ClassesDirect && depth == 0) {
			set.add(super)
		}

		anc, ok := w.source.Lookup(super)
		if !ok {
			break
		}
		w.addInterfaces(&set, anc.Interfaces)
		super = Erase(anc.Superclass)
	}

	return set
}

func (w *Walker) addInterfaces(set *CandidateSet, ifaces []string) {
	for _, iface := range ifaces {
		erased := Erase(iface)
		if w.isRoot(erased) {
			continue
		}
		set.add(erased)
	}
}

func (w *Walker) isRoot(id string) bool {
	return id == "" || (w.root != "" && id == w.root)
}
