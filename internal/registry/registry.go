// Package registry accumulates, for one processing run, the implementations
// registered under each contract.
package registry

// Entry is one contract with its implementations in recorded order.
type Entry struct {
	Contract        string
	Implementations []string
}

// Registry maps contracts to implementation lists. Contracts iterate in
// first-seen order. It is not safe for concurrent use.
type Registry struct {
	order []string
	impls map[string][]string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{impls: make(map[string][]string)}
}

// Record appends impl to the list for contract.
func (r *Registry) Record(contract, impl string) {
	list, ok := r.impls[contract]
	if !ok {
		r.order = append(r.order, contract)
	}
	r.impls[contract] = append(list, impl)
}

// Entries returns a snapshot of all entries.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, c := range r.order {
		impls := make([]string, len(r.impls[c]))
		copy(impls, r.impls[c])
		out = append(out, Entry{Contract: c, Implementations: impls})
	}
	return out
}

// Len returns the number of contracts.
func (r *Registry) Len() int {
	return len(r.order)
}
