package manifest

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/olehluchkiv/spigen/internal/contract"
	"github.com/olehluchkiv/spigen/internal/diagnostic"
	"github.com/olehluchkiv/spigen/internal/hierarchy"
)

// Model is a loaded, validated manifest.
type Model struct {
	// Dangling lists referenced types the manifest does not describe.
	Dangling []string

	root  string
	types hierarchy.MapSource
	impls []contract.Implementation
}

// LoadFile reads and parses the manifest at path.
func LoadFile(path string, logger *slog.Logger) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, id := range m.Dangling {
		logger.Warn("type referenced but not described; treated as opaque", "manifest", path, "type", id)
	}
	logger.Info("manifest loaded", "manifest", path, "types", len(m.types), "implementations", len(m.impls))
	return m, nil
}

// Parse parses manifest data and validates it.
func Parse(data []byte) (*Model, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return Build(f)
}

// Build validates f and turns it into a Model.
func Build(f File) (*Model, error) {
	root := hierarchy.Erase(f.Root)
	if root == "" {
		root = DefaultRoot
	}

	m := &Model{root: root, types: make(hierarchy.MapSource, len(f.Types))}
	for i, t := range f.Types {
		id := hierarchy.Erase(t.ID)
		if id == "" {
			return nil, fmt.Errorf("types[%d]: empty id", i)
		}
		if _, dup := m.types[id]; dup {
			return nil, fmt.Errorf("types[%d]: duplicate type %s", i, id)
		}
		if t.Provider != nil && id == root {
			return nil, fmt.Errorf("types[%d]: root type %s cannot be a provider", i, id)
		}
		m.types[id] = hierarchy.Supertypes{Interfaces: t.Interfaces, Superclass: t.Extends}
		if t.Provider != nil {
			m.impls = append(m.impls, contract.Implementation{ID: id, Declared: t.Provider.Contracts})
		}
	}

	if err := m.checkCycles(); err != nil {
		return nil, err
	}
	m.Dangling = m.dangling()
	return m, nil
}

// Root returns the manifest's root type.
func (m *Model) Root() string {
	return m.root
}

// Lookup implements hierarchy.Source.
func (m *Model) Lookup(id string) (hierarchy.Supertypes, bool) {
	return m.types.Lookup(id)
}

// Diagnostics reports every dangling reference as a warning.
func (m *Model) Diagnostics() diagnostic.Diagnostics {
	var d diagnostic.Diagnostics
	for _, id := range m.Dangling {
		d.AddWarning("dangling-reference", id+" is referenced but not described; treated as opaque", "")
	}
	return d
}

// Implementations returns provider types in document order.
func (m *Model) Implementations() []contract.Implementation {
	out := make([]contract.Implementation, len(m.impls))
	copy(out, m.impls)
	return out
}

func (m *Model) checkCycles() error {
	// done marks types whose extends chain is known to terminate.
	done := make(map[string]bool, len(m.types))
	for id := range m.types {
		var path []string
		onPath := map[string]bool{}
		cur := id
		for cur != "" && cur != m.root && !done[cur] {
			if onPath[cur] {
				return fmt.Errorf("inheritance cycle: %s -> %s", strings.Join(path, " -> "), cur)
			}
			onPath[cur] = true
			path = append(path, cur)
			st, ok := m.types[cur]
			if !ok {
				break
			}
			cur = hierarchy.Erase(st.Superclass)
		}
		for _, p := range path {
			done[p] = true
		}
	}
	return nil
}

func (m *Model) dangling() []string {
	var out []string
	seen := map[string]bool{}
	check := func(ref string) {
		id := hierarchy.Erase(ref)
		if id == "" || id == m.root || seen[id] {
			return
		}
		seen[id] = true
		if _, ok := m.types[id]; !ok {
			out = append(out, id)
		}
	}
	for _, t := range m.order() {
		st := m.types[t]
		for _, iface := range st.Interfaces {
			check(iface)
		}
		check(st.Superclass)
	}
	return out
}

// order returns type ids sorted, for stable dangling reports.
func (m *Model) order() []string {
	ids := make([]string, 0, len(m.types))
	for id := range m.types {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
