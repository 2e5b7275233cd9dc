// Package analyzer is the Go source host: it loads packages with go/packages,
// finds types carrying the registration directive and answers supertype
// queries from go/types.
//
// A Go type has no declared interfaces, so the interfaces of a type are the
// non-empty named interfaces of the loaded packages (and their imports) that
// the type or a pointer to it satisfies. Its superclass is its first embedded
// non-interface named type.
package analyzer

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/types/typeutil"

	"github.com/olehluchkiv/spigen/internal/contract"
	"github.com/olehluchkiv/spigen/internal/diagnostic"
	"github.com/olehluchkiv/spigen/internal/hierarchy"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedTypes |
	packages.NeedSyntax | packages.NeedTypesInfo | packages.NeedImports

var stdlibPatterns = []string{"fmt", "io", "io/fs", "encoding", "encoding/json", "sort", "hash", "context", "net/http"}

// Model answers hierarchy queries for the analyzed packages.
type Model struct {
	Marked []Marked

	ifaces []interfaceDef
	named  map[string]*types.Named
	supers map[string]hierarchy.Supertypes
	msets  typeutil.MethodSetCache
	diags  diagnostic.Diagnostics
	logger *slog.Logger
}

// Analyze loads Go packages from dir and collects marked types and the
// interfaces they may satisfy.
func Analyze(ctx context.Context, dir string, opts AnalyzeOptions, logger *slog.Logger) (*Model, error) {
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	marker := opts.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	cfg := &packages.Config{
		Mode:    LoadMode,
		Dir:     dir,
		Context: ctx,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })
	logger.Info("packages loaded", "dir", dir, "packages_count", len(pkgs))

	var typesPkgs []*types.Package
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			logger.Warn("package load error", "package", pkg.PkgPath, "error", e.Msg)
		}
		if pkg.Types != nil {
			typesPkgs = append(typesPkgs, pkg.Types)
		}
	}

	if opts.IncludeStdlib {
		stdCfg := *cfg
		stdCfg.Mode = packages.NeedName | packages.NeedTypes
		stdPkgs, stdErr := packages.Load(&stdCfg, stdlibPatterns...)
		if stdErr != nil {
			logger.Warn("failed to load stdlib packages", "error", stdErr)
		}
		for _, p := range stdPkgs {
			if p.Types != nil {
				typesPkgs = append(typesPkgs, p.Types)
			}
		}
	}

	m := &Model{
		named:  make(map[string]*types.Named),
		supers: make(map[string]hierarchy.Supertypes),
		logger: logger,
	}
	m.collectInterfaces(typesPkgs, pkgs)

	for _, pkg := range pkgs {
		if pkg.Types == nil || pkg.TypesInfo == nil {
			continue
		}
		m.collectNamed(pkg.Types)
		m.collectMarked(pkg, marker)
	}

	logger.Info("types collected", "interfaces", len(m.ifaces), "types", len(m.named), "marked", len(m.Marked))
	return m, nil
}

// Implementations returns marked types in package, file and declaration order.
func (m *Model) Implementations() []contract.Implementation {
	out := make([]contract.Implementation, 0, len(m.Marked))
	for _, mk := range m.Marked {
		out = append(out, contract.Implementation{ID: mk.ID, Declared: mk.Contracts})
	}
	return out
}

// Lookup implements hierarchy.Source.
func (m *Model) Lookup(id string) (hierarchy.Supertypes, bool) {
	id = hierarchy.Erase(id)
	if st, ok := m.supers[id]; ok {
		return st, true
	}
	named, ok := m.named[id]
	if !ok {
		return hierarchy.Supertypes{}, false
	}
	st := hierarchy.Supertypes{
		Interfaces: m.implemented(named),
		Superclass: m.superclass(named),
	}
	m.supers[id] = st
	return st, true
}

// TypeID returns "<package path>.<name>" for a named type, erased to its
// generic origin. Universe types have no package prefix.
func TypeID(named *types.Named) string {
	obj := named.Origin().Obj()
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

func (m *Model) collectInterfaces(typesPkgs []*types.Package, pkgs []*packages.Package) {
	seenPkgs := make(map[string]bool)
	seen := make(map[string]bool)
	generic := make(map[*types.TypeName]bool)

	add := func(id string, iface *types.Interface, key string) {
		if seen[key] || iface.Empty() || !iface.IsMethodSet() {
			return
		}
		seen[key] = true
		m.ifaces = append(m.ifaces, interfaceDef{ID: id, Iface: iface})
		m.logger.Debug("found interface", "interface", id, "methods", iface.NumMethods())
	}

	var scan func(p *types.Package)
	scan = func(p *types.Package) {
		if seenPkgs[p.Path()] {
			return
		}
		seenPkgs[p.Path()] = true
		scope := p.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok {
				continue
			}
			iface, ok := named.Underlying().(*types.Interface)
			if !ok {
				continue
			}
			if named.TypeParams().Len() > 0 {
				generic[tn] = true
				continue
			}
			id := TypeID(named)
			add(id, iface, id)
		}
	}

	for _, p := range typesPkgs {
		scan(p)
		for _, imp := range p.Imports() {
			scan(imp)
		}
	}

	// Generic interfaces take part through the instantiations the program uses.
	for _, pkg := range pkgs {
		if pkg.TypesInfo == nil {
			continue
		}
		for _, inst := range orderedInstances(pkg) {
			named, ok := inst.Type.(*types.Named)
			if !ok || !generic[named.Origin().Obj()] {
				continue
			}
			iface, ok := named.Underlying().(*types.Interface)
			if !ok {
				continue
			}
			add(TypeID(named), iface, types.TypeString(named, nil))
		}
	}

	if errObj, ok := types.Universe.Lookup("error").(*types.TypeName); ok {
		if iface, ok := errObj.Type().Underlying().(*types.Interface); ok {
			add("error", iface, "error")
		}
	}
}

// orderedInstances returns the instances recorded in pkg in source order.
func orderedInstances(pkg *packages.Package) []types.Instance {
	idents := make([]*ast.Ident, 0, len(pkg.TypesInfo.Instances))
	for id := range pkg.TypesInfo.Instances {
		idents = append(idents, id)
	}
	sort.Slice(idents, func(i, j int) bool { return idents[i].Pos() < idents[j].Pos() })
	out := make([]types.Instance, 0, len(idents))
	for _, id := range idents {
		out = append(out, pkg.TypesInfo.Instances[id])
	}
	return out
}

func (m *Model) collectNamed(p *types.Package) {
	scope := p.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}
		if _, isIface := named.Underlying().(*types.Interface); isIface {
			continue
		}
		m.named[TypeID(named)] = named
	}
}

func (m *Model) collectMarked(pkg *packages.Package, marker string) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				args, found := parseDirective(doc, marker)
				if !found {
					continue
				}
				m.addMarked(pkg, ts, args, fileImports(pkg, file))
			}
		}
	}
}

// fileImports maps the package names visible in file to import paths,
// including the declaring package itself.
func fileImports(pkg *packages.Package, file *ast.File) map[string]string {
	names := map[string]string{pkg.Name: pkg.PkgPath}
	for _, imp := range file.Imports {
		pn := pkg.TypesInfo.PkgNameOf(imp)
		if pn == nil || pn.Name() == "_" || pn.Name() == "." {
			continue
		}
		names[pn.Name()] = pn.Imported().Path()
	}
	return names
}

func (m *Model) addMarked(pkg *packages.Package, ts *ast.TypeSpec, args []string, imports map[string]string) {
	pos := pkg.Fset.Position(ts.Pos()).String()
	tn, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
	if !ok {
		m.rejectMarked(ts, pos, "marked declaration has no type information")
		return
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		m.rejectMarked(ts, pos, "marked type is an alias; mark the aliased type instead")
		return
	}
	if _, isIface := named.Underlying().(*types.Interface); isIface {
		m.rejectMarked(ts, pos, "marked type is an interface and cannot be registered")
		return
	}

	contracts := make([]string, 0, len(args))
	for _, a := range args {
		contracts = append(contracts, qualify(a, pkg.PkgPath, imports))
	}
	mk := Marked{ID: TypeID(named), Contracts: contracts, Named: named, Pos: pos}
	m.Marked = append(m.Marked, mk)
	m.logger.Debug("found marked type", "type", mk.ID, "contracts", contracts, "pos", pos)
}

func (m *Model) rejectMarked(ts *ast.TypeSpec, pos, reason string) {
	m.logger.Warn(reason, "name", ts.Name.Name, "pos", pos)
	m.diags.AddWarning("invalid-marker", fmt.Sprintf("%s: %s: %s", pos, ts.Name.Name, reason), ts.Name.Name)
}

// Diagnostics returns problems found while collecting marked types.
func (m *Model) Diagnostics() diagnostic.Diagnostics {
	return m.diags
}

// parseDirective looks for "//<marker>" in doc and returns its arguments.
func parseDirective(doc *ast.CommentGroup, marker string) ([]string, bool) {
	if doc == nil {
		return nil, false
	}
	prefix := "//" + marker
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, prefix)
		if !ok {
			continue
		}
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		return strings.Fields(rest), true
	}
	return nil, false
}

// qualify resolves a contract token to a full type id. A bare name belongs
// to the declaring package; a name qualified by a package name visible in
// the declaring file ("api.Codec") resolves through that file's imports; a
// token already carrying an import path is kept as written.
func qualify(token, pkgPath string, imports map[string]string) string {
	erased := hierarchy.Erase(token)
	if token == "error" || strings.Contains(erased, "/") {
		return token
	}
	head, _, found := strings.Cut(erased, ".")
	if !found {
		return pkgPath + "." + token
	}
	if path, ok := imports[head]; ok {
		return path + token[len(head):]
	}
	return token
}

// implemented returns the ids of the interfaces named or *named satisfies.
func (m *Model) implemented(named *types.Named) []string {
	var out []string
	seen := make(map[string]bool)
	ptr := types.NewPointer(named)
	for _, def := range m.ifaces {
		if seen[def.ID] {
			continue
		}
		if m.satisfies(named, def.Iface) || m.satisfies(ptr, def.Iface) {
			seen[def.ID] = true
			out = append(out, def.ID)
		}
	}
	return out
}

func (m *Model) satisfies(t types.Type, iface *types.Interface) bool {
	mset := m.msets.MethodSet(t)
	if mset.Len() < iface.NumMethods() {
		return false
	}
	return types.Implements(t, iface)
}

// superclass returns the id of the first embedded non-interface named type.
func (m *Model) superclass(named *types.Named) string {
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return ""
	}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		ft := types.Unalias(f.Type())
		if p, ok := ft.(*types.Pointer); ok {
			ft = types.Unalias(p.Elem())
		}
		emb, ok := ft.(*types.Named)
		if !ok {
			continue
		}
		if _, isIface := emb.Underlying().(*types.Interface); isIface {
			continue
		}
		id := TypeID(emb)
		if _, known := m.named[id]; !known {
			m.named[id] = emb.Origin()
		}
		return id
	}
	return ""
}
