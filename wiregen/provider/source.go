// Package provider extracts the declaration model from Go source.
//
// Markers are line comments on declarations:
//
//	//routewire:service        — on an interface type
//	//routewire:server         — on an implementation type
//	//routewire:route "<path>" — on an interface method
//
// The provider loads packages through go/packages, matches markers to type
// declarations, and resolves signatures with go/types. Everything downstream
// of the returned decl.Set is independent of this mechanism.
package provider

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/routewire/routewire/wiregen/decl"
)

// DeclError is a hard failure scoped to a single declaration (or package):
// its symbols could not be resolved, so no partial artifact is safe to emit
// for it. Unrelated declarations are unaffected.
type DeclError struct {
	Name string // qualified declaration or package name
	Err  error
}

func (e *DeclError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *DeclError) Unwrap() error { return e.Err }

// Result is one load pass worth of declarations.
type Result struct {
	Set    decl.Set
	Failed []*DeclError
}

type scannedIface struct {
	iface decl.Interface
	typ   *types.Interface
}

type scannedImpl struct {
	impl decl.Impl
	typ  types.Type
}

type scanState struct {
	ifaces []scannedIface
	impls  []scannedImpl
	failed []*DeclError
}

// Load scans the packages matching patterns for marked declarations.
// The patterns follow go command semantics; dir sets the working directory
// for the load ("" means the current directory).
func Load(dir string, patterns ...string) (*Result, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo,
		Dir: dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %q", strings.Join(patterns, " "))
	}

	state := &scanState{}
	for _, pkg := range pkgs {
		scanPackage(pkg, state)
	}

	return assemble(state), nil
}

// scanPackage collects marked declarations from one package. A package that
// failed to load is recorded as a hard failure for its declarations only.
func scanPackage(pkg *packages.Package, state *scanState) {
	if len(pkg.Errors) > 0 {
		state.failed = append(state.failed, &DeclError{
			Name: pkg.PkgPath,
			Err:  fmt.Errorf("package errors: %v", pkg.Errors[0]),
		})
		return
	}

	for _, f := range pkg.Syntax {
		for _, d := range f.Decls {
			gd, ok := d.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}

				markers, err := parseMarkers(pkg, doc)
				if err != nil {
					state.failed = append(state.failed, &DeclError{
						Name: pkg.PkgPath + "." + ts.Name.Name,
						Err:  err,
					})
					continue
				}
				if len(markers) == 0 {
					continue
				}

				if _, ok := decl.LookupMarker(markers, decl.MarkerService); ok {
					scanned, err := buildInterface(pkg, ts, markers)
					if err != nil {
						state.failed = append(state.failed, &DeclError{
							Name: pkg.PkgPath + "." + ts.Name.Name,
							Err:  err,
						})
					} else {
						state.ifaces = append(state.ifaces, scanned)
					}
				}

				if _, ok := decl.LookupMarker(markers, decl.MarkerServer); ok {
					scanned, err := buildImpl(pkg, ts, markers)
					if err != nil {
						state.failed = append(state.failed, &DeclError{
							Name: pkg.PkgPath + "." + ts.Name.Name,
							Err:  err,
						})
					} else {
						state.impls = append(state.impls, scanned)
					}
				}
			}
		}
	}
}

// assemble resolves which marked interfaces each implementation satisfies and
// orders everything deterministically.
func assemble(state *scanState) *Result {
	sort.Slice(state.ifaces, func(i, j int) bool {
		a, b := state.ifaces[i].iface, state.ifaces[j].iface
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		return a.Name < b.Name
	})
	sort.Slice(state.impls, func(i, j int) bool {
		a, b := state.impls[i].impl, state.impls[j].impl
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		return a.Name < b.Name
	})
	sort.Slice(state.failed, func(i, j int) bool {
		return state.failed[i].Name < state.failed[j].Name
	})

	res := &Result{Failed: state.failed}
	for _, s := range state.ifaces {
		res.Set.Interfaces = append(res.Set.Interfaces, s.iface)
	}
	for _, s := range state.impls {
		impl := s.impl
		for _, candidate := range state.ifaces {
			if types.Implements(s.typ, candidate.typ) ||
				types.Implements(types.NewPointer(s.typ), candidate.typ) {
				impl.Implements = append(impl.Implements, candidate.iface.Qualified())
			}
		}
		res.Set.Impls = append(res.Set.Impls, impl)
	}
	return res
}

// parseMarkers extracts //routewire: directives from a comment group.
// Unknown directives are errors, matching go vet's treatment of misspelled
// build tags: silence would hide a typo forever.
func parseMarkers(pkg *packages.Package, doc *ast.CommentGroup) ([]decl.Marker, error) {
	if doc == nil {
		return nil, nil
	}

	var markers []decl.Marker
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, "//routewire:") {
			continue
		}
		text := strings.TrimPrefix(c.Text, "//routewire:")

		name, rest, _ := strings.Cut(text, " ")
		rest = strings.TrimSpace(rest)

		switch name {
		case decl.MarkerService, decl.MarkerServer:
			markers = append(markers, decl.Marker{Name: name})
		case decl.MarkerRoute:
			m := decl.Marker{Name: name}
			if rest != "" {
				if value, err := strconv.Unquote(rest); err == nil {
					m.Args = append(m.Args, decl.Arg{Literal: true, Value: value})
				} else {
					m.Args = append(m.Args, decl.Arg{Literal: false, Value: rest})
				}
			}
			markers = append(markers, m)
		default:
			pos := pkg.Fset.Position(c.Pos())
			return nil, fmt.Errorf("%s: unknown directive //routewire:%s", pos, name)
		}
	}
	return markers, nil
}

// buildInterface resolves a marked interface declaration into the model.
func buildInterface(pkg *packages.Package, ts *ast.TypeSpec, markers []decl.Marker) (scannedIface, error) {
	obj := pkg.Types.Scope().Lookup(ts.Name.Name)
	if obj == nil {
		return scannedIface{}, fmt.Errorf("type %s not found in package scope", ts.Name.Name)
	}

	ifaceType, ok := obj.Type().Underlying().(*types.Interface)
	if !ok {
		return scannedIface{}, fmt.Errorf("//routewire:service must be on an interface type, %s is %s", ts.Name.Name, obj.Type().Underlying())
	}

	astIface, ok := ts.Type.(*ast.InterfaceType)
	if !ok {
		return scannedIface{}, fmt.Errorf("type %s has no interface syntax", ts.Name.Name)
	}

	iface := decl.Interface{
		Name:      ts.Name.Name,
		Namespace: pkg.PkgPath,
		PkgName:   pkg.Name,
		Markers:   markers,
		Pos:       pkg.Fset.Position(ts.Pos()),
	}

	// Walk the AST field list so methods keep declaration order and carry
	// their own doc markers. Embedded interfaces are not expanded.
	for _, field := range astIface.Methods.List {
		if len(field.Names) == 0 {
			continue
		}
		name := field.Names[0].Name

		fn := explicitMethod(ifaceType, name)
		if fn == nil {
			return scannedIface{}, fmt.Errorf("method %s.%s not resolvable", ts.Name.Name, name)
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok {
			return scannedIface{}, fmt.Errorf("method %s.%s has invalid type", ts.Name.Name, name)
		}

		methodMarkers, err := parseMarkers(pkg, field.Doc)
		if err != nil {
			return scannedIface{}, err
		}

		m := decl.Method{
			Name:    name,
			Markers: methodMarkers,
			Pos:     pkg.Fset.Position(field.Pos()),
		}
		for i := 0; i < sig.Params().Len(); i++ {
			p := sig.Params().At(i)
			m.Params = append(m.Params, decl.Param{
				Name: paramName(p.Name(), i == sig.Params().Len()-1),
				Type: typeRef(pkg.Types, p.Type()),
			})
		}
		for i := 0; i < sig.Results().Len(); i++ {
			m.Results = append(m.Results, typeRef(pkg.Types, sig.Results().At(i).Type()))
		}
		iface.Methods = append(iface.Methods, m)
	}

	return scannedIface{iface: iface, typ: ifaceType}, nil
}

// buildImpl resolves a marked implementation declaration.
func buildImpl(pkg *packages.Package, ts *ast.TypeSpec, markers []decl.Marker) (scannedImpl, error) {
	obj := pkg.Types.Scope().Lookup(ts.Name.Name)
	if obj == nil {
		return scannedImpl{}, fmt.Errorf("type %s not found in package scope", ts.Name.Name)
	}
	if _, ok := obj.Type().Underlying().(*types.Interface); ok {
		return scannedImpl{}, fmt.Errorf("//routewire:server must be on a concrete type, %s is an interface", ts.Name.Name)
	}

	return scannedImpl{
		impl: decl.Impl{
			Name:      ts.Name.Name,
			Namespace: pkg.PkgPath,
			PkgName:   pkg.Name,
			Markers:   markers,
			Pos:       pkg.Fset.Position(ts.Pos()),
		},
		typ: obj.Type(),
	}, nil
}

func explicitMethod(iface *types.Interface, name string) *types.Func {
	for i := 0; i < iface.NumExplicitMethods(); i++ {
		if fn := iface.ExplicitMethod(i); fn.Name() == name {
			return fn
		}
	}
	return nil
}

// paramName falls back to a synthetic name for unnamed interface parameters.
func paramName(name string, last bool) string {
	if name != "" && name != "_" {
		return name
	}
	if last {
		return "ctx"
	}
	return "req"
}

// typeRef renders a types.Type as seen from its declaring package.
func typeRef(pkg *types.Package, t types.Type) decl.TypeRef {
	t = types.Unalias(t)

	ref := decl.TypeRef{
		Expr: types.TypeString(t, relativeTo(pkg)),
	}

	named, ok := t.(*types.Named)
	if !ok {
		return ref
	}

	obj := named.Obj()
	ref.Name = obj.Name()
	ref.Named = true
	ref.TypeArgs = named.TypeArgs().Len()
	if obj.Pkg() != nil {
		ref.Qualified = obj.Pkg().Path() + "." + obj.Name()
		if obj.Pkg() != pkg {
			ref.ImportPath = obj.Pkg().Path()
		}
	} else {
		// Universe types: error.
		ref.Qualified = obj.Name()
	}

	if n := named.TypeArgs().Len(); n > 0 {
		seen := map[string]bool{ref.ImportPath: true}
		for i := 0; i < n; i++ {
			collectImports(pkg, named.TypeArgs().At(i), seen, &ref.TypeArgImports)
		}
	}
	return ref
}

// collectImports gathers the packages needed to spell t from pkg, walking
// through composite types and generic instantiations.
func collectImports(pkg *types.Package, t types.Type, seen map[string]bool, out *[]string) {
	switch t := types.Unalias(t).(type) {
	case *types.Named:
		if obj := t.Obj(); obj.Pkg() != nil && obj.Pkg() != pkg && !seen[obj.Pkg().Path()] {
			seen[obj.Pkg().Path()] = true
			*out = append(*out, obj.Pkg().Path())
		}
		for i := 0; i < t.TypeArgs().Len(); i++ {
			collectImports(pkg, t.TypeArgs().At(i), seen, out)
		}
	case *types.Pointer:
		collectImports(pkg, t.Elem(), seen, out)
	case *types.Slice:
		collectImports(pkg, t.Elem(), seen, out)
	case *types.Array:
		collectImports(pkg, t.Elem(), seen, out)
	case *types.Map:
		collectImports(pkg, t.Key(), seen, out)
		collectImports(pkg, t.Elem(), seen, out)
	}
}

func relativeTo(pkg *types.Package) types.Qualifier {
	return func(p *types.Package) string {
		if p == pkg {
			return ""
		}
		return p.Name()
	}
}
