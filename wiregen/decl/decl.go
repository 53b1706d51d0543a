// Package decl is the declaration model consumed by the contract builder.
//
// It is a structural snapshot of the candidate declarations: names,
// namespaces, marker directives, and member methods with resolved parameter
// and result types. Providers (wiregen/provider) populate it; the contract
// packages only query it and never touch source text themselves.
package decl

import "go/token"

// Marker names recognized on declarations.
const (
	MarkerService = "service" // //routewire:service on an interface
	MarkerServer  = "server"  // //routewire:server on an implementation type
	MarkerRoute   = "route"   // //routewire:route "literal" on an interface method
)

// TypeRef describes a resolved type as seen from its declaring package.
type TypeRef struct {
	// Name is the simple type name, e.g. "NameModel". Empty for
	// unnamed types.
	Name string

	// Qualified is the fully-qualified name, e.g.
	// "example.com/api.NameModel", "context.Context", or "error".
	Qualified string

	// Expr is the Go expression spelling this type inside the declaring
	// package, e.g. "NameModel" or "models.Page[Item]".
	Expr string

	// ImportPath is the package that must be imported to spell Expr,
	// empty for same-package, builtin, and universe types.
	ImportPath string

	// Named reports whether the type resolves to a concrete named type.
	Named bool

	// TypeArgs is the number of type arguments of a generic instantiation.
	TypeArgs int

	// TypeArgImports are the packages, beyond ImportPath, needed to spell
	// the type arguments of a generic instantiation.
	TypeArgImports []string
}

// Imports returns every import path needed to spell Expr outside the
// declaring package's own scope.
func (t TypeRef) Imports() []string {
	if t.ImportPath == "" {
		return t.TypeArgImports
	}
	return append([]string{t.ImportPath}, t.TypeArgImports...)
}

// Arg is one marker argument.
type Arg struct {
	// Literal reports whether the argument was a string literal.
	Literal bool

	// Value is the unquoted literal value, or the raw token when not
	// a literal.
	Value string
}

// Marker is one //routewire: directive attached to a declaration.
type Marker struct {
	Name string
	Args []Arg
}

// LookupMarker returns the marker with the given name, if present.
// It is the single capability query the contract builder uses; no other
// metadata mechanism is consulted.
func LookupMarker(markers []Marker, name string) (Marker, bool) {
	for _, m := range markers {
		if m.Name == name {
			return m, true
		}
	}
	return Marker{}, false
}

// Param is one method parameter.
type Param struct {
	Name string
	Type TypeRef
}

// Method is one member method of an interface.
type Method struct {
	Name    string
	Params  []Param
	Results []TypeRef
	Markers []Marker
	Pos     token.Position
}

// Interface is a candidate service interface.
type Interface struct {
	Name      string
	Namespace string // package import path
	PkgName   string // package name, used in emitted package clauses
	Markers   []Marker
	Methods   []Method
	Pos       token.Position
}

// Qualified returns the fully-qualified interface name.
func (i Interface) Qualified() string {
	return i.Namespace + "." + i.Name
}

// Impl is a candidate service implementation type.
type Impl struct {
	Name      string
	Namespace string
	PkgName   string
	Markers   []Marker

	// Implements lists the qualified names of candidate interfaces this
	// type implements (by value or pointer receiver).
	Implements []string

	Pos token.Position
}

// Set is one generation pass worth of declarations, ordered deterministically
// by (namespace, name).
type Set struct {
	Interfaces []Interface
	Impls      []Impl
}

// Interface returns the exposed interface with the given qualified name.
func (s *Set) Interface(qualified string) (Interface, bool) {
	for _, iface := range s.Interfaces {
		if iface.Qualified() == qualified {
			return iface, true
		}
	}
	return Interface{}, false
}
