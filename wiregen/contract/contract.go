// Package contract builds validated service contracts from declarations.
//
// A ServiceContract is the single immutable snapshot both synthesizers
// consume. Route and verb decisions are made here exactly once; the emitters
// copy them and never recompute naming rules on their own.
package contract

import (
	"fmt"
	"go/token"
)

// DiagnosticCode is the stable code attached to validation failures.
// One code covers every contract validation failure.
const DiagnosticCode = "RW0001"

// Severity of a diagnostic. Validation failures are always errors.
type Severity string

const SeverityError Severity = "error"

// Diagnostic is a structured validation failure reported to the caller.
// Diagnostics are accumulated, never thrown.
type Diagnostic struct {
	Code     string
	Severity Severity
	Message  string
	Pos      token.Position // zero when no source location is known
}

func (d Diagnostic) String() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s %s: %s", d.Pos, d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
}

// Diagnostics is an append-only diagnostic sink.
type Diagnostics []Diagnostic

// Addf appends an error-severity diagnostic with the stable code.
func (ds *Diagnostics) Addf(pos token.Position, format string, args ...any) {
	*ds = append(*ds, Diagnostic{
		Code:     DiagnosticCode,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// ServiceMethod is one validated method of a contract.
type ServiceMethod struct {
	// Name is the method name as declared.
	Name string

	// Route is the wire route without a leading slash, e.g.
	// "s/helloservice/sayhello". Clients request it as-is; the server
	// registers "/" + Route. Computed once, here.
	Route string

	// Request is the Go expression of the data parameter type, empty when
	// the method has no body. Request != "" decides the POST verb in both
	// artifacts.
	Request string

	// RequestParam is the declared name of the data parameter.
	RequestParam string

	// RequestImports are the import paths needed to spell Request,
	// including packages contributing generic type arguments.
	RequestImports []string

	// CtxParam is the declared name of the cancellation parameter.
	CtxParam string

	// Response is the Go expression of the result type, empty for
	// methods returning only error.
	Response string

	// ResponseImports are the import paths needed to spell Response.
	ResponseImports []string
}

// ServiceContract is the immutable snapshot handed to the synthesizers.
// One instance per exposed interface (client side) or exposed implementation
// (server side). Built fresh on every generation pass.
type ServiceContract struct {
	// Name of the declaration the contract was built for: the interface
	// name on the client side, the implementation type name on the server
	// side.
	Name string

	// Namespace is the declaring package import path.
	Namespace string

	// PkgName is the declaring package name, used for the emitted
	// package clause.
	PkgName string

	// Interface is the exposed interface the server implementation
	// satisfies. Empty on client contracts and when resolution failed.
	Interface string

	// InterfacePkgName and InterfaceImport qualify Interface when it is
	// declared in a different package than the implementation. Both are
	// empty for same-package contracts.
	InterfacePkgName string
	InterfaceImport  string

	// Methods holds every validated method, in declaration order.
	Methods []ServiceMethod

	// Diagnostics accumulated while building this contract.
	Diagnostics Diagnostics
}
