package contract

import (
	"github.com/routewire/routewire/wiregen/decl"
)

// contextType is the canonical cancellation type, matched by fully-qualified name.
const contextType = "context.Context"

// validateMethod checks one method against the contract shape grammar and
// returns its ServiceMethod, or false plus an appended diagnostic. Rules apply
// in order; the first failure wins for the method. A failed method is skipped,
// never fatal: sibling methods still validate.
func validateMethod(iface decl.Interface, m decl.Method, diags *Diagnostics) (ServiceMethod, bool) {
	sm := ServiceMethod{Name: m.Name}

	// Rule 1: results must be error, optionally preceded by one result value.
	switch {
	case len(m.Results) == 1 && m.Results[0].Qualified == "error":
		// no result payload
	case len(m.Results) == 2 && m.Results[1].Qualified == "error":
		sm.Response = m.Results[0].Expr
		sm.ResponseImports = m.Results[0].Imports()
	default:
		diags.Addf(m.Pos, "method %s.%s must return error, optionally preceded by one result value", iface.Name, m.Name)
		return ServiceMethod{}, false
	}

	// Rule 2: exactly 1 or 2 parameters.
	if len(m.Params) == 0 || len(m.Params) > 2 {
		diags.Addf(m.Pos, "method %s.%s must have 1 or 2 parameters, it had %d", iface.Name, m.Name, len(m.Params))
		return ServiceMethod{}, false
	}

	// Rule 3: with two parameters the first is the data parameter and must
	// resolve to a concrete named type (simple name or a single-argument
	// generic instantiation).
	if len(m.Params) == 2 {
		data := m.Params[0]
		if !data.Type.Named || data.Type.TypeArgs > 1 {
			diags.Addf(m.Pos, "parameter %s of method %s.%s must be a named type, it was %s", data.Name, iface.Name, m.Name, describeType(data.Type))
			return ServiceMethod{}, false
		}
		sm.Request = data.Type.Expr
		sm.RequestParam = data.Name
		sm.RequestImports = data.Type.Imports()
	}

	// Rule 4: the last parameter is the cancellation parameter and must be
	// context.Context exactly.
	last := m.Params[len(m.Params)-1]
	if last.Type.Qualified != contextType {
		diags.Addf(m.Pos, "parameter %s of method %s.%s must be %s, it was %s", last.Name, iface.Name, m.Name, contextType, describeType(last.Type))
		return ServiceMethod{}, false
	}
	sm.CtxParam = last.Name

	return sm, true
}

func describeType(t decl.TypeRef) string {
	if t.Qualified != "" {
		return t.Qualified
	}
	if t.Expr != "" {
		return t.Expr
	}
	return "an unresolvable type"
}

// resolveMethodRoute computes the method's route. An explicit route marker
// must carry exactly one string literal; a missing or non-literal argument is
// a hard failure for the method, which is then not emitted at all.
func resolveMethodRoute(iface decl.Interface, m decl.Method, diags *Diagnostics) (string, bool) {
	marker, ok := decl.LookupMarker(m.Markers, decl.MarkerRoute)
	if !ok {
		return ResolveRoute(iface.Name, m.Name), true
	}

	if len(marker.Args) != 1 || !marker.Args[0].Literal {
		diags.Addf(m.Pos, "method %s.%s: route parameter was not provided", iface.Name, m.Name)
		return "", false
	}

	return toLowerRoute(marker.Args[0].Value), true
}
