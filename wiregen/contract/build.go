package contract

import (
	"github.com/routewire/routewire/wiregen/decl"
)

// BuildClient assembles the client-side contract for an exposed interface.
// Validation is a fold over the methods: valid ones are collected in
// declaration order, invalid ones are skipped with a diagnostic, and the
// build itself never fails.
func BuildClient(iface decl.Interface) *ServiceContract {
	c := &ServiceContract{
		Name:      iface.Name,
		Namespace: iface.Namespace,
		PkgName:   iface.PkgName,
	}
	c.Methods = buildMethods(iface, &c.Diagnostics)
	return c
}

// BuildServer assembles the server-side contract for an exposed
// implementation. The methods come from the exposed interface the type
// implements, so routes and verbs are derived from the identical declaration
// the client contract is built from. When no implemented interface carries
// the service marker, a diagnostic is recorded and an empty-methods contract
// is still returned so downstream tooling sees a consistent artifact.
func BuildServer(impl decl.Impl, set *decl.Set) *ServiceContract {
	c := &ServiceContract{
		Name:      impl.Name,
		Namespace: impl.Namespace,
		PkgName:   impl.PkgName,
	}

	iface, ok := exposedInterface(impl, set)
	if !ok {
		c.Diagnostics.Addf(impl.Pos, "type %s does not implement an interface marked //routewire:service", impl.Name)
		return c
	}

	c.Interface = iface.Name
	if iface.Namespace != impl.Namespace {
		// The implementation lives in a different package; the emitted
		// route table must import and qualify the interface.
		c.InterfacePkgName = iface.PkgName
		c.InterfaceImport = iface.Namespace
	}
	c.Methods = buildMethods(iface, &c.Diagnostics)
	return c
}

// exposedInterface resolves the service interface an implementation belongs
// to: the first implemented interface carrying the service marker.
func exposedInterface(impl decl.Impl, set *decl.Set) (decl.Interface, bool) {
	for _, qualified := range impl.Implements {
		iface, ok := set.Interface(qualified)
		if !ok {
			continue
		}
		if _, marked := decl.LookupMarker(iface.Markers, decl.MarkerService); marked {
			return iface, true
		}
	}
	return decl.Interface{}, false
}

func buildMethods(iface decl.Interface, diags *Diagnostics) []ServiceMethod {
	var methods []ServiceMethod
	for _, m := range iface.Methods {
		sm, ok := validateMethod(iface, m, diags)
		if !ok {
			continue
		}
		route, ok := resolveMethodRoute(iface, m, diags)
		if !ok {
			continue
		}
		sm.Route = route
		methods = append(methods, sm)
	}
	return methods
}
