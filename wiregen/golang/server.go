package golang

import (
	"bytes"
	"fmt"

	"github.com/routewire/routewire/wiregen/contract"
)

// EmitServer renders the route-table artifact for a server contract: one
// Map{className}Endpoints function registering every validated method on an
// *http.ServeMux. Routes are the contract's route strings with a leading
// slash; the verb is the same Request-presence decision the client emitter
// makes, on the same contract value.
func EmitServer(c *contract.ServiceContract) (path string, content []byte, err error) {
	buf := &bytes.Buffer{}
	writeHeader(buf, c.PkgName)

	imports := []string{"net/http", c.InterfaceImport}
	if len(c.Methods) > 0 {
		imports = append(imports, runtimeImport)
	}
	writeImports(buf, imports)

	// A contract with no resolved interface still yields an artifact so the
	// build failure is visible without cascading elsewhere. An interface
	// declared in another package is spelled qualified.
	svcType := c.Interface
	if c.InterfacePkgName != "" {
		svcType = c.InterfacePkgName + "." + c.Interface
	}
	if svcType == "" {
		svcType = "any"
	}

	fmt.Fprintf(buf, "// Map%sEndpoints registers every %s route on mux, served by svc.\n", c.Name, describeSurface(c))
	fmt.Fprintf(buf, "func Map%sEndpoints(mux *http.ServeMux, svc %s) {\n", c.Name, svcType)
	for _, m := range c.Methods {
		if m.Request != "" {
			fmt.Fprintf(buf, "\troutewire.HandlePost%s(mux, %q, svc.%s)\n", voidSuffix(m), "/"+m.Route, m.Name)
		} else {
			fmt.Fprintf(buf, "\troutewire.HandleGet%s(mux, %q, svc.%s)\n", voidSuffix(m), "/"+m.Route, m.Name)
		}
	}
	buf.WriteString("}\n")

	path = FileName(c.Namespace, c.Name)
	content, err = gofmt(path, buf)
	return path, content, err
}

func voidSuffix(m contract.ServiceMethod) string {
	if m.Response == "" {
		return "Void"
	}
	return ""
}

func describeSurface(c *contract.ServiceContract) string {
	if c.Interface != "" {
		return c.Interface
	}
	return c.Name
}
