package golang

import (
	"bytes"
	"fmt"

	"github.com/routewire/routewire/wiregen/contract"
)

// EmitClient renders the transport-client artifact for a client contract:
// a {stem}Client type implementing the exposed interface, holding one
// *routewire.Caller, with one method per validated contract method.
// The output is deterministic for identical contracts.
func EmitClient(c *contract.ServiceContract) (path string, content []byte, err error) {
	buf := &bytes.Buffer{}
	writeHeader(buf, c.PkgName)

	imports := []string{runtimeImport}
	if len(c.Methods) > 0 {
		imports = append(imports, "context")
	}
	for _, m := range c.Methods {
		imports = append(imports, m.RequestImports...)
		imports = append(imports, m.ResponseImports...)
	}
	writeImports(buf, imports)

	clientName := contract.Stem(c.Name) + "Client"

	fmt.Fprintf(buf, "// %s calls a %s served over HTTP.\n", clientName, c.Name)
	fmt.Fprintf(buf, "type %s struct {\n\tcaller *routewire.Caller\n}\n\n", clientName)
	fmt.Fprintf(buf, "var _ %s = (*%s)(nil)\n\n", c.Name, clientName)
	fmt.Fprintf(buf, "// New%s returns a client issuing requests through caller.\n", clientName)
	fmt.Fprintf(buf, "func New%s(caller *routewire.Caller) *%s {\n\treturn &%s{caller: caller}\n}\n", clientName, clientName, clientName)

	for _, m := range c.Methods {
		buf.WriteString("\n")
		writeClientMethod(buf, clientName, m)
	}

	path = FileName(c.Namespace, c.Name)
	content, err = gofmt(path, buf)
	return path, content, err
}

// writeClientMethod emits one method body. The verb is POST exactly when the
// method carries a data parameter; the route string is the contract's,
// verbatim.
func writeClientMethod(buf *bytes.Buffer, clientName string, m contract.ServiceMethod) {
	switch {
	case m.Request != "" && m.Response != "":
		fmt.Fprintf(buf, "func (c *%s) %s(%s %s, %s context.Context) (%s, error) {\n",
			clientName, m.Name, m.RequestParam, m.Request, m.CtxParam, m.Response)
		fmt.Fprintf(buf, "\treturn routewire.Post[%s, %s](%s, c.caller, %q, %s)\n",
			m.Request, m.Response, m.CtxParam, m.Route, m.RequestParam)
	case m.Request != "":
		fmt.Fprintf(buf, "func (c *%s) %s(%s %s, %s context.Context) error {\n",
			clientName, m.Name, m.RequestParam, m.Request, m.CtxParam)
		fmt.Fprintf(buf, "\treturn routewire.PostVoid[%s](%s, c.caller, %q, %s)\n",
			m.Request, m.CtxParam, m.Route, m.RequestParam)
	case m.Response != "":
		fmt.Fprintf(buf, "func (c *%s) %s(%s context.Context) (%s, error) {\n",
			clientName, m.Name, m.CtxParam, m.Response)
		fmt.Fprintf(buf, "\treturn routewire.Get[%s](%s, c.caller, %q)\n",
			m.Response, m.CtxParam, m.Route)
	default:
		fmt.Fprintf(buf, "func (c *%s) %s(%s context.Context) error {\n",
			clientName, m.Name, m.CtxParam)
		fmt.Fprintf(buf, "\treturn routewire.GetVoid(%s, c.caller, %q)\n",
			m.CtxParam, m.Route)
	}
	buf.WriteString("}\n")
}
