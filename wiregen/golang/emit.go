// Package golang renders Go source artifacts from service contracts.
//
// Both emitters consume the same ServiceContract value and copy its route
// strings verbatim; the verb is decided by the same Request-presence test in
// both files. That shared snapshot is the whole parity story: neither emitter
// re-derives names or routes.
package golang

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"
)

// runtimeImport is the package generated artifacts call into.
const runtimeImport = "github.com/routewire/routewire"

// FileName returns the artifact path for a declaration:
// "{namespace}_{name}.go" with the namespace sanitized to an identifier.
func FileName(namespace, name string) string {
	return sanitize(namespace) + "_" + name + ".go"
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func writeHeader(buf *bytes.Buffer, pkgName string) {
	buf.WriteString("// Code generated by routewire. DO NOT EDIT.\n\n")
	fmt.Fprintf(buf, "package %s\n\n", pkgName)
}

// writeImports emits one import block: stdlib paths first, then a blank line,
// then the rest, each group sorted.
func writeImports(buf *bytes.Buffer, paths []string) {
	if len(paths) == 0 {
		return
	}

	seen := make(map[string]bool)
	var std, rest []string
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		if strings.Contains(strings.SplitN(p, "/", 2)[0], ".") {
			rest = append(rest, p)
		} else {
			std = append(std, p)
		}
	}
	sort.Strings(std)
	sort.Strings(rest)

	buf.WriteString("import (\n")
	for _, p := range std {
		fmt.Fprintf(buf, "\t%q\n", p)
	}
	if len(std) > 0 && len(rest) > 0 {
		buf.WriteString("\n")
	}
	for _, p := range rest {
		fmt.Fprintf(buf, "\t%q\n", p)
	}
	buf.WriteString(")\n\n")
}

// gofmt formats an emitted artifact. A formatting failure means the emitter
// produced invalid Go, which is a bug, not a user error.
func gofmt(name string, buf *bytes.Buffer) ([]byte, error) {
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", name, err)
	}
	return src, nil
}
