// Package wiregen compiles marked service declarations into a transport
// client and a server route table.
//
// One generation pass is stateless and side-effect-free: it loads the
// declarations, builds one immutable ServiceContract per exposed interface
// and per exposed implementation, and renders both artifacts from those
// snapshots. Identical inputs produce byte-identical artifacts, so the host
// build pipeline can cache on content. Passes over independent declaration
// sets may run concurrently; nothing here is shared.
package wiregen

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/routewire/routewire/wiregen/contract"
	"github.com/routewire/routewire/wiregen/golang"
	"github.com/routewire/routewire/wiregen/provider"
	"github.com/routewire/routewire/wiregen/sink"
)

// Config holds the configuration for one generation pass.
type Config struct {
	// Patterns are Go package patterns to scan for //routewire: markers.
	// Defaults to ["./..."].
	Patterns []string

	// Dir is the working directory for package loading.
	// Empty means the current directory.
	Dir string
}

// Artifact is one generated source file.
type Artifact struct {
	Path    string
	Content []byte
}

// Result of a generation pass. Artifacts and diagnostics accumulate
// independently: an invalid method skips that method, a declaration-level
// hard failure skips that declaration, and everything else still generates.
type Result struct {
	Contracts   []*contract.ServiceContract
	Artifacts   []Artifact
	Diagnostics contract.Diagnostics
}

// Generate runs one pass. The returned error joins declaration-scoped hard
// failures (unresolvable symbols, broken packages); the Result is still
// populated with everything that generated cleanly.
func Generate(cfg *Config) (*Result, error) {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	loaded, err := provider.Load(cfg.Dir, patterns...)
	if err != nil {
		return nil, err
	}

	var hard []error
	for _, f := range loaded.Failed {
		hard = append(hard, f)
	}

	ctx := context.Background()
	memory := sink.NewMemorySink()
	out := &Result{}

	for _, iface := range loaded.Set.Interfaces {
		c := contract.BuildClient(iface)
		out.Contracts = append(out.Contracts, c)
		out.Diagnostics = append(out.Diagnostics, c.Diagnostics...)

		path, content, err := golang.EmitClient(c)
		if err != nil {
			hard = append(hard, fmt.Errorf("client for %s: %w", iface.Qualified(), err))
			continue
		}
		if err := memory.WriteFile(ctx, path, content); err != nil {
			hard = append(hard, err)
		}
	}

	for _, impl := range loaded.Set.Impls {
		c := contract.BuildServer(impl, &loaded.Set)
		out.Contracts = append(out.Contracts, c)
		out.Diagnostics = append(out.Diagnostics, c.Diagnostics...)

		path, content, err := golang.EmitServer(c)
		if err != nil {
			hard = append(hard, fmt.Errorf("server for %s.%s: %w", impl.Namespace, impl.Name, err))
			continue
		}
		if err := memory.WriteFile(ctx, path, content); err != nil {
			hard = append(hard, err)
		}
	}

	files := memory.Files()
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		out.Artifacts = append(out.Artifacts, Artifact{Path: p, Content: files[p]})
	}

	return out, errors.Join(hard...)
}

// WriteTo writes every artifact under dir through a filesystem sink.
func (r *Result) WriteTo(dir string) error {
	fs := sink.NewFilesystemSink(dir)
	ctx := context.Background()
	for _, a := range r.Artifacts {
		if err := fs.WriteFile(ctx, a.Path, a.Content); err != nil {
			return err
		}
	}
	return nil
}
