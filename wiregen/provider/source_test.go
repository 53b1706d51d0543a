package provider

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/routewire/routewire/wiregen/decl"
)

// writeModule materializes a throwaway module so packages.Load has something
// real to chew on. Keys are slash-separated paths relative to the module root.
func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	t.Setenv("GOWORK", "off")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module test\n\ngo 1.21\n"), 0644); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadServiceAndServer(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"api.go": `package main

import "context"

type NameModel struct {
	Name string
}

//routewire:service
type IHelloService interface {
	SayHelloAsync(name NameModel, ct context.Context) (NameModel, error)
	//routewire:route "s/hello/ping"
	Ping(ctx context.Context) error
}

//routewire:server
type HelloServer struct{}

func (s *HelloServer) SayHelloAsync(name NameModel, ct context.Context) (NameModel, error) {
	return name, nil
}

func (s *HelloServer) Ping(ctx context.Context) error { return nil }

func main() {}
`,
	})

	res, err := Load(dir, ".")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Failed) != 0 {
		t.Fatalf("unexpected failures: %v", res.Failed)
	}
	if len(res.Set.Interfaces) != 1 || len(res.Set.Impls) != 1 {
		t.Fatalf("got %d interfaces / %d impls, want 1/1", len(res.Set.Interfaces), len(res.Set.Impls))
	}

	iface := res.Set.Interfaces[0]
	if iface.Name != "IHelloService" {
		t.Errorf("interface name = %q", iface.Name)
	}
	if _, ok := decl.LookupMarker(iface.Markers, decl.MarkerService); !ok {
		t.Error("service marker not captured")
	}
	if len(iface.Methods) != 2 {
		t.Fatalf("got %d methods, want 2", len(iface.Methods))
	}

	m := iface.Methods[0]
	if m.Name != "SayHelloAsync" {
		t.Errorf("method order: first = %q", m.Name)
	}
	if len(m.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(m.Params))
	}
	if m.Params[0].Name != "name" || m.Params[0].Type.Qualified != "test.NameModel" {
		t.Errorf("data param = %+v", m.Params[0])
	}
	if m.Params[1].Type.Qualified != "context.Context" {
		t.Errorf("last param = %+v", m.Params[1])
	}
	if len(m.Results) != 2 || m.Results[1].Qualified != "error" {
		t.Errorf("results = %+v", m.Results)
	}

	ping := iface.Methods[1]
	route, ok := decl.LookupMarker(ping.Markers, decl.MarkerRoute)
	if !ok {
		t.Fatal("route marker not captured")
	}
	if len(route.Args) != 1 || !route.Args[0].Literal || route.Args[0].Value != "s/hello/ping" {
		t.Errorf("route args = %+v", route.Args)
	}

	impl := res.Set.Impls[0]
	if impl.Name != "HelloServer" {
		t.Errorf("impl name = %q", impl.Name)
	}
	if len(impl.Implements) != 1 || impl.Implements[0] != "test.IHelloService" {
		t.Errorf("Implements = %v", impl.Implements)
	}
}

func TestLoadCrossPackageImplementation(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"api/api.go": `package api

import "context"

type NameModel struct {
	Name string
}

//routewire:service
type IHelloService interface {
	SayHello(name NameModel, ctx context.Context) (NameModel, error)
}
`,
		"srv/srv.go": `package srv

import (
	"context"

	"test/api"
)

//routewire:server
type HelloServer struct{}

func (s *HelloServer) SayHello(name api.NameModel, ctx context.Context) (api.NameModel, error) {
	return name, nil
}
`,
	})

	res, err := Load(dir, "./...")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Failed) != 0 {
		t.Fatalf("unexpected failures: %v", res.Failed)
	}
	if len(res.Set.Impls) != 1 {
		t.Fatalf("got %d impls, want 1", len(res.Set.Impls))
	}

	impl := res.Set.Impls[0]
	if impl.Namespace != "test/srv" {
		t.Errorf("impl namespace = %q", impl.Namespace)
	}
	if len(impl.Implements) != 1 || impl.Implements[0] != "test/api.IHelloService" {
		t.Errorf("Implements = %v, want the api-package interface", impl.Implements)
	}
}

func TestLoadGenericTypeArgumentImports(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"models/models.go": `package models

type Page[T any] struct {
	Items []T
}
`,
		"other/other.go": `package other

type X struct {
	ID int
}
`,
		"api.go": `package main

import (
	"context"

	"test/models"
	"test/other"
)

//routewire:service
type IPageService interface {
	List(req models.Page[other.X], ctx context.Context) error
}

func main() {}
`,
	})

	res, err := Load(dir, ".")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Set.Interfaces) != 1 {
		t.Fatalf("got %d interfaces, want 1", len(res.Set.Interfaces))
	}

	param := res.Set.Interfaces[0].Methods[0].Params[0]
	if param.Type.Expr != "models.Page[other.X]" {
		t.Errorf("Expr = %q", param.Type.Expr)
	}
	if param.Type.ImportPath != "test/models" {
		t.Errorf("ImportPath = %q", param.Type.ImportPath)
	}
	if len(param.Type.TypeArgImports) != 1 || param.Type.TypeArgImports[0] != "test/other" {
		t.Errorf("TypeArgImports = %v, want [test/other]", param.Type.TypeArgImports)
	}
	if got := param.Type.Imports(); len(got) != 2 {
		t.Errorf("Imports() = %v, want both packages", got)
	}
}

func TestLoadNonLiteralRouteArgument(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"api.go": `package main

import "context"

//routewire:service
type IHelloService interface {
	//routewire:route someVariable
	Ping(ctx context.Context) error
}

func main() {}
`,
	})

	res, err := Load(dir, ".")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Set.Interfaces) != 1 {
		t.Fatalf("got %d interfaces, want 1", len(res.Set.Interfaces))
	}

	// The argument survives as a non-literal so validation can reject it
	// with a proper diagnostic instead of a load failure.
	route, ok := decl.LookupMarker(res.Set.Interfaces[0].Methods[0].Markers, decl.MarkerRoute)
	if !ok {
		t.Fatal("route marker not captured")
	}
	if len(route.Args) != 1 || route.Args[0].Literal {
		t.Errorf("route args = %+v, want one non-literal", route.Args)
	}
}

func TestLoadUnknownDirective(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"api.go": `package main

//routewire:servce
type IHelloService interface{}

func main() {}
`,
	})

	res, err := Load(dir, ".")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Failed) != 1 {
		t.Fatalf("failures = %v, want 1", res.Failed)
	}
	if !strings.Contains(res.Failed[0].Error(), "unknown directive //routewire:servce") {
		t.Errorf("failure = %v", res.Failed[0])
	}
	if len(res.Set.Interfaces) != 0 {
		t.Errorf("misdirected declaration still scanned: %+v", res.Set.Interfaces)
	}
}

func TestLoadServiceOnConcreteType(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"api.go": `package main

//routewire:service
type HelloServer struct{}

func main() {}
`,
	})

	res, err := Load(dir, ".")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Failed) != 1 {
		t.Fatalf("failures = %v, want 1", res.Failed)
	}
	if !strings.Contains(res.Failed[0].Error(), "must be on an interface type") {
		t.Errorf("failure = %v", res.Failed[0])
	}
}

func TestLoadBrokenPackageIsolated(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"good/good.go": `package good

import "context"

//routewire:service
type IGoodService interface {
	Ping(ctx context.Context) error
}
`,
		"bad/bad.go": `package bad

//routewire:service
type IBadService interface {
	Ping(ctx NoSuchType) error
}
`,
	})

	res, err := Load(dir, "./...")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// The broken package fails alone; the good one still yields its contract.
	if len(res.Failed) != 1 {
		t.Fatalf("failures = %v, want 1", res.Failed)
	}
	if !strings.Contains(res.Failed[0].Name, "bad") {
		t.Errorf("failure names %q, want the broken package", res.Failed[0].Name)
	}
	if len(res.Set.Interfaces) != 1 || res.Set.Interfaces[0].Name != "IGoodService" {
		t.Errorf("interfaces = %+v, want only IGoodService", res.Set.Interfaces)
	}
}

func TestLoadDeterministicOrder(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"api.go": `package main

import "context"

//routewire:service
type IZebraService interface {
	Ping(ctx context.Context) error
}

//routewire:service
type IAlphaService interface {
	Ping(ctx context.Context) error
}

func main() {}
`,
	})

	res, err := Load(dir, ".")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Set.Interfaces) != 2 {
		t.Fatalf("got %d interfaces, want 2", len(res.Set.Interfaces))
	}
	if res.Set.Interfaces[0].Name != "IAlphaService" || res.Set.Interfaces[1].Name != "IZebraService" {
		t.Errorf("order = %q, %q; want alphabetical", res.Set.Interfaces[0].Name, res.Set.Interfaces[1].Name)
	}
}
