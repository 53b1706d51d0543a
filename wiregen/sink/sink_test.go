package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestFilesystemSinkWriteFile(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemSink(dir)

	if err := s.WriteFile(context.Background(), "api/gen_client.go", []byte("package api\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "api", "gen_client.go"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "package api\n" {
		t.Errorf("content = %q", got)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "api"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".routewire-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFilesystemSinkOverwrite(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemSink(dir)
	ctx := context.Background()

	if err := s.WriteFile(ctx, "out.go", []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteFile(ctx, "out.go", []byte("second")); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "out.go"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}
}

func TestFilesystemSinkRejectsEscapingPaths(t *testing.T) {
	s := NewFilesystemSink(t.TempDir())
	ctx := context.Background()

	for _, path := range []string{
		"../outside.go",
		"a/../../outside.go",
		"/etc/passwd",
		"",
	} {
		if err := s.WriteFile(ctx, path, []byte("x")); err == nil {
			t.Errorf("WriteFile(%q) succeeded, want error", path)
		}
	}
}

func TestFilesystemSinkCanceledContext(t *testing.T) {
	s := NewFilesystemSink(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.WriteFile(ctx, "out.go", []byte("x")); err == nil {
		t.Error("WriteFile with canceled context succeeded, want error")
	}
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()

	if err := s.WriteFile(ctx, "a.go", []byte("alpha")); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteFile(ctx, "b.go", []byte("beta")); err != nil {
		t.Fatal(err)
	}

	if got := s.Get("a.go"); string(got) != "alpha" {
		t.Errorf("Get(a.go) = %q", got)
	}
	if got := s.Get("missing.go"); got != nil {
		t.Errorf("Get(missing.go) = %q, want nil", got)
	}

	files := s.Files()
	if len(files) != 2 {
		t.Fatalf("Files() has %d entries, want 2", len(files))
	}

	// Mutating a returned copy must not affect the stored content.
	files["a.go"][0] = 'X'
	if got := s.Get("a.go"); string(got) != "alpha" {
		t.Errorf("stored content mutated: %q", got)
	}
}

func TestMemorySinkConcurrent(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WriteFile(ctx, "same.go", []byte("content"))
			_ = s.Get("same.go")
		}()
	}
	wg.Wait()

	if got := s.Get("same.go"); string(got) != "content" {
		t.Errorf("Get = %q", got)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"a.go", false},
		{"api/a.go", false},
		{"", true},
		{"/abs/a.go", true},
		{"C:\\win\\a.go", true},
		{"../a.go", true},
		{"api/../a.go", true},
		{"./a.go", true},
	}

	for _, tt := range tests {
		err := ValidatePath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}
