package registry_test

import (
	"errors"
	"testing"

	"github.com/careloop/mcp-gateway/internal/registry"
)

func TestResolve_KnownTool(t *testing.T) {
	reg := registry.New(map[string]string{
		"resume-writer": "https://tools.example/resume",
	})

	base, err := reg.Resolve("resume-writer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base != "https://tools.example/resume" {
		t.Errorf("unexpected base url: %s", base)
	}
}

func TestResolve_TrailingSlashNormalized(t *testing.T) {
	reg := registry.New(map[string]string{
		"intake": "https://tools.example/intake/",
	})

	base, err := reg.Resolve("intake")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base != "https://tools.example/intake" {
		t.Errorf("expected trailing slash stripped, got %s", base)
	}
}

func TestResolve_UnknownTool(t *testing.T) {
	reg := registry.New(map[string]string{
		"resume-writer": "https://tools.example/resume",
	})

	// Repeated lookups yield the same outcome.
	for i := 0; i < 3; i++ {
		_, err := reg.Resolve("nonexistent-tool")
		if !errors.Is(err, registry.ErrUnknownTool) {
			t.Fatalf("expected ErrUnknownTool, got %v", err)
		}
	}
}

func TestTools_SortedListing(t *testing.T) {
	reg := registry.New(map[string]string{
		"resume-writer": "https://tools.example/resume",
		"intake":        "https://tools.example/intake",
		"case-notes":    "https://tools.example/notes",
	})

	got := reg.Tools()
	want := []string{"case-notes", "intake", "resume-writer"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tools, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}

func TestResolve_EmptyRegistry(t *testing.T) {
	reg := registry.New(nil)

	_, err := reg.Resolve("anything")
	if !errors.Is(err, registry.ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}
