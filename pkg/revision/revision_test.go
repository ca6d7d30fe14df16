package revision

import (
	"testing"

	"github.com/matzehuels/cpkg/pkg/registry"
)

func TestResolve(t *testing.T) {
	pinned := registry.Descriptor{
		Name:     "foo",
		Versions: map[string]string{"v1": "abc123", "latest": "def456"},
	}
	noLatest := registry.Descriptor{
		Name:     "bar",
		Versions: map[string]string{"v1": "abc123"},
	}
	empty := registry.Descriptor{Name: "baz"}

	tests := []struct {
		name      string
		desc      registry.Descriptor
		requested string
		want      string
	}{
		{"exact label", pinned, "v1", "abc123"},
		{"explicit latest", pinned, "latest", "def456"},
		{"absent label falls back to latest", pinned, "v9", "def456"},
		{"empty label means latest", pinned, "", "def456"},
		{"no latest falls back to branch", noLatest, "v2", "main"},
		{"exact label without latest", noLatest, "v1", "abc123"},
		{"empty versions", empty, "latest", "main"},
		{"empty versions any label", empty, "v1", "main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.desc, tt.requested); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.requested, got, tt.want)
			}
		})
	}
}

func TestResolverDefaultBranch(t *testing.T) {
	r := New("master")
	if got := r.Resolve(registry.Descriptor{Name: "x"}, "latest"); got != "master" {
		t.Errorf("Resolve() = %q, want master", got)
	}

	var zero Resolver
	if got := zero.Resolve(registry.Descriptor{Name: "x"}, "latest"); got != "main" {
		t.Errorf("zero Resolver Resolve() = %q, want main", got)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	d := registry.Descriptor{Versions: map[string]string{"a": "1", "b": "2", "latest": "3"}}
	first := Resolve(d, "missing")
	for range 100 {
		if got := Resolve(d, "missing"); got != first {
			t.Fatalf("Resolve() = %q, then %q", first, got)
		}
	}
}
