package depgraph

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/cpkg/pkg/errors"
	"github.com/matzehuels/cpkg/pkg/registry"
)

func desc(name string, deps ...string) registry.Descriptor {
	return registry.Descriptor{
		Name:         name,
		URL:          "https://example.com/" + name + ".git",
		Versions:     map[string]string{"latest": name + "-head"},
		Dependencies: deps,
	}
}

func ids(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		catalog   *registry.Catalog
		root      string
		wantNodes []string
		wantEdges int
		missing   []string
	}{
		{
			name:      "single",
			catalog:   registry.NewCatalog(desc("fmt")),
			root:      "fmt",
			wantNodes: []string{"fmt"},
		},
		{
			name:      "chain",
			catalog:   registry.NewCatalog(desc("foo", "bar"), desc("bar")),
			root:      "foo",
			wantNodes: []string{"bar", "foo"},
			wantEdges: 1,
		},
		{
			name: "diamond",
			catalog: registry.NewCatalog(
				desc("app", "left", "right"), desc("left", "base"), desc("right", "base"), desc("base"),
			),
			root:      "app",
			wantNodes: []string{"base", "left", "right", "app"},
			wantEdges: 4,
		},
		{
			name:      "cycle",
			catalog:   registry.NewCatalog(desc("a", "b"), desc("b", "a")),
			root:      "a",
			wantNodes: []string{"b", "a"},
			wantEdges: 2,
		},
		{
			name:      "missing dependency",
			catalog:   registry.NewCatalog(desc("app", "ghost", "fmt"), desc("fmt")),
			root:      "app",
			wantNodes: []string{"ghost", "fmt", "app"},
			wantEdges: 2,
			missing:   []string{"ghost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.catalog, tt.root)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got := ids(g.Nodes()); !slices.Equal(got, tt.wantNodes) {
				t.Errorf("Nodes() = %v, want %v", got, tt.wantNodes)
			}
			if len(g.Edges()) != tt.wantEdges {
				t.Errorf("Edges() = %v, want %d edges", g.Edges(), tt.wantEdges)
			}
			if !slices.Equal(g.Missing(), tt.missing) {
				t.Errorf("Missing() = %v, want %v", g.Missing(), tt.missing)
			}
		})
	}
}

func TestBuildUnknownRoot(t *testing.T) {
	_, err := Build(registry.NewCatalog(desc("fmt")), "ghost")
	if !errors.Is(err, errors.ErrCodeUnknownPackage) {
		t.Errorf("err = %v, want %v", err, errors.ErrCodeUnknownPackage)
	}
}

func TestToDOT(t *testing.T) {
	g, err := Build(registry.NewCatalog(desc("app", "fmt", "ghost"), desc("fmt")), "app")
	if err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(g, Options{Detailed: true})

	for _, want := range []string{
		"digraph G {",
		`"app" -> "fmt";`,
		`"app" -> "ghost";`,
		`label="fmt\nfmt-head"`,
		"penwidth=2",
		"color=red",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	plain := ToDOT(g, Options{})
	if strings.Contains(plain, "fmt-head") {
		t.Error("non-detailed DOT should not include revisions")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping graphviz render in short mode")
	}
	g, err := Build(registry.NewCatalog(desc("foo", "bar"), desc("bar")), "foo")
	if err != nil {
		t.Fatal(err)
	}

	svg, err := RenderSVG(context.Background(), ToDOT(g, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("output is not SVG: %.80s", svg)
	}
}

func ExampleBuild() {
	cat := registry.NewCatalog(desc("foo", "bar"), desc("bar"))
	g, _ := Build(cat, "foo")
	for _, e := range g.Edges() {
		fmt.Printf("%s -> %s\n", e.From, e.To)
	}
	fmt.Println(ids(g.Nodes()))
	// Output:
	// foo -> bar
	// [bar foo]
}
