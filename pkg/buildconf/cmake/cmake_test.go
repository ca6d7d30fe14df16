package cmake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cpkg/pkg/config"
	"github.com/matzehuels/cpkg/pkg/errors"
)

const project = `cmake_minimum_required(VERSION 3.16)
project(demo CXX)

add_executable( app main.cpp)
add_executable(tool tool.cpp)
`

func writeProject(t *testing.T, content string) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.BuildDescriptorPath = filepath.Join(dir, "CMakeLists.txt")
	cfg.VendorRoot = filepath.Join(dir, "libs")
	if content != "" {
		if err := os.WriteFile(cfg.BuildDescriptorPath, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return cfg
}

func TestPrimaryTarget(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		skipped bool
	}{
		{"simple", "add_executable(app main.cpp)", "app", false},
		{"whitespace", "add_executable  (\n  my_app\n  main.cpp)", "my_app", false},
		{"first wins", project, "app", false},
		{"library only", "add_library(core core.cpp)", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PrimaryTarget(tt.content)
			if tt.skipped {
				if !errors.Is(err, errors.ErrCodeBuildIntegrationSkipped) {
					t.Errorf("err = %v, want %v", err, errors.ErrCodeBuildIntegrationSkipped)
				}
				return
			}
			if err != nil {
				t.Fatalf("PrimaryTarget: %v", err)
			}
			if got != tt.want {
				t.Errorf("PrimaryTarget() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIntegrateAppendsBlock(t *testing.T) {
	cfg := writeProject(t, project)
	f := New(cfg)

	target, err := f.DetectPrimaryTarget()
	if err != nil {
		t.Fatalf("DetectPrimaryTarget: %v", err)
	}
	if err := f.Integrate("fmt", target); err != nil {
		t.Fatalf("Integrate: %v", err)
	}

	data, err := os.ReadFile(cfg.BuildDescriptorPath)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.HasPrefix(got, project) {
		t.Error("existing content must be preserved")
	}
	want := "\n# Added by cpkg: fmt\nadd_subdirectory(libs/fmt)\ntarget_link_libraries(app PRIVATE fmt)\n"
	if !strings.HasSuffix(got, want) {
		t.Errorf("appended block mismatch:\n%s", got[len(project):])
	}
}

func TestIntegrateDuplicateGuard(t *testing.T) {
	cfg := writeProject(t, project)
	f := New(cfg)

	if err := f.Integrate("fmt", "app"); err != nil {
		t.Fatalf("first Integrate: %v", err)
	}
	before, _ := os.ReadFile(cfg.BuildDescriptorPath)

	err := f.Integrate("fmt", "app")
	if !errors.Is(err, errors.ErrCodeBuildIntegrationSkipped) {
		t.Fatalf("second Integrate err = %v, want skip", err)
	}
	after, _ := os.ReadFile(cfg.BuildDescriptorPath)
	if string(before) != string(after) {
		t.Error("build file changed on duplicate integration")
	}

	// A package whose name is a prefix of an integrated one is still added.
	if err := f.Integrate("fm", "app"); err != nil {
		t.Errorf("Integrate(fm): %v", err)
	}
}

func TestIntegrated(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"add_subdirectory(libs/fmt)", true},
		{"add_subdirectory( libs/fmt )", true},
		{"add_subdirectory(libs/fmt EXCLUDE_FROM_ALL)", true},
		{"add_subdirectory(libs/fmtlib)", false},
		{"add_subdirectory(other/fmt)", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Integrated(tt.content, "libs/fmt"); got != tt.want {
			t.Errorf("Integrated(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestSkips(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		f := New(writeProject(t, ""))
		if _, err := f.DetectPrimaryTarget(); !errors.Is(err, errors.ErrCodeBuildIntegrationSkipped) {
			t.Errorf("DetectPrimaryTarget err = %v", err)
		}
		if err := f.Integrate("fmt", "app"); !errors.Is(err, errors.ErrCodeBuildIntegrationSkipped) {
			t.Errorf("Integrate err = %v", err)
		}
	})

	t.Run("empty target", func(t *testing.T) {
		f := New(writeProject(t, project))
		if err := f.Integrate("fmt", ""); !errors.Is(err, errors.ErrCodeBuildIntegrationSkipped) {
			t.Errorf("Integrate err = %v", err)
		}
	})
}

func TestVendorDirRelativeToBuildFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		buildFile, vendorRoot, want string
	}{
		{filepath.Join(dir, "CMakeLists.txt"), filepath.Join(dir, "libs"), "libs"},
		{filepath.Join(dir, "app", "CMakeLists.txt"), filepath.Join(dir, "third_party"), "../third_party"},
		{filepath.Join(dir, "CMakeLists.txt"), filepath.Join(dir, "deps", "src"), "deps/src"},
	}
	for _, tt := range tests {
		if got := vendorDir(tt.buildFile, tt.vendorRoot); got != tt.want {
			t.Errorf("vendorDir(%s, %s) = %q, want %q", tt.buildFile, tt.vendorRoot, got, tt.want)
		}
	}
}

func ExampleBlock() {
	fmt.Print(Block("fmt", "libs/fmt", "app"))
	// Output:
	//
	// # Added by cpkg: fmt
	// add_subdirectory(libs/fmt)
	// target_link_libraries(app PRIVATE fmt)
}
