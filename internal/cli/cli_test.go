package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cpkg/pkg/errors"
	"github.com/matzehuels/cpkg/pkg/observability"
	"github.com/matzehuels/cpkg/pkg/registry"
)

func newTestCLI() *CLI {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.SetOutput(&bytes.Buffer{})
	return c
}

func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	t.Cleanup(observability.Reset)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newTestCLI().RootCommand()

	for _, name := range []string{"install", "update", "list", "graph", "browse", "completion"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "registry", "vendor-dir", "build-file"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"install without package", []string{"install"}, errors.ErrCodeInvalidInput},
		{"install too many args", []string{"install", "a", "b", "c"}, errors.ErrCodeInvalidInput},
		{"update without package", []string{"update"}, errors.ErrCodeInvalidInput},
		{"list with args", []string{"list", "extra"}, errors.ErrCodeInvalidInput},
		{"path traversal", []string{"install", "../etc"}, errors.ErrCodeInvalidPackage},
		{"option-like version", []string{"install", "fmt", "--", "-x"}, errors.ErrCodeInvalidInput},
		{"graph bad format", []string{"graph", "fmt", "--format", "png"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, newTestCLI(), tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestPackageArgs(t *testing.T) {
	name, version, err := packageArgs([]string{"fmt"})
	if err != nil || name != "fmt" || version != registry.LatestLabel {
		t.Errorf("packageArgs([fmt]) = %q, %q, %v", name, version, err)
	}
	name, version, err = packageArgs([]string{"fmt", "v10"})
	if err != nil || name != "fmt" || version != "v10" {
		t.Errorf("packageArgs([fmt v10]) = %q, %q, %v", name, version, err)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "cpkg.toml")
	content := "registry = \"from-file.json\"\nvendor_dir = \"third_party\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CPKG_VENDOR_DIR", "from-env")

	c := newTestCLI()
	root := c.RootCommand()
	if err := root.PersistentFlags().Parse([]string{"--config", cfgPath, "--build-file", "app/CMakeLists.txt"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.RegistryLocation != "from-file.json" {
		t.Errorf("RegistryLocation = %q, want from file", cfg.RegistryLocation)
	}
	if cfg.VendorRoot != "from-env" {
		t.Errorf("VendorRoot = %q, want env to override file", cfg.VendorRoot)
	}
	if cfg.BuildDescriptorPath != "app/CMakeLists.txt" {
		t.Errorf("BuildDescriptorPath = %q, want flag value", cfg.BuildDescriptorPath)
	}
}

func TestRegistryErrorsAreFatal(t *testing.T) {
	dir := t.TempDir()
	malformed := filepath.Join(dir, "packages.json")
	if err := os.WriteFile(malformed, []byte(`{"fmt": 42}`), 0o644); err != nil {
		t.Fatal(err)
	}
	vendor := filepath.Join(dir, "libs")

	tests := []struct {
		name     string
		registry string
		code     errors.Code
	}{
		{"missing file", filepath.Join(dir, "nope.json"), errors.ErrCodeRegistryUnreachable},
		{"malformed", malformed, errors.ErrCodeRegistryMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, newTestCLI(), "install", "fmt",
				"--config", filepath.Join(dir, "none.toml"),
				"--registry", tt.registry,
				"--vendor-dir", vendor)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %v", err, tt.code)
			}
			if _, err := os.Stat(vendor); !os.IsNotExist(err) {
				t.Error("vendor dir must not be created on registry failure")
			}
		})
	}
}

// =============================================================================
// End to end
// =============================================================================

// project is a temporary CMake project with a registry of local git repos.
type project struct {
	dir      string
	registry string
	vendor   string
	build    string
}

func (p project) flags() []string {
	return []string{
		"--config", filepath.Join(p.dir, "cpkg.toml"),
		"--registry", p.registry,
		"--vendor-dir", p.vendor,
		"--build-file", p.build,
	}
}

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	if out, err := exec.Command("git", args...).CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

// bareRepo creates a bare repository on branch main holding a CMake library.
func bareRepo(t *testing.T, root, name string) string {
	t.Helper()
	work := filepath.Join(root, "src", name)
	bare := filepath.Join(root, "remotes", name+".git")

	gitRun(t, "", "init", "--quiet", work)
	gitRun(t, work, "symbolic-ref", "HEAD", "refs/heads/main")
	gitRun(t, work, "config", "user.email", "test@test.com")
	gitRun(t, work, "config", "user.name", "Test")
	lib := fmt.Sprintf("add_library(%s %s.cpp)\n", name, name)
	if err := os.WriteFile(filepath.Join(work, "CMakeLists.txt"), []byte(lib), 0o644); err != nil {
		t.Fatal(err)
	}
	gitRun(t, work, "add", ".")
	gitRun(t, work, "commit", "--quiet", "-m", "initial")
	gitRun(t, "", "clone", "--quiet", "--bare", work, bare)
	return bare
}

func setupProject(t *testing.T) project {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
	if testing.Short() {
		t.Skip("skipping git test in short mode")
	}

	dir := t.TempDir()
	p := project{
		dir:      dir,
		registry: filepath.Join(dir, "packages.json"),
		vendor:   filepath.Join(dir, "libs"),
		build:    filepath.Join(dir, "CMakeLists.txt"),
	}

	doc := fmt.Sprintf(`{
  "foo": {"url": %q, "description": "Foo library", "versions": {"latest": "main"}, "dependencies": ["bar"]},
  "bar": {"url": %q, "description": "Bar library", "versions": {"latest": "main"}}
}`, bareRepo(t, dir, "foo"), bareRepo(t, dir, "bar"))
	if err := os.WriteFile(p.registry, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cmake := "cmake_minimum_required(VERSION 3.16)\nproject(demo)\nadd_executable(app main.cpp)\n"
	if err := os.WriteFile(p.build, []byte(cmake), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestInstallEndToEnd(t *testing.T) {
	p := setupProject(t)

	var out bytes.Buffer
	c := newTestCLI()
	c.SetOutput(&out)
	if err := execute(t, c, append([]string{"install", "foo"}, p.flags()...)...); err != nil {
		t.Fatalf("install: %v", err)
	}
	if !strings.Contains(out.String(), "Installed 2 package(s)") {
		t.Errorf("missing summary line:\n%s", out.String())
	}

	for _, name := range []string{"foo", "bar"} {
		if _, err := os.Stat(filepath.Join(p.vendor, name, "CMakeLists.txt")); err != nil {
			t.Errorf("%s not checked out: %v", name, err)
		}
	}

	data, err := os.ReadFile(p.build)
	if err != nil {
		t.Fatal(err)
	}
	build := string(data)
	barAt := strings.Index(build, "add_subdirectory(libs/bar)")
	fooAt := strings.Index(build, "add_subdirectory(libs/foo)")
	if barAt < 0 || fooAt < 0 || barAt > fooAt {
		t.Errorf("build file should integrate bar before foo:\n%s", build)
	}
	if !strings.Contains(build, "target_link_libraries(app PRIVATE foo)") {
		t.Errorf("foo not linked into app:\n%s", build)
	}

	// A second install converges without duplicating the build blocks.
	if err := execute(t, newTestCLI(), append([]string{"install", "foo"}, p.flags()...)...); err != nil {
		t.Fatalf("second install: %v", err)
	}
	again, _ := os.ReadFile(p.build)
	if string(again) != build {
		t.Errorf("second install changed the build file:\n%s", again)
	}
}

func TestInstallUnknownPackage(t *testing.T) {
	p := setupProject(t)

	var out bytes.Buffer
	c := newTestCLI()
	c.SetOutput(&out)
	err := execute(t, c, append([]string{"install", "fo"}, p.flags()...)...)
	if !errors.Is(err, errors.ErrCodeUnknownPackage) {
		t.Errorf("err = %v, want %v", err, errors.ErrCodeUnknownPackage)
	}
	if !strings.Contains(out.String(), "Did you mean") || !strings.Contains(out.String(), "foo") {
		t.Errorf("missing suggestion:\n%s", out.String())
	}
	if _, err := os.Stat(p.vendor); !os.IsNotExist(err) {
		t.Error("vendor dir must not be created for an unknown package")
	}
}

func TestUpdate(t *testing.T) {
	p := setupProject(t)

	err := execute(t, newTestCLI(), append([]string{"update", "bar"}, p.flags()...)...)
	if !errors.Is(err, errors.ErrCodeNotInstalled) {
		t.Fatalf("update before install: err = %v, want %v", err, errors.ErrCodeNotInstalled)
	}

	if err := execute(t, newTestCLI(), append([]string{"install", "bar"}, p.flags()...)...); err != nil {
		t.Fatalf("install: %v", err)
	}
	if err := execute(t, newTestCLI(), append([]string{"update", "bar"}, p.flags()...)...); err != nil {
		t.Errorf("update: %v", err)
	}
}

func TestGraphCommandWritesDOT(t *testing.T) {
	p := setupProject(t)
	out := filepath.Join(p.dir, "foo.dot")

	args := append([]string{"graph", "foo", "-o", out}, p.flags()...)
	if err := execute(t, newTestCLI(), args...); err != nil {
		t.Fatalf("graph: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"foo" -> "bar";`) {
		t.Errorf("DOT output missing edge:\n%s", data)
	}
}

func TestCompletePackages(t *testing.T) {
	dir := t.TempDir()
	reg := filepath.Join(dir, "packages.yaml")
	doc := "fmt:\n  url: https://example.com/fmt.git\n  description: Formatting\nspdlog:\n  url: https://example.com/spdlog.git\n"
	if err := os.WriteFile(reg, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCLI()
	root := c.RootCommand()
	if err := root.PersistentFlags().Parse([]string{"--config", filepath.Join(dir, "none.toml"), "--registry", reg}); err != nil {
		t.Fatal(err)
	}
	root.SetContext(context.Background())

	got, _ := c.completePackages(root, nil, "")
	want := []string{"fmt\tFormatting", "spdlog"}
	if len(got) != len(want) {
		t.Fatalf("completions = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("completion[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got, _ := c.completePackages(root, []string{"fmt"}, ""); len(got) != 0 {
		t.Errorf("second argument should not complete, got %q", got)
	}
}
