// Package cmake links installed packages into a CMakeLists.txt.
//
// Integration is append-only: for every package a block is added to the end
// of the build file that pulls in the package's source tree and links it
// against the project's first executable target.
//
//	# Added by cpkg: fmt
//	add_subdirectory(libs/fmt)
//	target_link_libraries(app PRIVATE fmt)
//
// The file is never rewritten. A package whose add_subdirectory directive is
// already present is skipped.
package cmake

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matzehuels/cpkg/pkg/config"
	"github.com/matzehuels/cpkg/pkg/errors"
)

// Marker prefixes the comment line of every appended block.
const Marker = "# Added by cpkg:"

var executableRe = regexp.MustCompile(`add_executable\s*\(\s*(\w+)`)

// File is a CMake build file plus the vendor directory its blocks refer to.
type File struct {
	Path      string // Build file location
	VendorDir string // Vendor root as written into add_subdirectory, slash separated
}

// New returns the build file configured in cfg.
func New(cfg config.Config) *File {
	return &File{
		Path:      cfg.BuildDescriptorPath,
		VendorDir: vendorDir(cfg.BuildDescriptorPath, cfg.VendorRoot),
	}
}

// DetectPrimaryTarget returns the name of the first add_executable target.
// A missing file or a file without executables yields a
// BUILD_INTEGRATION_SKIPPED error.
func (f *File) DetectPrimaryTarget() (string, error) {
	content, err := f.read()
	if err != nil {
		return "", err
	}
	return PrimaryTarget(content)
}

// Integrate appends the block linking name into target.
func (f *File) Integrate(name, target string) error {
	if target == "" {
		return errors.New(errors.ErrCodeBuildIntegrationSkipped, "no target to link %s into", name)
	}
	content, err := f.read()
	if err != nil {
		return err
	}
	if Integrated(content, f.subdir(name)) {
		return errors.New(errors.ErrCodeBuildIntegrationSkipped, "%s is already integrated in %s", name, f.Path)
	}

	file, err := os.OpenFile(f.Path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer file.Close()

	if _, err := file.WriteString(Block(name, f.subdir(name), target)); err != nil {
		return fmt.Errorf("append to %s: %w", f.Path, err)
	}
	return file.Close()
}

func (f *File) subdir(name string) string {
	return f.VendorDir + "/" + name
}

func (f *File) read() (string, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return "", errors.New(errors.ErrCodeBuildIntegrationSkipped, "%s not found", f.Path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Path, err)
	}
	return string(data), nil
}

// PrimaryTarget returns the first add_executable target declared in content.
func PrimaryTarget(content string) (string, error) {
	m := executableRe.FindStringSubmatch(content)
	if m == nil {
		return "", errors.New(errors.ErrCodeBuildIntegrationSkipped, "no add_executable target found")
	}
	return m[1], nil
}

// Integrated reports whether content already has an add_subdirectory
// directive for subdir. Whitespace inside the parentheses is ignored.
func Integrated(content, subdir string) bool {
	re := regexp.MustCompile(`add_subdirectory\s*\(\s*` + regexp.QuoteMeta(subdir) + `[\s)]`)
	return re.MatchString(content)
}

// Block renders the appended integration block.
func Block(name, subdir, target string) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", Marker, name)
	fmt.Fprintf(&b, "add_subdirectory(%s)\n", subdir)
	fmt.Fprintf(&b, "target_link_libraries(%s PRIVATE %s)\n", target, name)
	return b.String()
}

// vendorDir expresses vendorRoot relative to the build file's directory,
// which is how CMake resolves add_subdirectory paths.
func vendorDir(buildFile, vendorRoot string) string {
	dir, err1 := filepath.Abs(filepath.Dir(buildFile))
	root, err2 := filepath.Abs(vendorRoot)
	if err1 == nil && err2 == nil {
		if rel, err := filepath.Rel(dir, root); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Clean(vendorRoot))
}
