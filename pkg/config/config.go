// Package config holds the explicit configuration value that is passed to the
// registry client and the installer at construction time.
//
// Configuration is layered. Later layers override earlier ones:
//
//  1. Built-in defaults ([Default])
//  2. The project file, cpkg.toml, decoded with BurntSushi/toml
//  3. Environment variables (CPKG_REGISTRY, CPKG_VENDOR_DIR, CPKG_BUILD_FILE)
//  4. Command-line flags, applied by the CLI through [Config.Override]
//
// Example cpkg.toml:
//
//	registry = "https://example.com/packages.json"
//	vendor_dir = "third_party"
//	build_file = "CMakeLists.txt"
//	default_branch = "master"
//	http_timeout = "10s"
package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cpkg/pkg/errors"
)

// FileName is the project configuration file looked up in the working directory.
const FileName = "cpkg.toml"

const (
	DefaultRegistry    = "https://raw.githubusercontent.com/cpkg-dev/registry/main/packages.json"
	DefaultVendorRoot  = "libs"
	DefaultBuildFile   = "CMakeLists.txt"
	DefaultBranch      = "main"
	DefaultHTTPTimeout = 30 * time.Second
	envRegistry        = "CPKG_REGISTRY"
	envVendorRoot      = "CPKG_VENDOR_DIR"
	envBuildDescriptor = "CPKG_BUILD_FILE"
)

// Config is the resolved configuration for one cpkg invocation.
type Config struct {
	RegistryLocation    string        // URL or filesystem path of the package manifest
	VendorRoot          string        // Directory holding one working copy per package
	BuildDescriptorPath string        // Build file patched on install
	DefaultBranch       string        // Revision used when a package has no "latest" entry
	HTTPTimeout         time.Duration // Registry fetch timeout; 0 disables it
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RegistryLocation:    DefaultRegistry,
		VendorRoot:          DefaultVendorRoot,
		BuildDescriptorPath: DefaultBuildFile,
		DefaultBranch:       DefaultBranch,
		HTTPTimeout:         DefaultHTTPTimeout,
	}
}

type fileConfig struct {
	Registry      string `toml:"registry"`
	VendorDir     string `toml:"vendor_dir"`
	BuildFile     string `toml:"build_file"`
	DefaultBranch string `toml:"default_branch"`
	HTTPTimeout   string `toml:"http_timeout"`
}

// Load builds a Config from defaults, the TOML file at path and the environment.
// A missing file is not an error; an unreadable or invalid one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.mergeEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	var fc fileConfig
	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	c.Override(fc.Registry, fc.VendorDir, fc.BuildFile)
	if fc.DefaultBranch != "" {
		c.DefaultBranch = fc.DefaultBranch
	}
	if fc.HTTPTimeout != "" {
		d, err := time.ParseDuration(fc.HTTPTimeout)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: http_timeout", path)
		}
		c.HTTPTimeout = d
	}
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) {
	c.Override(getenv(envRegistry), getenv(envVendorRoot), getenv(envBuildDescriptor))
}

// Override replaces the three recognized locations with any non-empty argument.
func (c *Config) Override(registry, vendorRoot, buildFile string) {
	if registry != "" {
		c.RegistryLocation = registry
	}
	if vendorRoot != "" {
		c.VendorRoot = vendorRoot
	}
	if buildFile != "" {
		c.BuildDescriptorPath = buildFile
	}
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.RegistryLocation) == "":
		return errors.New(errors.ErrCodeInvalidConfig, "registry location cannot be empty")
	case strings.TrimSpace(c.VendorRoot) == "":
		return errors.New(errors.ErrCodeInvalidConfig, "vendor root cannot be empty")
	case strings.TrimSpace(c.BuildDescriptorPath) == "":
		return errors.New(errors.ErrCodeInvalidConfig, "build file cannot be empty")
	case c.HTTPTimeout < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "http timeout cannot be negative")
	}
	if err := errors.ValidateRevision(c.DefaultBranch); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "default branch")
	}
	return nil
}
