// Package observability lets the CLI watch what the library packages do.
//
// The registry client, the HTTP helper and the installer report events
// through the hooks registered here. Until something is registered every
// hook is a no-op, so library code emits events unconditionally.
//
//	observability.Register(observability.Hooks{Install: myInstallHooks})
//
//	observability.Install().OnPackageStart(ctx, "fmt", "latest")
//	observability.Install().OnPackageDone(ctx, observability.PackageEvent{Name: "fmt", ...})
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PackageEvent is the outcome of one package visit.
type PackageEvent struct {
	Name     string
	Version  string
	Revision string // Empty when the package failed before checkout
	Action   string // "cloned", "updated" or empty on failure
	Duration time.Duration
	Err      error
}

// InstallHooks receives events from the registry client and the installer.
type InstallHooks interface {
	// OnCatalogLoad records a finished catalog load, successful or not.
	OnCatalogLoad(ctx context.Context, location string, packages int, duration time.Duration, err error)

	// OnPackageStart records that the installer entered a package.
	OnPackageStart(ctx context.Context, name, version string)

	OnPackageDone(ctx context.Context, ev PackageEvent)
}

// HTTPHooks receives events from registry fetches over HTTP.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, url string)
	OnResponse(ctx context.Context, method, url string, status int, duration time.Duration)
	OnError(ctx context.Context, method, url string, err error)
}

// NoopInstallHooks ignores every event.
type NoopInstallHooks struct{}

func (NoopInstallHooks) OnCatalogLoad(context.Context, string, int, time.Duration, error) {}
func (NoopInstallHooks) OnPackageStart(context.Context, string, string)                   {}
func (NoopInstallHooks) OnPackageDone(context.Context, PackageEvent)                      {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// Hooks is the set of registered hooks. A nil field means no-op.
type Hooks struct {
	Install InstallHooks
	HTTP    HTTPHooks
}

func (h Hooks) withDefaults() *Hooks {
	if h.Install == nil {
		h.Install = NoopInstallHooks{}
	}
	if h.HTTP == nil {
		h.HTTP = NoopHTTPHooks{}
	}
	return &h
}

var current atomic.Pointer[Hooks]

func init() { Reset() }

// Register replaces the registered hooks. Call it before starting work;
// events already in flight may still reach the previous hooks.
func Register(h Hooks) {
	current.Store(h.withDefaults())
}

// Install returns the registered install hooks.
func Install() InstallHooks { return current.Load().Install }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().HTTP }

// Reset restores the no-op hooks.
func Reset() { Register(Hooks{}) }
