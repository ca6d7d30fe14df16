package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cpkg/pkg/observability"
)

// newLogger creates a logger writing to w at the given level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logHooks reports installer and registry fetch events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l}
}

func (h *logHooks) OnCatalogLoad(_ context.Context, location string, packages int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("catalog load failed", "location", location, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("catalog loaded", "location", location, "packages", packages, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnPackageStart(_ context.Context, name, version string) {
	h.logger.Debug("package start", "package", name, "version", version)
}

func (h *logHooks) OnPackageDone(_ context.Context, ev observability.PackageEvent) {
	d := ev.Duration.Round(time.Millisecond)
	if ev.Err != nil {
		h.logger.Debug("package failed", "package", ev.Name, "duration", d)
		return
	}
	h.logger.Debug("package done", "package", ev.Name, "revision", ev.Revision, "action", ev.Action, "duration", d)
}

func (h *logHooks) OnRequest(_ context.Context, method, url string) {
	h.logger.Debug("http request", "method", method, "url", url)
}

func (h *logHooks) OnResponse(_ context.Context, method, url string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "url", url, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, url string, err error) {
	h.logger.Debug("http error", "method", method, "url", url, "err", err)
}
