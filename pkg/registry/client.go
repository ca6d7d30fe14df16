package registry

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cpkg/pkg/config"
	"github.com/matzehuels/cpkg/pkg/errors"
	"github.com/matzehuels/cpkg/pkg/httputil"
	"github.com/matzehuels/cpkg/pkg/observability"
)

// Client fetches and parses the registry document named by the configuration.
// It keeps no state between calls; every LoadCatalog fetches afresh.
type Client struct {
	location string
	http     *http.Client
	backoff  httputil.Backoff
	logger   *log.Logger
}

// NewClient creates a Client for cfg.RegistryLocation using cfg.HTTPTimeout.
// If logger is nil, log.Default() is used.
func NewClient(cfg config.Config, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	c := &Client{
		location: cfg.RegistryLocation,
		http:     httputil.NewClient(cfg.HTTPTimeout),
		backoff:  httputil.DefaultBackoff,
		logger:   logger,
	}
	c.backoff.OnRetry = func(attempt int, err error) {
		c.logger.Warn("registry fetch failed, retrying", "attempt", attempt, "err", err)
	}
	return c
}

// LoadCatalog fetches the registry document and parses it into a Catalog.
//
// It fails with REGISTRY_UNREACHABLE when the document cannot be fetched and
// with REGISTRY_MALFORMED when it cannot be parsed. No partial catalog is
// ever returned.
func (c *Client) LoadCatalog(ctx context.Context) (*Catalog, error) {
	start := time.Now()
	cat, err := c.load(ctx)

	count := 0
	if cat != nil {
		count = cat.Len()
	}
	observability.Install().OnCatalogLoad(ctx, c.location, count, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("loaded catalog", "location", c.location, "packages", count, "duration", time.Since(start))
	for _, w := range cat.Warnings() {
		c.logger.Warn(w)
	}
	return cat, nil
}

func (c *Client) load(ctx context.Context) (*Catalog, error) {
	data, contentType, err := c.fetch(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRegistryUnreachable, err, "fetch registry %s", c.location)
	}
	return Parse(data, DetectFormat(c.location, contentType))
}

func (c *Client) fetch(ctx context.Context) ([]byte, string, error) {
	if isRemote(c.location) {
		var (
			body        []byte
			contentType string
		)
		err := c.backoff.Do(ctx, func() error {
			var err error
			body, contentType, err = httputil.Get(ctx, c.http, c.location)
			return err
		})
		return body, contentType, err
	}

	path, err := localPath(c.location)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	return data, "", err
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "https://") || strings.HasPrefix(location, "http://")
}

func localPath(location string) (string, error) {
	if !strings.HasPrefix(location, "file://") {
		return location, nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return u.Path, nil
}
