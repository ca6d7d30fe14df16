package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/cpkg/pkg/buildinfo"
	"github.com/matzehuels/cpkg/pkg/observability"
)

// maxBodySize bounds how much of a response body is read into memory.
var maxBodySize = 32 << 20

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures and unexpected status codes.
	ErrNetwork = errors.New("network error")

	// ErrTooLarge is returned when a response body exceeds the read limit.
	ErrTooLarge = errors.New("response too large")
)

// NewClient returns an HTTP client with the given timeout. A zero timeout
// means requests never time out on their own; the context still applies.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Get performs a GET request and returns the response body and its
// Content-Type header. Transport errors and 5xx responses come back wrapped
// as [Transient].
func Get(ctx context.Context, client *http.Client, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set("Accept", "application/json, application/yaml, application/toml;q=0.9, */*;q=0.5")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, url)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, url, err)
		return nil, "", Transient(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, url, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, "", err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxBodySize)+1))
	if err != nil {
		return nil, "", Transient(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	if len(body) > maxBodySize {
		return nil, "", fmt.Errorf("%w: body exceeds %d bytes", ErrTooLarge, maxBodySize)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return Transient(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
