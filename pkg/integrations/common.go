package integrations

import (
	"errors"
	"net/http"
	"time"
)

const httpTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when the remote resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with the standard timeout for
// nomenclature downloads.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
