package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrBodyTooLarge is returned when a response body exceeds MaxBodyBytes.
	ErrBodyTooLarge = errors.New("response body exceeds size limit")

	// ErrInvalidProxy is returned when ProxyURL is neither a socks5:// URL
	// nor a host:port address.
	ErrInvalidProxy = errors.New("invalid proxy address: expected socks5://host:port or host:port")

	// ErrNilURL is returned when Fetch is called without a URL.
	ErrNilURL = errors.New("request URL is nil")

	// ErrNoResponse is returned when the collector finishes without
	// reporting a response or an error.
	ErrNoResponse = errors.New("fetch produced no response")
)

// StatusError reports a non-2xx response when strict status checking is on.
type StatusError struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status code received.
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// checkStatus applies the status policy.
func checkStatus(strict bool, rawURL string, code int) error {
	if !strict || (code >= 200 && code < 300) {
		return nil
	}
	return &StatusError{URL: rawURL, StatusCode: code}
}
