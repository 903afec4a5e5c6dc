package fetch

import "time"

const (
	// DefaultUserAgent is sent when Options.UserAgent is empty.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

	// DefaultTimeout bounds a single request including the body read.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodyBytes caps the size of a response body.
	DefaultMaxBodyBytes = 10 * 1024 * 1024 // 10MB

	// maxRedirects stops redirect loops.
	maxRedirects = 10
)

// Options controls how pages are fetched.
type Options struct {
	// UserAgent is the User-Agent header value.
	UserAgent string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// MaxBodyBytes limits how much of a body is read.
	MaxBodyBytes int64

	// Headers are added to every request.
	Headers map[string]string

	// Cookie is a raw Cookie header value added to every request,
	// e.g. "session=abc123".
	Cookie string

	// ProxyURL is an optional SOCKS5 proxy.
	ProxyURL string

	// StrictStatus turns non-2xx responses into *StatusError.
	StrictStatus bool
}

// withDefaults fills zero values.
func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	headers := make(map[string]string, len(o.Headers))
	for k, v := range o.Headers {
		headers[k] = v
	}
	o.Headers = headers
	return o
}
