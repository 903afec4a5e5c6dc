package fetch

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/andybalholm/brotli"
)

// HTTPFetcher fetches pages with net/http.
type HTTPFetcher struct {
	client *http.Client
	opts   Options
}

// NewHTTPFetcher creates an HTTPFetcher.
// It fails only when the proxy address is invalid.
func NewHTTPFetcher(opts Options) (*HTTPFetcher, error) {
	opts = opts.withDefaults()

	transport, err := newTransport(opts.ProxyURL)
	if err != nil {
		return nil, err
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	client := &http.Client{
		Transport:     transport,
		Timeout:       opts.Timeout,
		Jar:           jar,
		CheckRedirect: checkRedirect,
	}

	return NewHTTPFetcherWithClient(client, opts), nil
}

// NewHTTPFetcherWithClient creates an HTTPFetcher that sends requests with a
// copy of client, adding header and cookie injection to its transport.
// Options.ProxyURL is not applied; the client's transport is used as is.
func NewHTTPFetcherWithClient(client *http.Client, opts Options) *HTTPFetcher {
	opts = opts.withDefaults()
	wrapped := *client
	base := wrapped.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped.Transport = wrapTransport(base, opts)
	return &HTTPFetcher{client: &wrapped, opts: opts}
}

// Fetch performs a GET request and returns the decoded body.
func (f *HTTPFetcher) Fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	if u == nil {
		return nil, ErrNilURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(f.opts.StrictStatus, u.String(), resp.StatusCode); err != nil {
		return nil, err
	}

	return readBody(resp, f.opts.MaxBodyBytes)
}

// readBody decodes the response according to Content-Encoding and enforces
// the size limit on the decoded bytes.
func readBody(resp *http.Response, limit int64) ([]byte, error) {
	reader := io.Reader(resp.Body)

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip decode: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	}

	body, err := io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, limit)
	}
	return body, nil
}
