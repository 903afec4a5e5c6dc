package fetch

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/gocolly/colly/v2"
)

// CollyFetcher fetches pages with a gocolly collector.
// Each Fetch clones the base collector and runs it synchronously.
type CollyFetcher struct {
	base *colly.Collector
	opts Options
}

// NewCollyFetcher creates a CollyFetcher.
// It fails only when the proxy address is invalid.
func NewCollyFetcher(opts Options) (*CollyFetcher, error) {
	opts = opts.withDefaults()

	transport, err := newTransport(opts.ProxyURL)
	if err != nil {
		return nil, err
	}

	base := colly.NewCollector(
		colly.UserAgent(opts.UserAgent),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(int(opts.MaxBodyBytes)),
	)
	base.WithTransport(wrapTransport(transport, opts))
	base.SetRequestTimeout(opts.Timeout)
	base.SetRedirectHandler(checkRedirect)

	return &CollyFetcher{base: base, opts: opts}, nil
}

type collyResult struct {
	body   []byte
	status int
	err    error
}

// Fetch visits u and returns the response body.
//
// Colly truncates bodies at MaxBodyBytes rather than failing, so an
// oversized page is returned cut short.
func (f *CollyFetcher) Fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	if u == nil {
		return nil, ErrNilURL
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collector := f.base.Clone()
	collector.Context = ctx

	resultCh := make(chan collyResult, 1)
	var once sync.Once
	send := func(res collyResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.5")
	})

	collector.OnResponse(func(r *colly.Response) {
		send(collyResult{
			body:   append([]byte{}, r.Body...),
			status: r.StatusCode,
		})
	})

	collector.OnError(func(r *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		send(collyResult{status: status, err: err})
	})

	if err := collector.Visit(u.String()); err != nil {
		return nil, err
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if res.err != nil {
			return nil, res.err
		}
		if err := checkStatus(f.opts.StrictStatus, u.String(), res.status); err != nil {
			return nil, err
		}
		return res.body, nil
	default:
		return nil, ErrNoResponse
	}
}
