package crawler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"

	"github.com/max-plutonium/webtools/internal/document"
)

var (
	errUnsupportedScheme = errors.New("seed URL must use http or https")
	errMissingHost       = errors.New("seed URL has no host")
	errNoDocument        = errors.New("parser returned no document")
)

// Fetcher retrieves the raw body of a page.
// Any failure, including a timeout, is reported as an error.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) ([]byte, error)
}

// ParseFunc turns a fetched body into a queryable document.
type ParseFunc func(r io.Reader) (*document.Document, error)

// Spider crawls same-origin pages breadth-first starting from a seed URL.
// It dispatches every fetched page to the registered hooks.
//
// A Spider runs one crawl at a time. The frontier and visited set are
// created fresh for each Run, so a Spider may be reused for several runs
// against the same registry.
type Spider struct {
	// fetcher performs the HTTP requests.
	fetcher Fetcher

	// parse builds documents from fetched bodies.
	parse ParseFunc

	// registry holds the hooks invoked on each page.
	registry *Registry

	// logger receives progress and failure events.
	logger *slog.Logger

	// onVisit is called after each counted page.
	onVisit func(u *url.URL, pages int)
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithHooks registers hooks in the given order. Nil hooks are skipped, as
// in NewRegistry. Hooks cannot be added to a registry frozen by an earlier
// run; such hooks are dropped with a warning on the spider's logger.
func WithHooks(hooks ...Hook) SpiderOption {
	return func(s *Spider) {
		for _, h := range hooks {
			if h == nil {
				continue
			}
			if err := s.registry.Register(h); err != nil {
				s.logger.Warn("hook not registered", "error", err)
			}
		}
	}
}

// WithRegistry replaces the spider's registry with r.
// Hooks added with WithHooks before this option are discarded.
func WithRegistry(r *Registry) SpiderOption {
	return func(s *Spider) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithParser sets the function used to parse fetched bodies.
// The default is document.Parse.
func WithParser(p ParseFunc) SpiderOption {
	return func(s *Spider) {
		if p != nil {
			s.parse = p
		}
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *slog.Logger) SpiderOption {
	return func(s *Spider) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithVisitCallback sets a function called after every counted page with
// the page URL and the running page count.
func WithVisitCallback(fn func(u *url.URL, pages int)) SpiderOption {
	return func(s *Spider) {
		s.onVisit = fn
	}
}

// NewSpider creates a Spider that fetches pages with fetcher.
func NewSpider(fetcher Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:  fetcher,
		parse:    document.Parse,
		registry: NewRegistry(),
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Registry returns the spider's hook registry.
func (s *Spider) Registry() *Registry {
	return s.registry
}

// Run parses seed and crawls from it. See RunURL.
func (s *Spider) Run(ctx context.Context, seed string, pageLimit int) (int, error) {
	u, err := parseSeed(seed)
	if err != nil {
		return 0, parseError(seed, err)
	}
	return s.RunURL(ctx, u, pageLimit)
}

// RunURL crawls breadth-first from seed and returns the number of pages
// visited. A pageLimit of zero or less means no limit.
//
// The seed is canonicalized with the parser Resolve uses, so it and the
// links found on its pages share one form. Only links resolving to the
// seed's origin are followed. The first fetch or
// parse failure stops the run and is returned as an *Error; a cancelled ctx
// is reported as a transport error. Hook results are read from the hooks
// themselves after the run.
func (s *Spider) RunURL(ctx context.Context, seed *url.URL, pageLimit int) (int, error) {
	if seed == nil {
		return 0, parseError("", errMissingHost)
	}
	canonical, err := parseSeed(seed.String())
	if err != nil {
		return 0, parseError(seed.String(), err)
	}
	origin := Normalize(canonical)
	if origin.Scheme != "http" && origin.Scheme != "https" {
		return 0, parseError(seed.String(), errUnsupportedScheme)
	}
	if origin.Host == "" {
		return 0, parseError(seed.String(), errMissingHost)
	}

	s.registry.freeze()
	s.logger.Info("crawl started",
		"seed", origin.String(),
		"page_limit", pageLimit,
		"hooks", s.registry.Len(),
	)

	frontier := []*url.URL{origin}
	visited := make(map[string]struct{})
	pages := 0

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return pages, transportError(frontier[0].String(), err)
		}

		current := frontier[0]
		frontier[0] = nil
		frontier = frontier[1:]

		key := current.String()
		if _, seen := visited[key]; seen {
			s.logger.Debug("skipping visited page", "url", key)
			continue
		}

		doc, err := s.fetchPage(ctx, current)
		if err != nil {
			s.logger.Error("crawl aborted", "url", key, "pages", pages, "error", err)
			return pages, err
		}

		visited[key] = struct{}{}

		observed := s.registry.Dispatch(current, doc)

		links := s.collectLinks(origin, doc, visited)
		frontier = append(frontier, links...)

		pages++
		s.logger.Debug("page visited",
			"url", key,
			"title", doc.Title(),
			"pages", pages,
			"hooks", observed,
			"new_links", len(links),
			"frontier", len(frontier),
		)
		if s.onVisit != nil {
			s.onVisit(current, pages)
		}

		if pageLimit > 0 && pages >= pageLimit {
			s.logger.Info("page limit reached", "pages", pages)
			break
		}
	}

	s.logger.Info("crawl finished", "pages", pages)
	return pages, nil
}

// fetchPage fetches and parses a single page.
func (s *Spider) fetchPage(ctx context.Context, u *url.URL) (*document.Document, error) {
	body, err := s.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, transportError(u.String(), err)
	}

	doc, err := s.parse(bytes.NewReader(body))
	if err != nil {
		return nil, parseError(u.String(), err)
	}
	if doc == nil {
		return nil, parseError(u.String(), errNoDocument)
	}
	return doc, nil
}

// collectLinks resolves the document's anchors against origin and returns
// the in-scope, unvisited ones in document order without repeats.
func (s *Spider) collectLinks(origin *url.URL, doc *document.Document, visited map[string]struct{}) []*url.URL {
	hrefs := doc.Links()
	links := make([]*url.URL, 0, len(hrefs))
	seen := make(map[string]struct{}, len(hrefs))

	for _, href := range hrefs {
		u, ok := Resolve(origin, href)
		if !ok {
			continue
		}
		key := u.String()
		if _, done := visited[key]; done {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		links = append(links, u)
	}

	return links
}
