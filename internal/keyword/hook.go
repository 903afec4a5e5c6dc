package keyword

import (
	"encoding/json"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/max-plutonium/webtools/internal/document"
)

const (
	// DefaultPathPrefix selects catalogue pages.
	DefaultPathPrefix = "/catalogue/"
)

// DefaultPanel is the product description panel of a catalogue page.
var DefaultPanel = document.Match{Tag: "div", ID: "panel1", Class: "tabs-panel"}

// CatalogueHook records which keywords appear in the description panel of
// each catalogue page. It implements crawler.Hook.
//
// The hook is not safe for concurrent use; the crawler calls it from a
// single goroutine and results are read after the run.
type CatalogueHook struct {
	keywords *Set
	prefix   string
	panel    document.Match

	// pages maps a URL path to its matched keywords in recording order.
	pages map[string][]string
}

// HookOption configures a CatalogueHook.
type HookOption func(*CatalogueHook)

// WithPathPrefix sets the path prefix a page must have to be inspected.
func WithPathPrefix(prefix string) HookOption {
	return func(h *CatalogueHook) {
		h.prefix = prefix
	}
}

// WithPanel sets which element holds the text to search.
func WithPanel(m document.Match) HookOption {
	return func(h *CatalogueHook) {
		h.panel = m
	}
}

// NewCatalogueHook creates a hook matching the given keywords.
func NewCatalogueHook(keywords *Set, opts ...HookOption) *CatalogueHook {
	if keywords == nil {
		keywords = NewSet()
	}
	h := &CatalogueHook{
		keywords: keywords,
		prefix:   DefaultPathPrefix,
		panel:    DefaultPanel,
		pages:    make(map[string][]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CanMatch reports whether u is a catalogue page.
func (h *CatalogueHook) CanMatch(u *url.URL) bool {
	return u != nil && strings.HasPrefix(u.Path, h.prefix)
}

// Observe records the keywords found in the page's panel text.
// Pages without the panel, or without any keyword, record nothing.
func (h *CatalogueHook) Observe(u *url.URL, doc *document.Document) {
	if u == nil || doc == nil {
		return
	}

	matched := h.keywords.Matches(doc.Text(h.panel))
	if len(matched) == 0 {
		return
	}

	path := u.Path
	existing := h.pages[path]
	for _, w := range matched {
		if !slices.Contains(existing, w) {
			existing = append(existing, w)
		}
	}
	h.pages[path] = existing
}

// Result returns a copy of the page to keywords mapping.
func (h *CatalogueHook) Result() map[string][]string {
	out := make(map[string][]string, len(h.pages))
	for path, words := range h.pages {
		out[path] = slices.Clone(words)
	}
	return out
}

// Paths returns the recorded page paths in sorted order.
func (h *CatalogueHook) Paths() []string {
	return slices.Sorted(maps.Keys(h.pages))
}

// JSON encodes the result as a single JSON object.
func (h *CatalogueHook) JSON() ([]byte, error) {
	return json.Marshal(h.Result())
}
