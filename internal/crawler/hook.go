package crawler

import (
	"net/url"
	"sync"

	"github.com/max-plutonium/webtools/internal/document"
)

// Hook inspects fetched pages.
//
// CanMatch must not have side effects. Observe is only called for a URL
// after CanMatch returned true for that same URL, and may update the hook's
// own state. Observe must tolerate any document shape: missing content is
// "no match", never a panic.
//
// The Spider calls hooks from a single goroutine, one page at a time.
type Hook interface {
	CanMatch(u *url.URL) bool
	Observe(u *url.URL, doc *document.Document)
}

// HookFunc adapts a pair of functions to the Hook interface.
// A nil Match accepts every URL.
type HookFunc struct {
	Match func(u *url.URL) bool
	Fn    func(u *url.URL, doc *document.Document)
}

// CanMatch implements Hook.
func (h HookFunc) CanMatch(u *url.URL) bool {
	if h.Match == nil {
		return true
	}
	return h.Match(u)
}

// Observe implements Hook.
func (h HookFunc) Observe(u *url.URL, doc *document.Document) {
	if h.Fn != nil {
		h.Fn(u, doc)
	}
}

// Registry is an ordered collection of hooks.
//
// Hooks are registered before a run and the registry is frozen once the
// Spider starts; the caller keeps its own reference to each hook to read
// accumulated results afterwards.
type Registry struct {
	mu     sync.RWMutex
	hooks  []Hook
	frozen bool
}

// NewRegistry creates a registry holding hooks in the given order.
// Nil hooks are ignored.
func NewRegistry(hooks ...Hook) *Registry {
	r := &Registry{hooks: make([]Hook, 0, len(hooks))}
	for _, h := range hooks {
		if h != nil {
			r.hooks = append(r.hooks, h)
		}
	}
	return r
}

// Register appends h to the registry.
func (r *Registry) Register(h Hook) error {
	if h == nil {
		return ErrNilHook
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrRegistryFrozen
	}
	r.hooks = append(r.hooks, h)
	return nil
}

// Hooks returns a copy of the registered hooks in registration order.
func (r *Registry) Hooks() []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hooks := make([]Hook, len(r.hooks))
	copy(hooks, r.hooks)
	return hooks
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks)
}

// Dispatch calls Observe on every hook whose CanMatch accepts u, in
// registration order, and returns how many hooks observed the page.
func (r *Registry) Dispatch(u *url.URL, doc *document.Document) int {
	r.mu.RLock()
	hooks := r.hooks
	r.mu.RUnlock()

	observed := 0
	for _, h := range hooks {
		if !h.CanMatch(u) {
			continue
		}
		h.Observe(u, doc)
		observed++
	}
	return observed
}

func (r *Registry) freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}
