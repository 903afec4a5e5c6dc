package crawler

import (
	"errors"
	"fmt"
)

// ErrorKind identifies where a crawl failure originated.
type ErrorKind int

const (
	// KindTransport covers network and I/O failures while fetching a page,
	// including context cancellation.
	KindTransport ErrorKind = iota + 1

	// KindParse covers a malformed seed URL and documents that cannot be parsed.
	KindParse
)

// String returns the human-readable name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var (
	// ErrTransport matches any *Error of kind KindTransport via errors.Is.
	ErrTransport = errors.New("transport error")

	// ErrParse matches any *Error of kind KindParse via errors.Is.
	ErrParse = errors.New("parse error")

	// ErrRegistryFrozen is returned when a hook is registered after a run started.
	ErrRegistryFrozen = errors.New("hook registry is frozen: register hooks before the run starts")

	// ErrNilHook is returned when registering a nil hook.
	ErrNilHook = errors.New("nil hook")
)

// Error is the failure returned by Spider.Run.
// It records the kind, the URL being processed and the collaborator's error.
type Error struct {
	// Kind is the origin of the failure.
	Kind ErrorKind

	// URL is the page (or seed) that failed.
	URL string

	// Err is the underlying error from the fetcher, parser or URL parser.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error on %s: %v", e.Kind, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrParse:
		return e.Kind == KindParse
	default:
		return false
	}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var crawlErr *Error
	if errors.As(err, &crawlErr) {
		return crawlErr.Kind, true
	}
	return 0, false
}

func transportError(u string, err error) *Error {
	return &Error{Kind: KindTransport, URL: u, Err: err}
}

func parseError(u string, err error) *Error {
	return &Error{Kind: KindParse, URL: u, Err: err}
}
