package crawler

import (
	"net/url"
	"strings"

	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

// urlParser resolves hrefs the way browsers do.
var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// asciiWhitespace is stripped from both ends of an href before resolution.
const asciiWhitespace = " \t\n\f\r"

// Resolve resolves a root-relative href against base and reports whether the
// result is an in-scope link.
//
// Only hrefs starting with a single "/" are considered. Scheme-relative
// ("//host/x"), fragment-only, query-only, relative-path and absolute hrefs
// are rejected, as are hrefs the URL parser cannot handle. The resolved URL
// must keep base's origin; "/\host" is scheme-relative under browser rules
// and is rejected by that check.
//
// The returned URL is normalized (see Normalize). Resolve never touches the
// network or the filesystem.
func Resolve(base *url.URL, href string) (*url.URL, bool) {
	if base == nil {
		return nil, false
	}

	href = strings.Trim(href, asciiWhitespace)
	if !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") {
		return nil, false
	}

	ref, err := urlParser.ParseRef(base.String(), href)
	if err != nil {
		return nil, false
	}

	resolved, err := url.Parse(ref.Href(true))
	if err != nil {
		return nil, false
	}

	resolved = Normalize(resolved)
	if !SameOrigin(base, resolved) {
		return nil, false
	}

	return resolved, true
}

// parseSeed parses an absolute URL with the same parser Resolve uses, so the
// seed and the links found on its pages share one canonical form: punycode
// hosts, resolved dot segments and percent-encoding.
func parseSeed(raw string) (*url.URL, error) {
	u, err := urlParser.Parse(raw)
	if err != nil {
		return nil, err
	}
	return url.Parse(u.Href(true))
}

// Normalize returns a copy of u in canonical form: lowercase scheme and host,
// no default port, no fragment, and "/" for an empty path.
// Two URLs denote the same page iff their normalized strings are equal.
func Normalize(u *url.URL) *url.URL {
	n := *u
	n.Scheme = strings.ToLower(n.Scheme)
	n.Host = strings.ToLower(n.Host)
	if port := n.Port(); port != "" && port == defaultPort(n.Scheme) {
		n.Host = strings.TrimSuffix(n.Host, ":"+port)
	}
	n.Fragment = ""
	n.RawFragment = ""
	if n.Path == "" && n.Opaque == "" {
		n.Path = "/"
		n.RawPath = ""
	}
	return &n
}

// SameOrigin reports whether a and b share scheme, host and effective port.
func SameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	schemeA := strings.ToLower(a.Scheme)
	schemeB := strings.ToLower(b.Scheme)
	if schemeA != schemeB {
		return false
	}
	if !strings.EqualFold(a.Hostname(), b.Hostname()) {
		return false
	}
	return effectivePort(a, schemeA) == effectivePort(b, schemeB)
}

func effectivePort(u *url.URL, scheme string) string {
	if port := u.Port(); port != "" {
		return port
	}
	return defaultPort(scheme)
}

func defaultPort(scheme string) string {
	switch scheme {
	case "http":
		return "80"
	case "https":
		return "443"
	default:
		return ""
	}
}
