package crawler

import (
	"net/url"
	"testing"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", raw, err)
	}
	return u
}

func TestResolve(t *testing.T) {
	t.Parallel()

	base := mustURL(t, "http://books.example/catalogue/index.html")

	tests := []struct {
		name string
		href string
		want string
		ok   bool
	}{
		{name: "root-relative path", href: "/catalogue/x", want: "http://books.example/catalogue/x", ok: true},
		{name: "surrounding whitespace", href: "  /a\n", want: "http://books.example/a", ok: true},
		{name: "query kept and fragment dropped", href: "/a?page=2#reviews", want: "http://books.example/a?page=2", ok: true},
		{name: "dot segments collapsed", href: "/a/../b/./c", want: "http://books.example/b/c", ok: true},
		{name: "root", href: "/", want: "http://books.example/", ok: true},
		{name: "space percent-encoded", href: "/a b", want: "http://books.example/a%20b", ok: true},
		{name: "external absolute", href: "https://other-domain.example/x", ok: false},
		{name: "same host absolute", href: "http://books.example/x", ok: false},
		{name: "fragment only", href: "#fragment", ok: false},
		{name: "query only", href: "?q=1", ok: false},
		{name: "relative path", href: "page.html", ok: false},
		{name: "parent relative", href: "../page.html", ok: false},
		{name: "protocol relative", href: "//books.example/x", ok: false},
		{name: "backslash authority", href: `/\evil.example/x`, ok: false},
		{name: "mailto", href: "mailto:someone@books.example", ok: false},
		{name: "javascript", href: "javascript:void(0)", ok: false},
		{name: "empty", href: "", ok: false},
		{name: "whitespace only", href: "   ", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Resolve(base, tt.href)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v (url %v)", tt.ok, ok, got)
			}
			if !ok {
				if got != nil {
					t.Errorf("expected nil URL, got %v", got)
				}
				return
			}
			if got.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got.String())
			}
		})
	}
}

func TestResolveKeepsPort(t *testing.T) {
	t.Parallel()

	base := mustURL(t, "http://127.0.0.1:8080/")
	got, ok := Resolve(base, "/catalogue/x")
	if !ok {
		t.Fatal("expected link to resolve")
	}
	if got.String() != "http://127.0.0.1:8080/catalogue/x" {
		t.Errorf("unexpected URL %q", got.String())
	}
}

func TestResolveNilBase(t *testing.T) {
	t.Parallel()

	if u, ok := Resolve(nil, "/a"); ok || u != nil {
		t.Errorf("expected no result for nil base, got %v", u)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"HTTP://Books.Example/a#x", "http://books.example/a"},
		{"http://books.example", "http://books.example/"},
		{"http://books.example:80/a", "http://books.example/a"},
		{"https://books.example:443/a", "https://books.example/a"},
		{"http://books.example:8080/a", "http://books.example:8080/a"},
		{"https://books.example:80/a", "https://books.example:80/a"},
		{"http://books.example/a?b=1", "http://books.example/a?b=1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			in := mustURL(t, tt.in)
			got := Normalize(in)
			if got.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got.String())
			}
			if got == in {
				t.Error("expected a copy, got the same pointer")
			}
		})
	}
}

func TestSameOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want bool
	}{
		{"http://books.example/a", "http://books.example/b", true},
		{"http://books.example/", "http://BOOKS.example:80/x", true},
		{"https://books.example/", "https://books.example:443/", true},
		{"http://books.example/", "https://books.example/", false},
		{"http://books.example/", "http://books.example:8080/", false},
		{"http://books.example/", "http://evil.example/", false},
	}

	for _, tt := range tests {
		got := SameOrigin(mustURL(t, tt.a), mustURL(t, tt.b))
		if got != tt.want {
			t.Errorf("SameOrigin(%q, %q): expected %v, got %v", tt.a, tt.b, tt.want, got)
		}
	}

	if SameOrigin(nil, mustURL(t, "http://books.example/")) {
		t.Error("expected nil URL to have no origin")
	}
}

func TestParseSeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "internationalized host", raw: "http://bücher.example/", want: "http://xn--bcher-kva.example/"},
		{name: "dot segments", raw: "http://books.example/x/../b", want: "http://books.example/b"},
		{name: "case and default port", raw: "HTTP://Books.Example:80/a", want: "http://books.example/a"},
		{name: "fragment dropped", raw: "https://books.example/a#top", want: "https://books.example/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseSeed(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got.String())
			}
		})
	}

	t.Run("links share the seed's form", func(t *testing.T) {
		t.Parallel()

		seed, err := parseSeed("http://bücher.example/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, ok := Resolve(seed, "/a")
		if !ok {
			t.Fatal("expected /a to resolve against an internationalized seed")
		}
		if got.String() != "http://xn--bcher-kva.example/a" {
			t.Errorf("expected punycode link, got %q", got.String())
		}
	})

	t.Run("rejects relative and hostless input", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"books.example", "/catalogue/", "http://"} {
			if u, err := parseSeed(raw); err == nil {
				t.Errorf("expected error for %q, got %v", raw, u)
			}
		}
	})
}
