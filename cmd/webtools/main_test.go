package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// executeRoot runs the root command with args and returns its output.
func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// emptyConfig writes an empty configuration file so tests never read the
// user's own configuration.
func emptyConfig(t *testing.T, dir string) string {
	t.Helper()
	return writeFile(t, dir, "config.yaml", "{}\n")
}

const panelPage = `<html><body>
<a href="/">home</a>
<div id="panel1" class="tabs-panel">%s</div>
</body></html>`

// newBookstore serves a small catalogue site.
func newBookstore(t *testing.T) *httptest.Server {
	t.Helper()

	pages := map[string]string{
		"/": `<html><body>
<a href="/catalogue/a.html">A</a>
<a href="/catalogue/b.html">B</a>
<a href="/about">About</a>
<a href="http://other.example/catalogue/x.html">elsewhere</a>
<a href="#top">top</a>
</body></html>`,
		"/catalogue/a.html": fmt.Sprintf(panelPage, "A Fiction novel about History."),
		"/catalogue/b.html": fmt.Sprintf(panelPage, "Collected poems."),
		"/about":            fmt.Sprintf(panelPage, "We sell fiction."),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body)) //nolint:errcheck // test server
	}))
	t.Cleanup(srv.Close)
	return srv
}
