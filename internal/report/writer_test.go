package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/max-plutonium/webtools/internal/model"
)

// createTestReport creates a finished report with sample data for testing.
func createTestReport() *model.KeywordReport {
	return &model.KeywordReport{
		Site:         "https://books.toscrape.com/",
		PageLimit:    50,
		PagesVisited: 12,
		StartedAt:    time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt:   time.Date(2025, 6, 1, 10, 0, 3, 0, time.UTC),
		Pages: map[string][]string{
			"/catalogue/b/index.html": {"fiction", "poetry"},
			"/catalogue/a/index.html": {"fiction"},
		},
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes exactly the page map", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := `{"/catalogue/a/index.html":["fiction"],"/catalogue/b/index.html":["fiction","poetry"]}`
		if buf.String() != want {
			t.Errorf("got %s, want %s", buf.String(), want)
		}
	})

	t.Run("empty report is an empty object", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(&model.KeywordReport{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "{}" {
			t.Errorf("expected {}, got %q", buf.String())
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"/catalogue/a/index.html\": [") {
			t.Errorf("expected indented output, got %s", buf.String())
		}

		var decoded map[string][]string
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(decoded) != 2 {
			t.Errorf("expected 2 pages, got %d", len(decoded))
		}
	})

	t.Run("nil report", func(t *testing.T) {
		t.Parallel()

		if _, err := NewJSONWriter(&bytes.Buffer{}).Write(nil); !errors.Is(err, ErrNilReport) {
			t.Errorf("expected ErrNilReport, got %v", err)
		}
	})

	t.Run("propagates write errors", func(t *testing.T) {
		t.Parallel()

		if _, err := NewJSONWriter(failingWriter{}).Write(createTestReport()); err == nil {
			t.Error("expected error from failing writer")
		}
	})
}

func TestWithIndent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf, WithIndent("", "\t")).Write(createTestReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "\n\t\"/catalogue/a/index.html\"") {
		t.Errorf("expected tab indentation, got %q", buf.String())
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes summary, keywords and pages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Keyword Report",
			"https://books.toscrape.com/",
			"Pages Visited",
			"## Keywords",
			"```mermaid",
			"Pages per Keyword",
			"## Pages",
			"/catalogue/b/index.html",
			"fiction, poetry",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("report without matches", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := &model.KeywordReport{Site: "https://example.com/", PagesVisited: 3}
		if _, err := NewMarkdownWriter(&buf).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No keyword was found") {
			t.Error("expected a note about missing keywords")
		}
		if strings.Contains(output, "```mermaid") {
			t.Error("no chart expected without matches")
		}
		if !strings.Contains(output, "unlimited") {
			t.Error("expected unlimited page limit")
		}
	})

	t.Run("failed run shows caution", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := createTestReport()
		r.Error = "transport error: connection refused"
		if _, err := NewMarkdownWriter(&buf).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "connection refused") {
			t.Error("expected error text in output")
		}
	})
}

func TestSummaryWriter(t *testing.T) {
	t.Parallel()

	t.Run("lists keyword counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSummaryWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Pages visited:  12") {
			t.Errorf("expected visit count, got:\n%s", output)
		}
		if !strings.Contains(output, "Status:         Complete") {
			t.Errorf("expected complete status, got:\n%s", output)
		}
		if strings.Index(output, "fiction") > strings.Index(output, "poetry") {
			t.Error("most frequent keyword should be listed first")
		}
		if strings.Contains(output, "PAGES") {
			t.Error("pages listed without WithPages")
		}
	})

	t.Run("top keywords and pages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := createTestReport()
		r.ID = "run-1"
		w := NewSummaryWriter(&buf, WithTopKeywords(1), WithPages(true))
		if _, err := w.Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Run:            run-1") {
			t.Errorf("expected run id, got:\n%s", output)
		}
		if !strings.Contains(output, "... and 1 more") {
			t.Errorf("expected truncated keyword list, got:\n%s", output)
		}
		if !strings.Contains(output, "/catalogue/a/index.html") {
			t.Errorf("expected page listing, got:\n%s", output)
		}
	})
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var jsonBuf, mdBuf bytes.Buffer
		mw := NewMultiWriter(NewJSONWriter(&jsonBuf), NewMarkdownWriter(&mdBuf))

		n, err := mw.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if jsonBuf.Len() == 0 || mdBuf.Len() == 0 {
			t.Error("expected both writers to produce output")
		}
		if n < jsonBuf.Len() {
			t.Errorf("expected total >= json bytes, got %d", n)
		}
	})

	t.Run("stops at first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := NewMultiWriter(NewJSONWriter(failingWriter{}), NewJSONWriter(&buf))
		if _, err := mw.Write(createTestReport()); err == nil {
			t.Fatal("expected error")
		}
		if buf.Len() != 0 {
			t.Error("second writer must not run after a failure")
		}
	})
}

func TestNewWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  string
		wantErr bool
	}{
		{format: "json"},
		{format: ""},
		{format: "markdown"},
		{format: "md"},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			w, err := NewWriter(tt.format, &bytes.Buffer{}, false)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if err != nil || w == nil {
				t.Errorf("unexpected result %v, %v", w, err)
			}
		})
	}
}
