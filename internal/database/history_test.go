package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/max-plutonium/webtools/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testReport(site string, started time.Time, pages map[string][]string) *model.KeywordReport {
	return &model.KeywordReport{
		Site:         site,
		PageLimit:    10,
		PagesVisited: 5,
		StartedAt:    started,
		FinishedAt:   started.Add(2 * time.Second),
		Pages:        pages,
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails for missing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{})
		if !errors.Is(err, ErrDatabaseNotFound) {
			t.Errorf("expected ErrDatabaseNotFound, got %v", err)
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		id, err := db.SaveRun(context.Background(), testReport("https://example.com/", time.Now(), nil))
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		if _, err := db.GetRun(context.Background(), id); err != nil {
			t.Errorf("expected saved run after reopen, got %v", err)
		}
	})
}

func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	started := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	report := testReport("https://books.toscrape.com/", started, map[string][]string{
		"/catalogue/a": {"fiction"},
		"/catalogue/b": {"fiction", "poetry"},
	})

	id, err := db.SaveRun(ctx, report)
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if id == "" || report.ID != id {
		t.Fatalf("expected id to be set on report, got %q / %q", id, report.ID)
	}

	got, err := db.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if got.ID != id || got.Site != report.Site || got.PagesVisited != 5 {
		t.Errorf("unexpected run %+v", got)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("expected StartedAt %v, got %v", started, got.StartedAt)
	}
	if !slices.Equal(got.Pages["/catalogue/b"], []string{"fiction", "poetry"}) {
		t.Errorf("unexpected pages %v", got.Pages)
	}
}

func TestSaveRunNil(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	if _, err := db.SaveRun(context.Background(), nil); !errors.Is(err, ErrNilReport) {
		t.Errorf("expected ErrNilReport, got %v", err)
	}
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	if _, err := db.GetRun(context.Background(), "nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i, site := range []string{"https://a.example/", "https://b.example/", "https://a.example/"} {
		r := testReport(site, base.Add(time.Duration(i)*time.Hour), map[string][]string{"/catalogue/x": {"art"}})
		if i == 2 {
			r.Error = "transport error"
		}
		id, err := db.SaveRun(ctx, r)
		if err != nil {
			t.Fatalf("failed to save run %d: %v", i, err)
		}
		ids = append(ids, id)
	}

	t.Run("newest first", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, "", 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		if runs[0].ID != ids[2] || runs[2].ID != ids[0] {
			t.Errorf("unexpected order: %v", runs)
		}
		if runs[0].Error != "transport error" || runs[0].PagesMatched != 1 {
			t.Errorf("unexpected summary %+v", runs[0])
		}
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, "", 2)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
	})

	t.Run("filter by site", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, "https://b.example/", 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 || runs[0].ID != ids[1] {
			t.Errorf("unexpected runs %v", runs)
		}
	})
}

func TestFindKeyword(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := db.SaveRun(ctx, testReport("https://a.example/", base, map[string][]string{
		"/catalogue/1": {"fiction"},
		"/catalogue/2": {"poetry"},
	})); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if _, err := db.SaveRun(ctx, testReport("https://b.example/", base.Add(time.Hour), map[string][]string{
		"/catalogue/9": {"fiction", "art"},
	})); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	matches, err := db.FindKeyword(ctx, "fiction")
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %v", matches)
	}
	if matches[0].Site != "https://b.example/" || matches[0].Path != "/catalogue/9" {
		t.Errorf("expected newest run first, got %+v", matches[0])
	}

	none, err := db.FindKeyword(ctx, "history")
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no matches, got %v", none)
	}
}

func TestDeleteRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	id, err := db.SaveRun(ctx, testReport("https://a.example/", time.Now(), map[string][]string{"/catalogue/1": {"art"}}))
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	if err := db.DeleteRun(ctx, id); err != nil {
		t.Fatalf("failed to delete run: %v", err)
	}
	if _, err := db.GetRun(ctx, id); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound after delete, got %v", err)
	}

	matches, err := db.FindKeyword(ctx, "art")
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("matches must be deleted with the run, got %v", matches)
	}

	if err := db.DeleteRun(ctx, id); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound for second delete, got %v", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2025-01-02T03:04:05.000000000Z", want: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{in: "2025-01-02 03:04:05", want: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{in: "", want: time.Time{}},
		{in: "garbage", want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := parseTimestamp(tt.in); !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
