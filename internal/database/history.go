package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/max-plutonium/webtools/internal/model"
)

// FileName is the database file created inside the history directory.
const FileName = "webtools.db"

// HistoryDB stores finished keyword runs.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if needed.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// RunSummary is a stored run without its page data.
type RunSummary struct {
	ID           string
	Site         string
	PageLimit    int
	PagesVisited int
	PagesMatched int
	StartedAt    time.Time
	FinishedAt   time.Time
	Error        string
}

// Match is one (page, keyword) pair of a stored run.
type Match struct {
	RunID   string
	Site    string
	Path    string
	Keyword string
}

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		}
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	// Pragmas in the DSN apply to every new connection.
	dsn += "&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	ctx := context.Background()
	if opts.EnableWAL {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

func (hdb *HistoryDB) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		site TEXT NOT NULL,
		page_limit INTEGER NOT NULL DEFAULT 0,
		pages_visited INTEGER NOT NULL DEFAULT 0,
		pages_matched INTEGER NOT NULL DEFAULT 0,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		error TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_site ON runs(site);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS matches (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		path TEXT NOT NULL,
		keyword TEXT NOT NULL,
		PRIMARY KEY (run_id, path, keyword)
	);

	CREATE INDEX IF NOT EXISTS idx_matches_keyword ON matches(keyword);
	`

	_, err := hdb.db.ExecContext(ctx, schema)
	return err
}

// SaveRun stores report and assigns it a new ID, which is also set on report.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.KeywordReport) (string, error) {
	if report == nil {
		return "", ErrNilReport
	}

	id := uuid.NewString()
	stored := *report
	stored.ID = id

	reportJSON, err := json.Marshal(&stored)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, site, page_limit, pages_visited, pages_matched, started_at, finished_at, error, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		report.Site,
		report.PageLimit,
		report.PagesVisited,
		len(report.Pages),
		formatTimestamp(report.StartedAt),
		formatTimestamp(report.FinishedAt),
		report.Error,
		string(reportJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO matches (run_id, path, keyword) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare match insert: %w", err)
	}
	defer stmt.Close()

	for _, path := range report.Paths() {
		for _, keyword := range report.Pages[path] {
			if _, err := stmt.ExecContext(ctx, id, path, keyword); err != nil {
				return "", fmt.Errorf("failed to save match %s %q: %w", path, keyword, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}

	report.ID = id
	return id, nil
}

// GetRun returns the stored report with the given ID.
func (hdb *HistoryDB) GetRun(ctx context.Context, id string) (*model.KeywordReport, error) {
	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, `SELECT report_json FROM runs WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.KeywordReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse stored report: %w", err)
	}
	if report.Pages == nil {
		report.Pages = make(map[string][]string)
	}
	return &report, nil
}

// ListRuns returns stored runs, newest first. A limit of 0 or less returns all.
// A non-empty site restricts the result to runs of that seed URL.
func (hdb *HistoryDB) ListRuns(ctx context.Context, site string, limit int) ([]RunSummary, error) {
	query := `
	SELECT id, site, page_limit, pages_visited, pages_matched, started_at, finished_at, error
	FROM runs
	WHERE (? = '' OR site = ?)
	ORDER BY started_at DESC, rowid DESC
	`
	args := []any{site, site}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			run                 RunSummary
			startedAt           string
			finishedAt, errText sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Site, &run.PageLimit, &run.PagesVisited,
			&run.PagesMatched, &startedAt, &finishedAt, &errText); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(startedAt)
		run.FinishedAt = parseTimestamp(finishedAt.String)
		run.Error = errText.String
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// FindKeyword returns every stored match of keyword, newest run first.
func (hdb *HistoryDB) FindKeyword(ctx context.Context, keyword string) ([]Match, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT m.run_id, r.site, m.path, m.keyword
	FROM matches m JOIN runs r ON r.id = m.run_id
	WHERE m.keyword = ?
	ORDER BY r.started_at DESC, m.path
	`, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.RunID, &m.Site, &m.Path, &m.Keyword); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// DeleteRun removes a run and its matches.
func (hdb *HistoryDB) DeleteRun(ctx context.Context, id string) error {
	res, err := hdb.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// timestampLayout has a fixed width so stored values sort chronologically as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

// timestampFormats are tried in order by parseTimestamp.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp returns the zero time for empty or unrecognized input.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
