// Package database stores the history of keyword runs in SQLite.
//
// Each saved run keeps the full report as JSON plus one row per
// (page, keyword) match, so past runs can be listed, shown again and
// searched by keyword. The driver is modernc.org/sqlite, which is CGO-free,
// and the database is a single file under the XDG data directory.
package database
