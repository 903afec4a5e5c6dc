package database

import "errors"

var (
	// ErrRunNotFound is returned when no run has the requested ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrDatabaseNotFound is returned by Open when the database file is
	// missing and CreateIfNotExists is false.
	ErrDatabaseNotFound = errors.New("history database not found")

	// ErrNilReport is returned when SaveRun is given a nil report.
	ErrNilReport = errors.New("report is nil")
)
