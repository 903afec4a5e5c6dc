package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can branch on
// them with errors.Is().
var (
	// ErrNoSite is returned when no seed site URL is given.
	ErrNoSite = errors.New("no site specified: provide the seed URL as an argument")

	// ErrNoKeywordFile is returned when the keyword input file is missing.
	ErrNoKeywordFile = errors.New("no keyword file specified: use --in")

	// ErrNoOutputFile is returned when the output file is missing.
	ErrNoOutputFile = errors.New("no output file specified: use --out")

	// ErrInvalidMaxPages is returned when the page budget is negative.
	// Use 0 for no limit.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be a non-negative integer")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidFormat is returned for an unknown output format.
	ErrInvalidFormat = errors.New("invalid output format: must be json or markdown")

	// ErrInvalidFetcher is returned for an unknown fetcher backend.
	ErrInvalidFetcher = errors.New("invalid fetcher: must be http or colly")

	// ErrSamePath is returned when two of the keyword, output and report
	// files are the same path, so one would overwrite another.
	ErrSamePath = errors.New("keyword, output and report files must all differ")
)
