package keyword

import "errors"

var (
	// ErrUnsupportedFormat is returned by Load for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported keyword file format: use .xlsx, .csv or .txt")

	// ErrNoSheets is returned when a workbook contains no sheets.
	ErrNoSheets = errors.New("workbook has no sheets")
)
