package report

import "errors"

// ErrUnknownFormat is returned by NewWriter for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

// ErrNilReport is returned when a writer is given a nil report.
var ErrNilReport = errors.New("report is nil")
