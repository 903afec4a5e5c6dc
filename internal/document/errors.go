package document

import "errors"

// ErrNilReader is returned when Parse is called with a nil reader.
var ErrNilReader = errors.New("nil document reader")
