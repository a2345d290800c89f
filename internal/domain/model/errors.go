package model

import "errors"

// ErrUnsupportedYear is returned for a year outside FirstYear..LastYear.
var ErrUnsupportedYear = errors.New("unsupported year")
