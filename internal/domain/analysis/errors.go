package analysis

import "errors"

// Sentinel kinds for analysis errors.
var (
	// ErrInsufficientData is returned when a statistic is requested on too few rows.
	ErrInsufficientData = errors.New("insufficient data")
)
