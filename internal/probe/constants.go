package probe

import "time"

// Default configuration constants.
const (
	DefaultTimeout = 10 * time.Second
	DefaultWorkers = 4
	DefaultPairs   = 10
)

// Tolerance for floating point invariants.
const epsilon = 1e-9
