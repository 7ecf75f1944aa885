package mingru

import "github.com/born-ml/mingru/internal/parallel"

// Config controls how the recurrence is evaluated.
//
// The zero value is valid and runs every kernel on the calling goroutine.
type Config struct {
	// Parallel sets the worker fan-out for elementwise passes and for
	// every level of the time-axis scan.
	Parallel parallel.Config
}

// DefaultConfig returns a config using parallel.DefaultConfig.
func DefaultConfig() Config {
	return Config{Parallel: parallel.DefaultConfig()}
}
