// Package lifecycle holds settings shared by components with start/stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds graceful shutdown of a single component.
const DefaultTimeout = 10 * time.Second
