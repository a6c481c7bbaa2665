package fetchsim

import "time"

const (
	// DefaultTimeout is the ceiling applied to route delays when none is configured.
	DefaultTimeout = 5000 * time.Millisecond

	// DefaultMethod is used when a dispatch does not name an HTTP method.
	DefaultMethod = "GET"
)
