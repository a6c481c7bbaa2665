package fetchsim

import "errors"

var (
	// ErrMissingArgument indicates a required argument was not provided.
	ErrMissingArgument = errors.New("required argument missing")

	// ErrTypeMismatch indicates an argument of the wrong type was provided.
	ErrTypeMismatch = errors.New("argument has the wrong type")

	// ErrInvalidArgument indicates a malformed route key, definition or field.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateRoute is returned when adding a route whose key already exists.
	ErrDuplicateRoute = errors.New("route already exists")

	// ErrRouteNotFound is returned when no route (or no method on a route) matches.
	ErrRouteNotFound = errors.New("route not found")

	// ErrEnvironmentUnavailable means there is no target to install the simulator into.
	ErrEnvironmentUnavailable = errors.New("environment unavailable")

	// ErrMethodNotFound is returned when calling a response method that was never registered.
	ErrMethodNotFound = errors.New("response method not found")
)
