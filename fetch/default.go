package fetch

import (
	"time"

	"github.com/fetchsim/fetchsim/response"
	"github.com/fetchsim/fetchsim/route"
)

// std backs the package-level functions.
var std = mustNew()

func mustNew() *Simulator {
	s, err := New(Config{})
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns the shared Simulator used by the package-level functions.
func Default() *Simulator { return std }

// Fetch dispatches input on the default Simulator.
func Fetch(input any, opts Options) (*response.Response, error) { return std.Fetch(input, opts) }

// FetchAsync dispatches input on the default Simulator without blocking.
func FetchAsync(input any, opts Options) (*Pending, error) { return std.FetchAsync(input, opts) }

// AddRoute registers a route on the default Simulator.
func AddRoute(key string, def route.Definition) error { return std.AddRoute(key, def) }

// RemoveRoute removes a route from the default Simulator.
func RemoveRoute(key string) error { return std.RemoveRoute(key) }

// SetRoutes replaces the default Simulator's routes.
func SetRoutes(defs map[string]route.Definition) error { return std.SetRoutes(defs) }

// Routes returns a copy of the default Simulator's routes.
func Routes() (map[string]*route.Route, error) { return std.Routes() }

// SetTimeout sets the default Simulator's wait ceiling.
func SetTimeout(d time.Duration) { std.SetTimeout(d) }

// Timeout returns the default Simulator's wait ceiling.
func Timeout() time.Duration { return std.Timeout() }

// AddMethod registers a response method on the default Simulator.
func AddMethod(name string, fn response.Func) error { return std.AddMethod(name, fn) }

// Use installs the default Simulator into http.DefaultClient.
func Use(routes map[string]route.Definition) (func(), error) { return std.Use(routes) }

// Reset restores the default Simulator to its initial state.
func Reset() { std.Reset() }
