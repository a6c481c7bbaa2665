/*
Package fetch provides the fetch simulator: an in-memory stand-in for HTTP
calls that answers from a registry of canned routes after an artificial delay.

Routes are registered per URL and per method. Each method entry carries a body,
extra response fields and a wait in milliseconds that may not exceed the
simulator's timeout ceiling (5000 ms unless changed with SetTimeout):

	sim, _ := fetch.New(fetch.Config{})

	err := sim.AddRoute("/test", route.Definition{
		"get": map[string]any{
			"body":   "Test",
			"expect": map[string]any{"status": 200},
			"wait":   100,
		},
	})

	resp, err := sim.Fetch("/test", fetch.Options{})
	// resp.Body == "Test" after at least 100ms

FetchAsync is the non-blocking form. It validates the request immediately and
returns either an error or a Pending that always resolves; Fetch simply waits
on it. Methods default to GET and are matched case-insensitively.

# Installing

Code that talks HTTP through an *http.Client can be pointed at the simulator
with Install, or at http.DefaultClient with Use. Both return a function that
restores the previous transport:

	restore, err := sim.Use(nil)
	defer restore()

	resp, err := http.Get("http://api.local/test")

The transport looks up the full URL first and then its path, converts the
"status" and "statusText" fields into the HTTP status line and encodes
non-string bodies as JSON.

# Default simulator

The package-level functions (AddRoute, Fetch, Use, ...) operate on a shared
Simulator. Call Reset between tests to clear routes, recorded calls, the
ceiling and any added response methods.
*/
package fetch
