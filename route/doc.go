/*
Package route holds the registry behind the fetch simulator.

A Route maps upper-cased HTTP method names to a MethodEntry: the canned body,
the artificial delay and the extra fields merged into the response. Routes are
built from a Definition, the loose object-shaped form callers write by hand or
load from fixtures:

	def := route.Definition{
		"get": map[string]any{
			"body":   "Test",
			"expect": map[string]any{"status": 200},
			"wait":   100, // milliseconds
		},
	}
	r, err := route.Parse("/test", def, 5*time.Second)

Parse validates the whole definition before returning, so a rejected route never
reaches a Table. A Table is a mutex-guarded set of routes keyed by URL with
add, remove, wholesale replace and deep snapshot operations.
*/
package route
