/*
Package response builds the values handed back by the fetch simulator.

A Response carries the canned body, the URL of the route it came from and any
extra fields the route declared for the method (status, statusText and so on).
Behaviour is attached through a MethodSet: a table of named functions shared by
every Response built against it. The set starts with a single method, "json",
which returns the stored body. New methods can be registered at runtime and are
visible to all responses that share the set.

	methods := response.NewMethodSet()
	_ = methods.Add("text", func(r *response.Response) (any, error) {
		return fmt.Sprint(r.Body), nil
	})

	resp, err := response.Build("/users", body, map[string]any{"status": 200}, methods)
	if err != nil {
		return err
	}
	v, err := resp.Call("text")

Build copies the body and the expect fields, so a caller mutating a Response
never reaches back into the route it was built from.
*/
package response
