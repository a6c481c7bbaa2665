/*
Package hostcall serves the fetch simulator to Tarmac WebAssembly functions.

Tarmac guests make HTTP requests by sending an HTTPClient protobuf to the host
through waPC (namespace "tarmac", capability "httpclient", function "call").
Host answers those calls from a fetch.Simulator instead of the network, so a
guest's HTTP code can be tested with canned routes and delays:

	sim, _ := fetch.New(fetch.Config{Routes: routes})
	h, _ := hostcall.New(hostcall.Config{Simulator: sim})

	// Inject into the component under test
	client, _ := httpclient.New(httpclient.Config{HostCall: h.HostCall})

Behavior

  - Namespace, capability and function are checked against the configured
    values and mismatches return ErrUnexpectedNamespace, ErrUnexpectedCapability
    or ErrUnexpectedFunction.
  - Payloads that are not HTTPClient messages return ErrInvalidPayload.
  - Simulator failures are reported in the response status rather than as Go
    errors: 404 when no route or method matches, 400 for unusable input, 500
    otherwise.
  - Successful dispatches carry the route's status, headers and body. The call
    blocks for the route's wait.

Register exposes the same behaviour as a waPC guest function, for modules that
host the simulator themselves.
*/
package hostcall
