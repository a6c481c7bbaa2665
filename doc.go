/*
Package fetchsim holds the shared pieces of the fetch simulator: the error
kinds every component reports and the defaults applied when a Config leaves
them empty.

The simulator itself lives in the fetch package. Routes and their per-method
entries are in route, response objects and their method table are in
response. The hostcall package serves the registry to WebAssembly guests
through the Tarmac httpclient capability, and fixture seeds routes from YAML
files.

All errors returned by the module wrap one of the sentinels below and can be
checked with errors.Is.
*/
package fetchsim
