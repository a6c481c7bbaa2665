/*
Package metrics records what the fetch simulator does using Prometheus
collectors: how many dispatches resolved or were rejected per method, the
simulated wait each resolved dispatch was given, and how many routes are
registered.

Collectors are always created; they are registered only when a Registerer is
provided, so tests can read them with prometheus/testutil without touching the
global registry.
*/
package metrics
