/*
Package observability instruments the engine and its collaborators.

Metrics exposes Prometheus collectors on a private registry. Its Hooks feed node and turn
events from the engine; the Instrument* decorators wrap the language model and lookup ports
to record call latency and failures. LoggingHooks emits the same events through slog, and
CombineHooks fans a single hook set out to several consumers.
*/
package observability
