// Package nodes implements the work functions of the conversation graph and assembles the
// standard topology:
//
//	classify ─┬─> resolve_city ──> fetch_events ──> respond
//	          └─────────────────────────────────────> respond
//
// Nodes never return errors for collaborator failures. A failed or timed-out call to the
// language model or a lookup service degrades into a valid delta.
package nodes
