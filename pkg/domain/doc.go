/*
Package domain contains the core domain models for the Concierge engine.

It defines the conversation state shared by the graph nodes, the static graph topology
(nodes and edges), the deltas produced by node work functions and the error taxonomy.
This package is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - State: The per-session conversation snapshot (Messages, Entities, Results, Routing).
  - Graph: Named nodes, an entry node, and fixed or conditional edges.
  - Delta: The set of changes a node asks the engine to apply to the State.
  - City / Event: Structured records produced by the lookup services.
*/
package domain
