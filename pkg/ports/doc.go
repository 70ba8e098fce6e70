/*
Package ports defines the driven ports (interfaces) for the Concierge engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various language models, lookup services and storage backends.

# Key Interfaces

  - LanguageModel: Text generation used for intent classification and reply synthesis.
  - CityLookup / EventLookup: Domain data providers consumed by the lookup nodes.
  - StateStore: Responsible for persisting and loading session State.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
