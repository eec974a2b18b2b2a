/*
Package ports defines the driven ports (interfaces) for the journey engine.

These interfaces decouple sessions from where explorations are kept, so the
same engine runs against memory, local files or Redis.

# Key Interfaces

  - ExplorationStore: persists and loads a session's exploration.
  - DistributedLocker: provides distributed locking for concurrent session access.

RunExplorationStoreContract is the shared test suite every store adapter runs.
*/
package ports
