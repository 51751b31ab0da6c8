/*
Package ports defines the driven ports wrapping layers use to persist agents.

The composition engine itself holds no state: an agent is immutable and only
the caller-held position changes. These interfaces let a host snapshot that
position between invocations and coordinate access across replicas.

# Key Interfaces

  - PositionStore: persists and loads position snapshots keyed by session ID.
  - DistributedLocker: provides distributed locking for concurrent session access.
*/
package ports
