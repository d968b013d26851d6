// Package store defines how nestview reads graphs, rules and diagram
// settings, and how it learns that they changed.
//
// # Interfaces
//
//   - [GraphReader]: entity and relationship queries
//   - [SettingsReader]: formatting rules and named diagram options
//   - [Snapshotter]: runs a function against a read-consistent view
//   - [Writer]: bulk import of graphs, rules and diagram options
//   - [Repository]: everything a diagram pipeline reads from
//
// Implementations live in subpackages:
//
//   - [github.com/matzehuels/nestview/pkg/store/memory]: in-process maps
//   - [github.com/matzehuels/nestview/pkg/store/sqlite]: a SQLite file
//   - [github.com/matzehuels/nestview/pkg/store/neo4j]: a Neo4j database
//
// # Snapshots
//
// Relation resolution reads entities, then the relationships touching them,
// then their neighbors. Running those reads inside [Snapshotter.Snapshot]
// guarantees that every relationship found in the second step can be
// resolved in the third. The [GraphReader] passed to the callback is safe
// for concurrent use and is only valid until the callback returns.
//
// # Change Notification
//
// Nothing in nestview recomputes on its own. Callers that want live diagrams
// poll a fingerprint with [Watch], or watch graph files with [WatchFiles],
// and re-run the pipeline from the callback.
package store
