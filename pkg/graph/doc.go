// Package graph reads and writes labeled property graphs as files.
//
// This package defines the on-disk format consumed by `nestview import` and
// the file-backed stores: one document holding a list of entities and a list
// of relationships, encoded as JSON or YAML.
//
// # Format
//
//	entities:
//	  - id: fra
//	    name: Frankfurt
//	    label: Area
//	    metadata: {zone: eu}
//	  - id: rack1
//	    name: Rack 1
//	    label: Group
//	relationships:
//	  - from: fra
//	    to: rack1
//	    label: CONTAINS
//
// The format is chosen by file extension: ".json" for JSON, ".yaml" or
// ".yml" for YAML.
//
// # Normalization
//
// Every graph read through this package is normalized:
//
//   - Relationships without a type become "->"
//   - Relationships without an ID get a name-based UUID derived from their
//     position and endpoints, so re-reading a file yields the same IDs
//   - Entities without a name are named after their ID
//
// Normalization never drops data. [Validate] reports structural problems
// (missing IDs, invalid labels, unknown relationship types) separately.
//
// # Common Operations
//
//	g, err := graph.ReadGraphFile("datacenter.yaml")   // File → model.Graph
//	err = graph.WriteGraphFile(g, "datacenter.json")   // model.Graph → File
//	data, err := graph.MarshalGraph(g)                 // model.Graph → JSON
package graph
