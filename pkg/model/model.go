package model

import "maps"

// =============================================================================
// Sentinels
// =============================================================================

const (
	// RootID is the ID of the synthetic node that wraps every root when a
	// diagram starts at the "root" sentinel.
	RootID = "root"

	// RootLabel is both the label of the synthetic root and the RootAtLabel
	// value that requests it.
	RootLabel = "root"

	// DefaultLabel marks entities that are always eligible as roots and rules
	// that apply to every node.
	DefaultLabel = "default"
)

// =============================================================================
// Direction
// =============================================================================

// Direction describes how a relationship is read by the UI, and how a
// hierarchy level maps relationship endpoints to parent and child.
type Direction string

const (
	Forward       Direction = "->"
	Reverse       Direction = "<-"
	Bidirectional Direction = "<->"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	switch d {
	case Forward, Reverse, Bidirectional:
		return true
	}
	return false
}

// IsReverse reports whether d swaps parent and child roles.
func (d Direction) IsReverse() bool { return d == Reverse }

// =============================================================================
// Entity & Relationship
// =============================================================================

// Metadata holds scalar properties (string, number, bool) of an entity or
// relationship.
type Metadata map[string]any

// Clone returns a shallow copy of m. Scalar values make a shallow copy a
// full copy. A nil map clones to nil.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	maps.Copy(out, m)
	return out
}

// Entity is a labeled graph node. Entities are treated as immutable once
// fetched from a store.
type Entity struct {
	ID       string   `json:"id" yaml:"id" toml:"id"`
	Name     string   `json:"name" yaml:"name" toml:"name"`
	Label    string   `json:"label" yaml:"label" toml:"label"`
	Metadata Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
}

// Relationship is a typed edge between two entities.
type Relationship struct {
	ID       string    `json:"id" yaml:"id"`
	From     string    `json:"from" yaml:"from"`
	To       string    `json:"to" yaml:"to"`
	Type     Direction `json:"type" yaml:"type"`
	Label    string    `json:"label" yaml:"label"`
	Metadata Metadata  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Touches reports whether id is either endpoint of r.
func (r Relationship) Touches(id string) bool { return r.From == id || r.To == id }

// Other returns the endpoint of r that is not id. For self-loops it returns id.
func (r Relationship) Other(id string) string {
	if r.From == id {
		return r.To
	}
	return r.From
}

// Graph is a flat set of entities and relationships, as stored or imported.
type Graph struct {
	Entities      []Entity       `json:"entities" yaml:"entities"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
}

// =============================================================================
// LabelRelation
// =============================================================================

// LabelRelation summarizes that entities of FromLabel connect to entities of
// ToLabel through relationships of the given type and label.
type LabelRelation struct {
	FromLabel         string    `json:"fromLabel"`
	ToLabel           string    `json:"toLabel"`
	RelationshipType  Direction `json:"relationshipType"`
	RelationshipLabel string    `json:"relationshipLabel"`
}
