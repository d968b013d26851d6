// Package hierarchy turns a flat labeled graph into the rooted forest drawn
// by nested block diagrams.
//
// # Overview
//
// [Build] copies every entity into a [model.Node], links parents to children
// through relationships, and selects the roots of the diagram:
//
//	roots, err := hierarchy.Build(entities, relationships, opts, logger)
//
// The label hierarchy in [model.DiagramOptions] fixes the nesting order.
// Each node's Value is the 1-based level of its label (0 when the label is
// not in the hierarchy).
//
// # Direction Overrides
//
// By default a relationship from A to B makes A the parent of B. The
// HierarchyRelMod entry for A's level can reverse that: with "<-" the
// relationship makes B the parent of A. "->" and "<->" keep the default
// orientation. The relationship's own Type field is not consulted.
//
// # Pruning
//
// Unless empty branches are displayed, a post-order pass removes every
// branch that does not end in an entity of the leaf label. After pruning,
// every leaf of the returned forest carries the leaf label, or the forest is
// empty.
//
// # Roots
//
// Roots are the nodes labeled with RootAtLabel (or the top of the
// hierarchy) and nodes labeled "default". When RootAtLabel is "root", the
// roots are wrapped in one synthetic node with ID "root".
//
// Build never mutates its inputs: entities are copied into fresh nodes and
// metadata maps are cloned.
package hierarchy
