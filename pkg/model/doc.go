// Package model defines the data types shared by every nestview component.
//
// # Graph Data
//
//   - [Entity]: a labeled node with scalar metadata
//   - [Relationship]: a typed edge between two entities
//   - [Graph]: a flat set of both, as stored or imported
//
// # Diagram Data
//
//   - [Node]: an entity placed in a hierarchy, with layout fields and
//     owned children
//   - [DiagramOptions]: label hierarchy, direction overrides, pruning and
//     packing configuration
//   - [BoxModel], [TitleModel]: sizing constraints for the layout
//
// # Derived Data
//
//   - [Rule]: a conditional-formatting predicate with styling
//   - [LabelRelation]: a summary edge between two labels
//
// The sentinels [RootID], [RootLabel] and [DefaultLabel] have special meaning
// to the hierarchy builder and the rule engine.
package model
