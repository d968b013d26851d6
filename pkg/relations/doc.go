// Package relations summarizes how entity labels connect to each other.
//
// [Resolver.Resolve] answers "which labels do entities of these labels link
// to, and through which relationships?" with a deduplicated list of
// [model.LabelRelation] values. It walks two hops: from each entity of the
// requested labels to the relationships touching it, then to the entities
// on the far side of those relationships.
//
// The walk runs inside one store snapshot so that every relationship found
// in the first hop resolves against the same view in the second. Per-entity
// fetches fan out over a bounded worker pool; results are merged in entity
// order so the output order is deterministic.
//
// [LabelOptions] builds the same kind of summary from an in-memory graph,
// grouped by label and oriented from the label's point of view.
package relations
