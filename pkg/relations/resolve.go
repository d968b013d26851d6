package relations

import (
	"context"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/nestview/pkg/model"
	"github.com/matzehuels/nestview/pkg/store"
)

// DefaultWorkers bounds concurrent store calls when Resolver.Workers is unset.
const DefaultWorkers = 16

// Resolver resolves label relations against a store.
type Resolver struct {
	Store   store.Snapshotter
	Workers int
	Logger  *log.Logger
}

// New returns a Resolver over s with default settings.
func New(s store.Snapshotter, logger *log.Logger) *Resolver {
	return &Resolver{Store: s, Workers: DefaultWorkers, Logger: logger}
}

// Resolve returns the distinct relations leaving entities of the given
// labels, in first-occurrence order. Repeated labels are ignored. An empty
// label set, or labels with no entities, yield an empty result.
func (r *Resolver) Resolve(ctx context.Context, labels []string) ([]model.LabelRelation, error) {
	var out []model.LabelRelation
	err := r.Store.Snapshot(ctx, func(g store.GraphReader) error {
		var err error
		out, err = r.ResolveWith(ctx, g, labels)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// hop holds one source entity's edges and their resolved far ends.
type hop struct {
	entity    model.Entity
	edges     []model.Relationship
	neighbors map[string]*model.Entity
}

// ResolveWith is Resolve against a reader the caller already holds, such as
// one passed to a Snapshot callback. The Store field is not used.
func (r *Resolver) ResolveWith(ctx context.Context, g store.GraphReader, labels []string) ([]model.LabelRelation, error) {
	logger := r.logger()

	var sources []model.Entity
	seenLabel := make(map[string]bool, len(labels))
	for _, label := range labels {
		if seenLabel[label] {
			continue
		}
		seenLabel[label] = true
		entities, err := g.EntitiesByLabel(ctx, label)
		if err != nil {
			return nil, err
		}
		sources = append(sources, entities...)
	}
	if len(sources) == 0 {
		return []model.LabelRelation{}, nil
	}

	hops := make([]hop, len(sources))
	for i, e := range sources {
		hops[i].entity = e
	}

	// First hop: relationships touching each source.
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.workers())
	for i := range hops {
		eg.Go(func() error {
			edges, err := g.RelationshipsTouching(egctx, hops[i].entity.ID)
			if err != nil {
				return err
			}
			hops[i].edges = edges
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Second hop: the entities on the far side.
	eg, egctx = errgroup.WithContext(ctx)
	eg.SetLimit(r.workers())
	for i := range hops {
		ids := neighborIDs(hops[i].entity.ID, hops[i].edges)
		hops[i].neighbors = make(map[string]*model.Entity, len(ids))
		if len(ids) == 0 {
			continue
		}
		eg.Go(func() error {
			found, err := g.EntitiesByIDs(egctx, ids)
			if err != nil {
				return err
			}
			for j, e := range found {
				if e != nil {
					hops[i].neighbors[ids[j]] = e
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := []model.LabelRelation{}
	seen := make(map[model.LabelRelation]bool)
	var dropped int
	for _, h := range hops {
		for _, edge := range h.edges {
			other := edge.Other(h.entity.ID)
			neighbor := h.neighbors[other]
			if other == h.entity.ID {
				neighbor = &h.entity
			}
			if neighbor == nil {
				logger.Debug("dropping relationship to missing entity", "relationship", edge.ID, "entity", other)
				dropped++
				continue
			}
			rel := model.LabelRelation{
				FromLabel:         h.entity.Label,
				ToLabel:           neighbor.Label,
				RelationshipType:  edge.Type,
				RelationshipLabel: edge.Label,
			}
			if seen[rel] {
				continue
			}
			seen[rel] = true
			out = append(out, rel)
		}
	}

	logger.Debug("resolved label relations",
		"labels", len(seenLabel), "entities", len(sources), "relations", len(out), "dropped", dropped)
	return out, nil
}

// neighborIDs returns the distinct far-end IDs of edges, excluding self,
// in first-occurrence order.
func neighborIDs(self string, edges []model.Relationship) []string {
	var ids []string
	for _, e := range edges {
		other := e.Other(self)
		if other == self || slices.Contains(ids, other) {
			continue
		}
		ids = append(ids, other)
	}
	return ids
}

func (r *Resolver) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return DefaultWorkers
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.New(io.Discard)
}
