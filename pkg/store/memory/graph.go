package memory

import (
	"context"

	"github.com/matzehuels/nestview/pkg/model"
)

// graph is the unlocked data behind a Store. Its read methods are safe for
// concurrent use as long as nothing writes, which the Store's lock ensures.
type graph struct {
	entities map[string]int // id -> index into order
	order    []model.Entity

	rels     map[string]int // id -> index into relList
	relList  []model.Relationship
	touching map[string][]int // entity id -> indexes into relList
}

func newGraph() graph {
	return graph{
		entities: make(map[string]int),
		rels:     make(map[string]int),
		touching: make(map[string][]int),
	}
}

// load upserts g. Entities and relationships keep the position of their
// first occurrence.
func (g *graph) load(in model.Graph) {
	for _, e := range in.Entities {
		e.Metadata = e.Metadata.Clone()
		if i, ok := g.entities[e.ID]; ok {
			g.order[i] = e
			continue
		}
		g.entities[e.ID] = len(g.order)
		g.order = append(g.order, e)
	}

	for _, r := range in.Relationships {
		r.Metadata = r.Metadata.Clone()
		if i, ok := g.rels[r.ID]; ok {
			g.untouch(i)
			g.relList[i] = r
			g.touch(i)
			continue
		}
		g.rels[r.ID] = len(g.relList)
		g.relList = append(g.relList, r)
		g.touch(len(g.relList) - 1)
	}
}

func (g *graph) touch(i int) {
	r := g.relList[i]
	g.touching[r.From] = append(g.touching[r.From], i)
	if r.To != r.From {
		g.touching[r.To] = append(g.touching[r.To], i)
	}
}

func (g *graph) untouch(i int) {
	r := g.relList[i]
	for _, id := range []string{r.From, r.To} {
		idx := g.touching[id]
		for j, v := range idx {
			if v == i {
				g.touching[id] = append(idx[:j:j], idx[j+1:]...)
				break
			}
		}
	}
}

func cloneEntity(e model.Entity) model.Entity {
	e.Metadata = e.Metadata.Clone()
	return e
}

func cloneRelationship(r model.Relationship) model.Relationship {
	r.Metadata = r.Metadata.Clone()
	return r
}

func (g *graph) Entities(context.Context) ([]model.Entity, error) {
	out := make([]model.Entity, len(g.order))
	for i, e := range g.order {
		out[i] = cloneEntity(e)
	}
	return out, nil
}

func (g *graph) EntitiesByLabel(_ context.Context, label string) ([]model.Entity, error) {
	var out []model.Entity
	for _, e := range g.order {
		if e.Label == label {
			out = append(out, cloneEntity(e))
		}
	}
	return out, nil
}

func (g *graph) Relationships(context.Context) ([]model.Relationship, error) {
	out := make([]model.Relationship, len(g.relList))
	for i, r := range g.relList {
		out[i] = cloneRelationship(r)
	}
	return out, nil
}

func (g *graph) RelationshipsTouching(_ context.Context, id string) ([]model.Relationship, error) {
	idx := g.touching[id]
	out := make([]model.Relationship, 0, len(idx))
	for _, i := range idx {
		out = append(out, cloneRelationship(g.relList[i]))
	}
	return out, nil
}

func (g *graph) EntitiesByIDs(_ context.Context, ids []string) ([]*model.Entity, error) {
	out := make([]*model.Entity, len(ids))
	for i, id := range ids {
		if j, ok := g.entities[id]; ok {
			e := cloneEntity(g.order[j])
			out[i] = &e
		}
	}
	return out, nil
}
