package memory

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/model"
	"github.com/matzehuels/nestview/pkg/store"
)

func testGraph() model.Graph {
	return model.Graph{
		Entities: []model.Entity{
			{ID: "a", Name: "Area", Label: "Area", Metadata: model.Metadata{"zone": "eu"}},
			{ID: "g", Name: "Group", Label: "Group"},
			{ID: "s", Name: "Server", Label: "Server"},
		},
		Relationships: []model.Relationship{
			{ID: "r1", From: "a", To: "g", Type: model.Forward, Label: "CONTAINS"},
			{ID: "r2", From: "g", To: "s", Type: model.Forward, Label: "HOSTS"},
			{ID: "r3", From: "s", To: "s", Type: model.Bidirectional, Label: "PEERS"},
		},
	}
}

func relIDs(rels []model.Relationship) []string {
	out := make([]string, len(rels))
	for i, r := range rels {
		out[i] = r.ID
	}
	return out
}

func TestStore_Reads(t *testing.T) {
	ctx := context.Background()
	s := FromGraph(testGraph())

	entities, err := s.Entities(ctx)
	if err != nil {
		t.Fatalf("Entities() error = %v", err)
	}
	if len(entities) != 3 || entities[0].ID != "a" || entities[2].ID != "s" {
		t.Errorf("Entities() = %v, want a, g, s in order", entities)
	}

	byLabel, _ := s.EntitiesByLabel(ctx, "Group")
	if len(byLabel) != 1 || byLabel[0].ID != "g" {
		t.Errorf("EntitiesByLabel(Group) = %v, want [g]", byLabel)
	}

	rels, _ := s.Relationships(ctx)
	if got := relIDs(rels); !slices.Equal(got, []string{"r1", "r2", "r3"}) {
		t.Errorf("Relationships() = %v", got)
	}

	tests := []struct {
		id   string
		want []string
	}{
		{"a", []string{"r1"}},
		{"g", []string{"r1", "r2"}},
		{"s", []string{"r2", "r3"}},
		{"missing", []string{}},
	}
	for _, tt := range tests {
		got, _ := s.RelationshipsTouching(ctx, tt.id)
		if !slices.Equal(relIDs(got), tt.want) {
			t.Errorf("RelationshipsTouching(%s) = %v, want %v", tt.id, relIDs(got), tt.want)
		}
	}

	found, _ := s.EntitiesByIDs(ctx, []string{"s", "nope", "a"})
	if len(found) != 3 || found[0].ID != "s" || found[1] != nil || found[2].ID != "a" {
		t.Errorf("EntitiesByIDs() = %v, want [s nil a]", found)
	}
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := FromGraph(testGraph())

	entities, _ := s.Entities(ctx)
	entities[0].Metadata["zone"] = "us"

	again, _ := s.Entities(ctx)
	if again[0].Metadata["zone"] != "eu" {
		t.Errorf("store mutated through returned entity: zone = %v", again[0].Metadata["zone"])
	}
}

func TestStore_ImportUpserts(t *testing.T) {
	ctx := context.Background()
	s := FromGraph(testGraph())
	v := s.Version()

	err := s.Import(ctx, model.Graph{
		Entities: []model.Entity{
			{ID: "g", Name: "Renamed", Label: "Group"},
			{ID: "n", Name: "New", Label: "Server"},
		},
		Relationships: []model.Relationship{
			{ID: "r2", From: "g", To: "n", Label: "HOSTS"},
		},
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if s.Version() == v {
		t.Error("Version() unchanged after Import")
	}

	entities, _ := s.Entities(ctx)
	if len(entities) != 4 || entities[1].Name != "Renamed" || entities[3].ID != "n" {
		t.Errorf("Entities() after import = %v", entities)
	}

	fromS, _ := s.RelationshipsTouching(ctx, "s")
	if got := relIDs(fromS); !slices.Equal(got, []string{"r3"}) {
		t.Errorf("RelationshipsTouching(s) = %v, want [r3] after r2 moved", got)
	}
	fromN, _ := s.RelationshipsTouching(ctx, "n")
	if got := relIDs(fromN); !slices.Equal(got, []string{"r2"}) {
		t.Errorf("RelationshipsTouching(n) = %v, want [r2]", got)
	}
}

func TestStore_Settings(t *testing.T) {
	ctx := context.Background()
	s := New()

	rules := []model.Rule{
		{ID: "on", Label: "Server", IsEnabled: true},
		{ID: "off", Label: "Server"},
	}
	if err := s.PutRules(ctx, rules); err != nil {
		t.Fatalf("PutRules() error = %v", err)
	}
	all, _ := s.Rules(ctx)
	enabled, _ := s.EnabledRules(ctx)
	if len(all) != 2 || len(enabled) != 1 || enabled[0].ID != "on" {
		t.Errorf("Rules() = %d, EnabledRules() = %v", len(all), enabled)
	}

	if err := s.PutDiagramOptions(ctx, model.DiagramOptions{Name: "infra", LabelHierarchy: []string{"Area"}}); err != nil {
		t.Fatalf("PutDiagramOptions() error = %v", err)
	}
	if err := s.PutDiagramOptions(ctx, model.DiagramOptions{Name: "apps", LabelHierarchy: []string{"Group"}}); err != nil {
		t.Fatalf("PutDiagramOptions() error = %v", err)
	}
	if err := s.PutDiagramOptions(ctx, model.DiagramOptions{Name: "infra", LabelHierarchy: []string{"Area", "Group"}}); err != nil {
		t.Fatalf("PutDiagramOptions() error = %v", err)
	}
	if err := s.PutDiagramOptions(ctx, model.DiagramOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("PutDiagramOptions(no name) error = %v, want invalid input", err)
	}

	opts, err := s.DiagramOptions(ctx, "infra")
	if err != nil {
		t.Fatalf("DiagramOptions() error = %v", err)
	}
	if len(opts.LabelHierarchy) != 2 {
		t.Errorf("DiagramOptions(infra) = %v, want updated hierarchy", opts.LabelHierarchy)
	}

	diagrams, _ := s.Diagrams(ctx)
	if len(diagrams) != 2 || diagrams[0].Name != "infra" || diagrams[1].Name != "apps" {
		t.Errorf("Diagrams() = %v, want [infra apps]", diagrams)
	}

	if _, err := s.DiagramOptions(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("DiagramOptions(missing) error = %v, want not found", err)
	}
}

func TestStore_SnapshotConcurrentReads(t *testing.T) {
	ctx := context.Background()
	s := FromGraph(testGraph())

	err := s.Snapshot(ctx, func(r store.GraphReader) error {
		var wg sync.WaitGroup
		for _, id := range []string{"a", "g", "s"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := r.RelationshipsTouching(ctx, id); err != nil {
					t.Errorf("RelationshipsTouching(%s) error = %v", id, err)
				}
			}()
		}
		wg.Wait()
		return nil
	})
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
}

func TestStore_SnapshotCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().Snapshot(ctx, func(store.GraphReader) error {
		t.Error("callback ran with canceled context")
		return nil
	})
	if err == nil {
		t.Error("Snapshot() error = nil, want context error")
	}
}
