package neo4j

import (
	"context"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/model"
)

func record(keys []string, values ...any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func TestRecordToEntity(t *testing.T) {
	rec := record([]string{"id", "name", "label", "props"},
		"s1", "web-01", "Server",
		map[string]any{
			"id":    "s1",
			"name":  "web-01",
			"cores": int64(8),
			"load":  0.5,
			"up":    true,
			"tags":  []any{"a", "b"},
		},
	)

	e := recordToEntity(rec)
	if e.ID != "s1" || e.Name != "web-01" || e.Label != "Server" {
		t.Errorf("recordToEntity() = %+v", e)
	}
	if len(e.Metadata) != 3 {
		t.Errorf("Metadata = %v, want cores, load, up", e.Metadata)
	}
	if e.Metadata["cores"] != int64(8) || e.Metadata["up"] != true {
		t.Errorf("Metadata = %v", e.Metadata)
	}
	if _, ok := e.Metadata["tags"]; ok {
		t.Error("list property should be dropped")
	}
}

func TestRecordToEntity_MissingValues(t *testing.T) {
	e := recordToEntity(record([]string{"id", "name", "label", "props"}, "x", nil, nil, map[string]any{"id": "x"}))
	if e.ID != "x" || e.Name != "" || e.Label != "" || e.Metadata != nil {
		t.Errorf("recordToEntity() = %+v", e)
	}
}

func TestRecordToRelationship(t *testing.T) {
	tests := []struct {
		name    string
		typ     any
		wantTyp model.Direction
	}{
		{"forward", "->", model.Forward},
		{"reverse", "<-", model.Reverse},
		{"both", "<->", model.Bidirectional},
		{"unknown", "sideways", model.Forward},
		{"missing", nil, model.Forward},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := record([]string{"id", "from", "to", "type", "label", "props"},
				"r1", "a", "b", tt.typ, "CONTAINS",
				map[string]any{"direction": tt.typ, "weight": 2.0},
			)
			r := recordToRelationship(rec)
			if r.ID != "r1" || r.From != "a" || r.To != "b" || r.Label != "CONTAINS" {
				t.Errorf("recordToRelationship() = %+v", r)
			}
			if r.Type != tt.wantTyp {
				t.Errorf("Type = %q, want %q", r.Type, tt.wantTyp)
			}
			if len(r.Metadata) != 1 || r.Metadata["weight"] != 2.0 {
				t.Errorf("Metadata = %v, want only weight", r.Metadata)
			}
		})
	}
}

func TestOrderByIDs(t *testing.T) {
	found := []model.Entity{{ID: "b"}, {ID: "a"}}
	got := orderByIDs(found, []string{"a", "zz", "b", "a"})
	if len(got) != 4 || got[0].ID != "a" || got[1] != nil || got[2].ID != "b" || got[3].ID != "a" {
		t.Errorf("orderByIDs() = %v", got)
	}
	if got[0] == got[3] {
		t.Error("repeated ids should get distinct entries")
	}
}

func TestStore_Settings(t *testing.T) {
	ctx := context.Background()
	s := &Store{
		rules: []model.Rule{
			{ID: "1", IsEnabled: true},
			{ID: "2"},
		},
		diagrams: []model.DiagramOptions{{Name: "dc", LabelHierarchy: []string{"Area"}}},
	}

	enabled, _ := s.EnabledRules(ctx)
	if len(enabled) != 1 || enabled[0].ID != "1" {
		t.Errorf("EnabledRules() = %v", enabled)
	}
	all, _ := s.Rules(ctx)
	if len(all) != 2 {
		t.Errorf("Rules() = %v", all)
	}

	if d, err := s.DiagramOptions(ctx, "dc"); err != nil || d.LeafLabel() != "Area" {
		t.Errorf("DiagramOptions(dc) = %+v, %v", d, err)
	}
	if _, err := s.DiagramOptions(ctx, "nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("DiagramOptions(nope) error = %v, want NOT_FOUND", err)
	}
}

func TestOpen_RequiresURI(t *testing.T) {
	_, err := Open(context.Background(), Config{}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Open() error = %v, want INVALID_CONFIG", err)
	}
}
